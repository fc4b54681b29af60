package schedules

import (
	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/frequency"
)

// Dose es una toma dentro del set de un schedule. Su identidad estable es
// (ScheduleID, Index): los registros de ingesta se emparejan por índice.
type Dose struct {
	Amount  float64
	Index   int
	Offset  *int    // reservado para horario intra-día; no lo usa la resolución
	GroupID *string // nil = sin grupo
}

// Schedule: un medicamento, un rango de días inclusivo y un set de dosis.
// Invariante: len(Doses) == Frequency.NumberOfDoses y Start <= End.
type Schedule struct {
	ID         string
	MedicineID string
	Start      calendar.Day
	End        *calendar.Day // nil = sin fin
	Frequency  frequency.Frequency
	Doses      []Dose
}

// ActiveOn: start <= day && (end == nil || day <= end), a nivel de día.
func (s Schedule) ActiveOn(day calendar.Day) bool {
	return day.Between(&s.Start, s.End)
}

func (s Schedule) Dose(index int) (Dose, bool) {
	for _, d := range s.Doses {
		if d.Index == index {
			return d, true
		}
	}
	return Dose{}, false
}

// GroupIDs: grupos referenciados por las dosis, sin repetir, en orden de índice.
func (s Schedule) GroupIDs() []string {
	var out []string
	seen := map[string]struct{}{}
	for _, d := range s.Doses {
		if d.GroupID == nil {
			continue
		}
		if _, ok := seen[*d.GroupID]; ok {
			continue
		}
		seen[*d.GroupID] = struct{}{}
		out = append(out, *d.GroupID)
	}
	return out
}
