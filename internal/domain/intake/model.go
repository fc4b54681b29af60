package intake

import (
	"time"

	"therapy-track/internal/domain/calendar"
)

// Key identifica una toma programada en un día. Hay a lo sumo un registro por Key.
type Key struct {
	ScheduleID string
	DoseIndex  int
	Day        calendar.Day
}

// ScheduledRecord: su presencia significa "dosis tomada ese día".
type ScheduledRecord struct {
	ID         string
	ScheduleID string
	DoseIndex  int
	Day        calendar.Day
	RecordedAt time.Time
}

func (r ScheduledRecord) Key() Key {
	return Key{ScheduleID: r.ScheduleID, DoseIndex: r.DoseIndex, Day: r.Day}
}

// UnscheduledRecord es una toma puntual; puede haber varias por medicamento y día.
type UnscheduledRecord struct {
	ID         string
	MedicineID string
	Amount     float64
	Day        calendar.Day
	RecordedAt time.Time
	GroupID    *string
}

// Range es inclusivo; un extremo nil no acota.
type Range struct {
	From *calendar.Day
	To   *calendar.Day
}

func (r Range) Contains(d calendar.Day) bool {
	return d.Between(r.From, r.To)
}

// SingleDay acota el rango a un día.
func SingleDay(d calendar.Day) Range {
	return Range{From: &d, To: &d}
}

// TakenSet indexa registros programados por Key -> ID del registro.
type TakenSet map[Key]string

func NewTakenSet(records []ScheduledRecord) TakenSet {
	out := make(TakenSet, len(records))
	for _, r := range records {
		out[r.Key()] = r.ID
	}
	return out
}

// Lookup devuelve el ID del registro si la dosis está tomada.
func (t TakenSet) Lookup(k Key) (string, bool) {
	id, ok := t[k]
	return id, ok
}

// ToggleResult es el nuevo estado tras un toggle.
type ToggleResult struct {
	Done     bool
	RecordID string // vacío si quedó sin tomar
}
