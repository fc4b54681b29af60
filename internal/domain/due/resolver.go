// Package due resuelve qué dosis tocan en un día de calendario a partir de
// schedules, catálogo de medicamentos y registros de toma ya leídos.
//
// DueDosesOn es una función pura: no lee storage ni muta sus entradas; cada
// llamada devuelve un DueSet nuevo.
package due

import (
	"sort"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

// Ungrouped es la clave del bucket para dosis sin grupo.
const Ungrouped = ""

type DueDose struct {
	MedicineID   string
	MedicineName string
	BaseUnit     medicines.BaseUnit
	Amount       float64
	DoseIndex    int
	ScheduleID   string // vacío en tomas no programadas
	RecordID     string // registro que la marca como tomada, si hay
	GroupID      *string
	IsDone       bool
	Scheduled    bool
}

func (d DueDose) GroupKey() string {
	if d.GroupID == nil {
		return Ungrouped
	}
	return *d.GroupID
}

type DueSet struct {
	Day         calendar.Day
	Scheduled   []DueDose
	Unscheduled []DueDose
}

// DueDosesOn calcula las obligaciones del día. Un schedule o registro que
// referencia un medicamento inexistente es un error referencial, no se omite.
func DueDosesOn(
	day calendar.Day,
	all []schedules.Schedule,
	catalog map[string]medicines.Medicine,
	taken intake.TakenSet,
	unscheduled []intake.UnscheduledRecord,
) (DueSet, error) {
	set := DueSet{Day: day, Scheduled: []DueDose{}, Unscheduled: []DueDose{}}

	for _, s := range all {
		if !s.ActiveOn(day) {
			continue
		}
		med, ok := catalog[s.MedicineID]
		if !ok {
			return DueSet{}, apperr.Reference("schedule %q references missing medicine %q", s.ID, s.MedicineID)
		}

		doses := make([]schedules.Dose, len(s.Doses))
		copy(doses, s.Doses)
		sort.SliceStable(doses, func(i, j int) bool { return doses[i].Index < doses[j].Index })

		for _, d := range doses {
			recordID, done := taken.Lookup(intake.Key{ScheduleID: s.ID, DoseIndex: d.Index, Day: day})
			set.Scheduled = append(set.Scheduled, DueDose{
				MedicineID:   med.ID,
				MedicineName: med.Name,
				BaseUnit:     med.BaseUnit,
				Amount:       d.Amount,
				DoseIndex:    d.Index,
				ScheduleID:   s.ID,
				RecordID:     recordID,
				GroupID:      copyID(d.GroupID),
				IsDone:       done,
				Scheduled:    true,
			})
		}
	}

	// Orden de toma: hora de registro, luego id para empates.
	var onDay []intake.UnscheduledRecord
	for _, u := range unscheduled {
		if u.Day == day {
			onDay = append(onDay, u)
		}
	}
	sort.SliceStable(onDay, func(i, j int) bool {
		if !onDay[i].RecordedAt.Equal(onDay[j].RecordedAt) {
			return onDay[i].RecordedAt.Before(onDay[j].RecordedAt)
		}
		return onDay[i].ID < onDay[j].ID
	})

	for _, u := range onDay {
		med, ok := catalog[u.MedicineID]
		if !ok {
			return DueSet{}, apperr.Reference("unscheduled record %q references missing medicine %q", u.ID, u.MedicineID)
		}
		// La existencia del registro ya es la toma: siempre hecha, no alternable.
		set.Unscheduled = append(set.Unscheduled, DueDose{
			MedicineID:   med.ID,
			MedicineName: med.Name,
			BaseUnit:     med.BaseUnit,
			Amount:       u.Amount,
			RecordID:     u.ID,
			GroupID:      copyID(u.GroupID),
			IsDone:       true,
		})
	}

	return set, nil
}

// Find devuelve la dosis programada (schedule, índice) del set.
func (s DueSet) Find(scheduleID string, index int) (DueDose, bool) {
	for _, d := range s.Scheduled {
		if d.ScheduleID == scheduleID && d.DoseIndex == index {
			return d, true
		}
	}
	return DueDose{}, false
}

func copyID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
