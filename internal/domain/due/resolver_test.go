package due

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/frequency"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

func day(s string) calendar.Day { return calendar.MustParse(s) }

func dayPtr(s string) *calendar.Day {
	d := day(s)
	return &d
}

func strPtr(s string) *string { return &s }

var catalog = map[string]medicines.Medicine{
	"ibu": {
		ID:       "ibu",
		Name:     "Ibuprofen",
		BaseUnit: medicines.UnitTablet,
		ActiveIngredients: []medicines.ActiveIngredient{
			{Name: "Ibuprofen", Amount: 200, Unit: medicines.IngredientMG},
		},
	},
}

func ibuprofenTwiceDaily(end *calendar.Day) schedules.Schedule {
	return schedules.Schedule{
		ID:         "s1",
		MedicineID: "ibu",
		Start:      day("2024-01-01"),
		End:        end,
		Frequency:  frequency.Frequency{IntervalUnit: frequency.UnitDay, IntervalLength: 1, NumberOfDoses: 2},
		Doses: []schedules.Dose{
			{Amount: 1, Index: 0, GroupID: strPtr("morning")},
			{Amount: 1, Index: 1},
		},
	}
}

func TestDueDosesOn_ContainmentBoundaries(t *testing.T) {
	s := ibuprofenTwiceDaily(dayPtr("2024-01-10"))

	cases := map[string]int{
		"2023-12-31": 0, // un día antes del inicio
		"2024-01-01": 2, // exactamente el inicio
		"2024-01-05": 2,
		"2024-01-10": 2, // exactamente el fin
		"2024-01-11": 0, // un día después del fin
	}
	for d, want := range cases {
		set, err := DueDosesOn(day(d), []schedules.Schedule{s}, catalog, intake.TakenSet{}, nil)
		require.NoError(t, err)
		assert.Len(t, set.Scheduled, want, d)
	}
}

func TestDueDosesOn_OpenEndedSchedule(t *testing.T) {
	set, err := DueDosesOn(day("2031-06-01"), []schedules.Schedule{ibuprofenTwiceDaily(nil)}, catalog, nil, nil)
	require.NoError(t, err)
	assert.Len(t, set.Scheduled, 2)
}

func TestDueDosesOn_IbuprofenScenario(t *testing.T) {
	jan5 := day("2024-01-05")
	s := ibuprofenTwiceDaily(nil)

	set, err := DueDosesOn(jan5, []schedules.Schedule{s}, catalog, intake.TakenSet{}, nil)
	require.NoError(t, err)
	require.Len(t, set.Scheduled, 2)
	for i, d := range set.Scheduled {
		assert.Equal(t, i, d.DoseIndex)
		assert.Equal(t, "Ibuprofen", d.MedicineName)
		assert.Equal(t, medicines.UnitTablet, d.BaseUnit)
		assert.Equal(t, 1.0, d.Amount)
		assert.Equal(t, "s1", d.ScheduleID)
		assert.False(t, d.IsDone)
	}

	taken := intake.TakenSet{{ScheduleID: "s1", DoseIndex: 0, Day: jan5}: "rec-1"}
	set, err = DueDosesOn(jan5, []schedules.Schedule{s}, catalog, taken, nil)
	require.NoError(t, err)
	assert.True(t, set.Scheduled[0].IsDone)
	assert.Equal(t, "rec-1", set.Scheduled[0].RecordID)
	assert.False(t, set.Scheduled[1].IsDone)

	// El registro de otro día no cuenta.
	set, err = DueDosesOn(jan5.AddDays(1), []schedules.Schedule{s}, catalog, taken, nil)
	require.NoError(t, err)
	assert.False(t, set.Scheduled[0].IsDone)
}

func TestDueDosesOn_EndedScheduleScenario(t *testing.T) {
	set, err := DueDosesOn(day("2024-01-11"), []schedules.Schedule{ibuprofenTwiceDaily(dayPtr("2024-01-10"))}, catalog, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, set.Scheduled)
}

func TestDueDosesOn_UnscheduledAreAlwaysDone(t *testing.T) {
	jan5 := day("2024-01-05")
	unscheduled := []intake.UnscheduledRecord{
		{ID: "u2", MedicineID: "ibu", Amount: 2, Day: jan5},
		{ID: "u1", MedicineID: "ibu", Amount: 0.5, Day: jan5, GroupID: strPtr("morning")},
		{ID: "u3", MedicineID: "ibu", Amount: 1, Day: jan5.AddDays(1)},
	}

	set, err := DueDosesOn(jan5, nil, catalog, nil, unscheduled)
	require.NoError(t, err)
	require.Len(t, set.Unscheduled, 2)
	assert.Equal(t, "u1", set.Unscheduled[0].RecordID)
	for _, d := range set.Unscheduled {
		assert.True(t, d.IsDone)
		assert.False(t, d.Scheduled)
		assert.Empty(t, d.ScheduleID)
	}
}

func TestDueDosesOn_UnscheduledFollowRecordingTime(t *testing.T) {
	jan5 := day("2024-01-05")
	at := func(h, m int) time.Time { return time.Date(2024, 1, 5, h, m, 0, 0, time.UTC) }
	// Ids aleatorios: su orden no dice nada del momento de la toma.
	unscheduled := []intake.UnscheduledRecord{
		{ID: "f3c1", MedicineID: "ibu", Amount: 1, Day: jan5, RecordedAt: at(7, 30)},
		{ID: "0a9e", MedicineID: "ibu", Amount: 1, Day: jan5, RecordedAt: at(21, 5)},
		{ID: "b7d2", MedicineID: "ibu", Amount: 1, Day: jan5, RecordedAt: at(13, 0)},
		{ID: "a100", MedicineID: "ibu", Amount: 1, Day: jan5, RecordedAt: at(13, 0)},
	}

	set, err := DueDosesOn(jan5, nil, catalog, nil, unscheduled)
	require.NoError(t, err)

	got := make([]string, 0, len(set.Unscheduled))
	for _, d := range set.Unscheduled {
		got = append(got, d.RecordID)
	}
	assert.Equal(t, []string{"f3c1", "a100", "b7d2", "0a9e"}, got)
}

func TestDueDosesOn_MissingMedicineIsReferenceError(t *testing.T) {
	s := ibuprofenTwiceDaily(nil)
	s.MedicineID = "gone"

	_, err := DueDosesOn(day("2024-01-05"), []schedules.Schedule{s}, catalog, nil, nil)
	assert.True(t, errors.Is(err, apperr.ErrReference))

	// Un schedule inactivo no se resuelve, así que no falla.
	_, err = DueDosesOn(day("2023-01-05"), []schedules.Schedule{s}, catalog, nil, nil)
	assert.NoError(t, err)

	_, err = DueDosesOn(day("2024-01-05"), nil, catalog, nil, []intake.UnscheduledRecord{
		{ID: "u1", MedicineID: "gone", Amount: 1, Day: day("2024-01-05")},
	})
	assert.True(t, errors.Is(err, apperr.ErrReference))
}

func TestDueDosesOn_DoesNotShareInputState(t *testing.T) {
	s := ibuprofenTwiceDaily(nil)
	s.Doses = []schedules.Dose{s.Doses[1], s.Doses[0]}

	set, err := DueDosesOn(day("2024-01-05"), []schedules.Schedule{s}, catalog, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Scheduled[0].DoseIndex)
	assert.Equal(t, 1, s.Doses[0].Index, "input dose order must be preserved")

	*set.Scheduled[0].GroupID = "evening"
	assert.Equal(t, "morning", *s.Doses[1].GroupID)
}

func TestDueSet_ByGroup(t *testing.T) {
	jan5 := day("2024-01-05")
	taken := intake.TakenSet{{ScheduleID: "s1", DoseIndex: 0, Day: jan5}: "rec-1"}
	set, err := DueDosesOn(jan5, []schedules.Schedule{ibuprofenTwiceDaily(nil)}, catalog, taken,
		[]intake.UnscheduledRecord{{ID: "u1", MedicineID: "ibu", Amount: 1, Day: jan5, GroupID: strPtr("morning")}})
	require.NoError(t, err)

	buckets := set.ByGroup()
	assert.Equal(t, []string{Ungrouped, "morning"}, buckets.Keys())

	morning := buckets.Get("morning")
	assert.Len(t, morning.Scheduled, 1)
	assert.Len(t, morning.Unscheduled, 1)
	assert.True(t, morning.Complete())

	ungrouped := buckets.Get(Ungrouped)
	assert.False(t, ungrouped.Complete())
	assert.Equal(t, 1, ungrouped.Pending())

	evening := buckets.Get("evening")
	assert.Empty(t, evening.Scheduled)
	assert.Empty(t, evening.Unscheduled)
	assert.True(t, evening.Complete())
	assert.NotNil(t, evening.Scheduled)
}

func TestParseDayParam(t *testing.T) {
	today := func() calendar.Day { return day("2024-01-05") }

	d, err := ParseDayParam("today", today)
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-05"), d)

	d, err = ParseDayParam("2024-02-01", today)
	require.NoError(t, err)
	assert.Equal(t, day("2024-02-01"), d)

	_, err = ParseDayParam("tomorrow", today)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
