package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/frequency"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()
	freq, err := frequency.Expand(frequency.TwiceDaily)
	require.NoError(t, err)

	require.NoError(t, NewMedicineRepo(db).Create(ctx, medicines.Medicine{
		ID: "med-1", Name: "Ibuprofen", BaseUnit: medicines.UnitTablet,
		ActiveIngredients: []medicines.ActiveIngredient{{Name: "Ibuprofen", Amount: 200, Unit: medicines.IngredientMG}},
	}))
	require.NoError(t, NewGroupRepo(db).Create(ctx, groups.Group{ID: "grp-1", Name: "Morning", Color: "#FFFF64FF"}))
	require.NoError(t, NewScheduleRepo(db).Create(ctx, schedules.Schedule{
		ID:         "sch-1",
		MedicineID: "med-1",
		Start:      calendar.MustParse("2024-03-01"),
		Frequency:  freq,
		Doses: []schedules.Dose{
			{Amount: 1, Index: 0, GroupID: strPtr("grp-1")},
			{Amount: 2, Index: 1},
		},
	}))
}

func TestMedicineRepo_InUse(t *testing.T) {
	db := NewDB()
	seed(t, db)
	repo := NewMedicineRepo(db)

	used, err := repo.InUse(context.Background(), "med-1")
	require.NoError(t, err)
	assert.True(t, used)

	require.NoError(t, repo.Create(context.Background(), medicines.Medicine{ID: "med-2", Name: "Other", BaseUnit: medicines.UnitML}))
	used, err = repo.InUse(context.Background(), "med-2")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestMedicineRepo_ReturnsCopies(t *testing.T) {
	db := NewDB()
	seed(t, db)
	repo := NewMedicineRepo(db)

	m, err := repo.GetByID(context.Background(), "med-1")
	require.NoError(t, err)
	m.ActiveIngredients[0].Amount = 999

	again, err := repo.GetByID(context.Background(), "med-1")
	require.NoError(t, err)
	assert.Equal(t, 200.0, again.ActiveIngredients[0].Amount)
}

func TestGroupRepo_InUseByDose(t *testing.T) {
	db := NewDB()
	seed(t, db)

	used, err := NewGroupRepo(db).InUse(context.Background(), "grp-1")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestRepos_NotFound(t *testing.T) {
	db := NewDB()
	ctx := context.Background()

	_, err := NewMedicineRepo(db).GetByID(ctx, "nope")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	err = NewScheduleRepo(db).UpdateDates(ctx, "nope", calendar.MustParse("2024-01-01"), nil)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	err = NewIntakeRepo(db).DeleteUnscheduled(ctx, "nope")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestIntakeRepo_ToggleRoundTrip(t *testing.T) {
	db := NewDB()
	seed(t, db)
	repo := NewIntakeRepo(db)
	ctx := context.Background()
	day := calendar.MustParse("2024-03-05")

	rec := intake.ScheduledRecord{ID: "rec-1", ScheduleID: "sch-1", DoseIndex: 0, Day: day, RecordedAt: time.Now()}
	res, err := repo.ToggleScheduled(ctx, rec)
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.Equal(t, "rec-1", res.RecordID)

	list, err := repo.ListScheduled(ctx, intake.SingleDay(day))
	require.NoError(t, err)
	require.Len(t, list, 1)

	rec.ID = "rec-2"
	res, err = repo.ToggleScheduled(ctx, rec)
	require.NoError(t, err)
	assert.False(t, res.Done)

	list, err = repo.ListScheduled(ctx, intake.SingleDay(day))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestIntakeRepo_ConcurrentTogglesKeepAtMostOneRecord(t *testing.T) {
	db := NewDB()
	seed(t, db)
	repo := NewIntakeRepo(db)
	day := calendar.MustParse("2024-03-05")

	var wg sync.WaitGroup
	for i := 0; i < 51; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.ToggleScheduled(context.Background(), intake.ScheduledRecord{
				ID: fmt.Sprintf("rec-%d", i), ScheduleID: "sch-1", DoseIndex: 1, Day: day,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := repo.ListScheduled(context.Background(), intake.SingleDay(day))
	require.NoError(t, err)
	// 51 toggles: impar -> queda tomada.
	assert.Len(t, list, 1)
}

func TestScheduleRepo_DeleteCascadesRecords(t *testing.T) {
	db := NewDB()
	seed(t, db)
	ctx := context.Background()
	in := NewIntakeRepo(db)

	for _, d := range []string{"2024-03-01", "2024-03-02"} {
		_, err := in.ToggleScheduled(ctx, intake.ScheduledRecord{ID: "r-" + d, ScheduleID: "sch-1", Day: calendar.MustParse(d)})
		require.NoError(t, err)
	}

	require.NoError(t, NewScheduleRepo(db).Delete(ctx, "sch-1"))

	list, err := in.ListScheduled(ctx, intake.Range{})
	require.NoError(t, err)
	assert.Empty(t, list)

	used, err := NewMedicineRepo(db).InUse(ctx, "med-1")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestIntakeRepo_ListScheduledOrderedByDay(t *testing.T) {
	db := NewDB()
	seed(t, db)
	ctx := context.Background()
	in := NewIntakeRepo(db)

	for _, d := range []string{"2024-03-03", "2024-03-01", "2024-03-02"} {
		_, err := in.ToggleScheduled(ctx, intake.ScheduledRecord{ID: "r-" + d, ScheduleID: "sch-1", Day: calendar.MustParse(d)})
		require.NoError(t, err)
	}

	from := calendar.MustParse("2024-03-02")
	list, err := in.ListScheduled(ctx, intake.Range{From: &from})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-03-02", list[0].Day.String())
	assert.Equal(t, "2024-03-03", list[1].Day.String())
}

func TestIntakeRepo_Unscheduled(t *testing.T) {
	db := NewDB()
	seed(t, db)
	ctx := context.Background()
	in := NewIntakeRepo(db)
	day := calendar.MustParse("2024-03-05")

	require.NoError(t, in.CreateUnscheduled(ctx, intake.UnscheduledRecord{ID: "u-1", MedicineID: "med-1", Amount: 1, Day: day}))
	require.NoError(t, in.CreateUnscheduled(ctx, intake.UnscheduledRecord{ID: "u-2", MedicineID: "med-1", Amount: 0.5, Day: day, GroupID: strPtr("grp-1")}))

	list, err := in.ListUnscheduled(ctx, intake.SingleDay(day))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "u-1", list[0].ID)

	used, err := NewGroupRepo(db).InUse(ctx, "grp-1")
	require.NoError(t, err)
	assert.True(t, used)

	require.NoError(t, in.DeleteUnscheduled(ctx, "u-1"))
	list, err = in.ListUnscheduled(ctx, intake.Range{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
