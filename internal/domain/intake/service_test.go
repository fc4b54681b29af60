package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

type fakeRepo struct {
	mu          sync.Mutex
	scheduled   map[Key]ScheduledRecord
	unscheduled map[string]UnscheduledRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{scheduled: map[Key]ScheduledRecord{}, unscheduled: map[string]UnscheduledRecord{}}
}

func (r *fakeRepo) ToggleScheduled(_ context.Context, rec ScheduledRecord) (ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scheduled[rec.Key()]; ok {
		delete(r.scheduled, rec.Key())
		return ToggleResult{Done: false}, nil
	}
	r.scheduled[rec.Key()] = rec
	return ToggleResult{Done: true, RecordID: rec.ID}, nil
}

func (r *fakeRepo) ListScheduled(_ context.Context, rng Range) ([]ScheduledRecord, error) {
	out := []ScheduledRecord{}
	for _, rec := range r.scheduled {
		if rng.Contains(rec.Day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateUnscheduled(_ context.Context, rec UnscheduledRecord) error {
	r.unscheduled[rec.ID] = rec
	return nil
}

func (r *fakeRepo) DeleteUnscheduled(_ context.Context, id string) error {
	if _, ok := r.unscheduled[id]; !ok {
		return apperr.NotFound("unscheduled record", id)
	}
	delete(r.unscheduled, id)
	return nil
}

func (r *fakeRepo) ListUnscheduled(_ context.Context, rng Range) ([]UnscheduledRecord, error) {
	out := []UnscheduledRecord{}
	for _, rec := range r.unscheduled {
		if rng.Contains(rec.Day) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSchedules map[string]schedules.Schedule

func (f fakeSchedules) Get(_ context.Context, id string) (schedules.Schedule, error) {
	s, ok := f[id]
	if !ok {
		return schedules.Schedule{}, apperr.NotFound("schedule", id)
	}
	return s, nil
}

type fakeMedicines map[string]medicines.Medicine

func (f fakeMedicines) Get(_ context.Context, id string) (medicines.Medicine, error) {
	m, ok := f[id]
	if !ok {
		return medicines.Medicine{}, apperr.NotFound("medicine", id)
	}
	return m, nil
}

type fakeGroups map[string]groups.Group

func (f fakeGroups) Get(_ context.Context, id string) (groups.Group, error) {
	g, ok := f[id]
	if !ok {
		return groups.Group{}, apperr.NotFound("group", id)
	}
	return g, nil
}

var jan5 = calendar.MustParse("2024-01-05")

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	sch := fakeSchedules{"s1": {
		ID:         "s1",
		MedicineID: "ibu",
		Start:      calendar.MustParse("2024-01-01"),
		Doses:      []schedules.Dose{{Amount: 1, Index: 0}, {Amount: 1, Index: 1}},
	}}
	svc := NewService(repo, sch, fakeMedicines{"ibu": {ID: "ibu"}}, fakeGroups{"g1": {ID: "g1"}}, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestToggleScheduled_RoundTrip(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	res, err := svc.ToggleScheduled(ctx, "s1", 0, jan5)
	require.NoError(t, err)
	assert.True(t, res.Done)
	assert.NotEmpty(t, res.RecordID)
	assert.Len(t, repo.scheduled, 1)

	res, err = svc.ToggleScheduled(ctx, "s1", 0, jan5)
	require.NoError(t, err)
	assert.False(t, res.Done)
	assert.Empty(t, repo.scheduled)
}

func TestToggleScheduled_KeysAreIndependent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.ToggleScheduled(ctx, "s1", 0, jan5)
	require.NoError(t, err)
	_, err = svc.ToggleScheduled(ctx, "s1", 1, jan5)
	require.NoError(t, err)
	_, err = svc.ToggleScheduled(ctx, "s1", 0, jan5.AddDays(1))
	require.NoError(t, err)

	assert.Len(t, repo.scheduled, 3)

	taken, _, err := svc.TakenOn(ctx, jan5)
	require.NoError(t, err)
	_, ok := taken.Lookup(Key{ScheduleID: "s1", DoseIndex: 0, Day: jan5})
	assert.True(t, ok)
	assert.Len(t, taken, 2)
}

func TestToggleScheduled_ReferenceErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.ToggleScheduled(ctx, "s1", 2, jan5)
	assert.True(t, errors.Is(err, apperr.ErrReference))

	_, err = svc.ToggleScheduled(ctx, "s1", -1, jan5)
	assert.True(t, errors.Is(err, apperr.ErrReference))

	_, err = svc.ToggleScheduled(ctx, "nope", 0, jan5)
	assert.True(t, errors.Is(err, apperr.ErrReference))
}

func TestRecordUnscheduled(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	a, err := svc.RecordUnscheduled(ctx, UnscheduledInput{MedicineID: "ibu", Amount: 2, Day: jan5, GroupID: strPtr(" g1 ")})
	require.NoError(t, err)
	assert.Equal(t, "g1", *a.GroupID)

	b, err := svc.RecordUnscheduled(ctx, UnscheduledInput{MedicineID: "ibu", Amount: 2, Day: jan5})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, repo.unscheduled, 2)

	_, err = svc.RecordUnscheduled(ctx, UnscheduledInput{MedicineID: "ibu", Amount: 0, Day: jan5})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.RecordUnscheduled(ctx, UnscheduledInput{MedicineID: "ghost", Amount: 1, Day: jan5})
	assert.True(t, errors.Is(err, apperr.ErrReference))

	_, err = svc.RecordUnscheduled(ctx, UnscheduledInput{MedicineID: "ibu", Amount: 1, Day: jan5, GroupID: strPtr("night")})
	assert.True(t, errors.Is(err, apperr.ErrReference))

	require.NoError(t, svc.DeleteUnscheduled(ctx, a.ID))
	assert.True(t, errors.Is(svc.DeleteUnscheduled(ctx, a.ID), apperr.ErrNotFound))
}

func TestQueryByRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, d := range []string{"2024-01-01", "2024-01-05", "2024-01-09"} {
		_, err := svc.RecordUnscheduled(ctx, UnscheduledInput{MedicineID: "ibu", Amount: 1, Day: calendar.MustParse(d)})
		require.NoError(t, err)
	}

	from, to := calendar.MustParse("2024-01-01"), calendar.MustParse("2024-01-05")
	recs, err := svc.QueryByRange(ctx, Range{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, recs.Unscheduled, 2)

	recs, err = svc.QueryByRange(ctx, Range{})
	require.NoError(t, err)
	assert.Len(t, recs.Unscheduled, 3)

	_, err = svc.QueryByRange(ctx, Range{From: &to, To: &from})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestParseRange(t *testing.T) {
	rng, err := ParseRange("2024-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", rng.From.String())
	assert.Nil(t, rng.To)

	_, err = ParseRange("", "soon")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func strPtr(s string) *string { return &s }
