package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"therapy-track/internal/domain/calendar"
	"therapy-track/internal/domain/due"
	"therapy-track/internal/domain/groups"
	"therapy-track/internal/domain/intake"
	"therapy-track/internal/domain/medicines"
	"therapy-track/internal/domain/schedules"
	"therapy-track/internal/platform/apperr"
)

var (
	jan5    = calendar.MustParse("2024-01-05")
	catalog = map[string]medicines.Medicine{"ibu": {ID: "ibu", Name: "Ibuprofen", BaseUnit: medicines.UnitTablet}}
)

// world resuelve días y alterna tomas sobre estado en memoria.
type world struct {
	schedules []schedules.Schedule
	taken     intake.TakenSet
}

func (w *world) On(_ context.Context, day calendar.Day) (due.DueSet, error) {
	return due.DueDosesOn(day, w.schedules, catalog, w.taken, nil)
}

func (w *world) ToggleScheduled(_ context.Context, scheduleID string, doseIndex int, day calendar.Day) (intake.ToggleResult, error) {
	k := intake.Key{ScheduleID: scheduleID, DoseIndex: doseIndex, Day: day}
	if _, ok := w.taken[k]; ok {
		delete(w.taken, k)
		return intake.ToggleResult{}, nil
	}
	w.taken[k] = "rec"
	return intake.ToggleResult{Done: true, RecordID: "rec"}, nil
}

type fakeGroups map[string]groups.Group

func (f fakeGroups) Get(_ context.Context, id string) (groups.Group, error) {
	g, ok := f[id]
	if !ok {
		return groups.Group{}, apperr.NotFound("group", id)
	}
	return g, nil
}

func (f fakeGroups) List(_ context.Context) ([]groups.Group, error) {
	out := []groups.Group{}
	for _, id := range []string{"morning", "evening", "quiet"} {
		if g, ok := f[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	scheduled []string
	cancelled []string
}

func (n *recordingNotifier) ScheduleReminder(_ context.Context, groupID, _, _ string) error {
	n.scheduled = append(n.scheduled, groupID)
	return nil
}

func (n *recordingNotifier) CancelReminder(_ context.Context, groupID string) error {
	n.cancelled = append(n.cancelled, groupID)
	return nil
}

type countingRecorder struct {
	toggles int
	actions []string
}

func (c *countingRecorder) DoseToggled(bool)        { c.toggles++ }
func (c *countingRecorder) ReminderAction(a string) { c.actions = append(c.actions, a) }

func strPtr(s string) *string { return &s }

func fixture(now time.Time) (*Service, *world, *recordingNotifier, *countingRecorder) {
	w := &world{
		schedules: []schedules.Schedule{
			{
				ID: "s1", MedicineID: "ibu", Start: calendar.MustParse("2024-01-01"),
				Doses: []schedules.Dose{
					{Amount: 1, Index: 0, GroupID: strPtr("morning")},
					{Amount: 1, Index: 1, GroupID: strPtr("morning")},
					{Amount: 1, Index: 2, GroupID: strPtr("quiet")},
					{Amount: 1, Index: 3},
				},
			},
		},
		taken: intake.TakenSet{},
	}
	grps := fakeGroups{
		"morning": {ID: "morning", Name: "Morning", ReminderOn: true, ReminderTime: strPtr("08:00")},
		"evening": {ID: "evening", Name: "Evening", ReminderOn: true, ReminderTime: strPtr("20:00")},
		"quiet":   {ID: "quiet", Name: "Quiet"},
	}
	n := &recordingNotifier{}
	rec := &countingRecorder{}
	svc := NewService(Options{Days: w, Toggler: w, Groups: grps, Notifier: n, Recorder: rec, Location: time.UTC})
	svc.now = func() time.Time { return now }
	return svc, w, n, rec
}

func TestToggle_GroupCompletionMonotonicity(t *testing.T) {
	svc, _, n, rec := fixture(time.Date(2024, 1, 5, 7, 30, 0, 0, time.UTC))
	ctx := context.Background()

	out, err := svc.ToggleScheduled(ctx, "s1", 0, jan5)
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, "morning", *out.GroupID)
	assert.False(t, out.GroupComplete)
	assert.Equal(t, TransitionNone, out.Transition)

	out, err = svc.ToggleScheduled(ctx, "s1", 1, jan5)
	require.NoError(t, err)
	assert.True(t, out.GroupComplete)
	assert.Equal(t, TransitionCompleted, out.Transition)
	assert.Equal(t, []string{"morning"}, n.cancelled)

	out, err = svc.ToggleScheduled(ctx, "s1", 0, jan5)
	require.NoError(t, err)
	assert.False(t, out.Done)
	assert.False(t, out.GroupComplete)
	assert.Equal(t, TransitionReopened, out.Transition)
	assert.Equal(t, []string{"morning"}, n.scheduled, "07:30 is before the 08:00 reminder")

	assert.Equal(t, 3, rec.toggles)
	assert.Equal(t, []string{"suppressed", "rearmed"}, rec.actions)
}

func TestToggle_ReopenAfterReminderTimeDoesNotRearm(t *testing.T) {
	svc, _, n, _ := fixture(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, idx := range []int{0, 1, 1} {
		_, err := svc.ToggleScheduled(ctx, "s1", idx, jan5)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"morning"}, n.cancelled)
	assert.Empty(t, n.scheduled)
}

func TestToggle_AnotherDayLeavesReminderAlone(t *testing.T) {
	svc, _, n, _ := fixture(time.Date(2024, 1, 6, 6, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, idx := range []int{0, 1, 0} {
		_, err := svc.ToggleScheduled(ctx, "s1", idx, jan5)
		require.NoError(t, err)
	}
	assert.Empty(t, n.scheduled)
	assert.Empty(t, n.cancelled, "completing yesterday must not suppress today's reminder")
}

func TestToggle_GroupWithoutReminderAndUngrouped(t *testing.T) {
	svc, _, n, _ := fixture(time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()

	out, err := svc.ToggleScheduled(ctx, "s1", 2, jan5)
	require.NoError(t, err)
	assert.Equal(t, TransitionCompleted, out.Transition)

	out, err = svc.ToggleScheduled(ctx, "s1", 3, jan5)
	require.NoError(t, err)
	assert.Nil(t, out.GroupID)
	assert.Equal(t, TransitionNone, out.Transition)

	assert.Empty(t, n.cancelled)
	assert.Empty(t, n.scheduled)
}

func TestToggle_OutsideScheduleRangeHasNoGroup(t *testing.T) {
	svc, w, _, _ := fixture(time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC))

	out, err := svc.ToggleScheduled(context.Background(), "s1", 0, calendar.MustParse("2023-12-31"))
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Nil(t, out.GroupID)
	assert.Len(t, w.taken, 1)
}

func TestIsGroupComplete_EmptyGroup(t *testing.T) {
	assert.True(t, IsGroupComplete(due.DueSet{Day: jan5}, "morning"))
}

func TestRearmDay(t *testing.T) {
	svc, w, n, _ := fixture(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	w.taken[intake.Key{ScheduleID: "s1", DoseIndex: 0, Day: jan5}] = "rec"

	res, err := svc.RearmToday(context.Background())
	require.NoError(t, err)

	// morning tiene una dosis pendiente; evening no tiene dosis (completo); quiet no tiene recordatorio.
	assert.Equal(t, []string{"morning"}, res.Scheduled)
	assert.Equal(t, []string{"evening"}, res.Cancelled)
	assert.Equal(t, []string{"morning"}, n.scheduled)
	assert.Equal(t, []string{"evening"}, n.cancelled)
}

func TestTransition_String(t *testing.T) {
	assert.Equal(t, "none", TransitionNone.String())
	assert.Equal(t, "completed", TransitionCompleted.String())
	assert.Equal(t, "reopened", TransitionReopened.String())
}

func TestSyncGroups(t *testing.T) {
	svc, w, n, _ := fixture(time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, svc.SyncGroups(ctx, "morning"))
	assert.Equal(t, []string{"morning"}, n.scheduled)
	assert.Empty(t, n.cancelled)

	w.taken[intake.Key{ScheduleID: "s1", DoseIndex: 0, Day: jan5}] = "r0"
	w.taken[intake.Key{ScheduleID: "s1", DoseIndex: 1, Day: jan5}] = "r1"

	// Repetidos se sincronizan una vez; sin recordatorio se cancela.
	require.NoError(t, svc.SyncGroups(ctx, "morning", "morning", "evening", "quiet"))
	assert.Equal(t, []string{"morning"}, n.scheduled)
	assert.Equal(t, []string{"morning", "evening", "quiet"}, n.cancelled)

	assert.NoError(t, svc.SyncGroups(ctx))
	assert.Error(t, svc.SyncGroups(ctx, "ghost"))
}

type fakeInspector map[string]time.Time

func (f fakeInspector) Scheduled() []string {
	out := make([]string, 0, len(f))
	for id := range f {
		out = append(out, id)
	}
	return out
}

func (f fakeInspector) Next(groupID string) (time.Time, bool) {
	t, ok := f[groupID]
	return t, ok && !t.IsZero()
}

func TestArmed(t *testing.T) {
	svc, _, _, _ := fixture(time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// Sin inspector la lista es vacía, no nil.
	list, err := svc.Armed(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	morning := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 5, 20, 0, 0, 0, time.UTC)
	svc.insp = fakeInspector{
		"evening": evening,
		"morning": morning,
		"quiet":   {}, // sin próximo disparo
	}

	list, err = svc.Armed(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, Armed{GroupID: "morning", Name: "Morning", At: "08:00", Next: morning}, list[0])
	assert.Equal(t, Armed{GroupID: "evening", Name: "Evening", At: "20:00", Next: evening}, list[1])

	svc.insp = fakeInspector{"ghost": morning}
	_, err = svc.Armed(ctx)
	assert.Error(t, err)
}
