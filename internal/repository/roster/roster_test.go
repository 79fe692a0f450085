package roster

import (
	"log/slog"
	"testing"
	"time"

	"github.com/sharetube/client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTask struct {
	fn       func()
	cancels  int
	canceled bool
}

type fakeScheduler struct {
	tasks []*fakeTask
}

func (s *fakeScheduler) Every(_ time.Duration, fn func()) func() {
	t := &fakeTask{fn: fn}
	s.tasks = append(s.tasks, t)
	return func() {
		t.cancels++
		t.canceled = true
	}
}

// tick fires every task, cancelled ones included, like a tick already queued on the loop.
func (s *fakeScheduler) tick() {
	for _, t := range s.tasks {
		t.fn()
	}
}

func (s *fakeScheduler) active() int {
	n := 0
	for _, t := range s.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}

func newTestRoster() (*Roster, *Table, *fakeScheduler) {
	table := NewTable()
	sched := &fakeScheduler{}
	return New(table, sched, time.Second, slog.Default()), table, sched
}

func playing(id domain.UserID, duration float64) domain.ParticipantUpdate {
	return domain.ParticipantUpdate{UserID: id, Duration: duration, Buffered: 4, State: domain.Play, Badges: []domain.BadgeID{4}}
}

func TestAddAndAssignSelf(t *testing.T) {
	r, table, _ := newTestRoster()

	self := r.AddSelf("alice", domain.BadgeUserGreen, nil)
	_, ok := self.ID()
	assert.False(t, ok)
	assert.Same(t, self, r.AddSelf("alice", domain.BadgeUserGreen, nil), "only one self entry")

	require.NoError(t, r.AssignSelfID(3))
	id, ok := self.ID()
	assert.True(t, ok)
	assert.Equal(t, domain.UserID(3), id)

	got, ok := r.Get(3)
	require.True(t, ok)
	assert.Same(t, self, got)

	assert.ErrorIs(t, r.AssignSelfID(4), ErrSelfNotFound)

	rows := table.Rows()
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsSelf)
	assert.Equal(t, domain.UserID(3), *rows[0].UserID)
}

func TestAddDuplicateID(t *testing.T) {
	r, _, _ := newTestRoster()

	require.NotNil(t, r.Add(domain.ParticipantInfo{UserID: 7, Name: "bob"}))
	assert.Nil(t, r.Add(domain.ParticipantInfo{UserID: 7, Name: "bob again"}))
	assert.Equal(t, 1, r.Len())
}

func TestAssignSelfIDDropsStaleDuplicate(t *testing.T) {
	r, _, _ := newTestRoster()

	self := r.AddSelf("alice", 0, nil)
	r.Add(domain.ParticipantInfo{UserID: 3, Name: "ghost"})

	require.NoError(t, r.AssignSelfID(3))
	assert.Equal(t, 1, r.Len())
	got, _ := r.Get(3)
	assert.Same(t, self, got)
}

func TestExtrapolationWhilePlaying(t *testing.T) {
	r, table, sched := newTestRoster()

	bob := r.Add(domain.ParticipantInfo{UserID: 7, Name: "bob"})
	assert.False(t, bob.Extrapolating(), "no task before the first play update")

	bob.Update(playing(7, 10), time.Now())
	require.True(t, bob.Extrapolating())

	sched.tick()
	sched.tick()
	assert.Equal(t, 12.0, bob.State().Position)
	assert.Equal(t, "12s", table.Rows()[0].Time)

	bob.Update(domain.ParticipantUpdate{UserID: 7, Duration: 30, State: domain.Pause}, time.Now())
	assert.False(t, bob.Extrapolating())
	assert.Equal(t, 0, sched.active())

	sched.tick()
	assert.Equal(t, 30.0, bob.State().Position, "paused entries do not advance")
}

func TestUpdateRealignsExtrapolation(t *testing.T) {
	r, _, sched := newTestRoster()

	bob := r.Add(domain.ParticipantInfo{UserID: 7, Name: "bob"})
	bob.Update(playing(7, 10), time.Now())
	bob.Update(playing(7, 20), time.Now())

	require.Len(t, sched.tasks, 2)
	assert.Equal(t, 1, sched.tasks[0].cancels)
	assert.Equal(t, 1, sched.active())

	sched.tick()
	assert.Equal(t, 21.0, bob.State().Position, "stale task tick is ignored")
}

func TestRemoveCancelsExactlyOnce(t *testing.T) {
	r, table, sched := newTestRoster()

	bob := r.Add(domain.ParticipantInfo{UserID: 7, Name: "bob"})
	bob.Update(playing(7, 10), time.Now())

	require.NoError(t, r.Remove(7))
	bob.Remove()

	require.Len(t, sched.tasks, 1)
	assert.Equal(t, 1, sched.tasks[0].cancels)
	_, ok := r.Get(7)
	assert.False(t, ok)
	assert.Empty(t, table.Rows())

	sched.tick()
	bob.Update(playing(7, 99), time.Now())
	assert.Equal(t, 10.0, bob.State().Position, "removed entries are not mutated")

	assert.ErrorIs(t, r.Remove(7), ErrParticipantNotFound)
}

func TestClearCancelsAllTasks(t *testing.T) {
	r, table, sched := newTestRoster()

	r.AddSelf("alice", 0, nil)
	for id := domain.UserID(1); id <= 3; id++ {
		r.Add(domain.ParticipantInfo{UserID: id}).Update(playing(id, 0), time.Now())
	}
	require.Equal(t, 3, sched.active())

	r.Clear()
	assert.Equal(t, 0, sched.active())
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.IDs())
	assert.Empty(t, table.Rows())
}

func TestSelfNeverExtrapolates(t *testing.T) {
	r, _, sched := newTestRoster()

	self := r.AddSelf("alice", 0, nil)
	self.UpdateSelf(domain.PlaybackState{Position: 5, State: domain.Play})
	self.SetOptimisticState(domain.Pause)
	self.SetOptimisticState(domain.Play)

	assert.Empty(t, sched.tasks)
	assert.Equal(t, 5.0, self.State().Position)
}

func TestSetAllStatesStartsAndStopsTasks(t *testing.T) {
	r, _, sched := newTestRoster()

	r.AddSelf("alice", 0, nil)
	bob := r.Add(domain.ParticipantInfo{UserID: 7})

	r.SetAllStates(domain.Play)
	assert.True(t, bob.Extrapolating())
	assert.Equal(t, domain.Play, r.Self().State().State)

	r.SetAllStates(domain.Pause)
	assert.False(t, bob.Extrapolating())
	assert.Equal(t, 0, sched.active())
}

func TestBadgesRenderedOnlyOnChange(t *testing.T) {
	r, table, _ := newTestRoster()

	bob := r.Add(domain.ParticipantInfo{UserID: 7, Badges: []domain.BadgeID{4}})
	assert.Equal(t, 1, table.BadgeRenders())

	bob.Update(domain.ParticipantUpdate{UserID: 7, State: domain.Pause, Badges: []domain.BadgeID{4}}, time.Now())
	assert.Equal(t, 1, table.BadgeRenders(), "same badges by value")

	bob.Update(domain.ParticipantUpdate{UserID: 7, State: domain.Pause, Badges: []domain.BadgeID{4, 12}}, time.Now())
	assert.Equal(t, 2, table.BadgeRenders())
	assert.Equal(t, []string{"tick", "medal_gold_1"}, table.Rows()[0].Badges)
}

func TestRow(t *testing.T) {
	r, _, _ := newTestRoster()

	bob := r.Add(domain.ParticipantInfo{UserID: 7, Name: "bob", Avatar: domain.BadgeUserRed})
	row := bob.Row()
	assert.Equal(t, "hourglass", row.State, "unknown state before first update")
	assert.Equal(t, "user_red", row.Avatar)

	bob.Update(domain.ParticipantUpdate{UserID: 7, Duration: 65, Buffered: 3661, State: domain.Pause}, time.Now())
	row = bob.Row()
	assert.Equal(t, "1m 5s", row.Time)
	assert.Equal(t, "1h 1m 1s", row.Buffered)
	assert.Equal(t, "control_pause_blue", row.State)
}

func TestIDsSorted(t *testing.T) {
	r, _, _ := newTestRoster()

	for _, id := range []domain.UserID{9, 2, 5} {
		r.Add(domain.ParticipantInfo{UserID: id})
	}

	assert.Equal(t, []domain.UserID{2, 5, 9}, r.IDs())
}
