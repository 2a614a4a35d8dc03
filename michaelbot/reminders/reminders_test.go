package reminders

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MikeJollie2707/michaelbot/michaelbot/database/models"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/scheduler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminderStore struct {
	mu        sync.Mutex
	nextID    int64
	reminders map[int64]*models.Reminder
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{reminders: map[int64]*models.Reminder{}}
}

func (s *fakeReminderStore) Reminders() repositories.ReminderRepository { return fakeReminders{s} }

func (s *fakeReminderStore) Guilds() repositories.GuildRepository         { return nil }
func (s *fakeReminderStore) GuildLogs() repositories.GuildLogRepository   { return nil }
func (s *fakeReminderStore) Users() repositories.UserRepository           { return nil }
func (s *fakeReminderStore) Items() repositories.ItemRepository           { return nil }
func (s *fakeReminderStore) Inventory() repositories.InventoryRepository  { return nil }
func (s *fakeReminderStore) Equipment() repositories.EquipmentRepository  { return nil }
func (s *fakeReminderStore) Potions() repositories.PotionRepository       { return nil }
func (s *fakeReminderStore) Portals() repositories.PortalRepository       { return nil }
func (s *fakeReminderStore) Badges() repositories.BadgeRepository         { return nil }
func (s *fakeReminderStore) TempMutes() repositories.TempMuteRepository   { return nil }
func (s *fakeReminderStore) CustomCmds() repositories.CustomCmdRepository { return nil }

func (s *fakeReminderStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Store) error) error {
	return fn(ctx, s)
}

type fakeReminders struct{ s *fakeReminderStore }

func (r fakeReminders) Insert(_ context.Context, reminder *models.Reminder) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	reminder.RemindID = r.s.nextID
	cp := *reminder
	r.s.reminders[reminder.RemindID] = &cp
	return 1, nil
}

func (r fakeReminders) ListByUser(_ context.Context, userID snowflake.ID) ([]*models.Reminder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Reminder
	for _, rem := range r.s.reminders {
		if rem.UserID == userID {
			cp := *rem
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AwakeTime.Before(out[j].AwakeTime) })
	return out, nil
}

func (r fakeReminders) DueBefore(_ context.Context, t time.Time) ([]*models.Reminder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Reminder
	for _, rem := range r.s.reminders {
		if rem.AwakeTime.Before(t) {
			cp := *rem
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeReminders) InWindow(_ context.Context, from, to time.Time) ([]*models.Reminder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Reminder
	for _, rem := range r.s.reminders {
		if rem.AwakeTime.After(from) && !rem.AwakeTime.After(to) {
			cp := *rem
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeReminders) Delete(_ context.Context, remindID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reminders[remindID]; !ok {
		return 0, nil
	}
	delete(r.s.reminders, remindID)
	return 1, nil
}

func (r fakeReminders) DeleteForUser(_ context.Context, remindID int64, userID snowflake.ID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rem, ok := r.s.reminders[remindID]
	if !ok || rem.UserID != userID {
		return 0, nil
	}
	delete(r.s.reminders, remindID)
	return 1, nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	fail     bool
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, _ snowflake.ID, message string, _ time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errs.New(errs.Upstream, "dm closed")
	}
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) delivered() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

const reminderUser snowflake.ID = 4242

func newReminderService(t *testing.T) (*Service, *fakeReminderStore, *recordingNotifier) {
	t.Helper()
	store := newFakeReminderStore()
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	notifier := &recordingNotifier{}
	return NewService(store, sched, notifier), store, notifier
}

func TestCreateValidates(t *testing.T) {
	s, _, _ := newReminderService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, reminderUser, 30*time.Second, "too soon")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	_, err = s.Create(ctx, reminderUser, 31*24*time.Hour, "too far")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))

	_, err = s.Create(ctx, reminderUser, time.Hour, "")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
}

func TestCreatePersists(t *testing.T) {
	s, store, _ := newReminderService(t)
	now := time.Now()
	s.now = func() time.Time { return now }

	reminder, err := s.Create(context.Background(), reminderUser, time.Hour, "water the plants")
	require.NoError(t, err)

	assert.NotZero(t, reminder.RemindID)
	assert.Equal(t, now.Add(time.Hour), reminder.AwakeTime)
	assert.NotNil(t, store.reminders[reminder.RemindID])
	// An hour out waits for the sweep; no one-shot armed.
	assert.False(t, s.sched.Pending(oneShotKey(reminder.RemindID)))
}

func TestCreateShortArmsOneShotOnly(t *testing.T) {
	s, store, _ := newReminderService(t)
	ctx := context.Background()

	reminder, err := s.Create(ctx, reminderUser, 90*time.Second, "tea")
	require.NoError(t, err)
	assert.True(t, s.sched.Pending(oneShotKey(reminder.RemindID)))
	assert.Negative(t, reminder.RemindID)

	// Due before the next sweep: fires from memory, never gets a row.
	assert.Empty(t, store.reminders)
	list, err := s.List(ctx, reminderUser)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestShortReminderDelivers(t *testing.T) {
	store := newFakeReminderStore()
	sched := scheduler.New()
	t.Cleanup(sched.Stop)
	notifier := &recordingNotifier{}
	s := NewService(store, sched, notifier)
	// Wake time already past so the one-shot fires immediately.
	s.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	_, err := s.Create(context.Background(), reminderUser, 90*time.Second, "tea")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return len(notifier.delivered()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, store.reminders)
}

func TestListInWakeOrder(t *testing.T) {
	s, _, _ := newReminderService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, reminderUser, 2*time.Hour, "second")
	require.NoError(t, err)
	_, err = s.Create(ctx, reminderUser, time.Hour, "first")
	require.NoError(t, err)
	_, err = s.Create(ctx, snowflake.ID(1), time.Hour, "someone else")
	require.NoError(t, err)

	list, err := s.List(ctx, reminderUser)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Message)
	assert.Equal(t, "second", list[1].Message)
}

func TestRemove(t *testing.T) {
	s, store, _ := newReminderService(t)
	ctx := context.Background()

	reminder, err := s.Create(ctx, reminderUser, time.Hour, "gone soon")
	require.NoError(t, err)

	// Someone else's id is invisible.
	err = s.Remove(ctx, snowflake.ID(1), reminder.RemindID)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))

	require.NoError(t, s.Remove(ctx, reminderUser, reminder.RemindID))
	assert.Empty(t, store.reminders)

	err = s.Remove(ctx, reminderUser, reminder.RemindID)
	require.Error(t, err)
	assert.Equal(t, errs.NotFound, errs.KindOf(err))
}

func TestSweepDeliversPastDue(t *testing.T) {
	s, store, notifier := newReminderService(t)
	ctx := context.Background()

	store.reminders[1] = &models.Reminder{
		RemindID:  1,
		UserID:    reminderUser,
		AwakeTime: time.Now().Add(-time.Minute),
		Message:   "overdue",
	}

	require.NoError(t, s.sweep(ctx))
	assert.Equal(t, []string{"overdue"}, notifier.delivered())
	assert.Empty(t, store.reminders)
}

func TestSweepKeepsFailedDeliveries(t *testing.T) {
	s, store, notifier := newReminderService(t)
	notifier.fail = true
	ctx := context.Background()

	store.reminders[1] = &models.Reminder{
		RemindID:  1,
		UserID:    reminderUser,
		AwakeTime: time.Now().Add(-time.Minute),
		Message:   "overdue",
	}

	require.NoError(t, s.sweep(ctx))
	// The record survives for the next sweep to retry.
	assert.NotNil(t, store.reminders[1])

	notifier.fail = false
	require.NoError(t, s.sweep(ctx))
	assert.Empty(t, store.reminders)
}
