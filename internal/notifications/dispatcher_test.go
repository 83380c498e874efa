package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"toolmove/internal/core/config"
	"toolmove/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu            sync.Mutex
	events        []models.WeldEvent
	notifications []models.Notification
	failFor       map[string]bool
}

func (s *fakeStore) PendingEvents(_ context.Context, limit int) ([]models.WeldEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := []models.WeldEvent{}
	for _, event := range s.events {
		if event.ProcessedAt == nil && len(pending) < limit {
			pending = append(pending, event)
		}
	}
	return pending, nil
}

func (s *fakeStore) MarkProcessed(_ context.Context, eventID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].ProcessedAt = &at
		}
	}
	return nil
}

func (s *fakeStore) RecordFailure(_ context.Context, eventID string, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].Attempts++
			s.events[i].LastError = &cause
		}
	}
	return nil
}

func (s *fakeStore) InsertNotification(_ context.Context, notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failFor[notification.UserID] {
		return errors.New("insert rejected")
	}
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *fakeStore) processed(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, event := range s.events {
		if event.ID == eventID {
			return event.ProcessedAt != nil
		}
	}
	return false
}

func (s *fakeStore) notificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

type staticRecipients struct {
	ids []string
	err error
}

func (r *staticRecipients) ListUserIDs(context.Context) ([]string, error) {
	return r.ids, r.err
}

func newEvent(id, partNumber, reason string) models.WeldEvent {
	return models.WeldEvent{ID: id, Type: models.WeldCreatedEvent, WeldID: "weld-" + id, PartNumber: partNumber, Reason: reason}
}

func newTestDispatcher(store EventStore, recipients Recipients) *Dispatcher {
	return NewDispatcher(store, recipients, zap.NewNop(), config.DispatcherConfig{Interval: time.Hour, BatchSize: 2})
}

func TestDrainFansOutOneNotificationPerUser(t *testing.T) {
	store := &fakeStore{events: []models.WeldEvent{newEvent("e1", "PN-1", "porosity")}}
	recipients := &staticRecipients{ids: []string{"u1", "u2", "u3"}}

	processed, err := newTestDispatcher(store, recipients).Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	require.Len(t, store.notifications, 3)
	seen := map[string]bool{}
	for _, n := range store.notifications {
		assert.Equal(t, "Weld touch up requested: PN-1 (porosity)", n.Message)
		assert.False(t, n.Read)
		seen[n.UserID] = true
	}
	assert.Len(t, seen, 3)
	assert.True(t, store.processed("e1"))
}

func TestDrainUsesNoReasonPlaceholder(t *testing.T) {
	store := &fakeStore{events: []models.WeldEvent{newEvent("e1", "PN-2", "")}}

	_, err := newTestDispatcher(store, &staticRecipients{ids: []string{"u1"}}).Drain(context.Background())

	require.NoError(t, err)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, "Weld touch up requested: PN-2 (No reason)", store.notifications[0].Message)
}

func TestDrainSkipsFailedInsertAndStillMarksProcessed(t *testing.T) {
	store := &fakeStore{
		events:  []models.WeldEvent{newEvent("e1", "PN-1", "crack")},
		failFor: map[string]bool{"u2": true},
	}

	processed, err := newTestDispatcher(store, &staticRecipients{ids: []string{"u1", "u2", "u3"}}).Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Len(t, store.notifications, 2)
	assert.True(t, store.processed("e1"))
}

func TestDrainLeavesEventPendingWhenRecipientsFail(t *testing.T) {
	store := &fakeStore{events: []models.WeldEvent{newEvent("e1", "PN-1", "crack")}}
	recipients := &staticRecipients{err: errors.New("users table locked")}
	dispatcher := newTestDispatcher(store, recipients)

	processed, err := dispatcher.Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.False(t, store.processed("e1"))
	assert.Equal(t, 1, store.events[0].Attempts)
	require.NotNil(t, store.events[0].LastError)
	assert.Equal(t, "users table locked", *store.events[0].LastError)

	recipients.err = nil
	recipients.ids = []string{"u1"}
	processed, err = dispatcher.Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.True(t, store.processed("e1"))
	assert.Len(t, store.notifications, 1)
}

func TestDrainWithNoUsersStillCompletesEvent(t *testing.T) {
	store := &fakeStore{events: []models.WeldEvent{newEvent("e1", "PN-1", "crack")}}

	processed, err := newTestDispatcher(store, &staticRecipients{ids: []string{}}).Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Empty(t, store.notifications)
}

func TestDrainWorksThroughSeveralBatches(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 5; i++ {
		store.events = append(store.events, newEvent(fmt.Sprintf("e%d", i), fmt.Sprintf("PN-%d", i), "r"))
	}

	processed, err := newTestDispatcher(store, &staticRecipients{ids: []string{"u1", "u2"}}).Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, processed)
	assert.Len(t, store.notifications, 10)
}

func TestRunDrainsOnNotify(t *testing.T) {
	store := &fakeStore{}
	dispatcher := newTestDispatcher(store, &staticRecipients{ids: []string{"u1", "u2"}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(done)
	}()

	store.mu.Lock()
	store.events = append(store.events, newEvent("e1", "PN-9", "spatter"))
	store.mu.Unlock()
	dispatcher.Notify()

	assert.Eventually(t, func() bool { return store.processed("e1") }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, store.notificationCount())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}
}

func TestNotifyNeverBlocks(t *testing.T) {
	dispatcher := newTestDispatcher(&fakeStore{}, &staticRecipients{})

	for i := 0; i < 100; i++ {
		dispatcher.Notify()
	}

	assert.Len(t, dispatcher.wake, 1)
}
