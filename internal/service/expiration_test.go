package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/QueueboT/internal/models"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestSchedule_PersistsExpiration(t *testing.T) {
	svc, chats, _, _ := newTestService()
	defer svc.Expirations.StopAll()
	ctx := context.Background()

	chats.seedQueue(1, &models.Queue{ID: "q1", Name: "Duty"})

	require.NoError(t, svc.Expirations.Schedule(ctx, 1, "q1", time.Hour))

	expiresAt, err := chats.GetQueueExpiration(ctx, 1, "q1")
	require.NoError(t, err)
	require.NotNil(t, expiresAt)

	remaining, err := svc.Expirations.Remaining(ctx, 1, "q1")
	require.NoError(t, err)
	require.InDelta(t, float64(time.Hour), float64(remaining), float64(time.Minute))
}

func TestCancel_ClearsTaskAndPersistedState(t *testing.T) {
	svc, chats, _, _ := newTestService()
	ctx := context.Background()

	chats.seedQueue(1, &models.Queue{ID: "q1", Name: "Duty"})
	require.NoError(t, svc.Expirations.Schedule(ctx, 1, "q1", time.Hour))

	require.NoError(t, svc.Expirations.Cancel(ctx, 1, "q1"))

	require.Equal(t, 0, svc.Expirations.ActiveCount())
	expiresAt, err := chats.GetQueueExpiration(ctx, 1, "q1")
	require.NoError(t, err)
	require.Nil(t, expiresAt)

	remaining, err := svc.Expirations.Remaining(ctx, 1, "q1")
	require.NoError(t, err)
	require.Zero(t, remaining)
}

func TestExpiration_DeletesIdleQueue(t *testing.T) {
	svc, chats, _, msg := newTestService()
	defer svc.Expirations.StopAll()
	ctx := context.Background()

	msgID := 77
	chats.seedQueue(1, &models.Queue{
		ID:                 "q1",
		Name:               "Duty",
		LastQueueMessageID: &msgID,
		LastModified:       time.Now().UTC().Add(-2 * time.Hour),
	})

	require.NoError(t, svc.Expirations.Schedule(ctx, 1, "q1", 10*time.Millisecond))

	waitFor(t, time.Second, func() bool {
		_, err := chats.GetChat(ctx, 1)
		return err != nil
	})
	require.Contains(t, msg.events(), "delete 77")
	require.EqualValues(t, 1, svc.Expirations.FiredCount())
}

func TestExpiration_GraceDefersActiveQueue(t *testing.T) {
	svc, chats, _, _ := newTestService()
	defer svc.Expirations.StopAll()
	ctx := context.Background()

	chats.seedQueue(1, &models.Queue{
		ID:           "q1",
		Name:         "Duty",
		LastModified: time.Now().UTC(),
	})

	require.NoError(t, svc.Expirations.Schedule(ctx, 1, "q1", 10*time.Millisecond))

	waitFor(t, time.Second, func() bool { return svc.Expirations.FiredCount() >= 1 })

	// The run fired but the queue was active within the grace window, so
	// it lives on with a fresh one-hour task.
	q, err := chats.GetQueue(ctx, 1, "q1")
	require.NoError(t, err)
	require.NotNil(t, q.Expiration)
	require.Equal(t, 1, svc.Expirations.ActiveCount())

	remaining, err := svc.Expirations.Remaining(ctx, 1, "q1")
	require.NoError(t, err)
	require.InDelta(t, float64(time.Hour), float64(remaining), float64(time.Minute))
}

func TestExpiration_ManualDeletionWinsRace(t *testing.T) {
	svc, chats, _, _ := newTestService()
	defer svc.Expirations.StopAll()
	ctx := context.Background()

	chats.seedQueue(1, &models.Queue{ID: "q1", Name: "Duty",
		LastModified: time.Now().UTC().Add(-2 * time.Hour)})
	require.NoError(t, svc.Expirations.Schedule(ctx, 1, "q1", 10*time.Millisecond))

	require.NoError(t, chats.DeleteQueue(ctx, 1, "q1"))

	waitFor(t, time.Second, func() bool { return svc.Expirations.FiredCount() >= 1 })
	// The run found nothing to delete and exited quietly.
	require.Equal(t, 0, svc.Expirations.ActiveCount())
}

func TestRestoreAll_RearmsPersistedExpirations(t *testing.T) {
	svc, chats, _, _ := newTestService()
	defer svc.Expirations.StopAll()
	ctx := context.Background()

	future := time.Now().UTC().Add(time.Hour)
	past := time.Now().UTC().Add(-time.Minute)
	chats.seedQueue(1, &models.Queue{ID: "q1", Name: "Duty", Expiration: &future,
		LastModified: time.Now().UTC().Add(-2 * time.Hour)})
	chats.seedQueue(1, &models.Queue{ID: "q2", Name: "Overdue", Expiration: &past,
		LastModified: time.Now().UTC().Add(-2 * time.Hour)})
	chats.seedQueue(1, &models.Queue{ID: "q3", Name: "Unscheduled"})

	require.NoError(t, svc.Expirations.RestoreAll(ctx))

	// q2 was already overdue and runs immediately; q1 stays armed; q3 has
	// no persisted expiration and is left alone.
	waitFor(t, time.Second, func() bool {
		_, err := chats.GetQueue(ctx, 1, "q2")
		return err != nil
	})
	require.Equal(t, 1, svc.Expirations.ActiveCount())

	_, err := chats.GetQueue(ctx, 1, "q1")
	require.NoError(t, err)
	_, err = chats.GetQueue(ctx, 1, "q3")
	require.NoError(t, err)
}
