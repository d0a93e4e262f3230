package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"github.com/Kerhoff/QueueboT/internal/metrics"
	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/repository"
)

// graceWindow is the activity window that defers deletion: a queue
// modified within the last hour gets another hour of life per burst.
const (
	graceWindow    = time.Hour
	graceExtension = time.Hour
)

type expirationTask struct {
	timer *time.Timer
	runAt time.Time
}

// ExpirationScheduler keeps one delayed deletion task per queue, keyed
// "delete_<chat>_<queue>". All comparisons run in UTC; wall-clock jumps
// shift firing by the jump magnitude and nothing more.
type ExpirationScheduler struct {
	mu    sync.Mutex
	tasks map[string]*expirationTask

	repo   repository.ChatRepository
	locks  ChatLocker
	msg    Messenger
	logger *logrus.Logger
	fired  atomic.Int64
}

// NewExpirationScheduler creates an empty scheduler.
func NewExpirationScheduler(repo repository.ChatRepository, locks ChatLocker, msg Messenger, logger *logrus.Logger) *ExpirationScheduler {
	return &ExpirationScheduler{
		tasks:  make(map[string]*expirationTask),
		repo:   repo,
		locks:  locks,
		msg:    msg,
		logger: logger,
	}
}

func taskKey(chatID int64, queueID string) string {
	return fmt.Sprintf("delete_%d_%s", chatID, queueID)
}

// Schedule persists the queue's expiration instant and (re)registers the
// delayed deletion task.
func (s *ExpirationScheduler) Schedule(ctx context.Context, chatID int64, queueID string, ttl time.Duration) error {
	expiresAt := time.Now().UTC().Add(ttl)
	if err := s.repo.SetQueueExpiration(ctx, chatID, queueID, expiresAt); err != nil {
		return err
	}
	s.register(chatID, queueID, ttl)
	return nil
}

// Reschedule cancels the current task and schedules anew.
func (s *ExpirationScheduler) Reschedule(ctx context.Context, chatID int64, queueID string, ttl time.Duration) error {
	s.CancelTask(chatID, queueID)
	return s.Schedule(ctx, chatID, queueID, ttl)
}

// Cancel removes the task and clears the persisted expiration.
func (s *ExpirationScheduler) Cancel(ctx context.Context, chatID int64, queueID string) error {
	s.CancelTask(chatID, queueID)
	return s.repo.ClearQueueExpiration(ctx, chatID, queueID)
}

// CancelTask removes only the in-memory task. A task already running
// completes its current run.
func (s *ExpirationScheduler) CancelTask(chatID int64, queueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if task, ok := s.tasks[taskKey(chatID, queueID)]; ok {
		task.timer.Stop()
		delete(s.tasks, taskKey(chatID, queueID))
		metrics.ScheduledExpirations.Set(float64(len(s.tasks)))
	}
}

// Remaining reports how long the queue has left: the minimum of the
// scheduled next run and the persisted expiration, never negative.
func (s *ExpirationScheduler) Remaining(ctx context.Context, chatID int64, queueID string) (time.Duration, error) {
	now := time.Now().UTC()
	remaining := time.Duration(-1)

	s.mu.Lock()
	if task, ok := s.tasks[taskKey(chatID, queueID)]; ok {
		remaining = task.runAt.Sub(now)
	}
	s.mu.Unlock()

	expiresAt, err := s.repo.GetQueueExpiration(ctx, chatID, queueID)
	if err != nil {
		return 0, err
	}
	if expiresAt != nil {
		if d := expiresAt.Sub(now); remaining < 0 || d < remaining {
			remaining = d
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// RestoreAll rebuilds the task table from persisted state on startup.
// Queues whose expiration already passed are scheduled for an immediate
// run, so the grace rule still decides their fate.
func (s *ExpirationScheduler) RestoreAll(ctx context.Context) error {
	chats, err := s.repo.GetAllChats(ctx)
	if err != nil {
		return fmt.Errorf("restore expirations: %w", err)
	}

	restored := 0
	for _, chat := range chats {
		for queueID, q := range chat.Queues {
			if q.Expiration == nil {
				continue
			}
			ttl := time.Until(*q.Expiration)
			if ttl < 0 {
				ttl = 0
			}
			s.register(chat.ChatID, queueID, ttl)
			restored++
		}
	}

	s.logger.Infof("Restored %d expiration tasks", restored)
	return nil
}

// StopAll stops every timer. Used on shutdown; persisted expirations are
// untouched and will be restored on the next start.
func (s *ExpirationScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, task := range s.tasks {
		task.timer.Stop()
		delete(s.tasks, key)
	}
	metrics.ScheduledExpirations.Set(0)
}

// FiredCount returns the number of deletion runs executed since start.
func (s *ExpirationScheduler) FiredCount() int64 {
	return s.fired.Load()
}

// ActiveCount returns the number of currently armed expiration timers.
func (s *ExpirationScheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *ExpirationScheduler) register(chatID int64, queueID string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := taskKey(chatID, queueID)
	if task, ok := s.tasks[key]; ok {
		task.timer.Stop()
	}
	s.tasks[key] = &expirationTask{
		runAt: time.Now().UTC().Add(ttl),
		timer: time.AfterFunc(ttl, func() { s.run(chatID, queueID) }),
	}
	metrics.ScheduledExpirations.Set(float64(len(s.tasks)))
}

// run executes one deletion attempt under the chat lock: a queue active
// within the grace window is deferred, anything else is deleted.
func (s *ExpirationScheduler) run(chatID int64, queueID string) {
	ctx := context.Background()
	s.fired.Inc()

	unlock := s.locks.Lock(chatID)
	defer unlock()

	s.mu.Lock()
	delete(s.tasks, taskKey(chatID, queueID))
	metrics.ScheduledExpirations.Set(float64(len(s.tasks)))
	s.mu.Unlock()

	q, err := s.repo.GetQueue(ctx, chatID, queueID)
	if err != nil {
		if errors.Is(err, models.ErrChatNotFound) || errors.Is(err, models.ErrQueueNotFound) {
			// Deleted manually while the task was pending.
			return
		}
		s.logger.Errorf("Expiration run for chat %d queue %s failed: %v", chatID, queueID, err)
		return
	}

	if time.Since(q.LastModified) < graceWindow {
		if err := s.Schedule(ctx, chatID, queueID, graceExtension); err != nil {
			s.logger.Errorf("Failed to extend queue %s in chat %d: %v", queueID, chatID, err)
			return
		}
		s.logger.WithFields(logrus.Fields{
			"chat_id": chatID,
			"queue":   q.Name,
			"event":   "expiration_deferred",
		}).Info("Queue active within grace window, deferring deletion")
		return
	}

	if q.LastQueueMessageID != nil {
		s.msg.DeleteMessage(chatID, *q.LastQueueMessageID)
	}
	if err := s.repo.DeleteQueue(ctx, chatID, queueID); err != nil {
		s.logger.Errorf("Failed to delete expired queue %s in chat %d: %v", queueID, chatID, err)
		return
	}

	metrics.ExpiredQueuesTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"queue":   q.Name,
		"event":   "queue_expired",
	}).Info("Queue expired and deleted")
}
