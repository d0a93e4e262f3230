package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/QueueboT/internal/metrics"
	"github.com/Kerhoff/QueueboT/internal/models"
	"github.com/Kerhoff/QueueboT/internal/repository"
)

// swapTTL is how long a swap request waits for the target's response.
const swapTTL = 120 * time.Second

// SwapRequest is a transient two-party agreement to exchange positions.
// Requests live only in memory; a restart discards them.
type SwapRequest struct {
	ID            string
	ChatID        int64
	QueueID       string
	RequesterID   int64
	RequesterName string
	TargetID      int64
	TargetName    string
	Deadline      time.Time
	MessageID     int

	timer *time.Timer
}

// SwapService keeps the process-wide table of pending swap requests.
type SwapService struct {
	mu       sync.Mutex
	requests map[string]*SwapRequest

	repo   repository.ChatRepository
	locks  ChatLocker
	msg    Messenger
	logger *logrus.Logger
}

// NewSwapService creates an empty swap table.
func NewSwapService(repo repository.ChatRepository, locks ChatLocker, msg Messenger, logger *logrus.Logger) *SwapService {
	return &SwapService{
		requests: make(map[string]*SwapRequest),
		repo:     repo,
		locks:    locks,
		msg:      msg,
		logger:   logger,
	}
}

// Pending returns the number of requests awaiting a response.
func (s *SwapService) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Request creates a swap request from the actor towards another queue
// member and posts the confirmation prompt. Both parties must be in the
// queue and distinct.
func (s *SwapService) Request(ctx context.Context, ac ActionContext, queueID string, targetID int64) (*SwapRequest, error) {
	if ac.Actor.ID == targetID {
		return nil, fmt.Errorf("cannot swap with oneself: %w", models.ErrInvalidPosition)
	}

	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.repo.GetQueue(ctx, ac.ChatID, queueID)
	if err != nil {
		return nil, err
	}

	requesterPos := q.PositionOf(ac.Actor.ID)
	if requesterPos < 0 {
		return nil, fmt.Errorf("requester: %w", models.ErrUserNotFound)
	}
	targetPos := q.PositionOf(targetID)
	if targetPos < 0 {
		return nil, fmt.Errorf("target: %w", models.ErrUserNotFound)
	}

	req := &SwapRequest{
		ID:            strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		ChatID:        ac.ChatID,
		QueueID:       queueID,
		RequesterID:   ac.Actor.ID,
		RequesterName: q.Members[requesterPos].DisplayName,
		TargetID:      targetID,
		TargetName:    q.Members[targetPos].DisplayName,
		Deadline:      time.Now().UTC().Add(swapTTL),
	}

	messageID, err := s.msg.ShowSwapPrompt(ctx, ac.ChatID, q, req.ID, req.RequesterName, req.TargetName)
	if err != nil {
		return nil, fmt.Errorf("swap request: %w", err)
	}
	req.MessageID = messageID
	req.timer = time.AfterFunc(swapTTL, func() { s.expire(req.ID) })

	s.mu.Lock()
	s.requests[req.ID] = req
	metrics.PendingSwaps.Set(float64(len(s.requests)))
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"chat_id": ac.ChatID,
		"queue":   q.Name,
		"actor":   ac.Actor.Username,
		"event":   "swap_requested",
	}).Infof("%s asked %s to swap", req.RequesterName, req.TargetName)
	return req, nil
}

// Respond resolves a request. Only the target may respond; anyone else
// gets a permission error and the request stays pending. On accept the
// queue is re-read under the chat lock, so the swap either commits
// against a consistent queue or fails without partial effect.
func (s *SwapService) Respond(ctx context.Context, swapID string, by models.Actor, accept bool) error {
	s.mu.Lock()
	req, ok := s.requests[swapID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("swap %s: %w", swapID, models.ErrSwapNotFound)
	}
	if by.ID != req.TargetID {
		s.mu.Unlock()
		return models.ErrSwapPermission
	}
	delete(s.requests, swapID)
	metrics.PendingSwaps.Set(float64(len(s.requests)))
	s.mu.Unlock()

	req.timer.Stop()

	if !accept {
		s.msg.DeleteMessage(req.ChatID, req.MessageID)
		s.logger.WithFields(logrus.Fields{
			"chat_id": req.ChatID,
			"event":   "swap_declined",
		}).Infof("%s declined the swap with %s", req.TargetName, req.RequesterName)
		return nil
	}

	unlock := s.locks.Lock(req.ChatID)
	defer unlock()

	q, err := s.repo.GetQueue(ctx, req.ChatID, req.QueueID)
	if err != nil {
		s.msg.DeleteMessage(req.ChatID, req.MessageID)
		return err
	}

	pos1 := q.PositionOf(req.RequesterID)
	pos2 := q.PositionOf(req.TargetID)
	if pos1 < 0 || pos2 < 0 {
		s.msg.DeleteMessage(req.ChatID, req.MessageID)
		return fmt.Errorf("swap participant left the queue: %w", models.ErrUserNotFound)
	}

	res, err := q.SwapByPosition(pos1, pos2)
	if err != nil {
		s.msg.DeleteMessage(req.ChatID, req.MessageID)
		return err
	}
	if err := s.repo.UpdateMembers(ctx, req.ChatID, req.QueueID, q.Members); err != nil {
		s.msg.DeleteMessage(req.ChatID, req.MessageID)
		return fmt.Errorf("swap commit: %w", err)
	}

	if err := s.msg.EditQueue(ctx, req.ChatID, q, 0); err != nil {
		s.logger.Errorf("Failed to re-render queue after swap: %v", err)
	}
	s.msg.DeleteMessage(req.ChatID, req.MessageID)

	s.logger.WithFields(logrus.Fields{
		"chat_id": req.ChatID,
		"queue":   q.Name,
		"event":   "swap_committed",
	}).Infof("%s (%d) <-> %s (%d)", res.Name1, res.Pos1, res.Name2, res.Pos2)
	return nil
}

// expire drops a request on deadline. A manual response racing with the
// deadline wins: both paths re-acquire the request by id first and a
// second delete is a no-op.
func (s *SwapService) expire(swapID string) {
	s.mu.Lock()
	req, ok := s.requests[swapID]
	if ok {
		delete(s.requests, swapID)
		metrics.PendingSwaps.Set(float64(len(s.requests)))
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	unlock := s.locks.Lock(req.ChatID)
	defer unlock()

	s.msg.DeleteMessage(req.ChatID, req.MessageID)
	s.logger.WithFields(logrus.Fields{
		"chat_id": req.ChatID,
		"event":   "swap_expired",
	}).Infof("Swap request from %s to %s expired", req.RequesterName, req.TargetName)
}
