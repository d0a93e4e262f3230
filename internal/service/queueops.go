package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/Kerhoff/QueueboT/internal/models"
)

// DefaultQueueTTL is the lifetime of a queue created without -h.
const DefaultQueueTTL = 24 * time.Hour

// CreateQueue creates a named queue and posts its message. Creating a
// queue whose name already exists is a success: the existing queue's
// message is re-posted and its schedule is left untouched.
func (s *Service) CreateQueue(ctx context.Context, ac ActionContext, name string, ttl time.Duration) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	existing, err := s.Chats.GetQueueByName(ctx, ac.ChatID, name)
	if err == nil {
		ac.QueueID, ac.QueueName = existing.ID, existing.Name
		s.actionLog(ac, "queue_exists").Info("Queue already exists, refreshing its message")
		return s.msg.SendQueue(ctx, ac.ChatID, existing)
	}
	if !errors.Is(err, models.ErrChatNotFound) && !errors.Is(err, models.ErrQueueNotFound) {
		return fmt.Errorf("create queue: %w", err)
	}

	queueID, err := s.Chats.CreateQueue(ctx, ac.ChatID, ac.ChatTitle, name)
	if err != nil {
		return fmt.Errorf("create queue: %w", err)
	}
	ac.QueueID, ac.QueueName = queueID, name

	q, err := s.Chats.GetQueue(ctx, ac.ChatID, queueID)
	if err != nil {
		return fmt.Errorf("create queue: %w", err)
	}

	if err := s.msg.SendQueue(ctx, ac.ChatID, q); err != nil {
		// State is already persisted; the render is dropped.
		s.actionLog(ac, "queue_created").Errorf("Failed to post queue message: %v", err)
	}

	if err := s.Expirations.Schedule(ctx, ac.ChatID, queueID, ttl); err != nil {
		s.actionLog(ac, "queue_created").Errorf("Failed to schedule expiration: %v", err)
	}

	s.actionLog(ac, "queue_created").Infof("Queue created with TTL %s", ttl)
	return nil
}

// Join appends the actor to the queue. A member already present is
// reported back; a placeholder with the actor's display name is claimed
// by attaching the user id instead.
func (s *Service) Join(ctx context.Context, ac ActionContext, queueID string, triggerMessageID int) error {
	name, err := s.ResolveDisplayName(ctx, ac.Actor, ac.ChatID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueue(ctx, ac.ChatID, queueID)
	if err != nil {
		return err
	}
	ac.QueueName = q.Name

	incoming := models.Member{UserID: &ac.Actor.ID, DisplayName: name}
	for i, m := range q.Members {
		if !m.Same(incoming) {
			continue
		}
		if m.UserID == nil {
			// Admin-inserted placeholder: first platform interaction
			// under this name attaches the user id.
			q.Members[i].UserID = &ac.Actor.ID
			if err := s.Chats.UpdateMembers(ctx, ac.ChatID, queueID, q.Members); err != nil {
				return fmt.Errorf("join queue: %w", err)
			}
			s.actionLog(ac, "member_claimed").Infof("%s claimed placeholder at position %d", name, i+1)
			return s.msg.EditQueue(ctx, ac.ChatID, q, triggerMessageID)
		}
		return fmt.Errorf("%s: %w", name, models.ErrUserAlreadyExists)
	}

	if err := s.Chats.AddMember(ctx, ac.ChatID, queueID, incoming); err != nil {
		return fmt.Errorf("join queue: %w", err)
	}
	q.Members = append(q.Members, incoming)

	s.actionLog(ac, "member_joined").Infof("%s joined at position %d", name, len(q.Members))
	return s.msg.EditQueue(ctx, ac.ChatID, q, triggerMessageID)
}

// Leave removes the actor from the queue, matching by user id first and
// by resolved display name for unclaimed placeholders.
func (s *Service) Leave(ctx context.Context, ac ActionContext, queueID string, triggerMessageID int) error {
	name, err := s.ResolveDisplayName(ctx, ac.Actor, ac.ChatID)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueue(ctx, ac.ChatID, queueID)
	if err != nil {
		return err
	}
	ac.QueueName = q.Name

	removed, pos, err := q.RemoveByUserID(ac.Actor.ID)
	if errors.Is(err, models.ErrUserNotFound) {
		removed, pos, err = q.RemoveByName(name)
	}
	if err != nil {
		return err
	}

	if err := s.Chats.UpdateMembers(ctx, ac.ChatID, queueID, q.Members); err != nil {
		return fmt.Errorf("leave queue: %w", err)
	}

	s.actionLog(ac, "member_left").Infof("%s left position %d", removed, pos)
	return s.msg.EditQueue(ctx, ac.ChatID, q, triggerMessageID)
}

// InsertMember places a participant by display name at an optional
// 1-based position; an existing entry with the same identity is moved.
// Admin-inserted entries carry no user id until claimed.
func (s *Service) InsertMember(ctx context.Context, ac ActionContext, queueName, userName string, position *int) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueueByName(ctx, ac.ChatID, queueName)
	if err != nil {
		return err
	}
	ac.QueueID, ac.QueueName = q.ID, q.Name

	var desired *int
	if position != nil {
		p := *position - 1
		desired = &p
	}
	oldPos, newPos := q.Insert(userName, desired, nil)

	if err := s.Chats.UpdateMembers(ctx, ac.ChatID, q.ID, q.Members); err != nil {
		return fmt.Errorf("insert member: %w", err)
	}

	if oldPos > 0 {
		s.msg.SendEphemeral(ac.ChatID, fmt.Sprintf("↕️ %s moved from position %d to %d.", userName, oldPos, newPos))
		s.actionLog(ac, "member_moved").Infof("%s moved %d -> %d", userName, oldPos, newPos)
	} else {
		s.actionLog(ac, "member_inserted").Infof("%s inserted at position %d", userName, newPos)
	}
	return s.msg.EditQueue(ctx, ac.ChatID, q, 0)
}

// RemoveMember removes a participant addressed either by 1-based
// position or by display name.
func (s *Service) RemoveMember(ctx context.Context, ac ActionContext, queueName, target string) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueueByName(ctx, ac.ChatID, queueName)
	if err != nil {
		return err
	}
	ac.QueueID, ac.QueueName = q.ID, q.Name

	var removed string
	var pos int
	if n, convErr := strconv.Atoi(target); convErr == nil {
		removed, pos, err = q.RemoveByPosition(n - 1)
	} else {
		removed, pos, err = q.RemoveByName(target)
	}
	if err != nil {
		return err
	}

	if err := s.Chats.UpdateMembers(ctx, ac.ChatID, q.ID, q.Members); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	s.actionLog(ac, "member_removed").Infof("%s removed from position %d", removed, pos)
	return s.msg.EditQueue(ctx, ac.ChatID, q, 0)
}

// Replace swaps two members addressed either both by 1-based positions
// or both by display names.
func (s *Service) Replace(ctx context.Context, ac ActionContext, queueName, arg1, arg2 string) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueueByName(ctx, ac.ChatID, queueName)
	if err != nil {
		return err
	}
	ac.QueueID, ac.QueueName = q.ID, q.Name

	var res models.SwapResult
	n1, err1 := strconv.Atoi(arg1)
	n2, err2 := strconv.Atoi(arg2)
	if err1 == nil && err2 == nil {
		res, err = q.SwapByPosition(n1-1, n2-1)
	} else {
		res, err = q.SwapByName(arg1, arg2)
	}
	if err != nil {
		return err
	}

	if err := s.Chats.UpdateMembers(ctx, ac.ChatID, q.ID, q.Members); err != nil {
		return fmt.Errorf("replace members: %w", err)
	}

	s.actionLog(ac, "members_swapped").Infof("%s (%d) <-> %s (%d)", res.Name1, res.Pos1, res.Name2, res.Pos2)
	return s.msg.EditQueue(ctx, ac.ChatID, q, 0)
}

// Rename changes a queue's name; the id stays stable, so displayed
// keyboards keep working.
func (s *Service) Rename(ctx context.Context, ac ActionContext, oldName, newName string) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueueByName(ctx, ac.ChatID, oldName)
	if err != nil {
		return err
	}
	if _, err := s.Chats.GetQueueByName(ctx, ac.ChatID, newName); err == nil {
		return fmt.Errorf("%q: %w", newName, models.ErrQueueAlreadyExists)
	}
	ac.QueueID, ac.QueueName = q.ID, newName

	if err := s.Chats.RenameQueue(ctx, ac.ChatID, q.ID, newName); err != nil {
		return fmt.Errorf("rename queue: %w", err)
	}
	q.Name = newName

	s.actionLog(ac, "queue_renamed").Infof("Queue renamed from %q to %q", oldName, newName)
	return s.msg.EditQueue(ctx, ac.ChatID, q, 0)
}

// SetDescription sets or clears the free-form text shown above the queue.
func (s *Service) SetDescription(ctx context.Context, ac ActionContext, queueName, description string) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueueByName(ctx, ac.ChatID, queueName)
	if err != nil {
		return err
	}
	ac.QueueID, ac.QueueName = q.ID, q.Name

	if err := s.Chats.SetQueueDescription(ctx, ac.ChatID, q.ID, description); err != nil {
		return fmt.Errorf("set description: %w", err)
	}
	q.Description = description

	s.actionLog(ac, "description_set").Info("Queue description updated")
	return s.msg.EditQueue(ctx, ac.ChatID, q, 0)
}

// SetExpireTime replaces the queue's remaining lifetime.
func (s *Service) SetExpireTime(ctx context.Context, ac ActionContext, queueName string, ttl time.Duration) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueueByName(ctx, ac.ChatID, queueName)
	if err != nil {
		return err
	}
	ac.QueueID, ac.QueueName = q.ID, q.Name

	if err := s.Expirations.Reschedule(ctx, ac.ChatID, q.ID, ttl); err != nil {
		return fmt.Errorf("set expire time: %w", err)
	}

	s.msg.SendEphemeral(ac.ChatID, fmt.Sprintf("⏳ `%s` now expires in %s.", q.Name, ttl))
	s.actionLog(ac, "expiration_set").Infof("Queue TTL set to %s", ttl)
	return nil
}

// RefreshQueue re-renders the queue message on demand.
func (s *Service) RefreshQueue(ctx context.Context, ac ActionContext, queueID string, triggerMessageID int) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueue(ctx, ac.ChatID, queueID)
	if err != nil {
		return err
	}
	ac.QueueName = q.Name
	return s.msg.EditQueue(ctx, ac.ChatID, q, triggerMessageID)
}

// DeleteQueueByID removes one queue, its displayed message, and its
// expiration schedule.
func (s *Service) DeleteQueueByID(ctx context.Context, ac ActionContext, queueID string) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()
	return s.deleteQueueLocked(ctx, ac, queueID)
}

// DeleteQueueByName is DeleteQueueByID addressed by name.
func (s *Service) DeleteQueueByName(ctx context.Context, ac ActionContext, queueName string) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	q, err := s.Chats.GetQueueByName(ctx, ac.ChatID, queueName)
	if err != nil {
		return err
	}
	return s.deleteQueueLocked(ctx, ac, q.ID)
}

func (s *Service) deleteQueueLocked(ctx context.Context, ac ActionContext, queueID string) error {
	q, err := s.Chats.GetQueue(ctx, ac.ChatID, queueID)
	if err != nil {
		return err
	}
	ac.QueueID, ac.QueueName = q.ID, q.Name

	if q.LastQueueMessageID != nil {
		s.msg.DeleteMessage(ac.ChatID, *q.LastQueueMessageID)
	}
	s.Expirations.CancelTask(ac.ChatID, queueID)

	if err := s.Chats.DeleteQueue(ctx, ac.ChatID, queueID); err != nil {
		return fmt.Errorf("delete queue: %w", err)
	}

	s.actionLog(ac, "queue_deleted").Info("Queue deleted")
	return nil
}

// DeleteAllQueues removes every queue of the chat and hides the list
// menu, collecting per-queue failures instead of stopping at the first.
func (s *Service) DeleteAllQueues(ctx context.Context, ac ActionContext) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	chat, err := s.Chats.GetChat(ctx, ac.ChatID)
	if err != nil {
		return err
	}

	var errs *multierror.Error
	for queueID := range chat.Queues {
		if err := s.deleteQueueLocked(ctx, ac, queueID); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if chat.LastListMessageID != nil {
		s.msg.DeleteMessage(ac.ChatID, *chat.LastListMessageID)
	}

	s.actionLog(ac, "all_queues_deleted").Infof("Deleted %d queues", len(chat.Queues))
	return errs.ErrorOrNil()
}

// ShowQueueList displays the queues-list menu.
func (s *Service) ShowQueueList(ctx context.Context, ac ActionContext, triggerMessageID int) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()

	chat, err := s.Chats.GetChat(ctx, ac.ChatID)
	if err != nil {
		return err
	}
	return s.msg.ShowList(ctx, chat, triggerMessageID)
}

// HideQueueList deletes the queues-list menu message.
func (s *Service) HideQueueList(ctx context.Context, ac ActionContext) error {
	unlock := s.locks.Lock(ac.ChatID)
	defer unlock()
	return s.msg.HideList(ctx, ac.ChatID)
}
