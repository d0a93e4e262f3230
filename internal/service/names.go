package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Kerhoff/QueueboT/internal/models"
)

// ResolveDisplayName returns the name shown for the actor in the given
// chat, syncing the handle snapshot as a side effect so the stored
// profile never goes stale.
func (s *Service) ResolveDisplayName(ctx context.Context, actor models.Actor, chatID int64) (string, error) {
	profile, err := s.Users.EnsureProfile(ctx, actor.ID, actor.Username)
	if err != nil {
		return "", fmt.Errorf("resolve display name: %w", err)
	}
	return models.ResolveDisplayName(profile, actor, chatID), nil
}

// SetNickname writes or clears the actor's per-chat display name
// override. An empty name clears the override.
func (s *Service) SetNickname(ctx context.Context, ac ActionContext, name string) error {
	if _, err := s.Users.EnsureProfile(ctx, ac.Actor.ID, ac.Actor.Username); err != nil {
		return err
	}
	scope := strconv.FormatInt(ac.ChatID, 10)
	if err := s.Users.SetDisplayName(ctx, ac.Actor.ID, scope, name); err != nil {
		return err
	}
	s.actionLog(ac, "nickname_set").Infof("Chat nickname set to %q", name)
	return nil
}

// SetGlobalNickname writes or clears the actor's cross-chat display name
// override. With the override cleared, resolution falls back to the
// derived full name.
func (s *Service) SetGlobalNickname(ctx context.Context, ac ActionContext, name string) error {
	if _, err := s.Users.EnsureProfile(ctx, ac.Actor.ID, ac.Actor.Username); err != nil {
		return err
	}
	if err := s.Users.SetDisplayName(ctx, ac.Actor.ID, models.GlobalScope, name); err != nil {
		return err
	}
	s.actionLog(ac, "nickname_global_set").Infof("Global nickname set to %q", name)
	return nil
}
