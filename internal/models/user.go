package models

import (
	"strconv"
	"strings"
)

// GlobalScope is the reserved key in DisplayNames holding the user's
// cross-chat override. Per-chat overrides are keyed by the decimal chat id,
// which can never collide with it.
const GlobalScope = "global"

// UserProfile stores a Telegram user's handle snapshot and their display
// name overrides.
type UserProfile struct {
	UserID       int64             `json:"user_id" bson:"user_id"`
	Username     string            `json:"username" bson:"username"`
	DisplayNames map[string]string `json:"display_names" bson:"display_names"`
}

// Actor identifies the Telegram user who triggered an action, with the
// profile fields needed to derive a display name.
type Actor struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// FullName returns "last first" trimmed, the derived-name step of the
// display name resolution chain.
func (a Actor) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.LastName) + " " + strings.TrimSpace(a.FirstName))
}

// ResolveDisplayName picks the display name for an actor in a chat:
// chat-specific override, then global override, then derived full name,
// then platform handle, then the decimal user id.
func ResolveDisplayName(profile *UserProfile, actor Actor, chatID int64) string {
	if profile != nil {
		if name := profile.DisplayNames[strconv.FormatInt(chatID, 10)]; name != "" {
			return name
		}
		if name := profile.DisplayNames[GlobalScope]; name != "" {
			return name
		}
	}
	if name := actor.FullName(); name != "" {
		return name
	}
	if actor.Username != "" {
		return actor.Username
	}
	return strconv.FormatInt(actor.ID, 10)
}
