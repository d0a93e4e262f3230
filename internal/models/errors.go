package models

import "errors"

// Typed failures for queue operations. Handlers classify these with
// errors.Is and turn them into short user-visible messages; anything
// that does not match is treated as internal and only logged.
var (
	ErrChatNotFound       = errors.New("chat not found")
	ErrQueueNotFound      = errors.New("queue not found")
	ErrQueueAlreadyExists = errors.New("queue already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already in queue")
	ErrInvalidPosition    = errors.New("invalid position")
	ErrMembersEmpty       = errors.New("queue is empty")
	ErrSwapNotFound       = errors.New("swap request not found")
	ErrSwapPermission     = errors.New("swap response not allowed for this user")
)

// IsUserError reports whether err should be surfaced to the triggering
// user rather than swallowed as an internal failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrChatNotFound, ErrQueueNotFound, ErrQueueAlreadyExists,
		ErrUserNotFound, ErrUserAlreadyExists, ErrInvalidPosition,
		ErrMembersEmpty, ErrSwapNotFound, ErrSwapPermission,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
