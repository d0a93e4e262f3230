package models

import "fmt"

// The mutations below are pure in-memory list operations: no I/O, no
// logging, no clock. Positions returned to callers are 1-based because
// that is what users see; positions accepted as arguments are 0-based.

// Insert places a member into the queue. If a member with the same
// identity already exists it is removed first and its prior 1-based
// position is returned as oldPos (0 when the member is new). A nil
// desiredPos appends; otherwise desiredPos is clamped into [0, len].
func (q *Queue) Insert(name string, desiredPos *int, userID *int64) (oldPos, newPos int) {
	incoming := Member{UserID: userID, DisplayName: name}

	for i, m := range q.Members {
		if m.Same(incoming) {
			oldPos = i + 1
			// A placeholder matched by name keeps its id once known.
			if incoming.UserID == nil && m.UserID != nil {
				incoming.UserID = m.UserID
			}
			q.Members = append(q.Members[:i], q.Members[i+1:]...)
			break
		}
	}

	pos := len(q.Members)
	if desiredPos != nil {
		pos = *desiredPos
		if pos < 0 {
			pos = 0
		}
		if pos > len(q.Members) {
			pos = len(q.Members)
		}
	}

	q.Members = append(q.Members, Member{})
	copy(q.Members[pos+1:], q.Members[pos:])
	q.Members[pos] = incoming
	return oldPos, pos + 1
}

// RemoveByName removes the member with the given display name and
// returns its stored name and 1-based position.
func (q *Queue) RemoveByName(name string) (string, int, error) {
	if len(q.Members) == 0 {
		return "", 0, ErrMembersEmpty
	}
	for i, m := range q.Members {
		if m.DisplayName == name {
			q.Members = append(q.Members[:i], q.Members[i+1:]...)
			return m.DisplayName, i + 1, nil
		}
	}
	return "", 0, fmt.Errorf("%q: %w", name, ErrUserNotFound)
}

// RemoveByUserID removes the member with the given user id and returns
// its display name and 1-based position.
func (q *Queue) RemoveByUserID(userID int64) (string, int, error) {
	if len(q.Members) == 0 {
		return "", 0, ErrMembersEmpty
	}
	for i, m := range q.Members {
		if m.UserID != nil && *m.UserID == userID {
			q.Members = append(q.Members[:i], q.Members[i+1:]...)
			return m.DisplayName, i + 1, nil
		}
	}
	return "", 0, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
}

// RemoveByPosition removes the member at the 0-based position and
// returns its display name and 1-based position.
func (q *Queue) RemoveByPosition(pos int) (string, int, error) {
	if len(q.Members) == 0 {
		return "", 0, ErrMembersEmpty
	}
	if pos < 0 || pos >= len(q.Members) {
		return "", 0, fmt.Errorf("position %d of %d: %w", pos+1, len(q.Members), ErrInvalidPosition)
	}
	name := q.Members[pos].DisplayName
	q.Members = append(q.Members[:pos], q.Members[pos+1:]...)
	return name, pos + 1, nil
}

// SwapResult reports a committed position exchange, 1-based.
type SwapResult struct {
	Pos1, Pos2   int
	Name1, Name2 string
}

// SwapByPosition exchanges the members at two 0-based positions. Equal
// positions are a hard error so callers surface feedback instead of
// silently doing nothing.
func (q *Queue) SwapByPosition(pos1, pos2 int) (SwapResult, error) {
	if pos1 == pos2 || pos1 < 0 || pos2 < 0 || pos1 >= len(q.Members) || pos2 >= len(q.Members) {
		return SwapResult{}, fmt.Errorf("positions %d, %d of %d: %w", pos1+1, pos2+1, len(q.Members), ErrInvalidPosition)
	}
	q.Members[pos1], q.Members[pos2] = q.Members[pos2], q.Members[pos1]
	return SwapResult{
		Pos1:  pos1 + 1,
		Pos2:  pos2 + 1,
		Name1: q.Members[pos1].DisplayName,
		Name2: q.Members[pos2].DisplayName,
	}, nil
}

// SwapByName exchanges the members carrying the two display names.
func (q *Queue) SwapByName(name1, name2 string) (SwapResult, error) {
	pos1, pos2 := -1, -1
	for i, m := range q.Members {
		switch m.DisplayName {
		case name1:
			pos1 = i
		case name2:
			pos2 = i
		}
	}
	if pos1 < 0 {
		return SwapResult{}, fmt.Errorf("%q: %w", name1, ErrUserNotFound)
	}
	if pos2 < 0 {
		return SwapResult{}, fmt.Errorf("%q: %w", name2, ErrUserNotFound)
	}
	return q.SwapByPosition(pos1, pos2)
}

// PositionOf returns the 0-based position of the member with the given
// user id, or -1.
func (q *Queue) PositionOf(userID int64) int {
	for i, m := range q.Members {
		if m.UserID != nil && *m.UserID == userID {
			return i
		}
	}
	return -1
}
