package models

import (
	"errors"
	"testing"
)

func queueOf(names ...string) *Queue {
	q := &Queue{ID: "q1", Name: "Test"}
	for i, name := range names {
		id := int64(i + 1)
		q.Members = append(q.Members, Member{UserID: &id, DisplayName: name})
	}
	return q
}

func memberNames(q *Queue) []string {
	names := make([]string, len(q.Members))
	for i, m := range q.Members {
		names[i] = m.DisplayName
	}
	return names
}

func assertOrder(t *testing.T, q *Queue, want ...string) {
	t.Helper()
	got := memberNames(q)
	if len(got) != len(want) {
		t.Fatalf("expected members %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected members %v, got %v", want, got)
		}
	}
}

func TestInsert_AppendsByDefault(t *testing.T) {
	q := queueOf("Alice", "Bob")

	oldPos, newPos := q.Insert("Carol", nil, nil)
	if oldPos != 0 || newPos != 3 {
		t.Fatalf("expected oldPos=0 newPos=3, got %d, %d", oldPos, newPos)
	}
	assertOrder(t, q, "Alice", "Bob", "Carol")
}

func TestInsert_AtPosition(t *testing.T) {
	q := queueOf("Alice", "Bob", "Carol")

	pos := 1
	_, newPos := q.Insert("Dave", &pos, nil)
	if newPos != 2 {
		t.Fatalf("expected newPos=2, got %d", newPos)
	}
	assertOrder(t, q, "Alice", "Dave", "Bob", "Carol")
}

func TestInsert_ClampsOutOfRangePositions(t *testing.T) {
	q := queueOf("Alice", "Bob")

	low := -5
	_, newPos := q.Insert("First", &low, nil)
	if newPos != 1 {
		t.Fatalf("expected clamp to front, got position %d", newPos)
	}

	high := 99
	_, newPos = q.Insert("Last", &high, nil)
	if newPos != 4 {
		t.Fatalf("expected clamp to back, got position %d", newPos)
	}
	assertOrder(t, q, "First", "Alice", "Bob", "Last")
}

func TestInsert_MovesExistingMember(t *testing.T) {
	q := queueOf("Alice", "Bob", "Carol")

	pos := 0
	oldPos, newPos := q.Insert("Carol", &pos, nil)
	if oldPos != 3 || newPos != 1 {
		t.Fatalf("expected move 3 -> 1, got %d -> %d", oldPos, newPos)
	}
	assertOrder(t, q, "Carol", "Alice", "Bob")
	if len(q.Members) != 3 {
		t.Fatalf("expected no duplicate entry, got %d members", len(q.Members))
	}
}

func TestInsert_MovedPlaceholderKeepsUserID(t *testing.T) {
	q := queueOf("Alice", "Bob")

	// Bob joined earlier, so his entry carries a user id. An admin
	// re-inserting him by name must not strip it.
	pos := 0
	q.Insert("Bob", &pos, nil)

	if q.Members[0].UserID == nil || *q.Members[0].UserID != 2 {
		t.Fatalf("expected moved member to keep user id 2, got %v", q.Members[0].UserID)
	}
}

func TestRemoveByName(t *testing.T) {
	q := queueOf("Alice", "Bob", "Carol")

	name, pos, err := q.RemoveByName("Bob")
	if err != nil {
		t.Fatalf("RemoveByName failed: %v", err)
	}
	if name != "Bob" || pos != 2 {
		t.Fatalf("expected Bob at 2, got %s at %d", name, pos)
	}
	assertOrder(t, q, "Alice", "Carol")

	if _, _, err := q.RemoveByName("Nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRemoveByName_EmptyQueue(t *testing.T) {
	q := queueOf()
	if _, _, err := q.RemoveByName("Alice"); !errors.Is(err, ErrMembersEmpty) {
		t.Fatalf("expected ErrMembersEmpty, got %v", err)
	}
}

func TestRemoveByUserID(t *testing.T) {
	q := queueOf("Alice", "Bob")

	name, pos, err := q.RemoveByUserID(1)
	if err != nil {
		t.Fatalf("RemoveByUserID failed: %v", err)
	}
	if name != "Alice" || pos != 1 {
		t.Fatalf("expected Alice at 1, got %s at %d", name, pos)
	}

	if _, _, err := q.RemoveByUserID(99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRemoveByPosition_Bounds(t *testing.T) {
	q := queueOf("Alice", "Bob")

	if _, _, err := q.RemoveByPosition(2); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
	if _, _, err := q.RemoveByPosition(-1); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}

	name, pos, err := q.RemoveByPosition(1)
	if err != nil {
		t.Fatalf("RemoveByPosition failed: %v", err)
	}
	if name != "Bob" || pos != 2 {
		t.Fatalf("expected Bob at 2, got %s at %d", name, pos)
	}
}

func TestSwapByPosition(t *testing.T) {
	q := queueOf("Alice", "Bob", "Carol")

	res, err := q.SwapByPosition(0, 2)
	if err != nil {
		t.Fatalf("SwapByPosition failed: %v", err)
	}
	if res.Pos1 != 1 || res.Pos2 != 3 {
		t.Fatalf("expected positions 1 and 3, got %d and %d", res.Pos1, res.Pos2)
	}
	assertOrder(t, q, "Carol", "Bob", "Alice")
}

func TestSwapByPosition_EqualPositionsRejected(t *testing.T) {
	q := queueOf("Alice", "Bob")

	if _, err := q.SwapByPosition(1, 1); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("expected ErrInvalidPosition for equal positions, got %v", err)
	}
	assertOrder(t, q, "Alice", "Bob")
}

func TestSwapByName(t *testing.T) {
	q := queueOf("Alice", "Bob", "Carol")

	if _, err := q.SwapByName("Alice", "Nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	if _, err := q.SwapByName("Alice", "Carol"); err != nil {
		t.Fatalf("SwapByName failed: %v", err)
	}
	assertOrder(t, q, "Carol", "Bob", "Alice")
}

func TestPositionOf(t *testing.T) {
	q := queueOf("Alice", "Bob")
	q.Members = append(q.Members, Member{DisplayName: "Ghost"})

	if pos := q.PositionOf(2); pos != 1 {
		t.Fatalf("expected position 1, got %d", pos)
	}
	if pos := q.PositionOf(42); pos != -1 {
		t.Fatalf("expected -1 for unknown user, got %d", pos)
	}
}
