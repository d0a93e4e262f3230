package service

import "sync"

// ChatLocker serializes all state-changing work within one chat. The
// interface hides the lock store so a distributed lock can replace the
// in-process table without touching callers.
type ChatLocker interface {
	// Lock acquires the chat's mutex and returns the release function.
	Lock(chatID int64) (unlock func())
}

// ChatLocks is the in-process ChatLocker: one named mutex per chat id.
// Mutexes are created on first use and never removed; the set of chats a
// single bot serves stays small enough that this does not matter.
type ChatLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewChatLocks creates an empty lock table.
func NewChatLocks() *ChatLocks {
	return &ChatLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for a chat, creating it if needed.
func (l *ChatLocks) Lock(chatID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[chatID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[chatID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
