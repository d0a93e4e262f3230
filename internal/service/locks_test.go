package service

import (
	"sync"
	"testing"
)

func TestChatLocks_SerializesWithinOneChat(t *testing.T) {
	locks := NewChatLocks()

	const workers = 64
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(1)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d serialized increments, got %d", workers, counter)
	}
}

func TestChatLocks_ChatsDoNotBlockEachOther(t *testing.T) {
	locks := NewChatLocks()

	unlock1 := locks.Lock(1)
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := locks.Lock(2)
		unlock2()
		close(done)
	}()

	// Would deadlock the goroutine if chat 2 shared chat 1's mutex.
	<-done
}

func TestChatLocks_Reentry(t *testing.T) {
	locks := NewChatLocks()

	unlock := locks.Lock(1)
	unlock()

	// The same chat can be locked again after release.
	unlock = locks.Lock(1)
	unlock()
}
