// File: internal/chatlock/chatlock_test.go
package chatlock

import (
	"sync"
	"testing"
)

func TestRegistry_SerializesSameChat(t *testing.T) {
	r := NewRegistry()

	const workers = 32
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			r.Lock(1)
			defer r.Unlock(1)
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
}

func TestRegistry_DifferentChatsDoNotBlock(t *testing.T) {
	r := NewRegistry()

	r.Lock(1)
	done := make(chan struct{})
	go func() {
		r.Lock(2)
		r.Unlock(2)
		close(done)
	}()
	<-done
	r.Unlock(1)
}

func TestRegistry_SameMutexForSameChat(t *testing.T) {
	r := NewRegistry()
	if r.forChat(5) != r.forChat(5) {
		t.Fatal("forChat returned different mutexes for the same chat")
	}
	if r.forChat(5) == r.forChat(6) {
		t.Fatal("forChat returned the same mutex for different chats")
	}
}
