// File: internal/chatlock/chatlock.go
package chatlock

import "sync"

// Registry hands out one mutex per chat id. A turn holds its chat's
// lock for the whole persist-call-persist sequence, so two concurrent
// turns against the same chat cannot interleave their writes.
// Operations on different chats proceed in parallel; there is no
// store-wide lock for the slow inference call to sit on.
//
// Entries are never evicted: one mutex per chat ever touched is a
// bounded cost for a single-user local service.
type Registry struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for chatID, creating it on first use.
func (r *Registry) Lock(chatID uint) {
	r.forChat(chatID).Lock()
}

// Unlock releases the mutex for chatID.
func (r *Registry) Unlock(chatID uint) {
	r.forChat(chatID).Unlock()
}

func (r *Registry) forChat(chatID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.locks[chatID]
	if !ok {
		m = &sync.Mutex{}
		r.locks[chatID] = m
	}
	return m
}
