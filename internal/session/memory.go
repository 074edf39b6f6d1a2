package session

import "sync"

// MemoryBackend keeps the session in process memory only. Used in tests and
// with the "memory" session driver.
type MemoryBackend struct {
	mu sync.Mutex
	s  *Session
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Save(s Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.s = &s
	return nil
}

func (b *MemoryBackend) Load() (*Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.s == nil {
		return nil, nil
	}
	s := *b.s
	return &s, nil
}

func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.s = nil
	return nil
}
