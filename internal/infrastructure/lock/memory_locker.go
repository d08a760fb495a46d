package lock

import (
	"context"
	"sync"

	"github.com/erp/connector/internal/domain/connector"
)

// MemoryLocker implements AdvisoryLocker in process memory. Suitable for
// single-instance deployments and tests.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker creates an in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// TryAcquire acquires the named lock or returns ErrLockBusy
func (l *MemoryLocker) TryAcquire(ctx context.Context, name string) (connector.LockHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[name]; busy {
		return nil, connector.ErrLockBusy
	}
	l.held[name] = struct{}{}
	return &memoryHandle{locker: l, name: name}, nil
}

type memoryHandle struct {
	locker *MemoryLocker
	name   string
}

// Release releases the lock. Releasing twice is a no-op.
func (h *memoryHandle) Release(ctx context.Context) error {
	h.locker.mu.Lock()
	defer h.locker.mu.Unlock()
	delete(h.locker.held, h.name)
	return nil
}
