package implementation

import "sync"

// connLocks serializes connection-list writes per parent id. The
// read-merge-write in AppendConnections is only safe if two writers for
// the same parent never interleave at the read step; a keyed mutex makes
// that explicit instead of relying on call-site discipline.
type connLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newConnLocks() *connLocks {
	return &connLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire returns the mutex for key, locked. Callers must Unlock it.
func (c *connLocks) acquire(key string) *sync.Mutex {
	c.mu.Lock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock
}
