package storefront

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// stripedMutex serialises work per session id with a fixed number of locks.
type stripedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (m *stripedMutex) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &m.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
