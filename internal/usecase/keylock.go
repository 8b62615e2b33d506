package usecase

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// keyLock serializes work per key over a fixed set of mutexes.
// Distinct keys may share a stripe.
type keyLock struct {
	stripes [lockStripes]sync.Mutex
}

// Lock locks the stripe for key and returns its unlock func.
func (k *keyLock) Lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	mu := &k.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
