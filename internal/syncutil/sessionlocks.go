// Package syncutil provides small synchronization helpers.
package syncutil

import (
	"hash/fnv"
	"sync"
)

// SessionLocks provides a fixed-size pool of mutexes keyed by session
// ID. Evaluating a proposal is a check-then-record sequence over shared
// usage state, and teardown stamps expiry then resets that state, so
// all work for one session must serialize behind the same mutex while
// unrelated sessions proceed in parallel. A bounded
// shard pool keeps memory constant regardless of how many session IDs
// are ever seen, at the cost of occasional false sharing between IDs
// that hash to the same shard.
type SessionLocks struct {
	shards [256]sync.Mutex
}

// Acquire locks the mutex for the given session ID and returns the
// release function.
func (s *SessionLocks) Acquire(sessionID string) func() {
	mu := s.shard(sessionID)
	mu.Lock()
	return mu.Unlock
}

func (s *SessionLocks) shard(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.shards[h.Sum32()%256]
}
