package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"shopease-service/internal/sharding"
)

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// Registry keeps live sessions spread over shards so lookups for different
// shoppers rarely contend on the same lock.
type Registry struct {
	router *sharding.ShardRouter
	shards []*shard
	create func(id string) *Session
}

func NewRegistry(shardCount int, create func(id string) *Session) *Registry {
	router := sharding.NewShardRouter(shardCount)
	shards := make([]*shard, router.ShardCount)
	for i := range shards {
		shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return &Registry{router: router, shards: shards, create: create}
}

func (r *Registry) shardFor(id string) *shard {
	return r.shards[r.router.GetShard(id)]
}

// Create starts a session under a fresh random id.
func (r *Registry) Create() *Session {
	id := uuid.NewString()
	sess := r.create(id)

	sh := r.shardFor(id)
	sh.mu.Lock()
	sh.sessions[id] = sess
	sh.mu.Unlock()
	return sess
}

func (r *Registry) Get(id string) (*Session, bool) {
	sh := r.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	sess, ok := sh.sessions[id]
	return sess, ok
}

func (r *Registry) Delete(id string) {
	sh := r.shardFor(id)
	sh.mu.Lock()
	delete(sh.sessions, id)
	sh.mu.Unlock()
}

func (r *Registry) Len() int {
	n := 0
	for _, sh := range r.shards {
		sh.mu.RLock()
		n += len(sh.sessions)
		sh.mu.RUnlock()
	}
	return n
}

// Sweep drops sessions not used since before cutoff and returns how many
// were removed.
func (r *Registry) Sweep(cutoff time.Time) int {
	removed := 0
	for _, sh := range r.shards {
		sh.mu.Lock()
		for id, sess := range sh.sessions {
			if sess.LastSeen().Before(cutoff) {
				delete(sh.sessions, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}
