package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRunNotFound is returned for unknown or expired run ids.
var ErrRunNotFound = errors.New("run not found")

// RunStore persists run state for status pollers.
type RunStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id string) (*Run, error)
}

// MemoryStore is an in-process RunStore with TTL eviction.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]memoryEntry
	ttl  time.Duration
	stop chan struct{}
}

type memoryEntry struct {
	run     *Run
	savedAt time.Time
}

// NewMemoryStore creates a memory store whose entries expire ttl after
// their last save. A background janitor evicts expired entries.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		runs: make(map[string]memoryEntry),
		ttl:  ttl,
		stop: make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Save(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = memoryEntry{run: run.Clone(), savedAt: time.Now()}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.runs[id]
	if !ok || time.Since(entry.savedAt) > s.ttl {
		return nil, ErrRunNotFound
	}
	return entry.run.Clone(), nil
}

// Close stops the eviction janitor.
func (s *MemoryStore) Close() { close(s.stop) }

func (s *MemoryStore) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			for id, entry := range s.runs {
				if time.Since(entry.savedAt) > s.ttl {
					delete(s.runs, id)
				}
			}
			s.mu.Unlock()
		}
	}
}

// RedisStore is a RunStore backed by Redis, for deployments where
// status pollers may hit a different instance than the one running the
// workflow.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func runKey(id string) string { return "brandworks:run:" + id }

func (s *RedisStore) Save(ctx context.Context, run *Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := s.client.Set(ctx, runKey(run.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Run, error) {
	data, err := s.client.Get(ctx, runKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &run, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }
