package podcast

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStore holds job records keyed by id. Implementations serialize
// reads and writes per job so pollers never observe a torn update; the
// orchestrator's pipeline goroutine is the only writer for a given job
// after creation (RequestCancel touches only the cancel flag).
type JobStore interface {
	// Create persists a new job, assigning an id if unset.
	Create(ctx context.Context, job *Job) error

	// Get returns a snapshot of the job, or ErrJobNotFound.
	Get(ctx context.Context, id string) (*Job, error)

	// Update replaces the stored job record.
	Update(ctx context.Context, job *Job) error

	// ListByOwner returns snapshots of all jobs owned by owner, newest first.
	ListByOwner(ctx context.Context, owner string) ([]*Job, error)

	// RequestCancel sets the job's cancel flag. Terminal jobs are left
	// untouched.
	RequestCancel(ctx context.Context, id string) error
}

// MemoryStore implements JobStore with an in-process map.
// Useful for tests and single-node deployments without persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

// Create persists a new job, assigning an id if unset.
func (s *MemoryStore) Create(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	s.jobs[job.ID] = job.Clone()
	return nil
}

// Get returns a snapshot of the job, or ErrJobNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.Clone(), nil
}

// Update replaces the stored job record.
func (s *MemoryStore) Update(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jobs[job.ID]
	if !ok {
		return ErrJobNotFound
	}

	job.UpdatedAt = time.Now()
	// Preserve an externally-set cancel flag across pipeline writes.
	if stored.CancelRequested {
		job.CancelRequested = true
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

// ListByOwner returns snapshots of all jobs owned by owner, newest first.
func (s *MemoryStore) ListByOwner(_ context.Context, owner string) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Job
	for _, job := range s.jobs {
		if job.Owner == owner {
			out = append(out, job.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// RequestCancel sets the job's cancel flag.
func (s *MemoryStore) RequestCancel(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status.Terminal() {
		return nil
	}
	job.CancelRequested = true
	job.UpdatedAt = time.Now()
	return nil
}

// Verify MemoryStore implements JobStore at compile time.
var _ JobStore = (*MemoryStore)(nil)
