package podcast

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreCreateAssignsID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job := &Job{Owner: "alice", Status: StatusPending}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if job.CreatedAt.IsZero() || job.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestMemoryStoreGetReturnsSnapshot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job := &Job{Owner: "alice", Status: StatusPending}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Mutating the snapshot must not touch the stored record.
	got.Status = StatusFailed
	again, _ := s.Get(ctx, job.ID)
	if again.Status != StatusPending {
		t.Errorf("stored status = %s after snapshot mutation", again.Status)
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job := &Job{Owner: "alice", Status: StatusPending}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	job.Status = StatusScriptRunning
	if err := s.Update(ctx, job); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(ctx, job.ID)
	if got.Status != StatusScriptRunning {
		t.Errorf("status = %s", got.Status)
	}

	if err := s.Update(ctx, &Job{ID: "missing"}); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Update missing: err = %v", err)
	}
}

func TestMemoryStoreUpdatePreservesCancelFlag(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job := &Job{Owner: "alice", Status: StatusScriptRunning}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.RequestCancel(ctx, job.ID); err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}

	// A pipeline write based on an older snapshot must not clear the flag.
	stale := &Job{ID: job.ID, Owner: "alice", Status: StatusScriptReady}
	if err := s.Update(ctx, stale); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.Get(ctx, job.ID)
	if !got.CancelRequested {
		t.Error("cancel flag lost across update")
	}
}

func TestMemoryStoreRequestCancelTerminal(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job := &Job{Owner: "alice", Status: StatusComplete}
	if err := s.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.RequestCancel(ctx, job.ID); err != nil {
		t.Fatalf("RequestCancel: %v", err)
	}

	got, _ := s.Get(ctx, job.ID)
	if got.CancelRequested {
		t.Error("terminal job should not get a cancel flag")
	}

	if err := s.RequestCancel(ctx, "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("err = %v, want ErrJobNotFound", err)
	}
}

func TestMemoryStoreListByOwner(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &Job{Owner: "alice", Status: StatusPending}
	_ = s.Create(ctx, first)
	time.Sleep(2 * time.Millisecond)
	second := &Job{Owner: "alice", Status: StatusPending}
	_ = s.Create(ctx, second)
	_ = s.Create(ctx, &Job{Owner: "bob", Status: StatusPending})

	jobs, err := s.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}
	if jobs[0].ID != second.ID {
		t.Error("list is not newest first")
	}

	none, _ := s.ListByOwner(ctx, "carol")
	if len(none) != 0 {
		t.Errorf("carol's jobs = %d, want 0", len(none))
	}
}
