package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podforge/pkg/podcast"
	"podforge/pkg/script"
)

func newTestStore(t *testing.T) *JobStore {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewJobStore(db)
}

func TestJobStoreRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job := &podcast.Job{
		Owner:        "alice",
		SourceRef:    "doc.txt",
		Style:        script.StyleConversational,
		TargetLength: script.Length10Min,
		Status:       podcast.StatusPending,
	}
	require.NoError(t, store.Create(ctx, job))
	require.NotEmpty(t, job.ID)

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, "doc.txt", got.SourceRef)
	assert.Equal(t, script.StyleConversational, got.Style)
	assert.Equal(t, podcast.StatusPending, got.Status)
	assert.Nil(t, got.Script)
	assert.Nil(t, got.Error)
	assert.False(t, got.CancelRequested)
}

func TestJobStoreUpdateJSONColumns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job := &podcast.Job{Owner: "alice", Status: podcast.StatusPending}
	require.NoError(t, store.Create(ctx, job))

	job.Status = podcast.StatusComplete
	job.Script = []script.Segment{
		{Speaker: script.SpeakerOne, Text: "Hello."},
		{Speaker: script.SpeakerTwo, Text: "Hi."},
	}
	job.AudioFiles = []string{
		job.ID + "/segment_001_speaker_1.wav",
		job.ID + "/complete_podcast.wav",
	}
	job.Error = &podcast.JobError{Kind: podcast.KindEngineFallback, Message: "fallback", Engine: "elevenlabs"}
	require.NoError(t, store.Update(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, podcast.StatusComplete, got.Status)
	assert.Equal(t, job.Script, got.Script)
	assert.Equal(t, job.AudioFiles, got.AudioFiles)
	require.NotNil(t, got.Error)
	assert.Equal(t, podcast.KindEngineFallback, got.Error.Kind)
	assert.Equal(t, "elevenlabs", got.Error.Engine)
	assert.True(t, got.AudioAvailable())
}

func TestJobStoreNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, podcast.ErrJobNotFound)

	err = store.Update(ctx, &podcast.Job{ID: "missing"})
	assert.ErrorIs(t, err, podcast.ErrJobNotFound)

	err = store.RequestCancel(ctx, "missing")
	assert.ErrorIs(t, err, podcast.ErrJobNotFound)
}

func TestJobStoreCancelFlag(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job := &podcast.Job{Owner: "alice", Status: podcast.StatusScriptRunning}
	require.NoError(t, store.Create(ctx, job))
	require.NoError(t, store.RequestCancel(ctx, job.ID))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, got.CancelRequested)

	// A pipeline write from an older snapshot must not clear the flag.
	stale := &podcast.Job{ID: job.ID, Owner: "alice", Status: podcast.StatusScriptReady}
	require.NoError(t, store.Update(ctx, stale))

	got, err = store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, got.CancelRequested, "cancel flag lost across update")
	assert.Equal(t, podcast.StatusScriptReady, got.Status)
}

func TestJobStoreCancelTerminalNoop(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job := &podcast.Job{Owner: "alice", Status: podcast.StatusComplete}
	require.NoError(t, store.Create(ctx, job))
	require.NoError(t, store.RequestCancel(ctx, job.ID))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, got.CancelRequested)
}

func TestJobStoreListByOwner(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &podcast.Job{Owner: "alice", Status: podcast.StatusPending}
	require.NoError(t, store.Create(ctx, first))
	time.Sleep(5 * time.Millisecond)
	second := &podcast.Job{Owner: "alice", Status: podcast.StatusPending}
	require.NoError(t, store.Create(ctx, second))
	require.NoError(t, store.Create(ctx, &podcast.Job{Owner: "bob", Status: podcast.StatusPending}))

	jobs, err := store.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID, "newest first")
	assert.Equal(t, first.ID, jobs[1].ID)

	none, err := store.ListByOwner(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}
