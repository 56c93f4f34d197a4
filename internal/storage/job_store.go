package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"podforge/pkg/podcast"
	"podforge/pkg/script"
)

// JobStore is the SQLite implementation of podcast.JobStore.
// Column-level serialization comes from SQLite itself; script, audio refs,
// and errors are stored as JSON.
type JobStore struct {
	db *DB
}

// NewJobStore creates a job store on an open database.
func NewJobStore(db *DB) *JobStore {
	return &JobStore{db: db}
}

// Create persists a new job, assigning an id if unset.
func (s *JobStore) Create(ctx context.Context, job *podcast.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	scriptJSON, audioJSON, errJSON, err := encodeColumns(job)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, owner, source_ref, style, target_length, status,
			script, audio_files, error, cancel_requested, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Owner, job.SourceRef, string(job.Style), string(job.TargetLength),
		string(job.Status), scriptJSON, audioJSON, errJSON,
		boolToInt(job.CancelRequested), job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Get returns a snapshot of the job, or podcast.ErrJobNotFound.
func (s *JobStore) Get(ctx context.Context, id string) (*podcast.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner, source_ref, style, target_length, status,
			script, audio_files, error, cancel_requested, created_at, updated_at
		FROM jobs WHERE id = ?`, id)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, podcast.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Update replaces the stored job record, preserving an externally-set
// cancel flag.
func (s *JobStore) Update(ctx context.Context, job *podcast.Job) error {
	job.UpdatedAt = time.Now()

	scriptJSON, audioJSON, errJSON, err := encodeColumns(job)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, script = ?, audio_files = ?, error = ?,
			cancel_requested = MAX(cancel_requested, ?), updated_at = ?
		WHERE id = ?`,
		string(job.Status), scriptJSON, audioJSON, errJSON,
		boolToInt(job.CancelRequested), job.UpdatedAt, job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return podcast.ErrJobNotFound
	}
	return nil
}

// ListByOwner returns all jobs owned by owner, newest first.
func (s *JobStore) ListByOwner(ctx context.Context, owner string) ([]*podcast.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, source_ref, style, target_length, status,
			script, audio_files, error, cancel_requested, created_at, updated_at
		FROM jobs WHERE owner = ? ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*podcast.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// RequestCancel sets the job's cancel flag unless the job is terminal.
func (s *JobStore) RequestCancel(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET cancel_requested = 1, updated_at = ?
		WHERE id = ? AND status NOT IN (?, ?, ?)`,
		time.Now(), id,
		string(podcast.StatusComplete), string(podcast.StatusCompleteNoAudio),
		string(podcast.StatusFailed),
	)
	if err != nil {
		return fmt.Errorf("request cancel: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either unknown or already terminal; distinguish for the caller.
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*podcast.Job, error) {
	var (
		job                            podcast.Job
		style, length, status          string
		scriptJSON, audioJSON, errJSON sql.NullString
		cancelRequested                int
	)

	err := row.Scan(&job.ID, &job.Owner, &job.SourceRef, &style, &length, &status,
		&scriptJSON, &audioJSON, &errJSON, &cancelRequested,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	job.Style = script.Style(style)
	job.TargetLength = script.Length(length)
	job.Status = podcast.Status(status)
	job.CancelRequested = cancelRequested != 0

	if scriptJSON.Valid && scriptJSON.String != "" {
		if err := json.Unmarshal([]byte(scriptJSON.String), &job.Script); err != nil {
			return nil, fmt.Errorf("decode script: %w", err)
		}
	}
	if audioJSON.Valid && audioJSON.String != "" {
		if err := json.Unmarshal([]byte(audioJSON.String), &job.AudioFiles); err != nil {
			return nil, fmt.Errorf("decode audio refs: %w", err)
		}
	}
	if errJSON.Valid && errJSON.String != "" {
		job.Error = &podcast.JobError{}
		if err := json.Unmarshal([]byte(errJSON.String), job.Error); err != nil {
			return nil, fmt.Errorf("decode error: %w", err)
		}
	}

	return &job, nil
}

func encodeColumns(job *podcast.Job) (scriptJSON, audioJSON, errJSON sql.NullString, err error) {
	if job.Script != nil {
		data, merr := json.Marshal(job.Script)
		if merr != nil {
			return scriptJSON, audioJSON, errJSON, fmt.Errorf("encode script: %w", merr)
		}
		scriptJSON = sql.NullString{String: string(data), Valid: true}
	}
	if job.AudioFiles != nil {
		data, merr := json.Marshal(job.AudioFiles)
		if merr != nil {
			return scriptJSON, audioJSON, errJSON, fmt.Errorf("encode audio refs: %w", merr)
		}
		audioJSON = sql.NullString{String: string(data), Valid: true}
	}
	if job.Error != nil {
		data, merr := json.Marshal(job.Error)
		if merr != nil {
			return scriptJSON, audioJSON, errJSON, fmt.Errorf("encode error: %w", merr)
		}
		errJSON = sql.NullString{String: string(data), Valid: true}
	}
	return scriptJSON, audioJSON, errJSON, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Verify JobStore implements podcast.JobStore at compile time.
var _ podcast.JobStore = (*JobStore)(nil)
