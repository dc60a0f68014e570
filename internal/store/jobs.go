package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// SaveJob inserts or replaces a job record. The queue owns job state
// transitions; the store just persists whatever it is handed.
func (s *Store) SaveJob(job types.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	planJSON, err := json.Marshal(job.Plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	var resultsJSON []byte
	if job.Results != nil {
		resultsJSON, err = json.Marshal(job.Results)
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO jobs (id, instruction, plan, status, progress, results, error, created_at, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Instruction, string(planJSON), string(job.Status), job.Progress,
		nullableString(resultsJSON), nullIfEmpty(job.Error), job.CreatedAt.UTC(),
		nullableTime(job.StartedAt), nullableTime(job.EndedAt),
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("failed to save job %s: %v", job.ID, err)
		return err
	}

	logging.StoreDebug("saved job %s status=%s progress=%d", job.ID, job.Status, job.Progress)
	return nil
}

// GetJob fetches a job by id. Returns (nil, nil) when the job is unknown.
func (s *Store) GetJob(id string) (*types.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT id, instruction, plan, status, progress, results, error, created_at, started_at, ended_at
		 FROM jobs WHERE id = ?`, id,
	)

	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

// ListRecentJobs returns up to limit jobs, newest first.
func (s *Store) ListRecentJobs(limit int) ([]types.Job, error) {
	timer := logging.StartTimer(logging.CategoryStore, "ListRecentJobs")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, instruction, plan, status, progress, results, error, created_at, started_at, ended_at
		 FROM jobs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []types.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("skipping unreadable job row: %v", err)
			continue
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (*types.Job, error) {
	var job types.Job
	var planJSON string
	var resultsJSON, errMsg sql.NullString
	var createdAt time.Time
	var startedAt, endedAt sql.NullTime

	if err := sc.Scan(&job.ID, &job.Instruction, &planJSON, (*string)(&job.Status), &job.Progress,
		&resultsJSON, &errMsg, &createdAt, &startedAt, &endedAt); err != nil {
		return nil, err
	}

	job.CreatedAt = createdAt
	if err := json.Unmarshal([]byte(planJSON), &job.Plan); err != nil {
		return nil, fmt.Errorf("job %s has unparseable plan: %w", job.ID, err)
	}
	if resultsJSON.Valid && resultsJSON.String != "" {
		if err := json.Unmarshal([]byte(resultsJSON.String), &job.Results); err != nil {
			return nil, fmt.Errorf("job %s has unparseable results: %w", job.ID, err)
		}
	}
	if errMsg.Valid {
		job.Error = errMsg.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if endedAt.Valid {
		t := endedAt.Time
		job.EndedAt = &t
	}
	return &job, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
