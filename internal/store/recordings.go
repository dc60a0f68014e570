package store

import (
	"encoding/json"
	"fmt"
	"time"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// RecordingRepository is the persistence surface for recordings and the
// model-picker settings consumed by the rest of the system.
type RecordingRepository interface {
	ListRecordings() ([]types.Recording, error)
	AppendRecording(r types.Recording) error
	DeleteRecording(id string) error
	GetPinnedModel() (string, error)
	SetPinnedModel(name string) error
	ListDownloadedModels() ([]string, error)
	AddDownloadedModel(name string) error
}

var _ RecordingRepository = (*Store)(nil)

// ListRecordings returns all recordings, newest first. An empty database
// yields an empty list, never an error.
func (s *Store) ListRecordings() ([]types.Recording, error) {
	timer := logging.StartTimer(logging.CategoryStore, "ListRecordings")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, title, persona_id, transcript, created_at, duration_ms
		 FROM recordings
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	recordings := []types.Recording{}
	for rows.Next() {
		var rec types.Recording
		var transcriptJSON string
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.PersonaID, &transcriptJSON, &createdAt, &rec.DurationMs); err != nil {
			logging.Get(logging.CategoryStore).Warn("skipping unreadable recording row: %v", err)
			continue
		}
		rec.CreatedAt = createdAt
		if err := json.Unmarshal([]byte(transcriptJSON), &rec.Transcript); err != nil {
			// Treat an unparseable transcript like an absent one.
			logging.Get(logging.CategoryStore).Warn("recording %s has unparseable transcript: %v", rec.ID, err)
			rec.Transcript = []types.TranscriptEntry{}
		}
		recordings = append(recordings, rec)
	}

	logging.StoreDebug("listed %d recordings", len(recordings))
	return recordings, rows.Err()
}

// AppendRecording stores a new recording. Recordings are immutable after
// creation, so duplicate IDs are rejected rather than overwritten.
func (s *Store) AppendRecording(r types.Recording) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcriptJSON, err := json.Marshal(r.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO recordings (id, title, persona_id, transcript, created_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.PersonaID, string(transcriptJSON), r.CreatedAt.UTC(), r.DurationMs,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("failed to append recording %s: %v", r.ID, err)
		return err
	}

	logging.StoreDebug("appended recording %s (%d entries)", r.ID, len(r.Transcript))
	return nil
}

// DeleteRecording removes a recording by id. Deleting an unknown id is a
// no-op, matching the original demo's storage behavior.
func (s *Store) DeleteRecording(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recording %s: %w", id, err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		logging.Store("deleted recording %s", id)
	}
	return nil
}
