package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"nexusai/internal/logging"
)

// Setting keys for the mock model-picker feature.
const (
	keyPinnedModel      = "pinned_model"
	keyDownloadedModels = "downloaded_models"
)

// GetPinnedModel returns the currently pinned model name, or "" when none is
// pinned.
func (s *Store) GetPinnedModel() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, keyPinnedModel).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to read pinned model: %w", err)
	}
	return value, nil
}

// SetPinnedModel records the pinned model name.
func (s *Store) SetPinnedModel(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		keyPinnedModel, name,
	)
	if err != nil {
		return fmt.Errorf("failed to set pinned model: %w", err)
	}

	logging.Store("pinned model set to %q", name)
	return nil
}

// ListDownloadedModels returns the "downloaded" model names. Absence or an
// unparseable value degrades to an empty list.
func (s *Store) ListDownloadedModels() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, keyDownloadedModels).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read downloaded models: %w", err)
	}

	var models []string
	if err := json.Unmarshal([]byte(value), &models); err != nil {
		logging.Get(logging.CategoryStore).Warn("downloaded models value unparseable, treating as empty: %v", err)
		return []string{}, nil
	}
	return models, nil
}

// AddDownloadedModel appends a model name to the downloaded list if not
// already present.
func (s *Store) AddDownloadedModel(name string) error {
	models, err := s.ListDownloadedModels()
	if err != nil {
		return err
	}
	for _, m := range models {
		if m == name {
			return nil
		}
	}
	models = append(models, name)

	data, err := json.Marshal(models)
	if err != nil {
		return fmt.Errorf("failed to marshal downloaded models: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		keyDownloadedModels, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to store downloaded models: %w", err)
	}
	return nil
}
