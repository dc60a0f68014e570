package demo

import (
	"time"

	"github.com/google/uuid"

	"nexusai/internal/logging"
	"nexusai/internal/types"
)

// Synthetic timing constants. Entry offsets advance in fixed 30-second steps
// and batch creation times are staggered 5 minutes apart so earlier scripts
// appear to have happened further in the past.
const (
	EntryIntervalMs = 30_000
	BatchStaggerMs  = 300_000
)

// Clock supplies "now" for materialization; injectable for golden tests.
type Clock func() time.Time

// Materialize flattens one script into a Recording. Each (user, assistant)
// pair becomes two transcript entries; entry i gets offset i*30000 ms and the
// duration is entryCount*30000. createdAt is supplied by the caller.
func Materialize(script types.DemoScript, createdAt time.Time) types.Recording {
	entries := make([]types.TranscriptEntry, 0, len(script.Turns)*2)
	for _, turn := range script.Turns {
		entries = append(entries, types.TranscriptEntry{
			ID:       uuid.NewString(),
			OffsetMs: int64(len(entries)) * EntryIntervalMs,
			Speaker:  types.SpeakerUser,
			Text:     turn.User,
		})
		entries = append(entries, types.TranscriptEntry{
			ID:       uuid.NewString(),
			OffsetMs: int64(len(entries)) * EntryIntervalMs,
			Speaker:  types.SpeakerAssistant,
			Text:     turn.Assistant,
		})
	}

	return types.Recording{
		ID:         uuid.NewString(),
		Title:      script.Title,
		PersonaID:  script.PersonaID,
		Transcript: entries,
		CreatedAt:  createdAt,
		DurationMs: int64(len(entries)) * EntryIntervalMs,
	}
}

// MaterializeBatch converts a list of scripts into recordings, staggering
// creation times backwards from now: script k (0-indexed) gets
// createdAt = now - (k+1)*300000 ms.
func MaterializeBatch(scripts []types.DemoScript, now Clock) []types.Recording {
	base := now()
	recordings := make([]types.Recording, 0, len(scripts))
	for k, script := range scripts {
		createdAt := base.Add(-time.Duration(k+1) * BatchStaggerMs * time.Millisecond)
		recordings = append(recordings, Materialize(script, createdAt))
	}

	logging.Demo("materialized %d recordings", len(recordings))
	return recordings
}
