package call

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"nexusai/internal/config"
	"nexusai/internal/pacing"
	"nexusai/internal/persona"
	"nexusai/internal/store"
	"nexusai/internal/types"
)

func testModel(t *testing.T) (Model, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "call.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	catalog := persona.Default()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	m := New(Deps{
		Persona: catalog.FindOrFirst("health-coach"),
		Engine:  persona.NewEngineWithSource(rand.NewSource(1)),
		Pacer: pacing.NewWithScheduler(
			config.PacingConfig{ThinkingMinMs: 1, ThinkingMaxMs: 2},
			pacing.Immediate(),
			rand.NewSource(1),
		),
		Repo:  s,
		Clock: clock,
	})
	return m, s
}

func TestAwaitReply_UsesKeywordRule(t *testing.T) {
	m, _ := testModel(t)

	msg := m.awaitReply("what workout should I do this week?")()
	reply, ok := msg.(replyMsg)
	require.True(t, ok)
	require.Contains(t, reply.text, "three full-body sessions")
}

func TestUpdate_ReplyAppendsAssistantEntry(t *testing.T) {
	m, _ := testModel(t)

	m.appendEntry(types.SpeakerUser, "hello")
	updated, _ := m.Update(replyMsg{text: "hi there"})
	model := updated.(Model)

	entries := model.Transcript()
	require.Len(t, entries, 2)
	require.Equal(t, types.SpeakerAssistant, entries[1].Speaker)
	require.Equal(t, "hi there", entries[1].Text)
}

func TestEndCall_SavesRecording(t *testing.T) {
	m, s := testModel(t)

	m.appendEntry(types.SpeakerUser, "can you plan my training?")
	m.appendEntry(types.SpeakerAssistant, "Start with three sessions a week.")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_ = updated

	recs, err := s.ListRecordings()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "health-coach", recs[0].PersonaID)
	require.Len(t, recs[0].Transcript, 2)
}

func TestEndCall_TitleTruncationIsRuneSafe(t *testing.T) {
	m, s := testModel(t)

	first := strings.Repeat("ü", 60)
	m.appendEntry(types.SpeakerUser, first)
	m.appendEntry(types.SpeakerAssistant, "Noted.")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	recs, err := s.ListRecordings()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.True(t, utf8.ValidString(recs[0].Title))
	require.Contains(t, recs[0].Title, strings.Repeat("ü", 48)+"...")
}

func TestEndCall_EmptyTranscriptNotSaved(t *testing.T) {
	m, s := testModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	recs, err := s.ListRecordings()
	require.NoError(t, err)
	require.Empty(t, recs)
}
