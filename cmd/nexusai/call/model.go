// Package call provides the interactive TUI for simulated persona calls.
// The user types, the persona "thinks" for a pacing-controlled delay, then
// answers from its keyword rules. Ending the call saves the transcript as a
// recording.
package call

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"nexusai/internal/pacing"
	"nexusai/internal/persona"
	"nexusai/internal/store"
	"nexusai/internal/types"
)

// Deps carries everything the call screen needs.
type Deps struct {
	Persona types.Persona
	Engine  *persona.Engine
	Pacer   *pacing.Pacer
	Repo    store.RecordingRepository
	Clock   func() time.Time
}

// replyMsg delivers the persona's reply after the thinking delay.
type replyMsg struct {
	text string
}

// Model is the bubbletea model for a call session.
type Model struct {
	deps Deps

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	headerStyle lipgloss.Style
	userStyle   lipgloss.Style
	helpStyle   lipgloss.Style

	transcript []types.TranscriptEntry
	startedAt  time.Time
	thinking   bool
	saved      bool
	err        error

	width  int
	height int
	ready  bool
}

// New builds the call model.
func New(deps Deps) Model {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	ta := textarea.New()
	ta.Placeholder = "Say something..."
	ta.Focus()
	ta.SetHeight(2)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	accent := lipgloss.Color(deps.Persona.Color)
	return Model{
		deps:        deps,
		textarea:    ta,
		spinner:     sp,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(accent),
		userStyle:   lipgloss.NewStyle().Bold(true),
		helpStyle:   lipgloss.NewStyle().Faint(true),
		startedAt:   deps.Clock(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 7
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(msg.Width - 2)
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-4),
		)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.save()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.thinking {
				return m, nil
			}
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" {
				return m, nil
			}
			m.appendEntry(types.SpeakerUser, text)
			m.textarea.Reset()
			m.thinking = true
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, m.awaitReply(text))
		}

	case replyMsg:
		m.thinking = false
		m.appendEntry(types.SpeakerAssistant, msg.text)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var taCmd, vpCmd tea.Cmd
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(taCmd, vpCmd)
}

// awaitReply waits the thinking delay off the UI goroutine, then asks the
// persona engine for a reply.
func (m Model) awaitReply(text string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		_ = deps.Pacer.ThinkingPause(context.Background())
		return replyMsg{text: deps.Engine.Respond(deps.Persona, text)}
	}
}

func (m *Model) appendEntry(speaker types.Speaker, text string) {
	m.transcript = append(m.transcript, types.TranscriptEntry{
		ID:       uuid.NewString(),
		OffsetMs: m.deps.Clock().Sub(m.startedAt).Milliseconds(),
		Speaker:  speaker,
		Text:     text,
	})
}

// save persists the transcript as a recording. Empty calls are not saved.
func (m *Model) save() {
	if m.saved || len(m.transcript) == 0 {
		return
	}
	m.saved = true

	last := m.transcript[len(m.transcript)-1]
	title := m.transcript[0].Text
	if r := []rune(title); len(r) > 48 {
		title = string(r[:48]) + "..."
	}
	m.err = m.deps.Repo.AppendRecording(types.Recording{
		ID:         uuid.NewString(),
		Title:      fmt.Sprintf("Call with %s: %s", m.deps.Persona.Name, title),
		PersonaID:  m.deps.Persona.ID,
		Transcript: m.transcript,
		CreatedAt:  m.startedAt.UTC(),
		DurationMs: last.OffsetMs,
	})
}

// Transcript exposes the collected entries, for tests.
func (m Model) Transcript() []types.TranscriptEntry {
	return m.transcript
}
