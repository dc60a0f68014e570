package call

import (
	"fmt"
	"strings"

	"nexusai/internal/types"
)

func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}

	header := m.headerStyle.Render(fmt.Sprintf("On call with %s - %s", m.deps.Persona.Name, m.deps.Persona.Title))

	status := ""
	if m.thinking {
		status = m.spinner.View() + " " + m.deps.Persona.Name + " is thinking..."
	}

	help := m.helpStyle.Render("enter: send - esc: end call and save recording")

	return strings.Join([]string{
		header,
		m.viewport.View(),
		status,
		m.textarea.View(),
		help,
	}, "\n")
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, entry := range m.transcript {
		if entry.Speaker == types.SpeakerUser {
			b.WriteString(m.userStyle.Render("You: ") + entry.Text + "\n\n")
			continue
		}
		text := entry.Text
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(text); err == nil {
				text = strings.TrimSpace(rendered) + "\n"
			}
		}
		b.WriteString(m.headerStyle.Render(m.deps.Persona.Name+": ") + text + "\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}
