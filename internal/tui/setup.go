package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type SetupModel struct {
	docsInput textinput.Model
	baseInput textinput.Model
	focus     int
	error     string
	width     int
	height    int
}

func NewSetupModel() SetupModel {
	docs := textinput.New()
	docs.Placeholder = "/path/to/your/docs"
	docs.Focus()
	docs.Width = 60

	base := textinput.New()
	base.Placeholder = "https://docs.example.com (optional)"
	base.Width = 60

	return SetupModel{
		docsInput: docs,
		baseInput: base,
		focus:     0,
	}
}

func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab", "down":
			if m.focus == 0 {
				m.focus = 1
				m.docsInput.Blur()
				m.baseInput.Focus()
			} else {
				m.focus = 0
				m.baseInput.Blur()
				m.docsInput.Focus()
			}
			return m, nil

		case "shift+tab", "up":
			if m.focus == 1 {
				m.focus = 0
				m.baseInput.Blur()
				m.docsInput.Focus()
			} else {
				m.focus = 1
				m.docsInput.Blur()
				m.baseInput.Focus()
			}
			return m, nil

		case "enter":
			docsDir := strings.TrimSpace(m.docsInput.Value())
			baseURL := strings.TrimSpace(m.baseInput.Value())

			if docsDir == "" {
				m.error = "Documentation directory is required"
				return m, nil
			}

			return m, func() tea.Msg {
				return SetupSubmitMsg{
					DocsDir: docsDir,
					BaseURL: baseURL,
				}
			}
		}

		if m.focus == 0 {
			m.docsInput, cmd = m.docsInput.Update(msg)
		} else {
			m.baseInput, cmd = m.baseInput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case SetupErrorMsg:
		m.error = msg.Error

	default:
		if m.focus == 0 {
			m.docsInput, cmd = m.docsInput.Update(msg)
		} else {
			m.baseInput, cmd = m.baseInput.Update(msg)
		}
	}

	return m, cmd
}

func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("docdex - Setup") + "\n\n")
	b.WriteString("Point docdex at the Markdown tree of your documentation site.\n\n")
	b.WriteString("1. Enter the directory holding your .md pages\n")
	b.WriteString("2. Optionally set the URL prefix result links should use\n")
	b.WriteString("3. Press enter to save\n\n")

	docsLabel := "Documentation Directory:"
	if m.focus == 0 {
		docsLabel = activeStyle.Render("> " + docsLabel)
	} else {
		docsLabel = "  " + docsLabel
	}
	b.WriteString(docsLabel + "\n")

	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1)

	b.WriteString(style.Render(m.docsInput.View()) + "\n\n")

	baseLabel := "Site Base URL:"
	if m.focus == 1 {
		baseLabel = activeStyle.Render("> " + baseLabel)
	} else {
		baseLabel = "  " + baseLabel
	}
	b.WriteString(baseLabel + "\n")
	b.WriteString(style.Render(m.baseInput.View()) + "\n")

	if m.error != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.error) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("tab switch field  enter submit  ctrl+c quit"))

	return b.String()
}
