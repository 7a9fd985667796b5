package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mfaulds/docdex/internal/dataset"
	"github.com/mfaulds/docdex/internal/engine"
	"github.com/mfaulds/docdex/internal/highlight"
	"github.com/mfaulds/docdex/internal/nav"
)

const DefaultDebounce = 200 * time.Millisecond

// listTop is the screen row of the first result line; the view keeps the
// header height fixed so mouse hits map to rows.
const listTop = 6

type Searcher interface {
	Search(query string) []engine.Match
	Status() engine.Status
	Dataset() *dataset.Dataset
}

type App struct {
	searcher Searcher
	baseURL  string
	debounce time.Duration
	openURL  func(string)

	field   textinput.Model
	spin    spinner.Model
	list    *nav.List
	results []engine.Match

	lastQuery  string
	querySeq   int
	filterKind int

	mouseDown    bool
	pressedIndex int

	width  int
	height int
}

func NewApp(searcher Searcher, baseURL string, debounce time.Duration) (App, error) {
	if searcher == nil {
		return App{}, errors.New("tui: nil search engine")
	}

	field := textinput.New()
	field.Placeholder = "Search documentation..."
	field.Width = 60
	field.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return App{
		searcher: searcher,
		baseURL:  baseURL,
		debounce: debounce,
		openURL:  openBrowser,
		field:    field,
		spin:     spin,
		list:     nav.NewList(),
	}, nil
}

func (m App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case debounceMsg:
		// Stale timers from superseded edits are dropped.
		if msg.seq == m.querySeq {
			m.runSearch()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return m, cmd
}

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.field.Focused() {
			m.field.Blur()
			return m, nil
		}
		return m, tea.Quit

	case "enter":
		return m.activate()

	case "up":
		m.list.Move(nav.Previous)
		return m, nil

	case "down":
		m.list.Move(nav.Next)
		return m, nil

	case "tab":
		m.cycleFilter()
		return m, nil

	case "/":
		// Focus shortcut: only when the field is blurred, and the slash
		// itself is not typed. Focused fields take it as input below.
		if !m.field.Focused() {
			cmd := m.field.Focus()
			return m, cmd
		}

	case "q":
		if !m.field.Focused() {
			return m, tea.Quit
		}
	}

	if !m.field.Focused() {
		return m, nil
	}

	before := m.field.Value()
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	if m.field.Value() != before {
		return m, tea.Batch(cmd, m.scheduleSearch())
	}
	return m, cmd
}

func (m App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		// Holding the press on a result keeps the widget state intact
		// until the click completes.
		if i := m.visibleIndexAt(msg.Y); i >= 0 {
			m.pressedIndex = i
			m.mouseDown = true
		}

	case tea.MouseActionRelease:
		if m.mouseDown && m.pressedIndex == m.visibleIndexAt(msg.Y) {
			items := m.list.Items()
			if m.pressedIndex < len(items) {
				m.openURL(items[m.pressedIndex].Target)
				m.field.Blur()
			}
		}
		m.mouseDown = false
	}

	return m, nil
}

func (m App) activate() (tea.Model, tea.Cmd) {
	if target, ok := m.list.Activate(); ok {
		m.openURL(target)
	}
	// Focus drops whether or not anything was activated.
	m.field.Blur()
	return m, nil
}

func (m *App) scheduleSearch() tea.Cmd {
	m.querySeq++
	seq := m.querySeq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m *App) runSearch() {
	m.lastQuery = strings.TrimSpace(m.field.Value())
	m.results = m.searcher.Search(m.lastQuery)

	items := make([]nav.Item, len(m.results))
	for i, match := range m.results {
		items[i] = nav.Item{
			Label:  match.Row.Name,
			Target: m.baseURL + match.Row.URL,
		}
	}
	m.list.SetItems(items)
	m.applyFilter()
}

func (m *App) cycleFilter() {
	var present []int
	seen := make(map[int]bool)
	for _, match := range m.results {
		if !seen[match.Row.Kind] {
			seen[match.Row.Kind] = true
			present = append(present, match.Row.Kind)
		}
	}

	cycle := append([]int{0}, present...)
	pos := 0
	for i, kind := range cycle {
		if kind == m.filterKind {
			pos = i
			break
		}
	}
	m.filterKind = cycle[(pos+1)%len(cycle)]
	m.applyFilter()
}

func (m *App) applyFilter() {
	for i := range m.results {
		hidden := m.filterKind != 0 && m.results[i].Row.Kind != m.filterKind
		m.list.SetHidden(i, hidden)
	}
}

// visibleIndexAt maps a screen row to a result index, counting only rows
// the view actually draws.
func (m App) visibleIndexAt(y int) int {
	row := y - listTop
	if row < 0 {
		return -1
	}

	seen := 0
	for i, item := range m.list.Items() {
		if item.Hidden {
			continue
		}
		if seen == row {
			return i
		}
		seen++
	}
	return -1
}

func (m App) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("docdex") + " " + dimStyle.Render("documentation search"))
	b.WriteString("\n\n")
	b.WriteString(m.field.View() + "\n\n")
	b.WriteString(m.statusLine() + "\n\n")

	items := m.list.Items()
	for i, match := range m.results {
		if i < len(items) && items[i].Hidden {
			continue
		}

		marker := "  "
		if i == m.list.Current() {
			marker = selectedStyle.Render("> ")
		}

		label := fmt.Sprintf("%-10s", m.kindLabel(match.Row.Kind))
		b.WriteString(marker + kindStyle.Render(label) + " " + m.renderName(match.Row) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ navigate  enter open  tab filter  / focus  esc blur  q quit"))

	return b.String()
}

func (m App) statusLine() string {
	switch m.searcher.Status() {
	case engine.StatusFailed:
		return errorStyle.Render("search unavailable")

	case engine.StatusLoading:
		if m.lastQuery != "" {
			return m.spin.View() + " " + dimStyle.Render("loading index...")
		}
		return dimStyle.Render("type to search")

	default:
		if m.lastQuery == "" {
			return dimStyle.Render("type to search")
		}
		if len(m.results) == 0 {
			return dimStyle.Render("No results found")
		}

		status := fmt.Sprintf("%d results", len(m.results))
		if m.filterKind != 0 {
			status += "  filter: " + m.kindLabel(m.filterKind)
		}
		return dimStyle.Render(status)
	}
}

func (m App) renderName(row dataset.Row) string {
	var b strings.Builder

	if row.Parent != "" {
		for _, seg := range highlight.Segments(row.Parent, m.lastQuery) {
			if seg.Match {
				b.WriteString(matchStyle.Render(seg.Text))
			} else {
				b.WriteString(parentStyle.Render(seg.Text))
			}
		}
		b.WriteString(parentStyle.Render("."))
	}

	for _, seg := range highlight.Segments(row.Name, m.lastQuery) {
		if seg.Match {
			b.WriteString(matchStyle.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}

	return b.String()
}

func (m App) kindLabel(kind int) string {
	ds := m.searcher.Dataset()
	if ds == nil {
		return ""
	}
	return ds.KindLabel(kind)
}
