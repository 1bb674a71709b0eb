package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/hostcell/storage"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	siteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
	stateDetail
)

type browserModel struct {
	filename string
	events   []storage.Event
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

func newBrowserModel(filename string, events []storage.Event) *browserModel {
	filter := textinput.New()
	filter.Placeholder = "type name"
	filter.CharLimit = 64

	m := &browserModel{
		filename: filename,
		events:   events,
		filter:   filter,
	}
	m.applyFilter("")
	return m
}

func runInteractive(filename string, events []storage.Event) error {
	_, err := tea.NewProgram(newBrowserModel(filename, events), tea.WithAltScreen()).Run()
	return err
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) applyFilter(typeName string) {
	m.visible = m.visible[:0]
	for i, e := range m.events {
		if typeName == "" || strings.Contains(e.TypeName, typeName) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateFilter {
		switch keyMsg.String() {
		case "enter", "esc":
			m.state = stateBrowse
			m.applyFilter(m.filter.Value())
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}
	}

	switch keyMsg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.state == stateBrowse && m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.state == stateBrowse && m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "/":
		if m.state == stateBrowse {
			m.state = stateFilter
			m.filter.Focus()
			return m, textinput.Blink
		}

	case "enter":
		switch m.state {
		case stateBrowse:
			if len(m.visible) > 0 {
				m.state = stateDetail
			}
		case stateDetail:
			m.state = stateBrowse
		}

	case "esc":
		if m.state == stateDetail {
			m.state = stateBrowse
		}
	}

	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("borrowtrace: " + m.filename))
	b.WriteString("\n\n")

	switch m.state {
	case stateDetail:
		m.viewDetail(&b)
	default:
		m.viewList(&b)
	}

	return b.String()
}

func (m *browserModel) viewList(b *strings.Builder) {
	if len(m.visible) == 0 {
		b.WriteString("no events match\n")
	}

	const window = 20
	start := 0
	if m.selected >= window {
		start = m.selected - window + 1
	}

	for i := start; i < len(m.visible) && i < start+window; i++ {
		e := m.events[m.visible[i]]
		line := fmt.Sprintf("%s %-20s %-24s %s refs=%d",
			e.Time.Format("15:04:05.000"), e.Op, e.TypeName, e.Object, e.Refs)
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if m.state == stateFilter {
		b.WriteString("\nfilter: ")
		b.WriteString(m.filter.View())
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"\n%d/%d events  ↑/↓ move · enter detail · / filter · q quit\n",
		len(m.visible), len(m.events))))
}

func (m *browserModel) viewDetail(b *strings.Builder) {
	e := m.events[m.visible[m.selected]]

	fmt.Fprintf(b, "op:      %s\n", e.Op)
	fmt.Fprintf(b, "time:    %s\n", e.Time.Format("15:04:05.000000"))
	fmt.Fprintf(b, "type:    %s\n", e.TypeName)
	fmt.Fprintf(b, "object:  %s\n", e.Object)
	fmt.Fprintf(b, "refs:    %d\n", e.Refs)

	if len(e.Sites) > 0 {
		b.WriteString("holders:\n")
		for _, site := range e.Sites {
			b.WriteString("  ")
			b.WriteString(siteStyle.Render(site))
			b.WriteByte('\n')
		}
	}

	b.WriteString(helpStyle.Render("\nenter/esc back · q quit\n"))
}
