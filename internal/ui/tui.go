// Package ui provides the optional terminal project browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/prjct-go/internal/export"
)

// DefaultRefresh is how often the browser re-reads the lists.
const DefaultRefresh = 5 * time.Second

// Loader produces a fresh view of both lists.
type Loader interface {
	Snapshot(ctx context.Context) (*export.Snapshot, error)
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithRefresh sets the auto-refresh interval.
func WithRefresh(d time.Duration) TUIOption {
	return func(m *tuiModel) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// RunTUI starts the project browser on stdout.
func RunTUI(ctx context.Context, loader Loader, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return errors.New("tui requires a TTY")
	}
	model := newTUIModel(ctx, loader, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type tuiModel struct {
	ctx          context.Context
	loader       Loader
	snap         *export.Snapshot
	projects     []string
	cursor       int
	showDone     bool
	showHelp     bool
	loadErr      error
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(ctx context.Context, loader Loader, opts ...TUIOption) *tuiModel {
	m := &tuiModel{
		ctx:          ctx,
		loader:       loader,
		tickInterval: DefaultRefresh,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "j", "down":
			if m.cursor < len(m.projects)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "d":
			m.showDone = !m.showDone
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("prjct") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading lists:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.snap == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if len(m.projects) == 0 {
		b.WriteString("  No projects found.\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	m.writeProjects(&b)
	m.writeItems(&b)
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func (m *tuiModel) writeProjects(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Projects") + "\n\n")
	for i, name := range m.projects {
		line := fmt.Sprintf("%-24s %3d open %3d done", name,
			len(m.snap.Active[name]), len(m.snap.Completed[name]))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeItems(b *strings.Builder) {
	name := m.selected()
	index, label := m.snap.Active, "Open"
	if m.showDone {
		index, label = m.snap.Completed, "Done"
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s in +%s", label, name)) + "\n\n")

	items := index[name]
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("  Nothing here.") + "\n\n")
		return
	}
	for _, item := range items {
		b.WriteString("  " + item + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) selected() string {
	if m.cursor < 0 || m.cursor >= len(m.projects) {
		return ""
	}
	return m.projects[m.cursor]
}

func (m *tuiModel) refresh() {
	snap, err := m.loader.Snapshot(m.ctx)
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil

	current := m.selected()
	m.snap = snap
	m.projects = projectNames(snap)
	m.cursor = 0
	for i, name := range m.projects {
		if name == current {
			m.cursor = i
			break
		}
	}
}

// projectNames returns the projects with at least one exported item.
func projectNames(snap *export.Snapshot) []string {
	seen := make(map[string]bool)
	var names []string
	for _, index := range []export.ProjectIndex{snap.Active, snap.Completed} {
		for name := range index {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	export.SortProjects(names)
	return names
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  j, down      Next project\n")
	b.WriteString("  k, up        Previous project\n")
	b.WriteString("  d            Toggle open/done items\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(dimStyle.Render(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", interval)) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
