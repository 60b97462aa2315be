package persist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Resolution represents what to do with an existing file.
type Resolution int

const (
	Skip Resolution = iota
	Overwrite
	ShowDiff
	Cancel
)

// Resolver handles file conflict resolution.
type Resolver struct {
	strategy Strategy
}

// Strategy determines how to resolve conflicts.
type Strategy interface {
	Resolve(path string, existing, newer []byte) (Resolution, error)
}

var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// NewResolver creates a conflict resolver with the specified flags.
// Returns an error if --force is combined with --skip.
func NewResolver(force, skip bool) (*Resolver, error) {
	if force && skip {
		return nil, fmt.Errorf("--force cannot be combined with --skip")
	}

	switch {
	case force:
		return &Resolver{strategy: &ForceStrategy{}}, nil
	case skip:
		return &Resolver{strategy: &SkipStrategy{}}, nil
	default:
		return &Resolver{strategy: &InteractiveStrategy{}}, nil
	}
}

// Resolve determines what to do with a file that already exists.
func (r *Resolver) Resolve(path string, existing, newer []byte) (Resolution, error) {
	return r.strategy.Resolve(path, existing, newer)
}

// ForceStrategy always returns Overwrite (no prompts).
type ForceStrategy struct{}

func (s *ForceStrategy) Resolve(path string, existing, newer []byte) (Resolution, error) {
	return Overwrite, nil
}

// SkipStrategy always returns Skip (no prompts).
type SkipStrategy struct{}

func (s *SkipStrategy) Resolve(path string, existing, newer []byte) (Resolution, error) {
	return Skip, nil
}

// InteractiveStrategy shows a menu with keyboard navigation. Selecting
// "Show diff" displays the diff and returns to the menu, so the user can
// review it more than once before deciding.
type InteractiveStrategy struct{}

func (s *InteractiveStrategy) Resolve(path string, existing, newer []byte) (Resolution, error) {
	for {
		model := newConflictMenuModel(path)
		p := tea.NewProgram(model)
		finalModel, err := p.Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show menu: %w", err)
		}

		result := finalModel.(conflictMenuModel)
		if result.selected == nil {
			return Cancel, nil
		}
		if *result.selected != ShowDiff {
			return *result.selected, nil
		}

		if err := showDiff(path, existing, newer); err != nil {
			return Cancel, err
		}
	}
}

// renderDiff produces a colored line diff between the existing file and
// the newly rendered content.
func renderDiff(existing, newer []byte) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(existing), string(newer))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				sb.WriteString(addedStyle.Render("+ "+strings.TrimSuffix(line, "\n")) + "\n")
			case diffmatchpatch.DiffDelete:
				sb.WriteString(removedStyle.Render("- "+strings.TrimSuffix(line, "\n")) + "\n")
			default:
				sb.WriteString("  " + line)
			}
		}
	}
	return sb.String()
}

// showDiff displays the diff inline for small changes, or in a scrollable
// viewport for larger ones.
func showDiff(path string, existing, newer []byte) error {
	diff := renderDiff(existing, newer)

	if strings.Count(diff, "\n") <= 20 {
		fmt.Println(diff)
		return nil
	}

	model := newDiffViewerModel(path, diff)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to show diff: %w", err)
	}
	return nil
}

// conflictMenuModel is the BubbleTea model for the conflict menu.
type conflictMenuModel struct {
	path     string
	choices  []string
	cursor   int
	selected *Resolution
}

func newConflictMenuModel(path string) conflictMenuModel {
	return conflictMenuModel{
		path: path,
		choices: []string{
			"Show diff and decide",
			"Skip (keep existing file)",
			"Overwrite (replace with generated code)",
			"Cancel generation",
		},
	}
}

func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "enter":
			resolution := [...]Resolution{ShowDiff, Skip, Overwrite, Cancel}[m.cursor]
			m.selected = &resolution
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m conflictMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("⚠  File conflict: ") + titleStyle.Render(m.path) + "\n\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}

	return b.String()
}

// diffViewerModel is the BubbleTea model for scrolling large diffs.
type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			m.viewport.ScrollUp(1)

		case "down", "j":
			m.viewport.ScrollDown(1)

		case "pgup", "b":
			m.viewport.PageUp()

		case "pgdown", "f", "space":
			m.viewport.PageDown()
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, msg.Height-3)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = msg.Height - 3
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Loading diff..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Diff: "+m.path) + "\n")
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(mutedStyle.Render(" [↑/↓] Scroll    [q] Return to menu "))
	return b.String()
}
