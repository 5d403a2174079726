package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/n-sviridenko/pyprep/pkg/prepare"
	"github.com/n-sviridenko/pyprep/pkg/pysrc"
)

// selectEntries computes the install plan for source plus additional
// packages and lets the user deselect entries interactively. The second
// return value is false when the user cancelled.
func (c *CLI) selectEntries(source string, additional []string, env prepare.Environment) ([]prepare.InstallEntry, bool, error) {
	imports, err := pysrc.FindImports(source)
	if err != nil {
		var synErr *pysrc.SyntaxError
		if stderrors.As(err, &synErr) {
			printWarning("source does not parse: %v", synErr)
			return nil, false, nil
		}
		return nil, false, err
	}

	entries, err := prepare.FindImportsToInstall(env, imports)
	if err != nil {
		return nil, false, err
	}
	for _, pkg := range additional {
		if !hasPlanModule(entries, pkg) {
			entries = append(entries, prepare.InstallEntry{Module: pkg, Package: pkg})
		}
	}
	if len(entries) == 0 {
		return entries, true, nil
	}

	model := newEntryListModel(entries)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, false, fmt.Errorf("interactive selection: %w", err)
	}

	result := final.(entryListModel)
	if !result.Confirmed {
		return nil, false, nil
	}
	return result.selected(), true, nil
}

// =============================================================================
// entryListModel - Interactive install plan review
// =============================================================================

// entryListModel is the bubbletea model for reviewing an install plan.
// Every entry starts selected; space toggles, enter confirms.
type entryListModel struct {
	Entries   []prepare.InstallEntry
	Checked   []bool
	Cursor    int
	Confirmed bool
}

func newEntryListModel(entries []prepare.InstallEntry) entryListModel {
	checked := make([]bool, len(entries))
	for i := range checked {
		checked[i] = true
	}
	return entryListModel{Entries: entries, Checked: checked}
}

func (m entryListModel) selected() []prepare.InstallEntry {
	var out []prepare.InstallEntry
	for i, e := range m.Entries {
		if m.Checked[i] {
			out = append(out, e)
		}
	}
	return out
}

func (m entryListModel) Init() tea.Cmd {
	return nil
}

func (m entryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Checked {
				m.Checked[i] = true
			}
		case "n":
			for i := range m.Checked {
				m.Checked[i] = false
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m entryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Review Install Plan"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ install  q cancel"))
	b.WriteString("\n\n")

	for i, e := range m.Entries {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		box := "[ ]"
		if m.Checked[i] {
			box = "[" + StyleSuccess.Render("x") + "]"
		}

		label := e.Package
		if e.Module != e.Package {
			label += "  " + StyleDim.Render("module "+e.Module)
		}

		line := fmt.Sprintf("%s%s %s", cursor, box, label)
		if i == m.Cursor {
			b.WriteString(StyleHighlight.Render(line))
		} else if m.Checked[i] {
			b.WriteString(StyleValue.Render(line))
		} else {
			b.WriteString(StyleDim.Render(line))
		}
		b.WriteString("\n")
	}

	count := 0
	for _, ok := range m.Checked {
		if ok {
			count++
		}
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d of %d selected", count, len(m.Entries))))

	return b.String()
}
