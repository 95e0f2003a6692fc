package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/pipeline"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// InspectModel - Interactive tree browser
// =============================================================================

// InspectModel is the bubbletea model for browsing and pruning a tree.
type InspectModel struct {
	ctx     context.Context
	tree    *partition.Tree
	history []*partition.Tree
	snap    *snapshot.Snapshot

	Cursor   int
	Offset   int
	Height   int
	Status   string
	Modified bool
}

// NewInspectModel creates an inspector over tree. Removals edit tree in place.
func NewInspectModel(ctx context.Context, tree *partition.Tree) InspectModel {
	return InspectModel{
		ctx:    ctx,
		tree:   tree,
		snap:   snapshot.FromTree(tree),
		Height: 15,
	}
}

// Tree returns the edited tree.
func (m InspectModel) Tree() *partition.Tree { return m.tree }

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "d", "delete":
			m.removeSelected()
		case "u":
			m.undo()
		}
	case tea.WindowSizeMsg:
		// Title, help, borders and footer take ten lines.
		m.Height = max(msg.Height-10, 5)
		m.move(0)
	}
	return m, nil
}

func (m *InspectModel) move(delta int) {
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.snap.Nodes)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *InspectModel) removeSelected() {
	n := m.snap.Nodes[m.Cursor]
	if !n.IsLeaf() {
		m.Status = "select a panel to remove"
		return
	}

	before := m.tree.Clone()
	ch := pipeline.RemoveLeaf(m.ctx, m.tree, n.ElementID)
	if ch.Empty() {
		return
	}
	m.history = append(m.history, before)
	m.Modified = true
	m.Status = fmt.Sprintf("removed %s (%d nodes detached)", n.ElementID, len(ch.Removed))
	m.refresh()
}

func (m *InspectModel) undo() {
	if len(m.history) == 0 {
		m.Status = "nothing to undo"
		return
	}
	last := len(m.history) - 1
	m.tree = m.history[last]
	m.history = m.history[:last]
	m.Modified = len(m.history) > 0
	m.Status = "undone"
	m.refresh()
}

func (m *InspectModel) refresh() {
	m.snap = snapshot.FromTree(m.tree)
	m.move(0)
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  d remove  u undo  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.snap.Nodes))
	b.WriteString(treeTable(m.snap.Nodes[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")

	footer := fmt.Sprintf("  [%d/%d]  %d panels", m.Cursor+1, len(m.snap.Nodes), m.snap.ElementCount)
	if m.Status != "" {
		footer += "  " + m.Status
	}
	b.WriteString(listDimStyle.Render(footer))
	return b.String()
}
