package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/frame"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for browsing a board's layers.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [board.json]",
		Short: "Browse a board's layers interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := board.ReadBoardFile(args[0])
			if err != nil {
				return err
			}
			model := NewLayerListModel(b.Snapshot())
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// =============================================================================
// LayerListModel - Interactive layer browser
// =============================================================================

// LayerListModel is the bubbletea model for browsing board layers. It shows
// the layers in document order or computed paint order, toggled with "o".
type LayerListModel struct {
	Snap       board.Snapshot
	Rows       []board.LayerID // IDs in the currently displayed order
	PaintOrder bool
	Cursor     int
	Height     int
	Offset     int
}

// NewLayerListModel creates a layer list over a snapshot.
func NewLayerListModel(snap board.Snapshot) LayerListModel {
	return LayerListModel{
		Snap:   snap,
		Rows:   snap.Order(),
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m LayerListModel) Init() tea.Cmd {
	return nil
}

func (m LayerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "o":
			m.PaintOrder = !m.PaintOrder
			if m.PaintOrder {
				m.Rows = frame.SortForRendering(m.Snap.Order(), m.Snap)
			} else {
				m.Rows = m.Snap.Order()
			}
			m.Cursor = 0
			m.Offset = 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LayerListModel) View() string {
	var b strings.Builder

	title := "Layers (document order)"
	if m.PaintOrder {
		title = "Layers (paint order)"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  o toggle order  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		id := m.Rows[i]
		l, ok := m.Snap.Layer(id)
		if !ok {
			continue
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		parent := "—"
		if p, ok := frame.ParentFrame(id, m.Snap); ok {
			parent = string(p)
		}

		rows = append(rows, []string{
			cursor,
			string(id),
			string(l.Kind),
			fmt.Sprintf("%g,%g", l.X, l.Y),
			fmt.Sprintf("%g×%g", l.Width, l.Height),
			parent,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Layer", "Kind", "Position", "Size", "Frame").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			l, ok := m.Snap.Layer(m.Rows[actualIdx])

			if actualIdx == m.Cursor {
				return listSelectedStyle
			}
			if ok && l.IsFrame() {
				return listNormalStyle.Foreground(colorGreen)
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
