package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/session"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// OutlineModel - Interactive outline editor
// =============================================================================

type editMode int

const (
	modeBrowse editMode = iota
	modeAddChild
	modeAddRoot
	modeRename
)

// outlineRow is one visible line of the outline.
type outlineRow struct {
	node     *diagram.Node
	depth    int
	children int
}

// OutlineModel is the bubbletea model for editing a document as an
// indented outline. Every edit goes through the session, so undo and redo
// cover everything done here.
type OutlineModel struct {
	Session *session.Session
	Path    string

	// Save persists the session; nil disables saving.
	Save func() error

	Cursor int
	Height int
	Offset int

	rows        []outlineRow
	mode        editMode
	input       []rune
	status      string
	dirty       bool
	confirmQuit bool
}

// NewOutlineModel creates an outline editor over s.
func NewOutlineModel(s *session.Session, path string, save func() error) OutlineModel {
	m := OutlineModel{
		Session: s,
		Path:    path,
		Save:    save,
		Height:  15,
	}
	m.refresh("")
	return m
}

// Dirty reports whether there are unsaved edits.
func (m OutlineModel) Dirty() bool { return m.dirty }

// refresh rebuilds the visible rows and keeps the cursor on focus when it
// is still visible.
func (m *OutlineModel) refresh(focus string) {
	if focus == "" {
		focus = m.currentID()
	}
	d := m.Session.Diagram()
	m.rows = nil

	var walk func(n *diagram.Node, depth int)
	walk = func(n *diagram.Node, depth int) {
		kids := d.ChildNodes(n.ID)
		m.rows = append(m.rows, outlineRow{node: n, depth: depth, children: len(kids)})
		if n.Collapsed {
			return
		}
		for _, k := range kids {
			walk(k, depth+1)
		}
	}
	for _, r := range d.Roots() {
		walk(r, 0)
	}

	for i, row := range m.rows {
		if row.node.ID == focus {
			m.Cursor = i
			break
		}
	}
	if m.Cursor >= len(m.rows) {
		m.Cursor = len(m.rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.scroll()
}

func (m *OutlineModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m OutlineModel) currentID() string {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.Cursor].node.ID
}

// edited records a successful change.
func (m *OutlineModel) edited(focus, status string) {
	m.dirty = true
	m.status = status
	m.refresh(focus)
}

func (m OutlineModel) Init() tea.Cmd {
	return nil
}

func (m OutlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m OutlineModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "q" && key != "ctrl+c" && key != "esc" {
		m.confirmQuit = false
	}
	id := m.currentID()

	switch key {
	case "q", "ctrl+c", "esc":
		if m.dirty && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "Unsaved changes. Press q again to quit, s to save."
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.scroll()
		}
	case "down", "j":
		if m.Cursor < len(m.rows)-1 {
			m.Cursor++
			m.scroll()
		}
	case "a", "tab":
		if id == "" {
			m.startInput(modeAddRoot, "")
		} else {
			m.startInput(modeAddChild, "")
		}
	case "n":
		m.startInput(modeAddRoot, "")
	case "e", "enter":
		if id != "" {
			m.startInput(modeRename, m.rows[m.Cursor].node.Text)
		}
	case "d", "x", "delete":
		if id != "" {
			removed := m.Session.RemoveNode(id)
			next := ""
			if m.Cursor > 0 {
				next = m.rows[m.Cursor-1].node.ID
			}
			m.edited(next, fmt.Sprintf("Deleted %d node(s)", len(removed)))
		}
	case " ":
		if id != "" && m.Session.ToggleCollapsed(id) {
			m.edited(id, "")
		}
	case "c":
		if id != "" {
			shape := nextShape(m.rows[m.Cursor].node.Shape)
			if m.Session.SetShape(id, shape) {
				m.edited(id, "Shape: "+shape.String())
			}
		}
	case "u":
		if m.Session.Undo() {
			m.edited(id, "Undone")
		} else {
			m.status = "Nothing to undo"
		}
	case "r", "ctrl+r":
		if m.Session.Redo() {
			m.edited(id, "Redone")
		} else {
			m.status = "Nothing to redo"
		}
	case "l":
		kind, err := m.Session.AutoLayout()
		switch {
		case err != nil:
			m.status = "Layout failed: " + err.Error()
		case m.Session.Diagram().Len() > 0:
			m.edited(id, "Layout: "+kind.String())
		}
	case "s", "ctrl+s":
		m.save()
	}
	return m, nil
}

func (m *OutlineModel) save() {
	if m.Save == nil {
		m.status = "Saving is disabled"
		return
	}
	if err := m.Save(); err != nil {
		m.status = "Save failed: " + err.Error()
		return
	}
	m.dirty = false
	m.confirmQuit = false
	m.status = "Saved " + m.Path + " at " + time.Now().Format(time.TimeOnly)
}

func (m *OutlineModel) startInput(mode editMode, initial string) {
	m.mode = mode
	m.input = []rune(initial)
	m.status = ""
}

func (m OutlineModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.mode = modeBrowse
		m.input = nil
	case tea.KeyEnter:
		m.commitInput()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *OutlineModel) commitInput() {
	mode, text := m.mode, string(m.input)
	m.mode = modeBrowse
	m.input = nil
	id := m.currentID()

	switch mode {
	case modeAddChild:
		n, err := m.Session.AddChildNode(id, text)
		if err != nil {
			m.status = "Add failed: " + err.Error()
			return
		}
		m.edited(n.ID, "Added "+n.Text)
	case modeAddRoot:
		x, y := 0.0, 0.0
		if b, ok := m.Session.Diagram().Bounds(); ok {
			x, y = b.MaxX+layout.VerticalSiblingSpacing, b.MinY
		}
		n, err := m.Session.AddNode(text, x, y)
		if err != nil {
			m.status = "Add failed: " + err.Error()
			return
		}
		m.edited(n.ID, "Added "+n.Text)
	case modeRename:
		if m.Session.SetText(id, text) {
			m.edited(id, "Renamed")
		}
	}
}

func nextShape(s diagram.Shape) diagram.Shape {
	shapes := diagram.Shapes()
	for i, sh := range shapes {
		if sh == s {
			return shapes[(i+1)%len(shapes)]
		}
	}
	return shapes[0]
}

func (m OutlineModel) View() string {
	var b strings.Builder

	title := m.Session.Title()
	if title == "" {
		title = m.Path
	}
	if m.dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  a child  n root  e rename  d delete  c shape  ␣ fold  l layout  u/r undo/redo  s save  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  Empty document. Press n to add a root node."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	switch m.mode {
	case modeAddChild:
		b.WriteString(StyleHighlight.Render("Child text: ") + string(m.input) + "█")
	case modeAddRoot:
		b.WriteString(StyleHighlight.Render("Root text: ") + string(m.input) + "█")
	case modeRename:
		b.WriteString(StyleHighlight.Render("Rename: ") + string(m.input) + "█")
	default:
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d nodes", m.Cursor+1, len(m.rows), m.Session.Diagram().Len())))
		if m.status != "" {
			b.WriteString("  " + StyleWarning.Render(m.status))
		}
	}
	b.WriteString("\n")

	return b.String()
}

func (m OutlineModel) renderTable() string {
	end := m.Offset + m.Height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := "  "
		if r.children > 0 {
			marker = "▾ "
			if r.node.Collapsed {
				marker = "▸ "
			}
		}
		text := strings.Repeat("  ", r.depth) + marker + r.node.Text
		rows = append(rows, []string{cursor, text, r.node.Shape.String(), r.node.Color})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Shape", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(m.rows[idx].node.Color))
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	return t.Render()
}
