package cli

import (
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/session"
)

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds msgs to m and returns the resulting model and last command.
func press(t *testing.T, m OutlineModel, msgs ...tea.Msg) (OutlineModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(OutlineModel)
	}
	return m, cmd
}

func typeText(text string) []tea.Msg {
	msgs := make([]tea.Msg, 0, len(text)+1)
	for _, r := range text {
		if r == ' ' {
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		msgs = append(msgs, keys(string(r)))
	}
	return append(msgs, tea.KeyMsg{Type: tea.KeyEnter})
}

func newOutline(t *testing.T, save func() error) OutlineModel {
	t.Helper()
	s := session.New(session.Options{Title: "Outline", Logger: log.New(io.Discard)})
	return NewOutlineModel(s, "outline.json", save)
}

func rowTexts(m OutlineModel) []string {
	texts := make([]string, len(m.rows))
	for i, r := range m.rows {
		texts[i] = r.node.Text
	}
	return texts
}

func TestOutlineAddAndFold(t *testing.T) {
	m := newOutline(t, nil)
	assert.Contains(t, m.View(), "Empty document")

	m, _ = press(t, m, append([]tea.Msg{keys("n")}, typeText("Big Idea")...)...)
	require.Equal(t, []string{"Big Idea"}, rowTexts(m))
	assert.True(t, m.Dirty())

	m, _ = press(t, m, append([]tea.Msg{keys("a")}, typeText("Detail")...)...)
	require.Equal(t, []string{"Big Idea", "Detail"}, rowTexts(m))
	assert.Equal(t, 1, m.Cursor, "cursor follows the new child")
	assert.Equal(t, 1, m.rows[1].depth)

	root := m.rows[0].node
	child := m.rows[1].node
	assert.Equal(t, root.X, child.X, "single child sits under its parent")
	assert.Greater(t, child.Y, root.Y)

	m, _ = press(t, m, keys("k"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, []string{"Big Idea"}, rowTexts(m), "folded")
	assert.Contains(t, m.View(), "▸ Big Idea")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, []string{"Big Idea", "Detail"}, rowTexts(m))
}

func TestOutlineDeleteUndoRedo(t *testing.T) {
	m := newOutline(t, nil)
	m, _ = press(t, m, append([]tea.Msg{keys("n")}, typeText("Root")...)...)
	m, _ = press(t, m, append([]tea.Msg{keys("a")}, typeText("Child")...)...)

	m, _ = press(t, m, keys("d"))
	assert.Equal(t, []string{"Root"}, rowTexts(m))
	assert.Equal(t, 0, m.Cursor)

	m, _ = press(t, m, keys("u"))
	assert.Equal(t, []string{"Root", "Child"}, rowTexts(m))

	m, _ = press(t, m, keys("r"))
	assert.Equal(t, []string{"Root"}, rowTexts(m))

	m, _ = press(t, m, keys("r"))
	assert.Equal(t, "Nothing to redo", m.status)
}

func TestOutlineRenameAndShape(t *testing.T) {
	m := newOutline(t, nil)
	m, _ = press(t, m, append([]tea.Msg{keys("n")}, typeText("Root")...)...)

	backspaces := make([]tea.Msg, 4)
	for i := range backspaces {
		backspaces[i] = tea.KeyMsg{Type: tea.KeyBackspace}
	}
	m, _ = press(t, m, keys("e"))
	assert.Contains(t, m.View(), "Rename: Root")
	m, _ = press(t, m, backspaces...)
	m, _ = press(t, m, typeText("Top")...)
	assert.Equal(t, []string{"Top"}, rowTexts(m))

	m, _ = press(t, m, keys("c"))
	assert.Equal(t, nextShape(diagram.ShapeRounded), m.rows[0].node.Shape)

	// Escape abandons the edit.
	m, _ = press(t, m, keys("e"), keys("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, []string{"Top"}, rowTexts(m))
	assert.Equal(t, modeBrowse, m.mode)
}

func TestOutlineSaveAndQuit(t *testing.T) {
	saves := 0
	m := newOutline(t, func() error { saves++; return nil })
	m, _ = press(t, m, append([]tea.Msg{keys("n")}, typeText("Root")...)...)

	m, cmd := press(t, m, keys("q"))
	assert.Nil(t, cmd, "first q with unsaved changes only warns")
	assert.Contains(t, m.View(), "Unsaved changes")

	m, _ = press(t, m, keys("s"))
	assert.Equal(t, 1, saves)
	assert.False(t, m.Dirty())

	_, cmd = press(t, m, keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestOutlineSaveFailure(t *testing.T) {
	m := newOutline(t, func() error { return errors.New("disk full") })
	m, _ = press(t, m, append([]tea.Msg{keys("n")}, typeText("Root")...)...)
	m, _ = press(t, m, keys("s"))
	assert.True(t, m.Dirty())
	assert.Contains(t, m.status, "disk full")
}

func TestOutlineAutoLayout(t *testing.T) {
	m := newOutline(t, nil)
	m, _ = press(t, m, append([]tea.Msg{keys("n")}, typeText("Root")...)...)
	m, _ = press(t, m, append([]tea.Msg{keys("a")}, typeText("A")...)...)
	m, _ = press(t, m, keys("k"))
	m, _ = press(t, m, append([]tea.Msg{keys("a")}, typeText("B")...)...)

	m, _ = press(t, m, keys("l"))
	assert.Equal(t, "Layout: tree", m.status)

	d := m.Session.Diagram()
	var a, b *diagram.Node
	for _, n := range d.Nodes() {
		switch n.Text {
		case "A":
			a = n
		case "B":
			b = n
		}
	}
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.InDelta(t, a.Y, b.Y, 1e-9)
	assert.NotEqual(t, a.X, b.X)
}

func TestOutlineWindowResize(t *testing.T) {
	m := newOutline(t, nil)
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 5, m.Height)
}
