// Package session owns one editing session: the diagram, its viewport, the
// generation-color memo and the undo/redo history.
//
// Every mutating command runs to completion against the live diagram and
// then records one history snapshot of the whole state. Undo and redo decode
// a snapshot into a fresh diagram and swap it in; nothing is merged.
// Viewport changes (pan, zoom, fit) are not commands of their own: the
// viewport is captured by the next snapshot.
//
// A Session is single-threaded. Callers that share one across goroutines
// must serialize access themselves.
//
// # Usage
//
//	s := session.New(session.Options{Logger: logger})
//	root, _ := s.AddNode("Launch", 0, 0)
//	s.AddChildNode(root.ID, "Design")
//	s.AddChildNode(root.ID, "Build")
//	s.AutoLayout()
//	s.FitToScreen(1280, 720)
//
//	data, err := s.Export()
package session

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/document"
	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/history"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/palette"
	"github.com/matzehuels/canopy/pkg/viewport"
)

// DefaultText labels nodes created without text. Stored documents require
// non-empty text on every node.
const DefaultText = "New Node"

// Options configures a Session. Zero values select defaults.
type Options struct {
	Title  string
	Logger *log.Logger

	// HistoryCapacity bounds the undo stack (default 50).
	HistoryCapacity int

	// Limits caps imports and node creation.
	Limits document.Limits

	// Layout holds spacing and simulation settings for AutoLayout. Its Kind
	// is ignored there; ApplyLayout takes explicit options.
	Layout layout.Options
}

// Session is an editing session. Create one with [New].
type Session struct {
	logger *log.Logger
	limits document.Limits
	layout layout.Options

	title string
	d     *diagram.Diagram
	view  viewport.Viewport
	gens  *palette.Generations

	hist     *history.Manager
	importer *document.Decoder
	restorer *document.Decoder
}

// New creates an empty session and records it as the first history entry.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	limits := opts.Limits.WithDefaults()

	// Snapshots are produced by the session itself, so only the node cap
	// applies when reading them back.
	restoreLimits := limits
	restoreLimits.MaxPayloadBytes = math.MaxInt

	s := &Session{
		logger:   logger,
		limits:   limits,
		layout:   opts.Layout,
		d:        diagram.New(),
		view:     viewport.New(),
		gens:     palette.NewGenerations(),
		hist:     history.New(opts.HistoryCapacity),
		importer: &document.Decoder{Limits: limits, Logger: logger},
		restorer: &document.Decoder{Limits: restoreLimits, Logger: logger},
	}
	s.title, _ = document.Truncate(opts.Title, limits.MaxTitleLen)
	if err := s.record("new"); err != nil {
		logger.Error("initial snapshot", "err", err)
	}
	return s
}

// =============================================================================
// Accessors
// =============================================================================

// Diagram returns the live diagram. Mutate it only through session commands;
// direct changes are not recorded in history.
func (s *Session) Diagram() *diagram.Diagram { return s.d }

// Viewport returns the current viewport.
func (s *Session) Viewport() viewport.Viewport { return s.view }

// Generations returns a copy of the depth to color assignment.
func (s *Session) Generations() map[int]string { return s.gens.Map() }

// Title returns the document title.
func (s *Session) Title() string { return s.title }

// Limits returns the limits in effect.
func (s *Session) Limits() document.Limits { return s.limits }

// =============================================================================
// History
// =============================================================================

// state captures everything a snapshot or export needs.
func (s *Session) state(snapshot bool) document.State {
	st := document.State{
		Title:   s.title,
		Diagram: s.d,
		View:    s.view,
	}
	if snapshot {
		st.Generations = s.gens
		st.PaintOrder = true
	}
	return st
}

// record pushes a snapshot of the current state labeled with the command.
func (s *Session) record(label string) error {
	data, err := document.Marshal(s.state(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "snapshot %s", label)
	}
	s.hist.Push(history.NewSnapshot(label, data))
	observability.Editor().OnHistory("push", s.hist.Len())
	return nil
}

// commit finishes a mutating command. If the new state cannot be
// snapshotted, the live state goes back to the current snapshot so history
// and diagram never diverge, and the error is returned.
func (s *Session) commit(command string) error {
	if err := s.record(command); err != nil {
		s.logger.Error("command rolled back", "name", command, "err", err)
		if snap, ok := s.hist.Current(); ok {
			s.restore(snap)
		}
		observability.Editor().OnCommand(command, s.d.Len(), err)
		return err
	}
	s.logger.Debug("command", "name", command, "nodes", s.d.Len(), "history", s.hist.Len())
	observability.Editor().OnCommand(command, s.d.Len(), nil)
	return nil
}

// reject reports a command that failed validation. Nothing was mutated.
func (s *Session) reject(command string, err error) error {
	s.logger.Debug("command rejected", "name", command, "err", err)
	observability.Editor().OnCommand(command, s.d.Len(), err)
	return err
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	snap, ok := s.hist.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	observability.Editor().OnHistory("undo", s.hist.Len())
	return true
}

// Redo re-applies the next snapshot. It reports false when there is nothing
// to redo.
func (s *Session) Redo() bool {
	snap, ok := s.hist.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	observability.Editor().OnHistory("redo", s.hist.Len())
	return true
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// HistoryLabels returns the labels of all snapshots, oldest first, and the
// index of the current one.
func (s *Session) HistoryLabels() ([]string, int) {
	return s.hist.Labels(), s.hist.Cursor()
}

// restore replaces the live state with snap. Snapshots are written by this
// session, so a failure here means memory corruption; the live state is
// kept and the error logged.
func (s *Session) restore(snap history.Snapshot) {
	data, err := snap.Payload()
	if err != nil {
		s.logger.Error("restore snapshot", "label", snap.Label(), "err", err)
		return
	}
	res, err := s.restorer.Decode(data)
	if err != nil {
		s.logger.Error("restore snapshot", "label", snap.Label(), "err", err)
		return
	}
	s.d = res.Diagram
	s.view = res.View
	s.title = res.Title
	s.gens = res.Generations
	if s.gens == nil {
		s.gens = palette.NewGenerations()
	}
	s.logger.Debug("restored snapshot", "label", snap.Label(), "nodes", s.d.Len())
}
