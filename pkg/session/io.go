package session

import (
	"github.com/matzehuels/canopy/pkg/document"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/palette"
)

// Export encodes the session as an indented document. Generation colors
// and paint order stay in history snapshots and are not exported.
func (s *Session) Export() ([]byte, error) {
	return document.MarshalIndent(s.state(false))
}

// Import replaces the session state with the document in data and records
// one snapshot, so the import can be undone.
//
// Parse errors and exceeded limits leave the session untouched. Malformed
// records are skipped; the returned warnings describe every skipped or
// altered record.
func (s *Session) Import(data []byte) ([]document.Warning, error) {
	const cmd = "import"
	res, err := s.importer.Decode(data)
	if err != nil {
		observability.Editor().OnImport(len(data), 0, 0, err)
		return nil, s.reject(cmd, err)
	}

	s.d = res.Diagram
	s.view = res.View
	s.title = res.Title
	s.gens = res.Generations
	if s.gens == nil {
		s.gens = palette.NewGenerations()
	}

	observability.Editor().OnImport(len(data), s.d.Len(), res.Skipped, nil)
	s.logger.Info("imported document", "title", s.title, "nodes", s.d.Len(), "skipped", res.Skipped, "warnings", len(res.Warnings))
	if err := s.commit(cmd); err != nil {
		return nil, err
	}
	return res.Warnings, nil
}

// Open creates a session from a stored document. The import is the first
// history entry, so it cannot be undone.
func Open(data []byte, opts Options) (*Session, []document.Warning, error) {
	s := New(opts)
	warnings, err := s.Import(data)
	if err != nil {
		return nil, nil, err
	}
	s.hist.Clear()
	if err := s.record("open"); err != nil {
		return nil, nil, err
	}
	return s, warnings, nil
}
