package cli

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/canopy/pkg/document"
	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/session"
)

// stdio is the path that selects stdin or stdout.
const stdio = "-"

// readInput reads path, or stdin when path is "-".
func readInput(in io.Reader, path string) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(in)
	}
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeNotFound, err, "document %s", path)
	}
	return data, err
}

// writeOutput writes data to path, or to out when path is "-". Files are
// written to a temporary sibling and renamed into place.
func writeOutput(out io.Writer, path string, data []byte) error {
	if path == stdio {
		_, err := out.Write(data)
		return err
	}
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// openSession decodes data into a session configured from c.Config.
// The decoder logs each skipped record; callers report the total.
func (c *CLI) openSession(data []byte, logger *log.Logger) (*session.Session, []document.Warning, error) {
	opts, err := c.sessionOptions("")
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = logger
	return session.Open(data, opts)
}

// loadSession reads and decodes the document at path.
func (c *CLI) loadSession(in io.Reader, path string, logger *log.Logger) (*session.Session, []document.Warning, error) {
	data, err := readInput(in, path)
	if err != nil {
		return nil, nil, err
	}
	return c.openSession(data, logger)
}

// saveSession exports s to path.
func saveSession(out io.Writer, path string, s *session.Session) error {
	data, err := s.Export()
	if err != nil {
		return err
	}
	return writeOutput(out, path, data)
}
