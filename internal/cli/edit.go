package cli

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/session"
)

// editCommand creates the edit command, an interactive outline editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a document as an interactive outline",
		Long: `Edit a document as an interactive outline.

Nodes are shown in hierarchy order. Add children and roots, rename,
delete, fold subtrees, change shapes, re-run the automatic layout, and
undo or redo any of it. A missing file is created on first save.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == stdio {
				return errs.New(errs.ErrCodeInvalidPath, "edit needs a file path")
			}
			// The TUI owns the terminal; keep log lines out of it.
			logger := loggerFromContext(cmd.Context()).WithPrefix("edit")
			logger.SetOutput(io.Discard)

			s, _, err := c.loadSession(cmd.InOrStdin(), path, logger)
			if errs.Is(err, errs.ErrCodeNotFound) {
				opts, oerr := c.sessionOptions(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
				if oerr != nil {
					return oerr
				}
				opts.Logger = logger
				s, err = session.New(opts), nil
			}
			if err != nil {
				return err
			}

			model := NewOutlineModel(s, path, func() error {
				return saveSession(io.Discard, path, s)
			})
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			if m, ok := final.(OutlineModel); ok && m.Dirty() {
				printWarning(cmd.ErrOrStderr(), "Quit with unsaved changes to %s", path)
			}
			return nil
		},
	}
}
