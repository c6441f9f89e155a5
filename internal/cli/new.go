package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/session"
)

type newOpts struct {
	title string
	root  string
	force bool
}

// newCommand creates the "new" command, which writes an empty document or
// one with a single root node.
func (c *CLI) newCommand() *cobra.Command {
	var opts newOpts

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create a new diagram document",
		Long: `Create a new diagram document.

With --root the document starts with a single root node at the origin.
Existing files are not overwritten unless --force is given.`,
		Example: `  canopy new ideas.json --title "Ideas"
  canopy new plan.json --root "Launch" --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "document title")
	cmd.Flags().StringVar(&opts.root, "root", "", "text of an initial root node")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) runNew(cmd *cobra.Command, path string, opts newOpts) error {
	if path != stdio && !opts.force {
		if _, err := os.Stat(path); err == nil {
			return errs.New(errs.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	sopts, err := c.sessionOptions(opts.title)
	if err != nil {
		return err
	}
	sopts.Logger = loggerFromContext(cmd.Context())
	s := session.New(sopts)
	if cmd.Flags().Changed("root") {
		if _, err := s.AddNode(opts.root, 0, 0); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if err := saveSession(out, path, s); err != nil {
		return err
	}
	if path == stdio {
		return nil
	}
	printSuccess(out, "Created %s", StyleHighlight.Render(path))
	printFile(out, path)
	printNextStep(out, "Edit it", "canopy edit "+path)
	return nil
}
