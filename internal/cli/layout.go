package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/pipeline"
)

type layoutOpts struct {
	kind       string
	root       string
	horizontal bool
	noCache    bool
	refresh    bool
	output     string
}

// layoutCommand creates the layout command for repositioning a document's
// nodes with one of the layout strategies.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Arrange the nodes of a diagram document",
		Long: `Arrange the nodes of a diagram document.

Strategies:
  auto     tree for a single root, force for a forest
  tree     tidy tree below the root (or beside it with --horizontal)
  radial   concentric rings around the root
  force    spring simulation over all nodes

Layouts are cached by diagram structure, so re-running on an unchanged
document restores the previous positions. The document is rewritten in
place unless -o is given.`,
		Example: `  canopy layout ideas.json
  canopy layout ideas.json --kind radial --root n1 -o radial.json
  canopy layout ideas.json --kind tree --horizontal --no-cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "layout strategy: auto, tree, radial, force (default from config)")
	cmd.Flags().StringVar(&opts.root, "root", "", "root node id for tree or radial layout")
	cmd.Flags().BoolVar(&opts.horizontal, "horizontal", false, "grow trees left to right")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: rewrite input)")

	return cmd
}

func (c *CLI) layoutOptions(cmd *cobra.Command, opts layoutOpts) (layout.Options, error) {
	lopts, err := c.Config.LayoutOptions()
	if err != nil {
		return layout.Options{}, err
	}
	if opts.kind != "" {
		kind, err := layout.ParseKind(opts.kind)
		if err != nil {
			return layout.Options{}, err
		}
		lopts.Kind = kind
	}
	if cmd.Flags().Changed("horizontal") {
		lopts.Tree.Horizontal = opts.horizontal
	}
	lopts.Root = opts.root
	return lopts, nil
}

func (c *CLI) runLayout(cmd *cobra.Command, path string, opts layoutOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	lopts, err := c.layoutOptions(cmd, opts)
	if err != nil {
		return err
	}

	s, warnings, err := c.loadSession(cmd.InOrStdin(), path, logger)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Layout(ctx, s.Diagram(), pipeline.Options{
		Layout:  lopts,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", res.NodeCount))

	output := opts.output
	if output == "" {
		output = path
	}
	out := cmd.OutOrStdout()
	if err := saveSession(out, output, s); err != nil {
		return err
	}
	if output == stdio {
		return nil
	}

	printSuccess(out, "Layout written")
	printLayoutStats(out, res.Kind.String(), res.NodeCount, res.CacheHit)
	printFile(out, output)
	printSkipped(out, len(warnings))
	return nil
}
