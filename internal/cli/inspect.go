package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/diagram"
	"github.com/matzehuels/canopy/pkg/session"
)

// docStats summarizes a document for "canopy inspect".
type docStats struct {
	Title    string         `json:"title"`
	Nodes    int            `json:"nodes"`
	Edges    int            `json:"edges"`
	Roots    []string       `json:"roots"`
	MaxDepth int            `json:"maxDepth"`
	Depths   []int          `json:"depths"` // node count per depth, index 0 is roots
	Shapes   map[string]int `json:"shapes"`
	Bounds   *diagram.Rect  `json:"bounds,omitempty"`
	Skipped  int            `json:"skipped"`
}

func computeStats(s *session.Session, skipped int) docStats {
	d := s.Diagram()
	st := docStats{
		Title:   s.Title(),
		Nodes:   d.Len(),
		Shapes:  make(map[string]int),
		Skipped: skipped,
	}
	for _, r := range d.Roots() {
		st.Roots = append(st.Roots, r.Text)
	}
	for _, n := range d.Nodes() {
		if !d.IsRoot(n.ID) {
			st.Edges++
		}
		depth := d.Depth(n.ID)
		for len(st.Depths) <= depth {
			st.Depths = append(st.Depths, 0)
		}
		st.Depths[depth]++
		st.Shapes[n.Shape.String()]++
	}
	if len(st.Depths) > 0 {
		st.MaxDepth = len(st.Depths) - 1
	}
	if b, ok := d.Bounds(); ok {
		st.Bounds = &b
	}
	return st
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show statistics for a diagram document",
		Long: `Show node and edge counts, roots, the depth histogram and the bounding box
of a diagram document. Results are cached by document content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.inspect(cmd.Context(), cmd.InOrStdin(), args[0], noCache)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			printDocStats(out, args[0], st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) inspect(ctx context.Context, in io.Reader, path string, noCache bool) (docStats, error) {
	logger := loggerFromContext(ctx)
	data, err := readInput(in, path)
	if err != nil {
		return docStats{}, err
	}

	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return docStats{}, err
	}
	cc = cache.Instrument(cc)
	defer cc.Close()

	key := c.keyer().StatsKey(cache.Hash(data))
	if cached, ok, err := cc.Get(ctx, key); err != nil {
		logger.Warn("stats cache lookup failed", "err", err)
	} else if ok {
		var st docStats
		if err := json.Unmarshal(cached, &st); err == nil {
			logger.Debug("stats cache hit", "path", path)
			return st, nil
		}
	}

	s, warnings, err := c.openSession(data, logger)
	if err != nil {
		return docStats{}, err
	}
	st := computeStats(s, len(warnings))

	if payload, err := json.Marshal(st); err == nil {
		if err := cc.Set(ctx, key, payload, cache.TTLStats); err != nil {
			logger.Warn("stats cache store failed", "err", err)
		}
	}
	return st, nil
}

func printDocStats(w io.Writer, path string, st docStats) {
	fmt.Fprintln(w, StyleTitle.Render(path))
	if st.Title != "" {
		printKeyValue(w, "Title", st.Title)
	}
	printKeyValue(w, "Nodes", fmt.Sprint(st.Nodes))
	printKeyValue(w, "Edges", fmt.Sprint(st.Edges))
	printKeyValue(w, "Roots", fmt.Sprint(len(st.Roots)))
	printKeyValue(w, "Max depth", fmt.Sprint(st.MaxDepth))
	if st.Bounds != nil {
		printKeyValue(w, "Bounds", fmt.Sprintf("%.0f×%.0f at (%.0f, %.0f)", st.Bounds.Width(), st.Bounds.Height(), st.Bounds.MinX, st.Bounds.MinY))
	}

	if len(st.Roots) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleDim.Render("Roots"))
		for _, r := range st.Roots {
			printDetail(w, "%s", r)
		}
	}

	if len(st.Depths) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleDim.Render("Depth"))
		max := 0
		for _, n := range st.Depths {
			if n > max {
				max = n
			}
		}
		for depth, n := range st.Depths {
			printBar(w, fmt.Sprint(depth), n, max)
		}
	}

	if len(st.Shapes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleDim.Render("Shapes"))
		names := make([]string, 0, len(st.Shapes))
		for name := range st.Shapes {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			printKeyValue(w, name, fmt.Sprint(st.Shapes[name]))
		}
	}

	printSkipped(w, st.Skipped)
}
