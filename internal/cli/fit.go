package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/canopy/pkg/errors"
)

// fitCommand creates the fit command, which stores a viewport that frames
// every node on a screen of the given size.
func (c *CLI) fitCommand() *cobra.Command {
	var (
		width, height float64
		output        string
	)

	cmd := &cobra.Command{
		Use:   "fit <file>",
		Short: "Zoom and pan a document so all nodes fit the screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return errs.New(errs.ErrCodeInvalidInput, "--width and --height must be positive")
			}
			logger := loggerFromContext(cmd.Context())
			s, warnings, err := c.loadSession(cmd.InOrStdin(), args[0], logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !s.FitToScreen(width, height) {
				printInfo(out, "Document is empty, viewport unchanged")
				return nil
			}

			dst := output
			if dst == "" {
				dst = args[0]
			}
			if err := saveSession(out, dst, s); err != nil {
				return err
			}
			if dst == stdio {
				return nil
			}
			v := s.Viewport()
			printSuccess(out, "Fitted to %s", StyleNumber.Render(fmt.Sprintf("%.0f×%.0f", width, height)))
			printKeyValue(out, "Zoom", fmt.Sprintf("%.3f", v.Zoom))
			printKeyValue(out, "Offset", fmt.Sprintf("%.1f, %.1f", v.OffsetX, v.OffsetY))
			printFile(out, dst)
			printSkipped(out, len(warnings))
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", 1280, "screen width in pixels")
	cmd.Flags().Float64Var(&height, "height", 800, "screen height in pixels")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: rewrite input)")

	return cmd
}
