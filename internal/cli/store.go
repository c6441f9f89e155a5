package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/store"
)

// storeCommand creates the store command for the configured document
// backend (file, redis or mongo).
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and load documents in the configured store",
		Long: `Save and load documents in the configured store.

The backend is selected by the [store] section of the config file:
file (default), redis or mongo.`,
	}

	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeLoadCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

// withStore opens the store, runs fn and closes the store. Remote backends
// show a spinner while fn runs.
func (c *CLI) withStore(cmd *cobra.Command, message string, fn func(ctx context.Context, s store.Store) error) error {
	ctx := cmd.Context()
	if c.Config.Store.Backend != config.BackendFile && c.Config.Store.Backend != "" {
		spinner := newSpinner(ctx, cmd.ErrOrStderr(), message)
		spinner.Start()
		defer spinner.Stop()
	}

	s, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <file>",
		Short: "Save a document file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			data, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			// Refuse payloads that would not load back.
			if _, _, err := c.openSession(data, loggerFromContext(cmd.Context())); err != nil {
				return err
			}
			err = c.withStore(cmd, "Saving "+name, func(ctx context.Context, s store.Store) error {
				return s.Save(ctx, name, data)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Saved %s", StyleHighlight.Render(name))
			return nil
		},
	}
}

func (c *CLI) storeLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Load a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			var data []byte
			err := c.withStore(cmd, "Loading "+name, func(ctx context.Context, s store.Store) error {
				var err error
				data, err = s.Load(ctx, name)
				return err
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := writeOutput(out, output, data); err != nil {
				return err
			}
			if output != stdio {
				printSuccess(out, "Loaded %s", StyleHighlight.Render(name))
				printFile(out, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", stdio, "output file")

	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []store.Info
			err := c.withStore(cmd, "Listing documents", func(ctx context.Context, s store.Store) error {
				var err error
				infos, err = s.List(ctx)
				return err
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				printInfo(out, "No stored documents")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(out, "%s  %s  %s\n",
					StyleValue.Render(fmt.Sprintf("%-32s", info.Name)),
					StyleNumber.Render(fmt.Sprintf("%8d B", info.Size)),
					StyleDim.Render(formatRelativeTime(info.UpdatedAt)))
			}
			return nil
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			err := c.withStore(cmd, "Deleting "+name, func(ctx context.Context, s store.Store) error {
				return s.Delete(ctx, name)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", StyleHighlight.Render(name))
			return nil
		},
	}
}
