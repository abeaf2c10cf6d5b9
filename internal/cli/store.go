package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerdefs/pkg/errors"
	"github.com/matzehuels/layerdefs/pkg/store"
)

// storeCommand creates the store command group.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Read and remove layers in the configured store",
	}

	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

// storeGetCommand creates the "store get" subcommand.
func (c *CLI) storeGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <layer-id>",
		Short: "Print a stored layer document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			doc, ok, err := store.Load(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(errors.ErrCodeLayerNotFound, "layer %s is not in the %s store", args[0], s.Name())
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, string(out))
			return nil
		},
	}
}

// storeRemoveCommand creates the "store rm" subcommand.
func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <layer-id>...",
		Short: "Remove stored layer documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			for _, id := range args {
				if err := store.Remove(cmd.Context(), s, id); err != nil {
					return err
				}
				printSuccess("Removed %s", id)
			}
			printDetail("Store: %s", s.Name())
			return nil
		},
	}
}
