package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// dependentsCommand creates the dependents command.
func (c *CLI) dependentsCommand() *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "dependents <map-file> <layer>",
		Short: "List the layers that read data through a layer",
		Long: `List every layer whose source chain passes, directly or through other
layers, through an analysis owned by the given layer. The layer is named by
id or by letter. Each dependent is listed once in stacking order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, coll, err := c.loadMap(args[0])
			if err != nil {
				return err
			}
			d, err := findLayer(coll, args[1])
			if err != nil {
				return err
			}

			deps := coll.DependentLayers(d)
			if count {
				fmt.Fprintln(stdout, len(deps))
				return nil
			}
			if len(deps) == 0 {
				printInfo("No layer depends on %s", layerName(d))
				return nil
			}
			printSuccess("%d layers depend on %s", len(deps), layerName(d))
			for _, dep := range deps {
				printDetail("%s", layerName(dep))
			}
			if !d.CanBeDeletedByUser() {
				printWarning("%s cannot be deleted", layerName(d))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "print only the number of dependent layers")
	return cmd
}
