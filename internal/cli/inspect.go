package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	layerio "github.com/matzehuels/layerdefs/pkg/io"
	"github.com/matzehuels/layerdefs/pkg/layer"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <map-file>",
		Short: "Summarize the layers of a map document",
		Long: `Summarize the layers of a map document: letters, sources, analysis counts,
dependent layers and whether each layer may be deleted.

With --json the document is printed in canonical JSON instead, with letters
assigned and options in their persisted order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, coll, err := c.loadMap(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return layerio.Write(layerio.FromCollection(coll), stdout, layerio.FormatJSON)
			}
			printSummary(args[0], coll)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the canonical JSON document")
	return cmd
}

func printSummary(path string, coll *layer.Collection) {
	fmt.Fprintln(stdout, StyleTitle.Render(path))
	printKeyValue("layers", strconv.Itoa(coll.Len()))
	printKeyValue("data layers", strconv.Itoa(coll.CountDataLayers()))
	printKeyValue("analyses", strconv.Itoa(coll.Graph().Len()))

	rows := make([][]string, 0, coll.Len())
	for _, d := range coll.Layers() {
		rows = append(rows, []string{
			orDash(d.Letter()),
			d.ID(),
			orDash(d.Kind()),
			orDash(d.TableName()),
			orDash(d.Source()),
			strconv.Itoa(d.NumberOfAnalyses()),
			strconv.Itoa(coll.CountDependentLayers(d)),
			yesNo(d.CanBeDeletedByUser()),
		})
	}
	printTable([]string{"Letter", "ID", "Kind", "Table", "Source", "Analyses", "Dependents", "Deletable"}, rows)

	deps := coll.Dependencies()
	if len(deps) == 0 {
		printInfo("No layer reads data through another layer")
		return
	}
	for _, dep := range deps {
		printDetail("%s %s %s", layerName(dep[0]), iconArrow, layerName(dep[1]))
	}
}

func layerName(d *layer.Definition) string {
	if d.Letter() == "" {
		return d.ID()
	}
	return fmt.Sprintf("%s (%s)", d.ID(), d.Letter())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
