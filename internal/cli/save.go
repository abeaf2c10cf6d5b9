package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	layerio "github.com/matzehuels/layerdefs/pkg/io"
	"github.com/matzehuels/layerdefs/pkg/layer"
	"github.com/matzehuels/layerdefs/pkg/store"
)

// saveOpts holds the command-line flags for the save command.
type saveOpts struct {
	layer    string   // layer id or letter; empty saves every layer
	set      []string // key=value attributes merged before saving
	preserve bool     // keep a previewed auto-style
	write    bool     // write the updated map back to its file
}

// saveCommand creates the save command.
func (c *CLI) saveCommand() *cobra.Command {
	var opts saveOpts

	cmd := &cobra.Command{
		Use:   "save <map-file>",
		Short: "Save layers of a map document to the configured store",
		Long: `Save one layer (--layer) or every layer of a map document to the configured
store. --set merges attributes before saving; values are parsed as JSON
scalars where possible (true, 12, "text"), otherwise kept as strings.

An active auto-style preview is discarded unless --preserve-auto-style is
given. The autoStyle flag is never persisted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			attrs, err := parseAssignments(opts.set)
			if err != nil {
				return err
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			_, coll, err := c.loadMap(args[0], layer.WithPersister(store.NewPersister(s)))
			if err != nil {
				return err
			}

			targets := coll.Layers()
			if opts.layer != "" {
				d, err := findLayer(coll, opts.layer)
				if err != nil {
					return err
				}
				targets = []*layer.Definition{d}
			}

			prog := newProgress(c.Logger)
			for _, d := range targets {
				if err := d.Save(ctx, attrs, layer.SaveOptions{PreserveAutoStyle: opts.preserve}); err != nil {
					printError("%s: %v", layerName(d), err)
					return err
				}
				printSuccess("Saved %s", layerName(d))
			}
			prog.done(fmt.Sprintf("Saved %d layers to %s", len(targets), s.Name()))

			if opts.write {
				if err := layerio.Export(layerio.FromCollection(coll), args[0]); err != nil {
					return err
				}
				printFile(args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.layer, "layer", "l", "", "layer id or letter (default: all layers)")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "attribute to merge before saving, key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.preserve, "preserve-auto-style", false, "keep a previewed auto-style")
	cmd.Flags().BoolVar(&opts.write, "write", false, "write the updated map back to the file")

	return cmd
}

// parseAssignments turns key=value pairs into attributes.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", p)
		}
		out[k] = parseValue(v)
	}
	return out, nil
}

func parseValue(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if s, err := strconv.Unquote(v); err == nil {
		return s
	}
	return v
}
