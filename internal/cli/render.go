package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerdefs/pkg/render/dot"
)

const (
	viewAnalyses = "analyses" // analysis nodes clustered by layer
	viewLayers   = "layers"   // one box per layer, dependency arrows
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file; "-" or empty writes DOT to stdout
	view     string // viewAnalyses or viewLayers
	format   string // dot, svg, pdf or png; inferred from output when empty
	detailed bool   // node types and params in labels
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"dot": true, "svg": true, "pdf": true, "png": true}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{view: viewAnalyses}

	cmd := &cobra.Command{
		Use:   "render <map-file>",
		Short: "Draw the analysis graph or layer dependencies with Graphviz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(opts.format, opts.output)
			if err != nil {
				return err
			}
			if opts.view != viewAnalyses && opts.view != viewLayers {
				return fmt.Errorf("invalid view: %s (must be '%s' or '%s')", opts.view, viewAnalyses, viewLayers)
			}

			_, coll, err := c.loadMap(args[0])
			if err != nil {
				return err
			}
			src := dot.LayersToDOT(coll)
			if opts.view == viewAnalyses {
				src = dot.ToDOT(coll, dot.Options{Detailed: opts.detailed})
			}

			prog := newProgress(c.Logger)
			out, err := dot.Render(cmd.Context(), src, format)
			if err != nil {
				return err
			}
			if opts.output == "" || opts.output == "-" {
				_, err = stdout.Write(out)
				return err
			}
			if err := os.WriteFile(opts.output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", opts.output, err)
			}
			prog.done("Rendered " + format)
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: DOT to stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, pdf, png (default: from output extension)")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "diagram: analyses (default) or layers")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node types and parameters")

	return cmd
}

// resolveFormat picks the explicit format, then the output extension, then dot.
func resolveFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "" || output == "-" {
			format = "dot"
		}
	}
	if !validFormats[format] {
		return "", fmt.Errorf("invalid format: %s (must be 'dot', 'svg', 'pdf', or 'png')", format)
	}
	return format, nil
}
