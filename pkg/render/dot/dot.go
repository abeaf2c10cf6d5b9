package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/layerdefs/pkg/analysis"
	"github.com/matzehuels/layerdefs/pkg/layer"
	"github.com/matzehuels/layerdefs/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the node type and parameters to node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

func header(buf *bytes.Buffer) {
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
}

// ToDOT converts the analysis graph of c to DOT, clustered by owning layer.
func ToDOT(c *layer.Collection, opts Options) string {
	var buf bytes.Buffer
	header(&buf)

	drawn := make(map[string]bool)
	for _, d := range c.Layers() {
		if d.Letter() == "" {
			continue
		}
		nodes := c.Graph().NodesWithLetter(d.Letter())
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph %q {\n", "cluster_"+d.Letter())
		fmt.Fprintf(&buf, "    label=%q;\n", layerLabel(d))
		if !c.CanBeDeletedByUser(d) {
			buf.WriteString("    penwidth=2;\n")
		}
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(fmtAttrs(*n, fmtLabel(*n, opts.Detailed)), ", "))
			drawn[n.ID] = true
		}
		buf.WriteString("  }\n")
	}

	for _, n := range c.Graph().Nodes() {
		if !drawn[n.ID] {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(*n, fmtLabel(*n, opts.Detailed)), ", "))
		}
	}

	buf.WriteString("\n")
	for _, n := range c.Graph().Nodes() {
		if n.Source != "" && c.Graph().Has(n.Source) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Source, n.ID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// LayersToDOT converts the layer dependency relation of c to DOT.
func LayersToDOT(c *layer.Collection) string {
	var buf bytes.Buffer
	header(&buf)

	for _, d := range c.Layers() {
		attrs := []string{fmt.Sprintf("label=%q", layerLabel(d))}
		if !d.IsDataLayer() {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		if !c.CanBeDeletedByUser(d) {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", d.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, dep := range c.Dependencies() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", dep[0].ID(), dep[1].ID())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func layerLabel(d *layer.Definition) string {
	name := d.TableName()
	if name == "" {
		name = d.ID()
	}
	if d.Letter() == "" {
		return name
	}
	return strings.ToUpper(d.Letter()) + ": " + name
}

func fmtLabel(n analysis.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{"type: " + n.Type}
	for _, k := range slices.Sorted(maps.Keys(n.Params)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Params[k]))
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n analysis.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsSource() {
		attrs = append(attrs, "shape=cylinder", "style=filled", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// Render renders dot in the named format: "dot", "svg", "pdf" or "png".
// PDF and PNG go through [render.ToPDF] and [render.ToPNG].
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return RenderSVG(ctx, dot)
	case "pdf", "png":
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return nil, err
		}
		if format == "pdf" {
			return render.ToPDF(ctx, svg)
		}
		return render.ToPNG(ctx, svg, 2.0)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}
