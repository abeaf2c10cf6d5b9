// Package render turns layer collections into diagrams.
//
// The [dot] subpackage writes Graphviz DOT for the analysis graph of a map,
// grouped by owning layer, and for the layer dependency relation. It renders
// SVG in-process through Graphviz.
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := dot.RenderSVG(ctx, dot.ToDOT(c, dot.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [dot]: github.com/matzehuels/layerdefs/pkg/render/dot
package render
