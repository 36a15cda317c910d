package trace

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// Options configures search tree rendering.
type Options struct {
	// Detailed adds the fractional bound to every node label.
	Detailed bool

	// HidePruned omits pruned leaves.
	HidePruned bool
}

// ToDOT converts a recording to Graphviz DOT format.
func ToDOT(r *Recorder, opts Options) string {
	visits := r.Visits()

	var buf bytes.Buffer
	buf.WriteString("digraph search {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"SF Mono, Menlo, monospace\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, v := range visits {
		if v.Pruned && opts.HidePruned {
			continue
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", v.Node, strings.Join(nodeAttrs(v, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, v := range visits {
		if v.Parent < 0 || (v.Pruned && opts.HidePruned) {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", v.Parent, v.Node, strings.Join(edgeAttrs(v), ", "))
	}

	if d := r.Dropped(); d > 0 {
		fmt.Fprintf(&buf, "\n  truncated [shape=note, label=%q, fillcolor=lightyellow];\n",
			fmt.Sprintf("%d more nodes not recorded", d))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(v knapsack.Visit, detailed bool) string {
	var head string
	switch {
	case v.Parent < 0:
		head = "root"
	case v.Pruned:
		head = fmt.Sprintf("pruned #%d", v.ItemID)
	default:
		head = fmt.Sprintf("%s #%d", v.Branch, v.ItemID)
	}
	parts := []string{head, fmt.Sprintf("w %.2f  v %.2f", v.Weight, v.Value)}
	if detailed || v.Pruned {
		parts = append(parts, fmt.Sprintf("bound %.2f", v.Bound))
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(v knapsack.Visit, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(v, detailed))}
	switch {
	case v.Pruned:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=dimgrey")
	case v.Best:
		attrs = append(attrs, "fillcolor=palegreen")
	}
	return attrs
}

func edgeAttrs(v knapsack.Visit) []string {
	if v.Branch == knapsack.Included {
		return []string{"label=\"in\""}
	}
	return []string{"label=\"out\"", "style=dashed"}
}

// RenderSVG renders a DOT graph to SVG using the embedded Graphviz.
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

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// viewBox so browsers scale the drawing to its container.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
