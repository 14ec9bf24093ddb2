// Package render turns a bracket graph into Graphviz documents.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Dosada05/bracket-board/brackets"
	"github.com/Dosada05/bracket-board/models"
)

// pointsPerInch converts layout units (treated as points) to Graphviz inches.
const pointsPerInch = 72.0

// DOT converts a bracket graph to Graphviz DOT. Node positions are pinned, so the
// document must be laid out with neato (or rendered with -n). The layout must be
// the one the graph was built with.
func DOT(g *models.BracketGraph, l brackets.Layout) string {
	if l == (brackets.Layout{}) {
		l = brackets.DefaultLayout()
	}
	var buf bytes.Buffer
	buf.WriteString("digraph bracket {\n")
	buf.WriteString("  graph [splines=ortho, bgcolor=\"transparent\"];\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	declared := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		declared[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, l), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		// Ребро на слот отсутствующего матча не рисуем: neato поставил бы такой узел произвольно.
		if !declared[e.Source] || !declared[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%.1f];\n", e.Source, e.Target, e.Style.Stroke, e.Style.StrokeWidth)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n models.GraphNode, l brackets.Layout) []string {
	// pos is the node center in inches; Graphviz has y pointing up.
	cx := (n.Position.X + l.NodeWidth/2) / pointsPerInch
	cy := -(n.Position.Y + l.NodeHeight/2) / pointsPerInch
	attrs := []string{
		fmt.Sprintf("label=%q", n.Data.Label),
		fmt.Sprintf("pos=\"%.3f,%.3f!\"", cx, cy),
		fmt.Sprintf("width=%.3f", l.NodeWidth/pointsPerInch),
		fmt.Sprintf("height=%.3f", l.NodeHeight/pointsPerInch),
	}
	switch n.Type {
	case models.NodeTypeHeader, models.NodeTypeGroupLabel:
		attrs = append(attrs, "shape=plaintext", "style=\"\"", "fontsize=14")
	case models.NodeTypeEmpty:
		attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=grey")
	case models.NodeTypeChampion:
		attrs = append(attrs, "fillcolor=\"#f5a623\"", "penwidth=2")
	default:
		if n.Data.IsWinner {
			attrs = append(attrs, "fillcolor=\"#fdf1dc\"")
		}
	}
	return attrs
}

// SVG lays out a DOT document with neato, honoring pinned positions, and renders
// it to SVG.
func SVG(ctx context.Context, dot string) ([]byte, error) {
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

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
