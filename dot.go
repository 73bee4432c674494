package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// graphName is the DOT graph identifier.
const graphName = "ml"

var dotArrows = map[Arrowhead]string{
	ArrowNone:          "none",
	ArrowVee:           "vee",
	ArrowOpenDiamond:   "odiamond",
	ArrowFilledDiamond: "diamond",
	ArrowOpenTriangle:  "onormal",
}

// dotNode is a graph node drawn as a Graphviz record.
type dotNode struct {
	id    int64
	name  string
	label string
}

func (n dotNode) ID() int64 { return n.id }

// DOTID prefixes the node id so entity names never clash with DOT keywords.
func (n dotNode) DOTID() string { return "nd" + n.name }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: n.label},
		{Key: "shape", Value: "record"},
	}
}

// dotEdge carries the resolved arrowhead and line style of a relation.
type dotEdge struct {
	from, to dotNode
	arrow    Arrowhead
	style    LineStyle
}

func (e dotEdge) From() graph.Node { return e.from }
func (e dotEdge) To() graph.Node   { return e.to }

func (e dotEdge) ReversedEdge() graph.Edge {
	e.from, e.to = e.to, e.from
	return e
}

func (e dotEdge) Attributes() []encoding.Attribute {
	var attrs []encoding.Attribute
	if e.style == LineDashed {
		attrs = append(attrs, encoding.Attribute{Key: "style", Value: "dashed"})
	}
	return append(attrs, encoding.Attribute{Key: "arrowhead", Value: dotArrow(e.arrow)})
}

// dotGraph converts g into a directed graph for the DOT encoder. Nodes keep
// their position in g as id. Under the plain id policy repeated names
// resolve to their first node, and an edge folded onto itself is dropped.
func dotGraph(g *Graph) *simple.DirectedGraph {
	dg := simple.NewDirectedGraph()
	byID := make(map[string]dotNode, len(g.Nodes))
	for i, n := range g.Nodes {
		node := dotNode{id: int64(i), name: n.ID, label: n.Label}
		dg.AddNode(node)
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = node
		}
	}
	for _, e := range g.Edges {
		from, okFrom := byID[e.Source]
		to, okTo := byID[e.Target]
		if !okFrom || !okTo || from.id == to.id {
			continue
		}
		dg.SetEdge(dotEdge{from: from, to: to, arrow: e.Arrowhead, style: e.Style})
	}
	return dg
}

// WriteDOT writes g as a Graphviz digraph with record-shaped nodes.
func WriteDOT(w io.Writer, g *Graph) error {
	b, err := dot.Marshal(dotGraph(g), graphName, "", "\t")
	if err != nil {
		return fmt.Errorf("encode dot: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// dotArrow names a in Graphviz terms; unknown arrowheads draw none.
func dotArrow(a Arrowhead) string {
	if s, ok := dotArrows[a]; ok {
		return s
	}
	return "none"
}

// RenderSVG pipes DOT text through the external Graphviz `dot` binary.
func RenderSVG(ctx context.Context, src []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "dot", "-Tsvg")
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("dot -Tsvg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
