package main

import (
	"fmt"
	"log/slog"
)

// IDPolicy decides how node identifiers are derived from entity names.
type IDPolicy string

const (
	// IDsAuto qualifies only the names shared by more than one entity.
	IDsAuto IDPolicy = "auto"
	// IDsQualified prefixes every id with its module path.
	IDsQualified IDPolicy = "qualified"
	// IDsPlain uses bare names and lets same-named entities collide.
	IDsPlain IDPolicy = "plain"
)

// AssembleOptions configures graph assembly.
type AssembleOptions struct {
	IDs                 IDPolicy
	ShowImplementations bool
	Logger              *slog.Logger
}

// Edge is an unordered pair of groups with a resolved rendering. Left and
// Right index the assembler's group list; Left is the rendered source.
type Edge struct {
	Left, Right int
	Relation    Relation
	Arrowhead   Arrowhead
	Style       LineStyle
}

// pairKey is the canonical form of an unordered pair.
type pairKey struct {
	lo, hi int
}

func keyOf(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Key returns the canonical ordered-pair key shared by (A,B) and (B,A).
// Two edges are the same edge exactly when their keys are equal.
func (e Edge) Key() pairKey {
	return keyOf(e.Left, e.Right)
}

// ResolveEdge computes the rendering of the edge oriented left → right.
func ResolveEdge(groups []DeclarationGroup, left, right int) Edge {
	l, r := &groups[left], &groups[right]
	kind := Kind(l, r)
	arrow := kind.Arrowhead()
	if kind == RelationAssociation && Kind(r, l) == RelationAssociation {
		arrow = ArrowNone
	}
	// The kind's own style is overridden when a weaker dashed relation also
	// holds, e.g. a composition whose owner takes the part as a parameter.
	style := kind.LineStyle()
	if IsRealization(l, r) || IsDependency(l, r) {
		style = LineDashed
	}
	return Edge{Left: left, Right: right, Relation: kind, Arrowhead: arrow, Style: style}
}

// CollectEdges enumerates every ordered pair, keeps related ones and collapses
// both orientations of a pair into the first one found.
func CollectEdges(groups []DeclarationGroup) []Edge {
	var edges []Edge
	seen := make(map[pairKey]bool)
	for i := range groups {
		for j := range groups {
			if i == j || !IsRelated(&groups[i], &groups[j]) {
				continue
			}
			key := Edge{Left: i, Right: j}.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, ResolveEdge(groups, i, j))
		}
	}
	return edges
}

// Assemble builds the output graph from extracted groups. None groups are
// dropped before any pair is considered.
func Assemble(all []DeclarationGroup, opts AssembleOptions) *Graph {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	groups := make([]DeclarationGroup, 0, len(all))
	for _, g := range all {
		if !g.IsNone() {
			groups = append(groups, g)
		}
	}
	logger.Debug("grouped declarations", "groups", len(all), "entities", len(groups))

	ids := nodeIDs(groups, opts.IDs)
	graph := &Graph{Nodes: make([]Node, 0, len(groups))}
	for i := range groups {
		g := &groups[i]
		graph.Nodes = append(graph.Nodes, Node{
			ID:     ids[i],
			Name:   g.Name(),
			Kind:   g.Entity.Kind.String(),
			Module: g.Module,
			Label:  Label(g, opts.ShowImplementations),
		})
	}

	edges := CollectEdges(groups)
	graph.Edges = make([]GraphEdge, 0, len(edges))
	for _, e := range edges {
		graph.Edges = append(graph.Edges, GraphEdge{
			Source:    ids[e.Left],
			Target:    ids[e.Right],
			Relation:  e.Relation.String(),
			Arrowhead: e.Arrowhead,
			Style:     e.Style,
		})
	}
	logger.Info("assembled graph", "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return graph
}

// nodeIDs derives one id per group according to policy.
func nodeIDs(groups []DeclarationGroup, policy IDPolicy) []string {
	ids := make([]string, len(groups))
	if policy == IDsPlain {
		for i := range groups {
			ids[i] = groups[i].Name()
		}
		return ids
	}

	count := make(map[string]int)
	for i := range groups {
		count[groups[i].Name()]++
	}
	for i := range groups {
		name := groups[i].Name()
		if policy == IDsAuto && count[name] == 1 {
			ids[i] = name
			continue
		}
		if groups[i].Module != "" {
			ids[i] = groups[i].Module + "::" + name
		} else {
			ids[i] = name
		}
	}

	// Same name in the same module, or no module tag at all.
	used := make(map[string]int)
	for i, id := range ids {
		used[id]++
		if n := used[id]; n > 1 {
			ids[i] = fmt.Sprintf("%s#%d", id, n)
		}
	}
	return ids
}
