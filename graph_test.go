package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(decls ...Declaration) *Graph {
	return Assemble(ExtractGroups(decls), AssembleOptions{IDs: IDsAuto})
}

func edge(source, target string, rel Relation, arrow Arrowhead, style LineStyle) GraphEdge {
	return GraphEdge{Source: source, Target: target, Relation: rel.String(), Arrowhead: arrow, Style: style}
}

func TestAssemble_Composition(t *testing.T) {
	g := assemble(
		structDecl("A", field("b", "B")),
		structDecl("B"),
	)

	assert.Equal(t, []GraphEdge{
		edge("B", "A", RelationComposition, ArrowFilledDiamond, LineSolid),
	}, g.Edges)
}

func TestAssemble_Aggregation(t *testing.T) {
	g := assemble(
		structDecl("Amut", field("b", "*mut B")),
		structDecl("Aconst", field("b", "*const B")),
		structDecl("B"),
	)

	assert.Equal(t, []GraphEdge{
		edge("B", "Amut", RelationAggregation, ArrowOpenDiamond, LineSolid),
		edge("B", "Aconst", RelationAggregation, ArrowOpenDiamond, LineSolid),
	}, g.Edges)
}

func TestAssemble_Dependency(t *testing.T) {
	g := assemble(
		structDecl("A"),
		implDecl(method("b", nil, param("b", "&B"))),
		structDecl("B"),
	)

	assert.Equal(t, []GraphEdge{
		edge("B", "A", RelationDependency, ArrowVee, LineDashed),
	}, g.Edges)
}

func TestAssemble_Realization(t *testing.T) {
	g := assemble(
		Declaration{Kind: DeclStruct, Name: "A", Generics: []string{"T"}, Fields: []RawField{field("a", "T")}},
		implDecl(method("a", ret("Self"), param("a", "T"))),
		traitImplDecl("Trait_B", []string{"T"}, method("a", ret("Option<T>"), param("self", "&Self"))),
		Declaration{Kind: DeclTrait, Name: "Trait_B", Generics: []string{"T"}, Methods: []RawMethod{
			method("a", ret("Option<T>"), param("self", "&Self")),
		}},
	)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, []GraphEdge{
		edge("Trait_B", "A", RelationRealization, ArrowOpenTriangle, LineDashed),
	}, g.Edges)
}

func TestAssemble_MutualAssociation(t *testing.T) {
	g := assemble(
		structDecl("A"),
		implDecl(method("b", ret("B"))),
		structDecl("Ab"),
		implDecl(method("b", ret("B"))),
		structDecl("B"),
		implDecl(method("a", ret("Ab"))),
	)

	assert.Equal(t, []GraphEdge{
		edge("Ab", "B", RelationAssociation, ArrowNone, LineSolid),
		edge("B", "A", RelationAssociation, ArrowVee, LineSolid),
	}, g.Edges)
}

func TestAssemble_OneEdgePerPairInEitherOrder(t *testing.T) {
	forward := assemble(
		structDecl("A", field("b", "B")),
		structDecl("B", field("a", "Box<A>")),
	)
	backward := assemble(
		structDecl("B", field("a", "Box<A>")),
		structDecl("A", field("b", "B")),
	)

	require.Len(t, forward.Edges, 1)
	require.Len(t, backward.Edges, 1)
	assert.Equal(t, edge("A", "B", RelationComposition, ArrowFilledDiamond, LineSolid), forward.Edges[0])
	assert.Equal(t, edge("B", "A", RelationComposition, ArrowFilledDiamond, LineSolid), backward.Edges[0])
}

func TestAssemble_DashedWhenDependencyAlsoHolds(t *testing.T) {
	g := assemble(
		structDecl("A"),
		structDecl("B", field("a", "A")),
		implDecl(method("set", nil, param("a", "A"))),
	)

	assert.Equal(t, []GraphEdge{
		edge("A", "B", RelationComposition, ArrowFilledDiamond, LineDashed),
	}, g.Edges)
}

func TestAssemble_NonEntitiesProduceNothing(t *testing.T) {
	g := assemble(
		implDecl(method("make", ret("B"))),
		Declaration{Kind: "fn", Name: "B"},
		implDecl(method("make", ret("B"))),
		Declaration{Kind: DeclStruct, Name: "Tuple", Shape: ShapeTuple, Fields: []RawField{{Type: "B"}}},
		Declaration{Kind: "const", Name: "MAX"},
		Declaration{Kind: "mod", Name: "inner"},
	)

	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestAssemble_Nodes(t *testing.T) {
	g := assemble(
		Declaration{Kind: DeclStruct, Name: "A", Module: "core::item", Fields: []RawField{field("b", "B")}},
		Declaration{Kind: DeclEnum, Name: "B", Module: "core::item"},
	)

	assert.Equal(t, []Node{
		{ID: "A", Name: "A", Kind: "struct", Module: "core::item", Label: "{«Structure»\nA|- b: B}"},
		{ID: "B", Name: "B", Kind: "enum", Module: "core::item", Label: "{«Enumeration»\nB}"},
	}, g.Nodes)
}

func TestNodeIDs(t *testing.T) {
	groups := ExtractGroups([]Declaration{
		{Kind: DeclStruct, Name: "Node", Module: "a"},
		{Kind: DeclStruct, Name: "Node", Module: "b"},
		{Kind: DeclStruct, Name: "Edge", Module: "a"},
		{Kind: DeclStruct, Name: "Leaf"},
		{Kind: DeclStruct, Name: "Leaf"},
	})

	assert.Equal(t, []string{"a::Node", "b::Node", "Edge", "Leaf", "Leaf#2"}, nodeIDs(groups, IDsAuto))
	assert.Equal(t, []string{"a::Node", "b::Node", "a::Edge", "Leaf", "Leaf#2"}, nodeIDs(groups, IDsQualified))
	assert.Equal(t, []string{"Node", "Node", "Edge", "Leaf", "Leaf"}, nodeIDs(groups, IDsPlain))
}

func TestEdge_SymmetricKey(t *testing.T) {
	ab := Edge{Left: 1, Right: 4, Relation: RelationComposition}
	ba := Edge{Left: 4, Right: 1, Relation: RelationAssociation}

	assert.Equal(t, ab.Key(), ba.Key())
	assert.NotEqual(t, ab.Key(), Edge{Left: 1, Right: 3}.Key())
}

func TestCollectEdges_FirstOrientationWins(t *testing.T) {
	groups := ExtractGroups([]Declaration{
		structDecl("A"),
		implDecl(method("b", ret("B"))),
		structDecl("B"),
		implDecl(method("a", ret("A"))),
	})

	edges := CollectEdges(groups)
	require.Len(t, edges, 1)
	assert.Equal(t, 0, edges[0].Left)
	assert.Equal(t, 1, edges[0].Right)
	assert.Equal(t, RelationAssociation, edges[0].Relation)
	assert.Equal(t, ArrowNone, edges[0].Arrowhead)
}

func TestResolveEdge_RealizationDashesComposition(t *testing.T) {
	groups := ExtractGroups([]Declaration{
		{Kind: DeclTrait, Name: "T"},
		structDecl("A", field("t", "T")),
		traitImplDecl("T", nil),
		structDecl("B", field("t", "T")),
	})

	dashed := ResolveEdge(groups, 0, 1)
	assert.Equal(t, RelationComposition, dashed.Relation)
	assert.Equal(t, LineDashed, dashed.Style)

	solid := ResolveEdge(groups, 0, 2)
	assert.Equal(t, RelationComposition, solid.Relation)
	assert.Equal(t, RelationComposition.LineStyle(), solid.Style)
}
