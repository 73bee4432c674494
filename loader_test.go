package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Sink = (*Neo4jLoader)(nil)
	_ Sink = (*SQLiteStore)(nil)
)

func TestNodeBatch(t *testing.T) {
	batch := nodeBatch([]Node{{ID: "core::A", Name: "A", Kind: "struct", Module: "core", Label: "{A}"}})
	require.Len(t, batch, 1)
	assert.Equal(t, map[string]any{
		"id": "core::A", "name": "A", "kind": "struct", "module": "core", "label": "{A}",
	}, batch[0])
}

func TestEdgeBatches_GroupsByRelationType(t *testing.T) {
	batches := edgeBatches([]GraphEdge{
		edge("B", "A", RelationComposition, ArrowFilledDiamond, LineSolid),
		edge("C", "A", RelationDependency, ArrowVee, LineDashed),
		edge("D", "A", RelationComposition, ArrowFilledDiamond, LineDashed),
	})

	require.Len(t, batches, 2)
	require.Len(t, batches["COMPOSITION"], 2)
	assert.Equal(t, map[string]any{
		"source": "C", "target": "A", "arrowhead": "vee", "style": "dashed",
	}, batches["DEPENDENCY"][0])
	assert.Equal(t, "D", batches["COMPOSITION"][1]["source"])
}

type recordingSink struct {
	saveErr error
	saved   *Graph
	closed  bool
}

func (s *recordingSink) Save(g *Graph) error {
	s.saved = g
	return s.saveErr
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestSaveGraph_ClosesSink(t *testing.T) {
	g := &Graph{}

	ok := &recordingSink{}
	require.NoError(t, saveGraph(ok, g))
	assert.Same(t, g, ok.saved)
	assert.True(t, ok.closed)

	boom := errors.New("boom")
	failing := &recordingSink{saveErr: boom}
	assert.ErrorIs(t, saveGraph(failing, g), boom)
	assert.True(t, failing.closed)
}
