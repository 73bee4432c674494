package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_SaveAndReadBack(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "graph.db"), nil)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.LastRun()
	assert.ErrorIs(t, err, ErrNoRuns)

	g := assemble(
		structDecl("A"),
		implDecl(method("b", ret("B"))),
		structDecl("Ab"),
		implDecl(method("b", ret("B"))),
		structDecl("B"),
		implDecl(method("a", ret("Ab"))),
	)
	require.NoError(t, store.Save(g))
	first, err := store.LastRun()
	require.NoError(t, err)

	got, err := store.Graph(first)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes, got.Nodes)
	assert.Equal(t, g.Edges, got.Edges)

	require.NoError(t, store.Save(&Graph{}))
	second, err := store.LastRun()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	empty, err := store.Graph(second)
	require.NoError(t, err)
	assert.Empty(t, empty.Nodes)
	assert.Empty(t, empty.Edges)

	_, err = store.Graph("missing")
	assert.ErrorIs(t, err, ErrUnknownRun)
}

func TestSQLiteStore_ReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "graph.db")

	store, err := NewSQLiteStore(ctx, path, nil)
	require.NoError(t, err)
	g := assemble(structDecl("A", field("b", "B")), structDecl("B"))
	require.NoError(t, saveGraph(store, g))

	reopened, err := NewSQLiteStore(ctx, path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	run, err := reopened.LastRun()
	require.NoError(t, err)
	got, err := reopened.Graph(run)
	require.NoError(t, err)
	assert.Equal(t, g.Edges, got.Edges)
}
