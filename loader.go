package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Sink persists an assembled graph.
type Sink interface {
	Save(g *Graph) error
	Close() error
}

// Neo4jLoader loads assembled graphs into a Neo4j database using batch
// UNWIND queries.
type Neo4jLoader struct {
	driver neo4j.DriverWithContext
	ctx    context.Context
	runID  string
	logger *slog.Logger
}

// NewNeo4jLoader connects to Neo4j and returns a ready-to-use loader.
func NewNeo4jLoader(ctx context.Context, uri, user, password string, logger *slog.Logger) (*Neo4jLoader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Neo4jLoader{driver: driver, ctx: ctx, runID: uuid.New().String(), logger: logger}, nil
}

// Close releases the underlying Neo4j driver resources.
func (l *Neo4jLoader) Close() error {
	return l.driver.Close(l.ctx)
}

// runCypher runs a single Cypher statement with optional parameters.
func (l *Neo4jLoader) runCypher(cypher string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(l.ctx, l.driver, cypher, params, neo4j.EagerResultTransformer)
	return err
}

// CleanGraph removes all previously loaded types and their relationships.
func (l *Neo4jLoader) CleanGraph() error {
	l.logger.Info("cleaning existing UML graph data")
	return l.runCypher("MATCH (n:UmlType) DETACH DELETE n", nil)
}

// CreateIndexes ensures the required Neo4j indexes exist.
func (l *Neo4jLoader) CreateIndexes() error {
	l.logger.Info("creating indexes")
	indexes := []string{
		"CREATE INDEX uml_type_id IF NOT EXISTS FOR (n:UmlType) ON (n.id)",
		"CREATE INDEX uml_type_name IF NOT EXISTS FOR (n:UmlType) ON (n.name)",
	}
	for _, q := range indexes {
		if err := l.runCypher(q, nil); err != nil {
			return err
		}
	}
	return nil
}

// Save creates indexes, then upserts nodes and edges.
func (l *Neo4jLoader) Save(g *Graph) error {
	if err := l.CreateIndexes(); err != nil {
		return err
	}
	if err := l.LoadNodes(g.Nodes); err != nil {
		return err
	}
	return l.LoadEdges(g.Edges)
}

// LoadNodes upserts UmlType nodes.
func (l *Neo4jLoader) LoadNodes(nodes []Node) error {
	l.logger.Info("loading nodes", "count", len(nodes), "run", l.runID)
	return l.runCypher(
		`UNWIND $batch AS row
		 MERGE (n:UmlType {id: row.id})
		 SET n.name = row.name, n.kind = row.kind, n.module = row.module,
		     n.label = row.label, n.run_id = $run`,
		map[string]any{"batch": nodeBatch(nodes), "run": l.runID},
	)
}

// LoadEdges upserts one relationship type per relation kind.
func (l *Neo4jLoader) LoadEdges(edges []GraphEdge) error {
	batches := edgeBatches(edges)
	kinds := make([]string, 0, len(batches))
	for kind := range batches {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		batch := batches[kind]
		l.logger.Info("loading edges", "relation", kind, "count", len(batch))
		// Relationship types cannot be parameters; kind comes from a closed set.
		err := l.runCypher(fmt.Sprintf(
			`UNWIND $batch AS row
			 MATCH (s:UmlType {id: row.source}), (t:UmlType {id: row.target})
			 MERGE (s)-[r:%s]->(t)
			 SET r.arrowhead = row.arrowhead, r.style = row.style, r.run_id = $run`, kind),
			map[string]any{"batch": batch, "run": l.runID},
		)
		if err != nil {
			return fmt.Errorf("load %s edges: %w", kind, err)
		}
	}
	return nil
}

func nodeBatch(nodes []Node) []map[string]any {
	batch := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		batch = append(batch, map[string]any{
			"id": n.ID, "name": n.Name, "kind": n.Kind,
			"module": n.Module, "label": n.Label,
		})
	}
	return batch
}

// edgeBatches groups edges by relationship type, e.g. COMPOSITION.
func edgeBatches(edges []GraphEdge) map[string][]map[string]any {
	batches := make(map[string][]map[string]any)
	for _, e := range edges {
		kind := strings.ToUpper(e.Relation)
		batches[kind] = append(batches[kind], map[string]any{
			"source":    e.Source,
			"target":    e.Target,
			"arrowhead": string(e.Arrowhead),
			"style":     string(e.Style),
		})
	}
	return batches
}
