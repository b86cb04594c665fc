package shape

import (
	"context"

	"github.com/roach88/ontomig/internal/rdf"
)

// Counter counts the solutions of a shape's query in some store.
type Counter interface {
	CountShape(ctx context.Context, s Shape) (int, error)
}

// GraphCounter counts shape solutions in an in-memory graph with the same
// semantics as Shape.Query: the number of distinct (?s ?p ?o) rows, or of
// distinct ?s when the shape has no assertions.
type GraphCounter struct {
	Graph *rdf.Graph
}

// InGraph returns a Counter over g.
func InGraph(g *rdf.Graph) GraphCounter {
	return GraphCounter{Graph: g}
}

// CountShape implements Counter.
func (c GraphCounter) CountShape(ctx context.Context, s Shape) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return Count(c.Graph, s), nil
}

// Count is the synchronous form of GraphCounter.CountShape.
func Count(g *rdf.Graph, s Shape) int {
	nodes := make(map[rdf.Term]struct{})
	for _, b := range Solve(g, s.Patterns(false)) {
		nodes[b[NodeVar]] = struct{}{}
	}
	if len(s.Assertions) == 0 {
		return len(nodes)
	}
	n := 0
	for node := range nodes {
		n += len(g.Match(node, "", nil))
	}
	return n
}
