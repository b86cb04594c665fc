package shape

import (
	"context"

	"github.com/roach88/ontomig/internal/rdf"
)

// StructureCounter counts the solutions of a whole blank node structure: a
// root shape together with the shapes of the blank nodes nested under it.
type StructureCounter interface {
	CountStructure(ctx context.Context, root Shape, nested []Shape) (int, error)
}

// NestedTriples returns the triples of nested that do not touch the node of
// root, each once. Those touching it are part of root already.
func NestedTriples(root Shape, nested []Shape) []rdf.Triple {
	var out []rdf.Triple
	seen := make(map[rdf.Triple]bool)
	for _, n := range nested {
		for _, t := range n.Triples() {
			if t.Subject == rdf.Term(root.Node) || t.Object == rdf.Term(root.Node) || seen[t] {
				continue
			}
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// StructurePatterns returns the patterns of root followed by those of the
// nested triples. Blank nodes are named the way root names them.
func StructurePatterns(root Shape, nested []Shape, normalize bool) []Pattern {
	out := root.Patterns(normalize)
	for _, t := range NestedTriples(root, nested) {
		out = append(out, root.Pattern(t, normalize))
	}
	return out
}

// CountStructure counts the bindings of every blank node of the structure
// under which all its triples hold in g.
func CountStructure(g *rdf.Graph, root Shape, nested []Shape) int {
	return len(Solve(g, StructurePatterns(root, nested, false)))
}

// CountStructure implements StructureCounter.
func (c GraphCounter) CountStructure(ctx context.Context, root Shape, nested []Shape) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return CountStructure(c.Graph, root, nested), nil
}
