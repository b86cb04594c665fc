package migrate

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
	"github.com/roach88/ontomig/internal/update"
)

// Correlation is the outcome of correlating the blank nodes of one diff.
type Correlation struct {
	// Forward inserts each changed blank node shape, index-aligned with
	// Backward.
	Forward []update.Statement

	// Backward deletes each changed blank node shape.
	Backward []update.Statement

	// Visited holds every blank node of the diff that was examined.
	Visited map[rdf.Blank]struct{}

	// Unchanged counts blank nodes left alone because their whole structure
	// was found unmodified at the destination.
	Unchanged int
}

// Correlate decides, for every blank node appearing in diff, whether its
// shape exists unchanged at the destination.
//
// diff holds the triples of origin absent from destination. A shape whose
// solution count at the destination is zero, or differs from its count at
// the origin, is changed. Blank nodes linked through diff triples form one
// structure; a structure with any changed node, or one the destination does
// not hold as a whole, is emitted whole as a single InsertShape/DeleteShape
// pair into graph, so that a store builds or removes it in one request.
// Blank nodes are examined in label order.
func Correlate(ctx context.Context, diff *rdf.Graph, origin, destination shape.Counter, graph string) (*Correlation, error) {
	c := &Correlation{Visited: make(map[rdf.Blank]struct{})}
	shapes := make(map[rdf.Blank]shape.Shape)
	changed := make(map[rdf.Blank]bool)

	blanks := diff.Blanks()
	for _, b := range blanks {
		if _, seen := c.Visited[b]; seen {
			continue
		}
		c.Visited[b] = struct{}{}

		s := shape.Of(diff, b)
		shapes[b] = s
		atDestination, err := destination.CountShape(ctx, s)
		if err != nil {
			return nil, NewStoreCallError(fmt.Sprintf("count shape of %s at destination", rdf.N3(b)), s.Query(), err)
		}
		if atDestination > 0 {
			atOrigin, err := origin.CountShape(ctx, s)
			if err != nil {
				return nil, NewStoreCallError(fmt.Sprintf("count shape of %s at origin", rdf.N3(b)), s.Query(), err)
			}
			if atOrigin == atDestination {
				continue
			}
		}
		changed[b] = true
	}

	for _, group := range structures(blanks, shapes) {
		top := topOf(group, shapes)
		var nested []shape.Shape
		for _, b := range group {
			if b != top {
				nested = append(nested, shapes[b])
			}
		}

		modified := slices.ContainsFunc(group, func(b rdf.Blank) bool { return changed[b] })
		if !modified && len(nested) > 0 {
			var err error
			if modified, err = structureChanged(ctx, shapes[top], nested, origin, destination); err != nil {
				return nil, err
			}
		}
		if !modified {
			c.Unchanged += len(group)
			continue
		}
		c.Forward = append(c.Forward, update.InsertShape{Graph: graph, Shape: shapes[top], Nested: nested})
		c.Backward = append(c.Backward, update.DeleteShape{Graph: graph, Shape: shapes[top], Nested: nested})
	}
	return c, nil
}

// structureChanged counts a structure whose nodes were each found at the
// destination as a whole. Nodes can match separately, each inside a
// different structure, while the structure itself is gone. Counters that
// cannot count structures leave the per-node verdict standing.
func structureChanged(ctx context.Context, root shape.Shape, nested []shape.Shape, origin, destination shape.Counter) (bool, error) {
	dst, ok := destination.(shape.StructureCounter)
	if !ok {
		return false, nil
	}
	org, ok := origin.(shape.StructureCounter)
	if !ok {
		return false, nil
	}
	atDestination, err := dst.CountStructure(ctx, root, nested)
	if err != nil {
		return false, NewStoreCallError(fmt.Sprintf("count structure of %s at destination", rdf.N3(root.Node)), root.Query(), err)
	}
	if atDestination == 0 {
		return true, nil
	}
	atOrigin, err := org.CountStructure(ctx, root, nested)
	if err != nil {
		return false, NewStoreCallError(fmt.Sprintf("count structure of %s at origin", rdf.N3(root.Node)), root.Query(), err)
	}
	return atOrigin != atDestination, nil
}

// structures groups blanks into sets linked through the blank nodes of their
// shapes. Groups are ordered by their first member, members by label.
func structures(blanks []rdf.Blank, shapes map[rdf.Blank]shape.Shape) [][]rdf.Blank {
	var out [][]rdf.Blank
	seen := make(map[rdf.Blank]bool)
	for _, b := range blanks {
		if seen[b] {
			continue
		}
		seen[b] = true
		group := []rdf.Blank{b}
		for i := 0; i < len(group); i++ {
			for _, n := range shapes[group[i]].Blanks() {
				if !seen[n] {
					seen[n] = true
					group = append(group, n)
				}
			}
		}
		slices.Sort(group)
		out = append(out, group)
	}
	return out
}

// topOf picks the node of group no other blank node refers to, falling back
// to the first member when the structure is a cycle.
func topOf(group []rdf.Blank, shapes map[rdf.Blank]shape.Shape) rdf.Blank {
	for _, b := range group {
		nested := slices.ContainsFunc(shapes[b].Referrers, func(r shape.Referrer) bool {
			return rdf.IsBlank(r.Subject)
		})
		if !nested {
			return b
		}
	}
	return group[0]
}
