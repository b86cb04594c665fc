package migrate

import (
	"context"

	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
	"github.com/roach88/ontomig/internal/update"
)

// EmitPlain emits one INSERT DATA / DELETE pair per diff triple that has no
// blank node, in N-Triples order. Triples touching a blank node are left to
// Correlate.
func EmitPlain(diff *rdf.Graph, graph string) (forward, backward []update.Statement) {
	for _, t := range diff.Triples() {
		if t.HasBlank() {
			continue
		}
		forward = append(forward, update.InsertData{Graph: graph, Triples: []rdf.Triple{t}})
		backward = append(backward, update.DeleteTriple{Graph: graph, Triple: t})
	}
	return forward, backward
}

// Commands generates the statements that add Diff(source, target) to a store
// holding target, and the statements that take them out again. Shapes are
// counted in the in-memory graphs. forward[i] and backward[i] are inverses.
func Commands(ctx context.Context, source, target *rdf.Graph, graph string) (forward, backward []update.Statement, err error) {
	diff := rdf.Diff(source, target)

	corr, err := Correlate(ctx, diff, shape.InGraph(source), shape.InGraph(target), graph)
	if err != nil {
		return nil, nil, err
	}
	plainForward, plainBackward := EmitPlain(diff, graph)

	forward = append(corr.Forward, plainForward...)
	backward = append(corr.Backward, plainBackward...)
	return forward, backward, nil
}
