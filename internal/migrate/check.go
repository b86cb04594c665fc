package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
)

// CheckShapes counts the shape of every blank node of want in store and
// fails when the store holds any of them fewer times than want does.
//
// A shape carrying literals rdf.Normalize rewrites is counted a second time in
// normalized form, for stores that coerce literals on insert.
func CheckShapes(ctx context.Context, want *rdf.Graph, store shape.Counter) error {
	normalized := want.Map(rdf.Normalize)

	var missing []string
	for _, b := range want.Blanks() {
		s := shape.Of(want, b)
		expected := shape.Count(want, s)

		got, err := store.CountShape(ctx, s)
		if err != nil {
			return NewStoreCallError(fmt.Sprintf("count shape of %s", rdf.N3(b)), s.Query(), err)
		}
		if n := shape.Of(normalized, b); got < expected && n.Query() != s.Query() {
			coerced, err := store.CountShape(ctx, n)
			if err != nil {
				return NewStoreCallError(fmt.Sprintf("count shape of %s", rdf.N3(b)), n.Query(), err)
			}
			got = max(got, coerced)
		}
		if got < expected {
			missing = append(missing, fmt.Sprintf("%s (%d of %d solutions): %s", rdf.N3(b), got, expected, s.Query()))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%d of %d blank node shapes missing from the store:\n%s",
			len(missing), len(want.Blanks()), strings.Join(missing, "\n"))
	}
	return nil
}
