package shape

import (
	"strings"

	"github.com/roach88/ontomig/internal/rdf"
)

// Query renders the SPARQL SELECT whose solution count fingerprints the
// shape in a store:
//
//	SELECT DISTINCT ?s ?p ?o WHERE { r1 p1 ?s . ?s p2 o2 . ?s ?p ?o . }
//
// A shape without assertions selects DISTINCT ?s over the referrer patterns
// only. Blank nodes other than the node itself become non-distinguished
// variables.
func (s Shape) Query() string {
	var b strings.Builder
	if len(s.Assertions) > 0 {
		b.WriteString("SELECT DISTINCT ?s ?p ?o WHERE { ")
	} else {
		b.WriteString("SELECT DISTINCT ?s WHERE { ")
	}
	for _, r := range s.Referrers {
		b.WriteString(s.Var(r.Subject, false))
		b.WriteByte(' ')
		b.WriteString(rdf.N3(r.Predicate))
		b.WriteString(" ?s . ")
	}
	for _, a := range s.Assertions {
		b.WriteString("?s ")
		b.WriteString(rdf.N3(a.Predicate))
		b.WriteByte(' ')
		b.WriteString(s.Var(a.Object, false))
		b.WriteString(" . ")
	}
	if len(s.Assertions) > 0 {
		b.WriteString("?s ?p ?o . ")
	}
	b.WriteString("}")
	return b.String()
}
