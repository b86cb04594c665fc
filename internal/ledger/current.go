package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
	"github.com/roach88/ontomig/internal/sparql"
)

// Version identifies the ontology revision currently applied to a store.
type Version struct {
	Label  string `json:"version"`
	Origin string `json:"origin"`
}

// Selecter runs SPARQL SELECT queries.
type Selecter interface {
	Select(ctx context.Context, query string) (*sparql.Results, error)
}

// CurrentVersionQuery renders the query returning the most recently
// committed version of product in migration graph mg.
func CurrentVersionQuery(mg, product string) string {
	var b strings.Builder
	b.WriteString("prefix owl: <" + rdf.OWLNamespace + ">\n")
	b.WriteString("prefix xsd: <" + rdf.XSDNamespace + ">\n")
	b.WriteString("select distinct ?version ?origen\n")
	b.WriteString("FROM " + rdf.N3(rdf.IRI(mg)) + "\n")
	b.WriteString("{{\n")
	b.WriteString("select distinct ?version ?origen ?data\n")
	b.WriteString("where {?s owl:versionInfo ?version;\n")
	b.WriteString(rdf.N3(Predicate(mg, FieldCommitted)) + " ?data;\n")
	b.WriteString(rdf.N3(Predicate(mg, FieldProduct)) + " " + rdf.N3(rdf.String(product)) + ";\n")
	b.WriteString(rdf.N3(Predicate(mg, FieldOrigin)) + " ?origen.}\n")
	b.WriteString("ORDER BY desc(?data) LIMIT 1\n")
	b.WriteString("}}")
	return b.String()
}

// CurrentVersion asks the store for the latest version of product. ok is
// false when no version has been recorded.
func CurrentVersion(ctx context.Context, sel Selecter, mg, product string) (v Version, ok bool, err error) {
	res, err := sel.Select(ctx, CurrentVersionQuery(mg, product))
	if err != nil {
		return Version{}, false, fmt.Errorf("query current version: %w", err)
	}
	rows := res.Results.Bindings
	if len(rows) == 0 {
		return Version{}, false, nil
	}
	return Version{Label: rows[0]["version"].Value, Origin: rows[0]["origen"].Value}, true, nil
}

// LatestInGraph answers CurrentVersion from an in-memory migration graph.
func LatestInGraph(g *rdf.Graph, mg, product string) (Version, bool) {
	type entry struct {
		committed string
		v         Version
	}
	var entries []entry
	patterns := []shape.Pattern{
		{Subject: shape.V("s"), Predicate: rdf.OWLVersionInfo, Object: shape.V("version")},
		{Subject: shape.V("s"), Predicate: Predicate(mg, FieldCommitted), Object: shape.V("data")},
		{Subject: shape.V("s"), Predicate: Predicate(mg, FieldProduct), Object: shape.Bound(rdf.String(product))},
		{Subject: shape.V("s"), Predicate: Predicate(mg, FieldOrigin), Object: shape.V("origen")},
	}
	for _, b := range shape.Solve(g, patterns) {
		entries = append(entries, entry{
			committed: lexical(b["data"]),
			v:         Version{Label: lexical(b["version"]), Origin: lexical(b["origen"])},
		})
	}
	if len(entries) == 0 {
		return Version{}, false
	}
	latest := slices.MaxFunc(entries, func(a, b entry) int {
		return strings.Compare(a.committed, b.committed)
	})
	return latest.v, true
}

func lexical(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.Literal:
		return v.Lexical
	case rdf.IRI:
		return string(v)
	case rdf.Blank:
		return string(v)
	default:
		return ""
	}
}
