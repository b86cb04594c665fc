package sparql

import (
	"fmt"

	"github.com/roach88/ontomig/internal/rdf"
)

// Results is the SPARQL 1.1 Query Results JSON document.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]Value `json:"bindings"`
	} `json:"results"`
}

// Value is one bound term in a result row.
type Value struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Term converts v to an rdf term. Virtuoso reports typed literals as
// "typed-literal", which is accepted as well.
func (v Value) Term() (rdf.Term, error) {
	switch v.Type {
	case "uri":
		return rdf.IRI(v.Value), nil
	case "bnode":
		return rdf.Blank(rdf.Label(v.Value)), nil
	case "literal", "typed-literal":
		if v.Lang != "" {
			return rdf.NewLangLiteral(v.Value, v.Lang), nil
		}
		return rdf.NewLiteral(v.Value, rdf.IRI(v.Datatype)), nil
	default:
		return nil, fmt.Errorf("unknown result term type %q", v.Type)
	}
}
