package rdf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	knakk "github.com/knakk/rdf"
)

// ParseError reports a Turtle document the parser rejected. Diagnostic is
// the parser's message, unmodified.
type ParseError struct {
	Graph      string
	Scope      string
	Diagnostic string
	Err        error
}

func (e *ParseError) Error() string {
	return e.Diagnostic
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseOptions controls ParseTurtle.
type ParseOptions struct {
	// Graph names the resulting graph.
	Graph string

	// Scope prefixes every blank node label so that graphs parsed from
	// different documents never share a blank id. When empty, a scope is
	// derived from the document content.
	Scope string
}

// ParseTurtle parses a Turtle document. Empty or whitespace-only text yields
// an empty graph.
func ParseTurtle(text string, opts ParseOptions) (*Graph, error) {
	g := NewGraph(opts.Graph)
	if strings.TrimSpace(text) == "" {
		return g, nil
	}

	scope := opts.Scope
	if scope == "" {
		sum := sha256.Sum256([]byte(text))
		scope = "g" + hex.EncodeToString(sum[:4])
	}
	fail := func(err error) error {
		return &ParseError{Graph: opts.Graph, Scope: opts.Scope, Diagnostic: err.Error(), Err: err}
	}

	dec := knakk.NewTripleDecoder(strings.NewReader(relabel(text)), knakk.Turtle)
	decoded, err := dec.DecodeAll()
	if err != nil {
		return nil, fail(err)
	}

	for _, kt := range decoded {
		s, err := fromKnakk(kt.Subj, scope)
		if err != nil {
			return nil, fail(err)
		}
		o, err := fromKnakk(kt.Obj, scope)
		if err != nil {
			return nil, fail(err)
		}
		g.Add(Triple{Subject: s, Predicate: IRI(kt.Pred.String()), Object: o})
	}
	return g, nil
}

func fromKnakk(t knakk.Term, scope string) (Term, error) {
	switch t.Type() {
	case knakk.TermIRI:
		return IRI(t.String()), nil
	case knakk.TermBlank:
		id := t.String()
		if label, ok := strings.CutPrefix(id, documentLabel); ok {
			return Blank(scope + "_" + documentLabel + Label(label)), nil
		}
		return Blank(scope + "_" + Label(id)), nil
	case knakk.TermLiteral:
		lit, ok := t.(knakk.Literal)
		if !ok {
			return nil, fmt.Errorf("unexpected literal term %T", t)
		}
		if lang := lit.Lang(); lang != "" {
			return NewLangLiteral(lit.String(), lang), nil
		}
		return NewLiteral(lit.String(), IRI(lit.DataType.String())), nil
	default:
		return nil, fmt.Errorf("unsupported term type %v", t.Type())
	}
}

// documentLabel prefixes the blank node labels written in a document. The
// decoder numbers anonymous nodes b1, b2, ... in the same label space, so
// without the prefix an explicit _:b1 would share a node with the first [].
const documentLabel = "d"

// relabel prefixes every blank node label of a Turtle document with
// documentLabel. Labels inside IRIs, string literals and comments are left
// alone.
func relabel(text string) string {
	if !strings.Contains(text, "_:") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 64)
	for i := 0; i < len(text); {
		var j int
		switch c := text[i]; {
		case c == '#':
			j = i + 1
			for j < len(text) && text[j] != '\n' && text[j] != '\r' {
				j++
			}
		case c == '<':
			j = i + 1
			for j < len(text) && text[j] != '>' {
				j++
			}
			j = min(j+1, len(text))
		case c == '"' || c == '\'':
			j = stringEnd(text, i)
		case c == '_' && strings.HasPrefix(text[i:], "_:") && labelBoundary(text, i):
			b.WriteString("_:" + documentLabel)
			i += 2
			continue
		default:
			j = i + 1
		}
		b.WriteString(text[i:j])
		i = j
	}
	return b.String()
}

// stringEnd returns the index just past the string literal opening at i.
func stringEnd(text string, i int) int {
	q := text[i : i+1]
	if long := strings.Repeat(q, 3); strings.HasPrefix(text[i:], long) {
		for j := i + 3; j < len(text); j++ {
			if text[j] == '\\' {
				j++
				continue
			}
			if strings.HasPrefix(text[j:], long) {
				return j + 3
			}
		}
		return len(text)
	}
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case q[0], '\n', '\r':
			return j + 1
		}
	}
	return len(text)
}

// labelBoundary reports whether a "_:" at i starts a blank node label rather
// than continuing a prefixed name such as :a_:b.
func labelBoundary(text string, i int) bool {
	if i == 0 {
		return true
	}
	return strings.IndexByte(" \t\r\n[](),;", text[i-1]) >= 0
}

// Label maps s to a string valid both as a blank node label and as a SPARQL
// variable name. Distinct inputs get distinct labels. Letters, digits and
// single underscores pass through unchanged; any other string is escaped
// behind a leading "__".
func Label(s string) string {
	if plainLabel(s) {
		return s
	}
	var b strings.Builder
	b.WriteString("__")
	for _, r := range s {
		if isAlnum(r) {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "_%x_", r)
	}
	return b.String()
}

func plainLabel(s string) bool {
	if s == "" || strings.Contains(s, "__") {
		return false
	}
	for _, r := range s {
		if !isAlnum(r) && r != '_' {
			return false
		}
	}
	return true
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
