package rdf

import (
	"fmt"
	"math/big"
	"strings"
)

// N3 renders a term in the N-Triples/SPARQL term syntax.
//
//   - IRIs become <...>, characters not allowed in an IRIREF become \uXXXX
//   - blank nodes become _:label
//   - literals are quoted with \\ \" \n \r \t escapes, followed by @lang,
//     nothing for xsd:string, or ^^<datatype>
//
// A nil term renders as the empty string.
func N3(t Term) string {
	switch v := t.(type) {
	case IRI:
		return "<" + escapeIRI(string(v)) + ">"
	case Blank:
		return "_:" + string(v)
	case Literal:
		var b strings.Builder
		b.WriteByte('"')
		b.WriteString(EscapeString(v.Lexical))
		b.WriteByte('"')
		switch {
		case v.Lang != "":
			b.WriteByte('@')
			b.WriteString(v.Lang)
		case v.Datatype != "" && v.Datatype != XSDString:
			b.WriteString("^^")
			b.WriteString(N3(v.Datatype))
		}
		return b.String()
	case nil:
		return ""
	default:
		panic(fmt.Sprintf("rdf: unknown term type %T", t))
	}
}

// EscapeString escapes s for use inside a double-quoted SPARQL string.
// The backslash is escaped first so existing escapes are preserved.
func EscapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeIRI(s string) string {
	if !strings.ContainsFunc(s, illegalInIRI) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if illegalInIRI(r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func illegalInIRI(r rune) bool {
	if r <= 0x20 {
		return true
	}
	switch r {
	case '<', '>', '"', '{', '}', '|', '^', '`', '\\':
		return true
	}
	return false
}

// Normalize maps xsd:boolean and xsd:nonNegativeInteger literals to the
// xsd:integer literal a coercing store keeps for them. true becomes 1, false
// becomes 0, and leading zeros are dropped. Every other term, including
// ill-typed lexical forms, is returned unchanged.
func Normalize(t Term) Term {
	lit, ok := t.(Literal)
	if !ok || lit.Lang != "" {
		return t
	}
	lex := strings.TrimSpace(lit.Lexical)
	switch lit.Datatype {
	case XSDBoolean:
		switch lex {
		case "true", "1":
			return Literal{Lexical: "1", Datatype: XSDInteger}
		case "false", "0":
			return Literal{Lexical: "0", Datatype: XSDInteger}
		}
	case XSDNonNegativeInteger:
		if strings.HasPrefix(lex, "-") && strings.Trim(lex[1:], "0") != "" {
			return t
		}
		n, ok := new(big.Int).SetString(lex, 10)
		if !ok {
			return t
		}
		return Literal{Lexical: n.String(), Datatype: XSDInteger}
	}
	return t
}

// NormalizedN3 is N3(Normalize(t)).
func NormalizedN3(t Term) string {
	return N3(Normalize(t))
}
