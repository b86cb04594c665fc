// Package memstore is an in-memory triple store that executes the update
// statements of a migration plan. It stands in for a SPARQL endpoint in
// tests and dry runs.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
	"github.com/roach88/ontomig/internal/update"
)

// Store holds named graphs. It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	graphs map[string]*rdf.Graph
	coerce bool
	fresh  int
}

// Option configures a Store.
type Option func(*Store)

// WithoutCoercion keeps literals exactly as inserted. By default objects are
// stored in rdf.Normalize form, the way a coercing endpoint keeps them.
func WithoutCoercion() Option {
	return func(s *Store) { s.coerce = false }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{graphs: make(map[string]*rdf.Graph), coerce: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Response is the JSON body Apply returns.
type Response struct {
	Kind    update.Kind `json:"kind"`
	Added   int         `json:"added"`
	Removed int         `json:"removed"`
}

// Load adds every triple of g to the graph named g.Name(). Blank nodes keep
// their labels.
func (s *Store) Load(g *rdf.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dst := s.graph(g.Name())
	for _, t := range g.Triples() {
		dst.Add(s.store(t))
	}
}

// Graph returns a copy of the named graph. A graph never written is empty.
func (s *Store) Graph(name string) *rdf.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.graphs[name]; ok {
		return g.Clone()
	}
	return rdf.NewGraph(name)
}

// Apply executes one statement.
func (s *Store) Apply(ctx context.Context, st update.Statement) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := Response{Kind: st.Kind()}
	switch st := st.(type) {
	case update.InsertData:
		resp.Added = s.insert(st.Graph, st.Triples)
	case update.DeleteTriple:
		if s.graph(st.Graph).Remove(st.Target()) {
			resp.Removed = 1
		}
	case update.InsertShape:
		resp.Added = s.insert(st.Graph, st.Triples())
	case update.DeleteShape:
		resp.Removed = s.deleteShape(st)
	case update.DeleteMatching:
		resp.Removed = s.deleteMatching(st)
	default:
		return nil, fmt.Errorf("memstore: unsupported statement %T", st)
	}
	return json.Marshal(resp)
}

// CountShape counts shape solutions over the union of all graphs, the
// default graph of a query without a GRAPH clause.
func (s *Store) CountShape(ctx context.Context, sh shape.Shape) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	union := rdf.NewGraph("")
	for _, g := range s.graphs {
		for _, t := range g.Triples() {
			union.Add(t)
		}
	}
	s.mu.Unlock()
	return shape.Count(union, sh), nil
}

func (s *Store) graph(name string) *rdf.Graph {
	g, ok := s.graphs[name]
	if !ok {
		g = rdf.NewGraph(name)
		s.graphs[name] = g
	}
	return g
}

func (s *Store) store(t rdf.Triple) rdf.Triple {
	if s.coerce {
		t.Object = rdf.Normalize(t.Object)
	}
	return t
}

// insert adds triples with every blank label replaced by a node fresh to
// this statement.
func (s *Store) insert(graph string, triples []rdf.Triple) int {
	s.fresh++
	rename := func(t rdf.Term) rdf.Term {
		if b, ok := t.(rdf.Blank); ok {
			return rdf.Blank(fmt.Sprintf("m%d_%s", s.fresh, rdf.Label(string(b))))
		}
		return t
	}
	dst := s.graph(graph)
	added := 0
	for _, t := range triples {
		t = rdf.T(rename(t.Subject), t.Predicate, rename(t.Object))
		if dst.Add(s.store(t)) {
			added++
		}
	}
	return added
}

func (s *Store) deleteShape(st update.DeleteShape) int {
	g := s.graph(st.Graph)
	where := st.Where()
	var doomed []rdf.Triple
	for _, b := range shape.Solve(g, where) {
		if len(st.Shape.Assertions) == 0 && !rdf.IsBlank(b[shape.NodeVar]) {
			continue
		}
		for _, p := range where {
			if t, ok := p.Instantiate(b); ok {
				doomed = append(doomed, t)
			}
		}
	}
	return removeAll(g, doomed)
}

func (s *Store) deleteMatching(st update.DeleteMatching) int {
	g := s.graph(st.Graph)
	var doomed []rdf.Triple
	for _, b := range shape.Solve(g, st.Where()) {
		doomed = append(doomed, g.Match(b[shape.NodeVar], "", nil)...)
	}
	return removeAll(g, doomed)
}

func removeAll(g *rdf.Graph, triples []rdf.Triple) int {
	n := 0
	for _, t := range triples {
		if g.Remove(t) {
			n++
		}
	}
	return n
}
