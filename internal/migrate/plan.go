package migrate

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/ontomig/internal/ledger"
	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/update"
)

// Plan is a forward and a backward script with the ledger record they carry.
type Plan struct {
	Up     []update.Statement
	Down   []update.Statement
	Record ledger.Record

	// rollback[i] is the index in Down of the inverse of Up[i].
	rollback []int
}

// UpStrings renders the forward script.
func (p *Plan) UpStrings() []string { return update.Strings(p.Up) }

// DownStrings renders the backward script.
func (p *Plan) DownStrings() []string { return update.Strings(p.Down) }

// UpScript renders the forward script one statement per line.
func (p *Plan) UpScript() string { return update.Script(p.Up) }

// DownScript renders the backward script one statement per line.
func (p *Plan) DownScript() string { return update.Script(p.Down) }

// Rollback returns the backward statement undoing Up[i].
func (p *Plan) Rollback(i int) (update.Statement, bool) {
	if i < 0 || i >= len(p.rollback) {
		return nil, false
	}
	return p.Down[p.rollback[i]], true
}

// Changes counts the statements of the forward script excluding the ledger
// record.
func (p *Plan) Changes() int {
	if len(p.Up) == 0 {
		return 0
	}
	return len(p.Up) - 1
}

// appendLedger adds the ledger pair of rec to both scripts.
func (p *Plan) appendLedger(rec ledger.Record, mg string) {
	up, down := rec.Statements(mg)
	p.Record = rec
	p.Up = append(p.Up, up)
	p.Down = append(p.Down, down)
	p.rollback = append(p.rollback, len(p.Down)-1)
}

// Planner builds migration plans for one target graph.
type Planner struct {
	// Graph is the named graph holding the ontology. It also names the
	// product in the ledger.
	Graph string

	// MigrationGraph holds the version ledger.
	MigrationGraph string

	// Endpoint, User and Host are recorded in every ledger record.
	Endpoint string
	User     string
	Host     string

	// Now stamps ledger records. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// DiffRequest asks for the migration from Current to Destination.
type DiffRequest struct {
	// Current and Destination are Turtle documents. Current may be empty.
	Current     string
	Destination string

	// DestinationVersion labels the ledger record.
	DestinationVersion string

	// Origin records where Destination came from ("git" or "file").
	Origin string
}

// InsertRequest records a raw data file load without computing statements.
type InsertRequest struct {
	File           string
	CurrentVersion string
	Origin         string
}

// LoadRequest loads a raw data file through the update endpoint.
type LoadRequest struct {
	File           string
	Text           string
	CurrentVersion string
	Origin         string
}

// Diff parses both documents and plans the migration between them.
func (p *Planner) Diff(ctx context.Context, req DiffRequest) (*Plan, error) {
	current, err := p.parse(req.Current, "current")
	if err != nil {
		return nil, err
	}
	destination, err := p.parse(req.Destination, "destination")
	if err != nil {
		return nil, err
	}
	return p.DiffGraphs(ctx, current, destination, req.DestinationVersion, req.Origin)
}

// DiffGraphs plans the migration between two parsed graphs.
//
// Up is forward deletes followed by forward inserts, Down is backward deletes
// followed by backward inserts, and each ends with its ledger statement. The
// ledger's changes field holds the forward script without the ledger
// statement.
func (p *Planner) DiffGraphs(ctx context.Context, current, destination *rdf.Graph, version, origin string) (*Plan, error) {
	forwardInsert, backwardDelete, err := Commands(ctx, destination, current, p.Graph)
	if err != nil {
		return nil, err
	}
	backwardInsert, forwardDelete, err := Commands(ctx, current, destination, p.Graph)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	plan.Up = append(append(plan.Up, forwardDelete...), forwardInsert...)
	plan.Down = append(append(plan.Down, backwardDelete...), backwardInsert...)
	for i := range forwardDelete {
		plan.rollback = append(plan.rollback, len(backwardDelete)+i)
	}
	for j := range forwardInsert {
		plan.rollback = append(plan.rollback, j)
	}

	rec := p.record(version, origin)
	rec.Mode = ledger.ModeDiff
	rec.Changes = ledger.Changes(plan.Up)
	plan.appendLedger(rec, p.MigrationGraph)

	p.logger().Debug("planned migration",
		"version", version,
		"origin", origin,
		"deletes", len(forwardDelete),
		"inserts", len(forwardInsert))
	return plan, nil
}

// Insert returns only the ledger pair recording a raw data file insert.
func (p *Planner) Insert(req InsertRequest) *Plan {
	rec := p.record(req.CurrentVersion, req.Origin)
	rec.Mode = ledger.ModeInsert
	rec.Inserted = req.File

	plan := &Plan{}
	plan.appendLedger(rec, p.MigrationGraph)
	return plan
}

// Load plans the insertion of a raw data file into the target graph,
// followed by the raw-insert ledger pair.
func (p *Planner) Load(ctx context.Context, req LoadRequest) (*Plan, error) {
	data, err := p.parse(req.Text, "data")
	if err != nil {
		return nil, err
	}
	forward, backward, err := Commands(ctx, data, rdf.NewGraph(p.Graph), p.Graph)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Up: forward, Down: backward}
	for i := range forward {
		plan.rollback = append(plan.rollback, i)
	}

	rec := p.record(req.CurrentVersion, req.Origin)
	rec.Mode = ledger.ModeInsert
	rec.Inserted = req.File
	plan.appendLedger(rec, p.MigrationGraph)
	return plan, nil
}

func (p *Planner) parse(text, scope string) (*rdf.Graph, error) {
	g, err := rdf.ParseTurtle(text, rdf.ParseOptions{Graph: p.Graph, Scope: scope})
	if err != nil {
		return nil, NewParseError(err)
	}
	return g, nil
}

func (p *Planner) record(version, origin string) ledger.Record {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return ledger.Record{
		Version:   version,
		Origin:    origin,
		Product:   p.Graph,
		Endpoint:  p.Endpoint,
		User:      p.User,
		Host:      p.Host,
		Committed: now(),
	}
}

func (p *Planner) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
