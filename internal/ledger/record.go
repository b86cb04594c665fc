// Package ledger records applied migrations as version records in a
// dedicated migration graph and looks the current version back up.
package ledger

import (
	"time"

	"github.com/roach88/ontomig/internal/canon"
	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/shape"
	"github.com/roach88/ontomig/internal/update"
)

// TimeLayout is the lexical form of the commited timestamp.
const TimeLayout = "2006-01-02T15:04:05"

// Field names appended to the migration graph IRI to form ledger predicates.
const (
	FieldEndpoint  = "endpoint"
	FieldUser      = "usuario"
	FieldHost      = "ambiente"
	FieldProduct   = "produto"
	FieldCommitted = "commited"
	FieldOrigin    = "origen"
	FieldInserted  = "inserted"
	FieldChanges   = "changes"
)

// Origins of a recorded version.
const (
	OriginGit  = "git"
	OriginFile = "file"
)

// Mode selects the payload field of a record.
type Mode string

const (
	// ModeDiff records the forward script of a migration under changes.
	ModeDiff Mode = "diff"

	// ModeInsert records the name of a raw data file under inserted.
	ModeInsert Mode = "insert"
)

// Record is one version ledger entry.
//
// Mode decides which payload is written: Inserted in ModeInsert, Changes
// otherwise. Either may be empty.
type Record struct {
	Mode      Mode
	Version   string
	Origin    string
	Product   string
	Endpoint  string
	User      string
	Host      string
	Committed time.Time
	Inserted  string
	Changes   string
}

// Predicate returns the ledger predicate for field under migration graph mg.
func Predicate(mg, field string) rdf.IRI {
	return rdf.IRI(mg + field)
}

// CommittedLiteral is the xsd:dateTime literal of r.Committed.
func (r Record) CommittedLiteral() rdf.Literal {
	return rdf.NewLiteral(r.Committed.Format(TimeLayout), rdf.XSDDateTime)
}

// Assertions lists the record's fields as (predicate, object) pairs in
// ledger order. The payload comes last.
func (r Record) Assertions(mg string) []shape.Assertion {
	out := []shape.Assertion{
		{Predicate: rdf.OWLVersionInfo, Object: rdf.String(r.Version)},
		{Predicate: Predicate(mg, FieldEndpoint), Object: rdf.String(r.Endpoint)},
		{Predicate: Predicate(mg, FieldUser), Object: rdf.String(r.User)},
		{Predicate: Predicate(mg, FieldHost), Object: rdf.String(r.Host)},
		{Predicate: Predicate(mg, FieldProduct), Object: rdf.String(r.Product)},
		{Predicate: Predicate(mg, FieldCommitted), Object: r.CommittedLiteral()},
		{Predicate: Predicate(mg, FieldOrigin), Object: rdf.String(r.Origin)},
	}
	if r.Mode == ModeInsert {
		out = append(out, shape.Assertion{Predicate: Predicate(mg, FieldInserted), Object: rdf.String(r.Inserted)})
	} else {
		out = append(out, shape.Assertion{Predicate: Predicate(mg, FieldChanges), Object: rdf.String(r.Changes)})
	}
	return out
}

// Statements returns the forward statement appending r to migration graph mg
// and the backward statement removing it again.
//
// The backward statement deletes every record matching all fields, so two
// identical records are removed together.
func (r Record) Statements(mg string) (up, down update.Statement) {
	assertions := r.Assertions(mg)
	up = update.InsertShape{Graph: mg, Shape: shape.Shape{Node: "record", Assertions: assertions}}
	down = update.DeleteMatching{Graph: mg, Assertions: assertions}
	return up, down
}

// Changes renders a forward script as the value of the changes field.
// Escaping into the literal happens when the record is rendered.
func Changes(up []update.Statement) string {
	return update.Script(up)
}

// Digest returns the content-addressed id of r.
func (r Record) Digest() (string, error) {
	return canon.Digest(canon.DomainRecord, map[string]any{
		"mode":      string(r.Mode),
		"version":   r.Version,
		"origin":    r.Origin,
		"product":   r.Product,
		"endpoint":  r.Endpoint,
		"user":      r.User,
		"host":      r.Host,
		"committed": r.Committed.Format(TimeLayout),
		"inserted":  r.Inserted,
		"changes":   r.Changes,
	})
}
