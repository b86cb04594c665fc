package migrate

import (
	"errors"
	"fmt"

	"github.com/roach88/ontomig/internal/rdf"
)

// ErrorKind categorizes migration errors.
type ErrorKind string

const (
	// KindParseFailure indicates an ontology text could not be parsed.
	KindParseFailure ErrorKind = "PARSE_FAILURE"

	// KindMissingFile indicates an ontology source file does not exist.
	KindMissingFile ErrorKind = "MISSING_FILE"

	// KindStoreCallFailure indicates the store rejected or failed a request.
	KindStoreCallFailure ErrorKind = "STORE_CALL_FAILURE"
)

// Error is a migration failure with a kind the CLI can map to an exit code.
type Error struct {
	// Kind identifies the error category.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Path names the affected file, if any.
	Path string

	// Statement is the statement text that failed, for store call failures.
	Statement string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func isKind(err error, kind ErrorKind) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind == kind
	}
	return false
}

// IsParseFailure reports whether err is a parse failure.
// Uses errors.As to handle wrapped errors.
func IsParseFailure(err error) bool { return isKind(err, KindParseFailure) }

// IsMissingFile reports whether err is a missing ontology file.
func IsMissingFile(err error) bool { return isKind(err, KindMissingFile) }

// IsStoreCallFailure reports whether err is a failed store call.
func IsStoreCallFailure(err error) bool { return isKind(err, KindStoreCallFailure) }

// NewParseError wraps a parser diagnostic. The message names the revision
// that failed when the parser knows it.
func NewParseError(err error) *Error {
	msg := "Error parsing graph"
	var perr *rdf.ParseError
	if errors.As(err, &perr) && perr.Scope != "" {
		msg += " (" + perr.Scope + ")"
	}
	return &Error{Kind: KindParseFailure, Message: msg, Err: err}
}

// NewMissingFileError reports that path does not exist.
func NewMissingFileError(path string) *Error {
	return &Error{
		Kind:    KindMissingFile,
		Message: fmt.Sprintf("migration file does not exist (%s)", path),
		Path:    path,
	}
}

// NewStoreCallError wraps a failed store request for statement.
func NewStoreCallError(message, statement string, err error) *Error {
	return &Error{Kind: KindStoreCallFailure, Message: message, Statement: statement, Err: err}
}
