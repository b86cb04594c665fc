package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/ontomig/internal/migrate"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Run is one journaled migration run.
type Run struct {
	ID           string    `json:"id"`
	Product      string    `json:"product"`
	Version      string    `json:"version"`
	Origin       string    `json:"origin"`
	Endpoint     string    `json:"endpoint"`
	User         string    `json:"user"`
	Host         string    `json:"host"`
	RecordDigest string    `json:"record_digest"`
	Total        int       `json:"total"`
	Applied      int       `json:"applied"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at,omitzero"`
}

// Statement is one applied statement of a run.
type Statement struct {
	Seq      int           `json:"seq"`
	Kind     string        `json:"kind"`
	Up       string        `json:"up"`
	Down     string        `json:"down"`
	Response string        `json:"response"`
	Duration time.Duration `json:"duration"`
}

// BeginRun records the start of applying plan and returns the run id.
func (j *Journal) BeginRun(ctx context.Context, plan *migrate.Plan) (string, error) {
	digest, err := plan.Record.Digest()
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	rec := plan.Record
	id := j.ids.Generate()
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, product, version, origin, endpoint, user_name, host, record_digest, total, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		rec.Product,
		rec.Version,
		rec.Origin,
		rec.Endpoint,
		rec.User,
		rec.Host,
		digest,
		len(plan.Up),
		StatusRunning,
		formatTime(j.now()),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// RecordStep appends an applied statement to run id and advances its
// applied counter.
func (j *Journal) RecordStep(ctx context.Context, id string, step migrate.Step) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record step: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	down := ""
	if step.Down != nil {
		down = step.Down.String()
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO applied_statements
		(run_id, seq, kind, up, down, response, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		step.Index,
		string(step.Up.Kind()),
		step.Up.String(),
		down,
		string(step.Response),
		step.Duration.Microseconds(),
	); err != nil {
		return fmt.Errorf("record step %d: %w", step.Index, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE runs SET applied = applied + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("record step %d: %w", step.Index, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record step %d: commit: %w", step.Index, err)
	}
	return nil
}

// FinishRun closes run id. A nil runErr marks it succeeded.
func (j *Journal) FinishRun(ctx context.Context, id string, runErr error) error {
	status, msg := StatusSucceeded, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}
	res, err := j.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?
	`, status, msg, formatTime(j.now()), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// ReadRun returns run id.
func (j *Journal) ReadRun(ctx context.Context, id string) (Run, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT id, product, version, origin, endpoint, user_name, host, record_digest,
		       total, applied, status, error, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	return r, err
}

// ListRuns returns the runs of product, newest first. An empty product lists
// every run.
func (j *Journal) ListRuns(ctx context.Context, product string) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, product, version, origin, endpoint, user_name, host, record_digest,
		       total, applied, status, error, started_at, finished_at
		FROM runs
		WHERE ? = '' OR product = ?
		ORDER BY started_at DESC, id COLLATE BINARY DESC
	`, product, product)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadSteps returns the statements applied in run id, in order.
func (j *Journal) ReadSteps(ctx context.Context, id string) ([]Statement, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, kind, up, down, response, duration_us
		FROM applied_statements
		WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	steps := []Statement{}
	for rows.Next() {
		var s Statement
		var us int64
		if err := rows.Scan(&s.Seq, &s.Kind, &s.Up, &s.Down, &s.Response, &us); err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		s.Duration = time.Duration(us) * time.Microsecond
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}
	return steps, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var started, finished string
	err := row.Scan(&r.ID, &r.Product, &r.Version, &r.Origin, &r.Endpoint, &r.User, &r.Host,
		&r.RecordDigest, &r.Total, &r.Applied, &r.Status, &r.Error, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if r.StartedAt, err = parseTime(started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if r.FinishedAt, err = parseTime(finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return r, nil
}

// Sink returns a migrate.Sink appending every applied statement to run id.
// Write failures are logged and kept. Err reports the first one.
func (j *Journal) Sink(id string, logger *slog.Logger) *StepSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &StepSink{journal: j, run: id, logger: logger}
}

// StepSink journals applied statements.
type StepSink struct {
	journal *Journal
	run     string
	logger  *slog.Logger

	mu  sync.Mutex
	err error
}

// Applied implements migrate.Sink.
func (s *StepSink) Applied(ctx context.Context, step migrate.Step) {
	if err := s.journal.RecordStep(ctx, s.run, step); err != nil {
		s.logger.WarnContext(ctx, "journal write failed", "run", s.run, "index", step.Index, "error", err)
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
}

// Err returns the first write failure.
func (s *StepSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
