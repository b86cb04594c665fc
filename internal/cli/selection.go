package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/ledger"
	"github.com/roach88/ontomig/internal/migrate"
	"github.com/roach88/ontomig/internal/rdf"
	"github.com/roach88/ontomig/internal/source"
)

// Selection names the two ontology revisions a migration runs between.
type Selection struct {
	ToVersion   string
	ToFile      string
	FromVersion string
	FromFile    string
}

func (sel *Selection) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&sel.ToVersion, "to-version", "", "migrate to the ontology committed at this git revision")
	f.StringVar(&sel.ToFile, "to-file", "", "migrate to the ontology in this file")
	f.StringVar(&sel.FromVersion, "from-version", "", "migrate from the ontology committed at this git revision")
	f.StringVar(&sel.FromFile, "from-file", "", "migrate from the ontology in this file")
	cmd.MarkFlagsMutuallyExclusive("to-version", "to-file")
	cmd.MarkFlagsOneRequired("to-version", "to-file")
	cmd.MarkFlagsMutuallyExclusive("from-version", "from-file")
}

// needsStore reports whether the current revision must be looked up in the
// store.
func (sel Selection) needsStore() bool {
	return sel.FromVersion == "" && sel.FromFile == ""
}

// revision is one resolved side of a migration.
type revision struct {
	Version string `json:"version"`
	Origin  string `json:"origin,omitempty"`

	text  string
	graph *rdf.Graph
}

// migration is a planned migration with both of its revisions.
type migration struct {
	current     revision
	destination revision
	plan        *migrate.Plan
}

// upToDate reports whether the store already holds the destination.
func (m *migration) upToDate() bool {
	return m.plan.Changes() == 0 &&
		m.current.Version == m.destination.Version &&
		m.current.Origin == m.destination.Origin
}

// resolve reads both revisions and plans the migration between them. The
// current revision defaults to the version recorded in the store's ledger.
func (s *session) resolve(ctx context.Context, sel Selection, store ledger.Selecter) (*migration, error) {
	m := &migration{}

	var err error
	switch {
	case sel.ToVersion != "":
		m.destination, err = s.fromGit(ctx, sel.ToVersion)
	case sel.ToFile != "":
		m.destination, err = s.fromFile(ctx, sel.ToFile)
	default:
		return nil, s.out.Fail(ErrCodeSelection, ExitCommandError, "one of --to-version or --to-file is required", nil)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case sel.FromVersion != "":
		m.current, err = s.fromGit(ctx, sel.FromVersion)
	case sel.FromFile != "":
		m.current, err = s.fromFile(ctx, sel.FromFile)
	default:
		m.current, err = s.fromStore(ctx, store)
	}
	if err != nil {
		return nil, err
	}

	planner := s.planner()
	if m.current.graph, err = parse(m.current.text, s.cfg.Graph, "current"); err != nil {
		return nil, s.out.FailErr(err, map[string]string{"revision": m.current.Version})
	}
	if m.destination.graph, err = parse(m.destination.text, s.cfg.Graph, "destination"); err != nil {
		return nil, s.out.FailErr(err, map[string]string{"revision": m.destination.Version})
	}
	m.plan, err = planner.DiffGraphs(ctx, m.current.graph, m.destination.graph, m.destination.Version, m.destination.Origin)
	if err != nil {
		return nil, s.out.FailErr(err, nil)
	}
	return m, nil
}

func (s *session) fromGit(ctx context.Context, ref string) (revision, error) {
	if s.cfg.Ontology == "" {
		return revision{}, s.out.Fail(ErrCodeConfig, ExitCommandError,
			"missing configuration: database_ontology is required to read git revisions", nil)
	}
	s.logger.Debug("reading ontology from git", "ref", ref, "path", s.git().Path())
	text, err := s.git().Ontology(ctx, ref)
	if err != nil {
		if migrate.IsMissingFile(err) {
			return revision{}, s.out.FailErr(err, nil)
		}
		return revision{}, s.out.Fail(ErrCodeSelection, ExitCommandError, err.Error(), nil)
	}
	return revision{Version: ref, Origin: ledger.OriginGit, text: text}, nil
}

func (s *session) fromFile(ctx context.Context, path string) (revision, error) {
	s.logger.Debug("reading ontology from file", "path", path)
	text, err := source.File{}.Ontology(ctx, path)
	if err != nil {
		return revision{}, s.out.FailErr(err, nil)
	}
	return revision{Version: filepath.Base(path), Origin: ledger.OriginFile, text: text}, nil
}

// fromStore reads the revision the ledger reports as applied. A store
// without a ledger record migrates from an empty ontology.
func (s *session) fromStore(ctx context.Context, sel ledger.Selecter) (revision, error) {
	v, ok, err := ledger.CurrentVersion(ctx, sel, s.cfg.MigrationGraph, s.cfg.Graph)
	if err != nil {
		return revision{}, s.out.Fail(ErrCodeStore, ExitFailure, err.Error(), nil)
	}
	if !ok {
		s.logger.Info("no version recorded, migrating from an empty ontology", "graph", s.cfg.Graph)
		return revision{}, nil
	}
	s.logger.Info("current version", "version", v.Label, "origin", v.Origin)
	if v.Origin == ledger.OriginFile {
		return revision{}, s.out.Fail(ErrCodeSelection, ExitCommandError,
			fmt.Sprintf("current version %q was migrated from a file, pass it with --from-file", v.Label), nil)
	}
	r, err := s.fromGit(ctx, v.Label)
	if err != nil {
		return revision{}, err
	}
	r.Origin = v.Origin
	return r, nil
}

func parse(text, graph, scope string) (*rdf.Graph, error) {
	g, err := rdf.ParseTurtle(text, rdf.ParseOptions{Graph: graph, Scope: scope})
	if err != nil {
		return nil, migrate.NewParseError(err)
	}
	return g, nil
}
