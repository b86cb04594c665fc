package cli

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ontomig/internal/config"
	"github.com/roach88/ontomig/internal/journal"
	"github.com/roach88/ontomig/internal/migrate"
	"github.com/roach88/ontomig/internal/source"
	"github.com/roach88/ontomig/internal/sparql"
)

// session is the resolved configuration of one command invocation.
type session struct {
	opts   *RootOptions
	cfg    config.Config
	out    *OutputFormatter
	logger *slog.Logger
}

// requirement is what a command needs from the configuration.
type requirement int

const (
	needGraphs  requirement = iota // ontology and migration graph names
	needStore                      // graph names and a reachable store
	needJournal                    // a run journal only
)

// newSession loads the config file, applies flag overrides and checks the
// settings req needs. An <<ask_me>> password is prompted for only when the
// store is needed.
func newSession(opts *RootOptions, cmd *cobra.Command, req requirement) (*session, error) {
	s := &session{
		opts:   opts,
		out:    opts.formatter(cmd),
		logger: opts.logger(cmd),
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile, opts.Env)
		if err != nil {
			return nil, s.out.Fail(ErrCodeConfig, ExitCommandError, err.Error(), nil)
		}
		cfg = loaded
	}
	cfg = cfg.Merge(opts.Overrides)

	switch req {
	case needJournal:
		if cfg.Journal == "" {
			return nil, s.out.Fail(ErrCodeConfig, ExitCommandError, "missing configuration: journal", nil)
		}
	default:
		if err := cfg.Validate(req == needStore); err != nil {
			return nil, s.out.Fail(ErrCodeConfig, ExitCommandError, err.Error(), nil)
		}
	}

	if req == needStore {
		prompter := opts.Prompter
		if prompter == nil {
			prompter = config.TerminalPrompter{Out: cmd.ErrOrStderr()}
		}
		resolved, err := cfg.ResolvePassword(prompter)
		if err != nil {
			return nil, s.out.Fail(ErrCodeConfig, ExitCommandError, err.Error(), nil)
		}
		cfg = resolved
	}

	s.cfg = cfg
	s.logger.Debug("configuration loaded",
		"file", opts.ConfigFile,
		"env", opts.Env,
		"graph", cfg.Graph,
		"migration_graph", cfg.MigrationGraph,
		"store", cfg.StoreURL())
	return s, nil
}

// client connects to the configured store, signing requests for Neptune
// when AWS credentials are set.
func (s *session) client() *sparql.Client {
	clientOpts := []sparql.Option{sparql.WithLogger(s.logger)}
	if s.opts.HTTPClient != nil {
		clientOpts = append(clientOpts, sparql.WithHTTPClient(s.opts.HTTPClient))
	}
	switch {
	case s.cfg.UsesSigV4():
		clientOpts = append(clientOpts, sparql.WithSigner(sparql.NewSigV4(
			s.cfg.AWSAccessKey, s.cfg.AWSSecretAccessKey, s.cfg.AWSSessionToken, s.cfg.AWSRegion)))
	case s.cfg.User != "" && s.cfg.Password != "":
		clientOpts = append(clientOpts, sparql.WithBasicAuth(s.cfg.User, s.cfg.Password))
	}
	return sparql.New(s.cfg.StoreURL(), clientOpts...)
}

// planner stamps ledger records with the configured identity.
func (s *session) planner() *migrate.Planner {
	now := s.opts.Now
	if now == nil {
		now = time.Now
	}
	return &migrate.Planner{
		Graph:          s.cfg.Graph,
		MigrationGraph: s.cfg.MigrationGraph,
		Endpoint:       s.cfg.Endpoint,
		User:           s.cfg.User,
		Host:           s.host(),
		Now:            now,
		Logger:         s.logger,
	}
}

// host is the configured host, or the host part of the store URL.
func (s *session) host() string {
	if s.cfg.Host != "" {
		return s.cfg.Host
	}
	if u, err := url.Parse(s.cfg.SPARQLURL); err == nil {
		return u.Hostname()
	}
	return ""
}

func (s *session) git() source.Git {
	return source.Git{Dir: s.cfg.MigrationsDir, File: s.cfg.Ontology, Run: s.opts.GitRunner}
}

// journal opens the configured run journal. It returns nil when none is
// configured.
func (s *session) journal() (*journal.Journal, error) {
	if s.cfg.Journal == "" {
		return nil, nil
	}
	j, err := journal.Open(s.cfg.Journal, journal.WithClock(s.now))
	if err != nil {
		return nil, s.out.Fail(ErrCodeJournal, ExitCommandError, err.Error(), nil)
	}
	return j, nil
}

func (s *session) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}
