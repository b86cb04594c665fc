// Package config loads ontomig settings from YAML or CUE files holding one
// block per environment, and merges command-line overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// DefaultEnv is the environment read when none is named.
const DefaultEnv = "default"

// AskMe as a password value makes the CLI prompt for it.
const AskMe = "<<ask_me>>"

// Config holds the settings of one environment.
type Config struct {
	// SPARQLURL is the store base URL. Requests go to SPARQLURL + "/sparql".
	// When empty it is built from Host and Port.
	SPARQLURL string `yaml:"sparql_url" json:"sparql_url,omitempty"`
	Host      string `yaml:"database_host" json:"database_host,omitempty"`
	Port      int    `yaml:"database_port" json:"database_port,omitempty"`

	// Endpoint, User and Host are recorded in the version ledger.
	Endpoint string `yaml:"database_endpoint" json:"database_endpoint,omitempty"`
	User     string `yaml:"database_user" json:"database_user,omitempty"`
	Password string `yaml:"database_password" json:"database_password,omitempty"`

	Graph          string `yaml:"database_graph" json:"database_graph,omitempty"`
	Ontology       string `yaml:"database_ontology" json:"database_ontology,omitempty"`
	MigrationsDir  string `yaml:"database_migrations_dir" json:"database_migrations_dir,omitempty"`
	MigrationGraph string `yaml:"migration_graph" json:"migration_graph,omitempty"`

	AWSAccessKey       string `yaml:"aws_access_key" json:"aws_access_key,omitempty"`
	AWSSecretAccessKey string `yaml:"aws_secret_access_key" json:"aws_secret_access_key,omitempty"`
	AWSSessionToken    string `yaml:"aws_session_token" json:"aws_session_token,omitempty"`
	AWSRegion          string `yaml:"aws_region" json:"aws_region,omitempty"`

	// Journal is the path of the SQLite run journal. Empty disables it.
	Journal string `yaml:"journal" json:"journal,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{MigrationsDir: "."}
}

// Load reads environment env from the file at path. The file is YAML
// (.yaml, .yml) or CUE (.cue) and maps environment names to settings.
// Values missing from the file keep their Default.
func Load(path, env string) (Config, error) {
	if env == "" {
		env = DefaultEnv
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = loadYAML(data, env, &cfg)
	case ".cue":
		err = loadCUE(path, data, env, &cfg)
	default:
		return Config{}, fmt.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ErrUnknownEnv is returned when the file has no block for the environment.
var ErrUnknownEnv = errors.New("unknown environment")

func loadYAML(data []byte, env string, cfg *Config) error {
	var envs map[string]yaml.Node
	if err := yaml.Unmarshal(data, &envs); err != nil {
		return err
	}
	node, ok := envs[env]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownEnv, env)
	}
	return node.Decode(cfg)
}

func loadCUE(path string, data []byte, env string, cfg *Config) error {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return err
	}
	block := value.LookupPath(cue.MakePath(cue.Str(env)))
	if !block.Exists() {
		return fmt.Errorf("%w %q", ErrUnknownEnv, env)
	}
	return block.Decode(cfg)
}

// Merge returns c with every non-zero field of o applied on top.
func (c Config) Merge(o Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.SPARQLURL, o.SPARQLURL)
	set(&c.Host, o.Host)
	if o.Port != 0 {
		c.Port = o.Port
	}
	set(&c.Endpoint, o.Endpoint)
	set(&c.User, o.User)
	set(&c.Password, o.Password)
	set(&c.Graph, o.Graph)
	set(&c.Ontology, o.Ontology)
	set(&c.MigrationsDir, o.MigrationsDir)
	set(&c.MigrationGraph, o.MigrationGraph)
	set(&c.AWSAccessKey, o.AWSAccessKey)
	set(&c.AWSSecretAccessKey, o.AWSSecretAccessKey)
	set(&c.AWSSessionToken, o.AWSSessionToken)
	set(&c.AWSRegion, o.AWSRegion)
	set(&c.Journal, o.Journal)
	return c
}

// StoreURL returns SPARQLURL, or http://Host[:Port] when it is unset.
func (c Config) StoreURL() string {
	if c.SPARQLURL != "" {
		return strings.TrimRight(c.SPARQLURL, "/")
	}
	if c.Host == "" {
		return ""
	}
	if c.Port == 0 {
		return "http://" + c.Host
	}
	return "http://" + c.Host + ":" + strconv.Itoa(c.Port)
}

// UsesSigV4 reports whether requests are signed for Neptune.
func (c Config) UsesSigV4() bool {
	return c.AWSAccessKey != "" && c.AWSSecretAccessKey != ""
}

// Validate checks the settings every command needs. Store settings are
// checked only when needStore is set.
func (c Config) Validate(needStore bool) error {
	var missing []string
	if c.Graph == "" {
		missing = append(missing, "database_graph")
	}
	if c.MigrationGraph == "" {
		missing = append(missing, "migration_graph")
	}
	if needStore && c.StoreURL() == "" {
		missing = append(missing, "sparql_url or database_host")
	}
	if c.UsesSigV4() && c.AWSRegion == "" {
		missing = append(missing, "aws_region")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
