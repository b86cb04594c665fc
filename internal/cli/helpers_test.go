package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ontomig/internal/config"
	"github.com/roach88/ontomig/internal/migrate"
	"github.com/roach88/ontomig/internal/testutil"
)

const (
	testGraph = "test"
	testMG    = "http://example.com/"
)

// fakeStore is a SPARQL endpoint recording updates and answering the
// current version query.
type fakeStore struct {
	mu       sync.Mutex
	updates  []string
	queries  []string
	auth     []string
	version  string // empty means no ledger record
	origin   string
	failAt   int // 1-based update rejected with a 500
	received int
	rows     int // solutions of every shape query
}

func newFakeStore(t *testing.T) (*fakeStore, *httptest.Server) {
	t.Helper()
	fs := &fakeStore{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sparql", r.URL.Path)
		assert.NoError(t, r.ParseForm())

		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.auth = append(fs.auth, r.Header.Get("Authorization"))

		if q := r.PostForm.Get("query"); q != "" {
			fs.queries = append(fs.queries, q)
			w.Header().Set("Content-Type", "application/sparql-results+json")
			if strings.HasPrefix(q, "SELECT DISTINCT ?s ") {
				fmt.Fprint(w, fs.shapeResults())
				return
			}
			fmt.Fprint(w, fs.results())
			return
		}

		fs.received++
		if fs.failAt > 0 && fs.received == fs.failAt {
			http.Error(w, "rejected", http.StatusInternalServerError)
			return
		}
		fs.updates = append(fs.updates, r.PostForm.Get("update"))
		fmt.Fprint(w, `{"ok":true}`)
	}))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeStore) results() string {
	if fs.version == "" {
		return `{"head":{"vars":["version","origen"]},"results":{"bindings":[]}}`
	}
	return fmt.Sprintf(`{"head":{"vars":["version","origen"]},"results":{"bindings":[`+
		`{"version":{"type":"literal","value":%q},"origen":{"type":"literal","value":%q}}]}}`,
		fs.version, fs.origin)
}

func (fs *fakeStore) shapeResults() string {
	rows := make([]string, fs.rows)
	for i := range rows {
		rows[i] = fmt.Sprintf(`{"s":{"type":"bnode","value":"n%d"}}`, i)
	}
	return `{"head":{"vars":["s","p","o"]},"results":{"bindings":[` + strings.Join(rows, ",") + `]}}`
}

func (fs *fakeStore) recorded() (updates, queries []string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.updates...), append([]string(nil), fs.queries...)
}

// rootOptions configures commands against the test graphs with a frozen
// clock. storeURL may be empty.
func rootOptions(format, storeURL string) *RootOptions {
	clock := testutil.NewFixedClock(time.Time{})
	return &RootOptions{
		Format: format,
		Env:    config.DefaultEnv,
		Overrides: config.Config{
			SPARQLURL:      storeURL,
			Host:           "localhost",
			Endpoint:       "endpoint",
			User:           "user",
			Graph:          testGraph,
			MigrationGraph: testMG,
		},
		Now: clock.Now,
	}
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeFile writes content into a fresh temporary directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// expectedPlan plans the migration the commands should arrive at.
func expectedPlan(t *testing.T, current, destination, version, origin string) *migrate.Plan {
	t.Helper()
	clock := testutil.NewFixedClock(time.Time{})
	p := &migrate.Planner{
		Graph:          testGraph,
		MigrationGraph: testMG,
		Endpoint:       "endpoint",
		User:           "user",
		Host:           "localhost",
		Now:            clock.Now,
	}
	plan, err := p.Diff(context.Background(), migrate.DiffRequest{
		Current:            current,
		Destination:        destination,
		DestinationVersion: version,
		Origin:             origin,
	})
	require.NoError(t, err)
	return plan
}

// gitRunner serves "git show <ref>:<file>" from a map keyed by ref.
func gitRunner(revisions map[string]string) func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	return func(_ context.Context, _ string, name string, args ...string) ([]byte, error) {
		if name != "git" || len(args) != 2 || args[0] != "show" {
			return nil, fmt.Errorf("unexpected command %s %v", name, args)
		}
		ref, _, _ := strings.Cut(args[1], ":")
		text, ok := revisions[ref]
		if !ok {
			return nil, fmt.Errorf("fatal: invalid object name %q", ref)
		}
		return []byte(text), nil
	}
}
