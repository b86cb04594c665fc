package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ontomig/internal/journal"
	"github.com/roach88/ontomig/internal/testutil"
)

// journaledRun migrates 01 to 02 against a fake store and returns the
// journal path and run id.
func journaledRun(t *testing.T) (string, string) {
	t.Helper()
	_, srv := newFakeStore(t)
	from := writeFile(t, "structure_01.ttl", testutil.Structure01)
	to := writeFile(t, "structure_02.ttl", testutil.Structure02)

	opts := rootOptions("json", srv.URL)
	opts.Overrides.Journal = filepath.Join(t.TempDir(), "runs.db")
	out, _, err := execute(NewMigrateCommand(opts), "--from-file", from, "--to-file", to)
	require.NoError(t, err)
	return opts.Overrides.Journal, decodeApply(t, out).Data.Run
}

func TestHistory_ListsRuns(t *testing.T) {
	path, id := journaledRun(t)

	opts := rootOptions("json", "")
	opts.Overrides.Journal = path
	out, _, err := execute(NewHistoryCommand(opts))
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Runs, 1)
	run := resp.Data.Runs[0]
	assert.Equal(t, id, run.ID)
	assert.Equal(t, journal.StatusSucceeded, run.Status)
	assert.Equal(t, "structure_02.ttl", run.Version)
	assert.Equal(t, run.Total, run.Applied)
}

func TestHistory_FiltersByGraph(t *testing.T) {
	path, _ := journaledRun(t)

	opts := rootOptions("text", "")
	opts.Overrides.Journal = path
	opts.Overrides.Graph = "other"
	out, _, err := execute(NewHistoryCommand(opts))
	require.NoError(t, err)
	assert.Equal(t, "no runs journaled\n", out)

	out, _, err = execute(NewHistoryCommand(opts), "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "structure_02.ttl (file)")
}

func TestHistory_ShowsRunStatements(t *testing.T) {
	path, id := journaledRun(t)

	opts := rootOptions("json", "")
	opts.Overrides.Journal = path
	out, _, err := execute(NewHistoryCommand(opts), "--run", id)
	require.NoError(t, err)

	var resp struct {
		Data RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, id, resp.Data.Run.ID)
	require.Len(t, resp.Data.Statements, resp.Data.Run.Total)
	for i, st := range resp.Data.Statements {
		assert.Equal(t, i, st.Seq)
		assert.NotEmpty(t, st.Up)
		assert.NotEmpty(t, st.Down)
	}
}

func TestHistory_Errors(t *testing.T) {
	t.Run("no journal configured", func(t *testing.T) {
		out, _, err := execute(NewHistoryCommand(rootOptions("text", "")))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error [E002]: missing configuration: journal")
	})

	t.Run("unknown run", func(t *testing.T) {
		path, _ := journaledRun(t)
		opts := rootOptions("text", "")
		opts.Overrides.Journal = path
		out, _, err := execute(NewHistoryCommand(opts), "--run", "nope")
		require.Error(t, err)
		assert.Contains(t, out, "Error [E006]: run nope not found")
	})
}
