package source

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ontomig/internal/migrate"
	"github.com/roach88/ontomig/internal/testutil"
)

func TestGit_MissingFile(t *testing.T) {
	g := Git{Dir: ".", File: "ontology.ttl"}
	_, err := g.Ontology(context.Background(), "01")

	require.Error(t, err)
	assert.True(t, migrate.IsMissingFile(err))
	assert.Equal(t, "migration file does not exist (./ontology.ttl)", err.Error())
}

func TestGit_ShowsRevision(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.ttl"), []byte("x"), 0o644))

	var gotDir string
	var gotArgs []string
	g := Git{Dir: dir, File: "test.ttl", Run: func(_ context.Context, d, name string, args ...string) ([]byte, error) {
		gotDir = d
		gotArgs = append([]string{name}, args...)
		return []byte("content"), nil
	}}

	content, err := g.Ontology(context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, "content", content)
	assert.Equal(t, dir, gotDir)
	assert.Equal(t, []string{"git", "show", "version:test.ttl"}, gotArgs)
}

func TestGit_RunnerFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.ttl"), []byte("x"), 0o644))
	boom := errors.New("unknown revision")

	g := Git{Dir: dir, File: "test.ttl", Run: func(context.Context, string, string, ...string) ([]byte, error) {
		return nil, boom
	}}
	_, err := g.Ontology(context.Background(), "nope")
	assert.ErrorIs(t, err, boom)
	assert.False(t, migrate.IsMissingFile(err))
}

func TestGit_RealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	ctx := context.Background()
	git := func(args ...string) {
		t.Helper()
		_, err := Exec(ctx, dir, "git", args...)
		require.NoError(t, err)
	}
	git("init", "-q")
	git("config", "user.email", "dev@example.com")
	git("config", "user.name", "dev")

	path := filepath.Join(dir, "ontology.ttl")
	require.NoError(t, os.WriteFile(path, []byte(testutil.Structure01), 0o644))
	git("add", "ontology.ttl")
	git("commit", "-q", "-m", "01")
	git("tag", "01")
	require.NoError(t, os.WriteFile(path, []byte(testutil.Structure02), 0o644))
	git("commit", "-q", "-am", "02")

	content, err := Git{Dir: dir, File: "ontology.ttl"}.Ontology(ctx, "01")
	require.NoError(t, err)
	assert.Equal(t, testutil.Structure01, content)

	content, err = Git{Dir: dir, File: "ontology.ttl"}.Ontology(ctx, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, testutil.Structure02, content)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.ttl")
	require.NoError(t, os.WriteFile(path, []byte(testutil.Data), 0o644))

	content, err := File{}.Ontology(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, testutil.Data, content)

	_, err = File{}.Ontology(context.Background(), "current_file.ttl")
	require.Error(t, err)
	assert.True(t, migrate.IsMissingFile(err))
	assert.Equal(t, "migration file does not exist (current_file.ttl)", err.Error())
}
