// Package source reads ontology revisions from a git working tree or from
// plain files.
package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/roach88/ontomig/internal/migrate"
)

// Provider returns the Turtle text of an ontology revision.
type Provider interface {
	Ontology(ctx context.Context, ref string) (string, error)
}

// Runner executes a command in dir and returns its standard output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Exec runs commands with os/exec.
func Exec(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// Git reads File as committed at a revision of the repository in Dir.
type Git struct {
	Dir  string
	File string

	// Run defaults to Exec.
	Run Runner
}

// Path is the working-tree path of the ontology file.
func (g Git) Path() string {
	return g.Dir + "/" + g.File
}

// Ontology returns the output of "git show <ref>:<File>". The file must
// exist in the working tree.
func (g Git) Ontology(ctx context.Context, ref string) (string, error) {
	if _, err := os.Stat(g.Path()); err != nil {
		return "", migrate.NewMissingFileError(g.Path())
	}
	run := g.Run
	if run == nil {
		run = Exec
	}
	out, err := run(ctx, g.Dir, "git", "show", ref+":"+g.File)
	if err != nil {
		return "", fmt.Errorf("read %s at %s: %w", g.File, ref, err)
	}
	return string(out), nil
}

// File reads ontologies from the filesystem. The ref is a path.
type File struct{}

// Ontology returns the content of the file at path.
func (File) Ontology(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", migrate.NewMissingFileError(path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
