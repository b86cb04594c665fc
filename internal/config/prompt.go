package config

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Prompter asks the user for a secret.
type Prompter interface {
	Password(prompt string) (string, error)
}

// TerminalPrompter reads passwords from a terminal without echo.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer
}

// Password implements Prompter.
func (p TerminalPrompter) Password(prompt string) (string, error) {
	in, out := p.In, p.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot prompt for password: %s is not a terminal", in.Name())
	}
	fmt.Fprintf(out, "%s\nPassword: ", prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// ResolvePassword replaces an AskMe password with one read from p.
func (c Config) ResolvePassword(p Prompter) (Config, error) {
	if c.Password != AskMe {
		return c, nil
	}
	prompt := fmt.Sprintf("Please inform password to connect to the SPARQL endpoint (DATABASE) %q",
		fmt.Sprintf("%s@%s:%s", c.User, c.Host, c.Endpoint))
	pw, err := p.Password(prompt)
	if err != nil {
		return c, err
	}
	c.Password = pw
	return c, nil
}
