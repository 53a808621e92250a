package passphrase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// EnvSource reads the passphrase from an environment variable at resolve time.
type EnvSource struct {
	name   string
	lookup func(string) (string, bool)
}

// NewEnvSource reads the named variable from the process environment.
func NewEnvSource(name string) *EnvSource {
	return &EnvSource{name: name, lookup: os.LookupEnv}
}

func (s *EnvSource) Passphrase(context.Context) ([]byte, bool, error) {
	v, ok := s.lookup(s.name)
	if !ok || v == "" {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// FileSource reads the passphrase from a file. Surrounding whitespace is trimmed;
// a missing, unreadable or blank file counts as absent.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Passphrase(context.Context) ([]byte, bool, error) {
	if s.path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false, nil
	}
	defer clear(data)

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false, nil
	}
	out := make([]byte, len(trimmed))
	copy(out, trimmed)
	return out, true, nil
}

// TerminalSource prompts on an interactive terminal. The prompt is written to out,
// which must not be the stream carrying machine-readable results.
type TerminalSource struct {
	in  *os.File
	out io.Writer
}

func NewTerminalSource(in *os.File, out io.Writer) *TerminalSource {
	return &TerminalSource{in: in, out: out}
}

// Passphrase prompts the user for the wallet passphrase in the terminal.
// The input is read without echoing.
func (s *TerminalSource) Passphrase(context.Context) ([]byte, bool, error) {
	if s.in == nil || !term.IsTerminal(int(s.in.Fd())) {
		return nil, false, nil
	}
	fmt.Fprint(s.out, "Passphrase: ")
	defer fmt.Fprintln(s.out)

	raw, err := term.ReadPassword(int(s.in.Fd()))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(raw) == 0 {
		return nil, false, apperr.ErrEmptyPassphrase
	}
	return raw, true, nil
}
