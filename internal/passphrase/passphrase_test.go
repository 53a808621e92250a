package passphrase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

func envSource(values map[string]string) *EnvSource {
	return &EnvSource{name: EnvVar, lookup: func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}}
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".passphrase")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveOrder(t *testing.T) {
	path := writeFile(t, "from-file\n")

	r := NewResolver(path, envSource(map[string]string{EnvVar: "from-env"}), NewFileSource(path))
	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != "from-env" {
		t.Fatalf("env must win, got %q", got)
	}

	r = NewResolver(path, envSource(nil), NewFileSource(path))
	got, err = r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != "from-file" {
		t.Fatalf("expected trimmed file contents, got %q", got)
	}
}

func TestEmptyEnvFallsThrough(t *testing.T) {
	path := writeFile(t, "  secret  ")
	r := NewResolver(path, envSource(map[string]string{EnvVar: ""}), NewFileSource(path))
	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != "secret" {
		t.Fatalf("got %q", got)
	}
}

func TestBlankFileIsAbsent(t *testing.T) {
	path := writeFile(t, " \n\t\n")
	r := NewResolver(path, NewFileSource(path), Static("fallback"))
	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != "fallback" {
		t.Fatalf("blank file must be treated as absent, got %q", got)
	}
}

func TestNoPassphraseAvailable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	// a regular file is never a terminal
	notTTY, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer notTTY.Close()

	var prompt strings.Builder
	r := NewResolver(missing, envSource(nil), NewFileSource(missing), NewTerminalSource(notTTY, &prompt))

	_, err = r.Resolve(context.Background())
	if !errors.Is(err, apperr.ErrNoPassphrase) {
		t.Fatalf("expected ErrNoPassphrase, got %v", err)
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Fatalf("expected configuration kind")
	}
	msg := err.Error()
	for _, want := range []string{EnvVar, missing, "interactively"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
	if prompt.Len() != 0 {
		t.Fatalf("non-interactive input must not be prompted, wrote %q", prompt.String())
	}
}

func TestSourceErrorStopsResolution(t *testing.T) {
	failing := SourceFunc(func(context.Context) ([]byte, bool, error) {
		return nil, false, apperr.ErrEmptyPassphrase
	})
	r := NewResolver("", failing, Static("never reached"))
	_, err := r.Resolve(context.Background())
	if !errors.Is(err, apperr.ErrEmptyPassphrase) {
		t.Fatalf("expected ErrEmptyPassphrase, got %v", err)
	}
}

func TestResolveIsNotCached(t *testing.T) {
	calls := 0
	counting := SourceFunc(func(context.Context) ([]byte, bool, error) {
		calls++
		return []byte("pw"), true, nil
	})
	r := NewResolver("", counting)
	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background()); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
	}
	if calls != 3 {
		t.Fatalf("expected a fresh lookup per call, got %d calls", calls)
	}
}

func TestStaticReturnsCopy(t *testing.T) {
	s := Static("pw")
	got, ok, err := s.Passphrase(context.Background())
	if err != nil || !ok {
		t.Fatalf("Static: %v %v", ok, err)
	}
	clear(got)
	if string(s) != "pw" {
		t.Fatalf("clearing the returned secret must not wipe the source")
	}
}
