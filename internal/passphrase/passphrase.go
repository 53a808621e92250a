// Package passphrase resolves the wallet encryption passphrase through an ordered list of sources.
//
// Resolution happens fresh for every keystore operation; nothing is cached between calls.
package passphrase

import (
	"context"
	"os"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// EnvVar is the process-level variable holding the passphrase.
const EnvVar = "AUTO_RESPAWN_PASSPHRASE"

// FileEnvVar overrides the passphrase file location.
const FileEnvVar = "AUTO_RESPAWN_PASSPHRASE_FILE"

// Source yields a passphrase. ok=false means the source has nothing to offer and the
// next source should be tried; a non-nil error stops resolution.
type Source interface {
	Passphrase(ctx context.Context) (secret []byte, ok bool, err error)
}

// Resolver tries its sources in order; the first one that yields a passphrase wins.
type Resolver struct {
	sources  []Source
	filePath string
}

// NewResolver builds a resolver over explicit sources. filePath is only used to name the
// file option in the "no passphrase" error.
func NewResolver(filePath string, sources ...Source) *Resolver {
	return &Resolver{sources: sources, filePath: filePath}
}

// NewDefaultResolver returns the env → file → terminal chain.
// Prompts go to stderr so they never mix with JSON written to stdout.
func NewDefaultResolver(filePath string) *Resolver {
	return NewResolver(filePath,
		NewEnvSource(EnvVar),
		NewFileSource(filePath),
		NewTerminalSource(os.Stdin, os.Stderr),
	)
}

// Resolve returns the passphrase. The caller must clear() it after use.
func (r *Resolver) Resolve(ctx context.Context) ([]byte, error) {
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		secret, ok, err := src.Passphrase(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			return secret, nil
		}
	}
	return nil, apperr.ErrNoPassphrase.Msgf(
		"no passphrase found. Set %s env var, write it to %s (or point %s at a file), or run interactively",
		EnvVar, r.filePath, FileEnvVar)
}

// Static is a fixed in-memory source, useful for tests and programmatic callers.
type Static []byte

func (s Static) Passphrase(context.Context) ([]byte, bool, error) {
	if len(s) == 0 {
		return nil, false, nil
	}
	out := make([]byte, len(s))
	copy(out, s)
	return out, true, nil
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]byte, bool, error)

func (f SourceFunc) Passphrase(ctx context.Context) ([]byte, bool, error) {
	return f(ctx)
}
