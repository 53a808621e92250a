package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

// stdout carries results only; everything else goes to stderr.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

func printError(err error) {
	enc := json.NewEncoder(stderr)
	_ = enc.Encode(model.ErrorResponse{Error: err.Error(), Kind: string(apperr.KindOf(err))})
}

// printBackupBanner shows a freshly generated recovery phrase exactly once.
func printBackupBanner(name, mnemonic string) {
	rule := strings.Repeat("=", 72)
	fmt.Fprintln(stderr, rule)
	fmt.Fprintf(stderr, "  Recovery phrase for wallet %q\n\n", name)
	fmt.Fprintf(stderr, "  %s\n\n", mnemonic)
	fmt.Fprintln(stderr, "  Write it down and store it offline. It is shown only this once and")
	fmt.Fprintln(stderr, "  is the only way to restore this wallet if the keyfile is lost.")
	fmt.Fprintln(stderr, rule)
}
