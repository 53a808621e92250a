package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	savedOut, savedErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = savedOut, savedErr })
	return &out, &errOut
}

func runApp(args ...string) error {
	root := &cli.Command{
		Name:     "auto-respawn",
		Commands: []*cli.Command{addressCommand()},
	}
	return root.Run(context.Background(), append([]string{"auto-respawn"}, args...))
}

func TestAddressCommand(t *testing.T) {
	out, errOut := captureOutput(t)

	if err := runApp("address", "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"); err != nil {
		t.Fatalf("address: %v", err)
	}
	var res model.AddressResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("stdout is not JSON: %v", err)
	}
	if res.Family != "evm" || res.Address != "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045" {
		t.Fatalf("unexpected %+v", res)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected stderr output %q", errOut.String())
	}
}

func TestAddressCommandMissingArgument(t *testing.T) {
	captureOutput(t)
	err := runApp("address")
	if !errors.Is(err, apperr.ErrMissingArgument) {
		t.Fatalf("expected ErrMissingArgument, got %v", err)
	}
}

func TestPrintError(t *testing.T) {
	_, errOut := captureOutput(t)
	printError(apperr.ErrWalletNotFound.Msgf("wallet %q not found", "ghost"))

	var body model.ErrorResponse
	if err := json.Unmarshal(errOut.Bytes(), &body); err != nil {
		t.Fatalf("stderr is not JSON: %v", err)
	}
	if body.Kind != string(apperr.KindNotFound) || !strings.Contains(body.Error, "ghost") {
		t.Fatalf("unexpected %+v", body)
	}
}

func TestBackupBannerGoesToStderr(t *testing.T) {
	out, errOut := captureOutput(t)
	printBackupBanner("agent", "abandon ability able")
	if out.Len() != 0 {
		t.Fatalf("recovery phrase must not reach stdout")
	}
	if !strings.Contains(errOut.String(), "abandon ability able") {
		t.Fatalf("banner missing phrase")
	}
}
