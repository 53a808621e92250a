package keystore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// writeRecord publishes the record under <dir>/<name>.json with exclusive-create
// semantics: the content is staged in a temp file and hard-linked into place,
// so readers never see a partial record and only one concurrent writer wins.
func writeRecord(dir, name string, record *model.WalletFile) error {
	fileData, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallet file: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create wallet directory: %w", err)
	}

	// CreateTemp opens with mode 0600
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(fileData); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write wallet file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync wallet file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close wallet file: %w", err)
	}

	final := filepath.Join(dir, name+fileExt)
	if err := os.Link(tmpPath, final); err != nil {
		if errors.Is(err, os.ErrExist) {
			return apperr.ErrWalletExists.Msgf("wallet %q already exists at %s", name, final)
		}
		return fmt.Errorf("failed to publish wallet file: %w", err)
	}
	syncDir(dir)
	return nil
}

// best effort; some filesystems refuse fsync on directories
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	d.Close()
}

func readRecord(path string) (*model.WalletFile, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrWalletNotFound.Msgf("no wallet at %s", path)
		}
		return nil, fmt.Errorf("failed to read wallet file: %w", err)
	}
	if len(fileData) == 0 {
		return nil, apperr.ErrMalformedRecord.Msgf("wallet file %s is empty", path)
	}

	// Skip UTF-8 BOM if present
	fileData = bytes.TrimPrefix(fileData, utf8BOM)

	var record model.WalletFile
	if err := json.Unmarshal(fileData, &record); err != nil {
		return nil, apperr.ErrMalformedRecord.Wrap(err, "failed to parse wallet file %s", path)
	}
	if record.Address == "" || record.CipherText == "" {
		return nil, apperr.ErrMalformedRecord.Msgf("wallet file %s is missing required fields", path)
	}
	return &record, nil
}

// publicInfo reads the clear-text part of a record. fallbackName is used when
// the record carries no meta.name.
func publicInfo(path, fallbackName string) (*model.WalletInfo, error) {
	record, err := readRecord(path)
	if err != nil {
		return nil, err
	}

	native, err := address.NormalizeNativeAddress(record.Address)
	if err != nil {
		return nil, apperr.ErrMalformedRecord.Wrap(err, "wallet file %s has an invalid address", path)
	}

	evmAddress := ""
	if record.EvmAddress != "" {
		evm, err := address.NormalizeEvmAddress(record.EvmAddress)
		if err != nil {
			return nil, apperr.ErrMalformedRecord.Wrap(err, "wallet file %s has an invalid EVM address", path)
		}
		evmAddress = evm.String()
	}

	name := record.Meta.Name
	if name == "" {
		name = fallbackName
	}
	return &model.WalletInfo{
		Name:        name,
		Address:     native.String(),
		EvmAddress:  evmAddress,
		KeyfilePath: path,
	}, nil
}
