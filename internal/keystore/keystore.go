// Package keystore manages encrypted wallet records, one JSON file per wallet.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/crypto"
	"github.com/AlexZinkM/auto-respawn/internal/keyring"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

const fileExt = ".json"

// PassphraseResolver yields the wallet passphrase. The caller clears the returned bytes.
type PassphraseResolver interface {
	Resolve(ctx context.Context) ([]byte, error)
}

// Manager creates, imports, lists and loads wallets stored under one directory.
type Manager struct {
	dir      string
	resolver PassphraseResolver
	keyring  *keyring.Keyring
	params   crypto.Params
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Manager)

// WithScryptParams overrides the sealing cost; tests use light parameters.
func WithScryptParams(p crypto.Params) Option {
	return func(m *Manager) { m.params = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New returns a Manager for dir. The directory is created lazily on first write.
func New(dir string, resolver PassphraseResolver, kr *keyring.Keyring, opts ...Option) *Manager {
	m := &Manager{
		dir:      dir,
		resolver: resolver,
		keyring:  kr,
		params:   crypto.DefaultParams(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the keystore directory.
func (m *Manager) Dir() string { return m.dir }

// Path returns the record path for a wallet name.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name+fileExt)
}

// CheckName validates a wallet name: non-empty, ASCII letters, digits, '-' and '_'.
// A leading "0x" is reserved for EVM addresses, which GetHead resolves before names.
func CheckName(name string) error {
	if name == "" {
		return apperr.ErrInvalidWalletName.Msgf("wallet name cannot be empty")
	}
	if len(name) >= 2 && name[0] == '0' && (name[1] == 'x' || name[1] == 'X') {
		return apperr.ErrInvalidWalletName.Msgf("wallet name %q cannot start with 0x", name)
	}
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return apperr.ErrInvalidWalletName.Msgf("invalid character %q in wallet name %q", char, name)
	}
	return nil
}

// Create generates a new wallet. The returned mnemonic is the only copy of the
// recovery phrase; it is not written to disk.
func (m *Manager) Create(ctx context.Context, name string, keyType keyring.KeyType) (*model.CreatedWallet, error) {
	if err := m.checkAvailable(name); err != nil {
		return nil, err
	}

	mnemonic, material, err := m.keyring.Generate(keyType)
	if err != nil {
		return nil, err
	}
	defer material.Wipe()

	info, err := m.store(ctx, name, material)
	if err != nil {
		return nil, err
	}
	m.logger.Info("wallet created", "name", name, "address", info.Address, "evmAddress", info.EvmAddress)

	return &model.CreatedWallet{WalletInfo: *info, Mnemonic: mnemonic}, nil
}

// Import stores a wallet derived from an existing recovery phrase.
func (m *Manager) Import(ctx context.Context, name, mnemonic string, keyType keyring.KeyType) (*model.WalletInfo, error) {
	if err := m.checkAvailable(name); err != nil {
		return nil, err
	}

	material, err := m.keyring.FromMnemonic(mnemonic, keyType)
	if err != nil {
		return nil, err
	}
	defer material.Wipe()

	info, err := m.store(ctx, name, material)
	if err != nil {
		return nil, err
	}
	m.logger.Info("wallet imported", "name", name, "address", info.Address, "evmAddress", info.EvmAddress)
	return info, nil
}

func (m *Manager) checkAvailable(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if _, err := os.Stat(m.Path(name)); err == nil {
		return apperr.ErrWalletExists.Msgf("wallet %q already exists at %s", name, m.Path(name))
	}
	return nil
}

func (m *Manager) store(ctx context.Context, name string, material *keyring.Material) (*model.WalletInfo, error) {
	id, err := keyring.Open(material)
	if err != nil {
		return nil, err
	}
	defer id.Wipe()

	password, err := m.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	defer clear(password)

	now := m.now()
	walletData := &model.WalletData{
		KeyType:       string(material.KeyType),
		Seed:          material.Seed,
		EvmPrivateKey: material.EvmPrivateKey,
		CreatedAt:     now.UTC().Format(time.RFC3339),
	}
	sealed, err := crypto.Seal(walletData, password, m.params)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	record := &model.WalletFile{
		Address:    id.Address(),
		EvmAddress: id.EvmAddress(),
		KeyType:    string(material.KeyType),
		Encoding:   sealed.Encoding,
		Scrypt:     sealed.Scrypt,
		Nonce:      sealed.Nonce,
		CipherText: sealed.CipherText,
		Meta:       model.WalletMeta{Name: name, WhenCreated: now.UnixMilli()},
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeRecord(m.dir, name, record); err != nil {
		return nil, err
	}

	return &model.WalletInfo{
		Name:        name,
		Address:     record.Address,
		EvmAddress:  record.EvmAddress,
		KeyfilePath: m.Path(name),
	}, nil
}

// List returns the public view of every readable record. Unparsable files are skipped.
func (m *Manager) List(ctx context.Context) ([]model.WalletInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.WalletInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read wallet directory: %w", err)
	}

	wallets := make([]model.WalletInfo, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileName := entry.Name()
		if entry.IsDir() || strings.HasPrefix(fileName, ".") || filepath.Ext(fileName) != fileExt {
			continue
		}

		path := filepath.Join(m.dir, fileName)
		info, err := publicInfo(path, strings.TrimSuffix(fileName, fileExt))
		if err != nil {
			m.logger.Debug("skipping wallet record", "path", path, "error", err)
			continue
		}
		wallets = append(wallets, *info)
	}
	return wallets, nil
}

// Info returns the public view of one wallet without decrypting it.
func (m *Manager) Info(ctx context.Context, name string) (*model.WalletInfo, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return publicInfo(m.Path(name), name)
}

// Load decrypts a wallet and returns its key pairs. The caller must Wipe the identity.
func (m *Manager) Load(ctx context.Context, name string) (*keyring.Identity, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	record, err := readRecord(m.Path(name))
	if err != nil {
		return nil, err
	}

	password, err := m.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	defer clear(password)

	walletData, err := crypto.Open(record, password)
	if err != nil {
		return nil, err
	}
	defer crypto.Clear(walletData)

	keyType := walletData.KeyType
	if keyType == "" {
		keyType = record.KeyType
	}
	id, err := keyring.Open(&keyring.Material{
		KeyType:       keyring.KeyType(keyType),
		Seed:          walletData.Seed,
		EvmPrivateKey: walletData.EvmPrivateKey,
	})
	if err != nil {
		return nil, apperr.ErrMalformedRecord.Wrap(err, "wallet %q holds unusable key material", name)
	}

	if err := checkAddresses(record, id); err != nil {
		id.Wipe()
		return nil, err
	}
	m.logger.Debug("wallet loaded", "name", name, "address", id.Address())
	return id, nil
}

func checkAddresses(record *model.WalletFile, id *keyring.Identity) error {
	stored, err := address.NormalizeNativeAddress(record.Address)
	if err != nil || stored.String() != id.Address() {
		return apperr.ErrMalformedRecord.Msgf("decrypted key does not match stored address %s", record.Address)
	}
	if record.EvmAddress != "" && !strings.EqualFold(record.EvmAddress, id.EvmAddress()) {
		return apperr.ErrMalformedRecord.Msgf("decrypted key does not match stored EVM address %s", record.EvmAddress)
	}
	return nil
}
