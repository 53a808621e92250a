// Package keyring derives the consensus and Auto-EVM key pairs of a wallet from one BIP39 recovery phrase.
package keyring

import (
	"crypto/ecdsa"
	"crypto/sha512"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// KeyType selects the consensus-chain signature scheme.
type KeyType string

const (
	SR25519 KeyType = "sr25519"
	ED25519 KeyType = "ed25519"
)

const (
	mnemonicEntropyBits = 128 // 12 words
	seedLen             = 32
	pbkdf2Rounds        = 2048
)

// EvmDerivationPath is the MetaMask-compatible BIP44 path for the first Ethereum account.
const EvmDerivationPath = "m/44'/60'/0'/0/0"

var evmPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

// ParseKeyType maps a flag value to a KeyType; empty means sr25519.
func ParseKeyType(s string) (KeyType, error) {
	switch KeyType(strings.ToLower(s)) {
	case "", SR25519:
		return SR25519, nil
	case ED25519:
		return ED25519, nil
	default:
		return "", apperr.ErrInvalidKeyType.Msgf("unsupported key type %q: expected sr25519 or ed25519", s)
	}
}

// Material is the secret key material a wallet record seals.
type Material struct {
	KeyType       KeyType
	Seed          []byte // consensus mini-secret
	EvmPrivateKey []byte // secp256k1 scalar
}

// Wipe clears the secret bytes.
func (m *Material) Wipe() {
	if m == nil {
		return
	}
	clear(m.Seed)
	clear(m.EvmPrivateKey)
}

// Keyring generates and derives key material.
type Keyring struct{}

// New returns the default keyring.
func New() *Keyring {
	return &Keyring{}
}

// Generate creates a fresh 12-word recovery phrase and the material derived from it.
func (k *Keyring) Generate(keyType KeyType) (string, *Material, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate mnemonic: %w", err)
	}

	material, err := k.FromMnemonic(mnemonic, keyType)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, material, nil
}

// FromMnemonic deterministically derives key material from a recovery phrase.
// The phrase never appears in returned errors.
func (k *Keyring) FromMnemonic(mnemonic string, keyType KeyType) (*Material, error) {
	if keyType == "" {
		keyType = SR25519
	}
	if _, err := ParseKeyType(string(keyType)); err != nil {
		return nil, err
	}
	mnemonic = normalizeMnemonic(mnemonic)

	seed, err := miniSecretFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	evmKey, err := evmKeyFromMnemonic(mnemonic)
	if err != nil {
		clear(seed)
		return nil, err
	}

	return &Material{KeyType: keyType, Seed: seed, EvmPrivateKey: evmKey}, nil
}

func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// miniSecretFromMnemonic follows the Substrate BIP39 scheme: PBKDF2 over the phrase entropy
// (not the phrase text), truncated to 32 bytes.
func miniSecretFromMnemonic(mnemonic string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, apperr.ErrInvalidMnemonic.Msgf("invalid recovery phrase: %d words, checksum or word list mismatch", len(strings.Fields(mnemonic)))
	}
	defer clear(entropy)

	full := pbkdf2.Key(entropy, []byte("mnemonic"), pbkdf2Rounds, 64, sha512.New)
	defer clear(full)

	seed := make([]byte, seedLen)
	copy(seed, full[:seedLen])
	return seed, nil
}

func evmKeyFromMnemonic(mnemonic string) ([]byte, error) {
	bipSeed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, apperr.ErrInvalidMnemonic.Msgf("invalid recovery phrase")
	}
	defer clear(bipSeed)

	key, err := hdkeychain.NewMaster(bipSeed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, idx := range evmPath {
		key, err = key.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", EvmDerivationPath, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract EVM private key: %w", err)
	}
	return ethcrypto.FromECDSA(priv.ToECDSA()), nil
}

// evmKeyFromBytes rebuilds the secp256k1 key from its 32-byte scalar.
func evmKeyFromBytes(b []byte) (*ecdsa.PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("invalid EVM private key: %w", err)
	}
	return key, nil
}
