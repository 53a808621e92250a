package keyring

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"

	schnorrkel "github.com/ChainSafe/go-schnorrkel"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// nativePublicKey derives the consensus public key of a mini-secret.
// Only the public half is kept; no expanded secret outlives this call.
func nativePublicKey(keyType KeyType, seed []byte) ([]byte, error) {
	switch keyType {
	case SR25519, "":
		return sr25519PublicKey(seed)
	case ED25519:
		return ed25519PublicKey(seed), nil
	default:
		return nil, apperr.ErrInvalidKeyType.Msgf("unsupported key type %q", keyType)
	}
}

// schnorrkel copies the mini-secret into its own unexported array, which cannot be
// zeroed from here; that copy becomes unreachable when this function returns.
func sr25519PublicKey(seed []byte) ([]byte, error) {
	var raw [seedLen]byte
	copy(raw[:], seed)
	defer clear(raw[:])

	mini, err := schnorrkel.NewMiniSecretKeyFromRaw(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid sr25519 seed: %w", err)
	}
	pub := mini.Public().Encode()
	return pub[:], nil
}

// Substrate ed25519 accounts are the plain 32-byte public key, the same one
// solana-go derives for its PrivateKey type.
func ed25519PublicKey(seed []byte) []byte {
	priv := solana.PrivateKey(ed25519.NewKeyFromSeed(seed))
	defer clear(priv)
	return priv.PublicKey().Bytes()
}

// Identity is a loaded wallet: its consensus address and its Auto-EVM key.
type Identity struct {
	address    string
	evmKey     *ecdsa.PrivateKey
	evmAddress common.Address
}

// Open builds the key pairs for sealed material.
func Open(m *Material) (*Identity, error) {
	if len(m.Seed) != seedLen {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", seedLen, len(m.Seed))
	}

	pub, err := nativePublicKey(m.KeyType, m.Seed)
	if err != nil {
		return nil, err
	}

	addr, err := address.EncodeNative(pub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode consensus address: %w", err)
	}

	evmKey, err := evmKeyFromBytes(m.EvmPrivateKey)
	if err != nil {
		return nil, err
	}

	return &Identity{
		address:    addr,
		evmKey:     evmKey,
		evmAddress: ethcrypto.PubkeyToAddress(evmKey.PublicKey),
	}, nil
}

// Address returns the canonical consensus address.
func (id *Identity) Address() string { return id.address }

// EvmAddress returns the EIP-55 Auto-EVM address.
func (id *Identity) EvmAddress() string { return id.evmAddress.Hex() }

// EvmKey returns the Auto-EVM signing key.
func (id *Identity) EvmKey() *ecdsa.PrivateKey { return id.evmKey }

// Wipe zeroes the Auto-EVM scalar; the consensus side holds no secret.
func (id *Identity) Wipe() {
	if id.evmKey != nil && id.evmKey.D != nil {
		id.evmKey.D.SetInt64(0)
	}
}
