// Package address validates and canonicalizes consensus-chain (SS58) and Auto-EVM (hex) addresses.
//
// The two families are never conflated: a value that is a valid address of one family is
// rejected by the other family's normalizer, so a transfer or anchor call cannot be
// misdirected across chains.
package address

import (
	"bytes"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// Family tags which encoding rules apply to a Canonical address.
type Family string

const (
	FamilyNative Family = "consensus"
	FamilyEVM    Family = "evm"
)

// Canonical is a normalized address of either family.
type Canonical struct {
	Family Family
	Value  string
	raw    []byte // public key (native) or 20 address bytes (evm)
}

func (a Canonical) String() string { return a.Value }

// Bytes returns a copy of the underlying public key or address bytes.
func (a Canonical) Bytes() []byte {
	return bytes.Clone(a.raw)
}

// Equal reports whether a and b name the same key, independent of surface formatting.
func (a Canonical) Equal(b Canonical) bool {
	return a.Family == b.Family && bytes.Equal(a.raw, b.raw)
}

// EVM returns the go-ethereum form of an EVM address. It is the zero address for native values.
func (a Canonical) EVM() common.Address {
	if a.Family != FamilyEVM {
		return common.Address{}
	}
	return common.BytesToAddress(a.raw)
}

// NormalizeNativeAddress validates a consensus address and re-encodes it with the Autonomys prefix.
//
// Accepted forms are "su..." (Autonomys, 6094) and "5..." (generic Substrate, 42).
// Any other prefix is rejected before decoding.
func NormalizeNativeAddress(input string) (Canonical, error) {
	if IsEvmAddress(input) {
		return Canonical{}, apperr.ErrInvalidAddressPrefix.Msgf(
			"%q is an EVM address, expected a consensus address (su… or 5…)", input)
	}
	if !strings.HasPrefix(input, "su") && !strings.HasPrefix(input, "5") {
		return Canonical{}, apperr.ErrInvalidAddressPrefix.Msgf(
			"invalid address prefix: %q. Expected an Autonomys address (su…) or a Substrate address (5…)", head(input))
	}

	_, pub, err := decodeSS58(input)
	if err != nil {
		return Canonical{}, apperr.ErrInvalidAddressEncoding.Wrap(err,
			"invalid address: %q could not be decoded as a valid SS58 address", input)
	}
	return nativeFromPublicKey(pub)
}

// IsNativeAddress reports whether input is a valid consensus address.
func IsNativeAddress(input string) bool {
	_, err := NormalizeNativeAddress(input)
	return err == nil
}

// EncodeNative renders a 32-byte public key as a canonical consensus address.
func EncodeNative(pub []byte) (string, error) {
	return encodeSS58(pub, AutonomysPrefix)
}

func nativeFromPublicKey(pub []byte) (Canonical, error) {
	s, err := encodeSS58(pub, AutonomysPrefix)
	if err != nil {
		return Canonical{}, apperr.ErrInvalidAddressEncoding.Wrap(err, "could not encode consensus address")
	}
	return Canonical{Family: FamilyNative, Value: s, raw: bytes.Clone(pub)}, nil
}

// IsEvmAddress reports whether input is 20 bytes of hex, with or without 0x.
func IsEvmAddress(input string) bool {
	return common.IsHexAddress(input)
}

// NormalizeEvmAddress validates a 0x-prefixed EVM address and returns its EIP-55 checksum form.
func NormalizeEvmAddress(input string) (Canonical, error) {
	if !strings.HasPrefix(input, "0x") {
		if IsNativeAddress(input) {
			return Canonical{}, apperr.ErrMissingHexPrefix.Msgf(
				"%q is a consensus address, expected an EVM address starting with 0x", input)
		}
		return Canonical{}, apperr.ErrMissingHexPrefix.Msgf(
			"invalid EVM address %q: expected an address starting with 0x", input)
	}
	if !common.IsHexAddress(input) {
		return Canonical{}, apperr.ErrInvalidHexDigits.Msgf(
			"invalid EVM address %q: not a valid Ethereum address (expected 40 hex digits after 0x)", input)
	}
	addr := common.HexToAddress(input)
	return Canonical{Family: FamilyEVM, Value: addr.Hex(), raw: addr.Bytes()}, nil
}

// Normalize dispatches on the surface form: 0x-prefixed input is treated as EVM, anything else
// as a consensus address.
func Normalize(input string) (Canonical, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "0x") {
		return NormalizeEvmAddress(input)
	}
	return NormalizeNativeAddress(input)
}

func head(s string) string {
	const n = 6
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
