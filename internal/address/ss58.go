package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	// AutonomysPrefix is the SS58 network identifier all native addresses are normalized to ("su...").
	AutonomysPrefix uint16 = 6094
	// SubstratePrefix is the generic Substrate identifier ("5...").
	SubstratePrefix uint16 = 42

	publicKeyLen    = 32
	checksumLen     = 2
	maxSimplePrefix = 63
	maxFullPrefix   = 16383
)

var ss58Pre = []byte("SS58PRE")

// encodeSS58 renders a 32-byte public key under the given network identifier.
func encodeSS58(pub []byte, ident uint16) (string, error) {
	if len(pub) != publicKeyLen {
		return "", fmt.Errorf("public key must be %d bytes, got %d", publicKeyLen, len(pub))
	}
	prefix, err := identBytes(ident)
	if err != nil {
		return "", err
	}
	payload := make([]byte, 0, len(prefix)+publicKeyLen+checksumLen)
	payload = append(payload, prefix...)
	payload = append(payload, pub...)
	sum := ss58Checksum(payload)
	payload = append(payload, sum[:checksumLen]...)
	return base58.Encode(payload), nil
}

// decodeSS58 returns the network identifier and public key of an SS58 string.
func decodeSS58(s string) (uint16, []byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid base58: %w", err)
	}
	if len(raw) < 2 {
		return 0, nil, errors.New("address too short")
	}

	var ident uint16
	var prefixLen int
	switch {
	case raw[0] <= maxSimplePrefix:
		ident = uint16(raw[0])
		prefixLen = 1
	case raw[0] < 128:
		lower := (raw[0]&0b0011_1111)<<2 | raw[1]>>6
		upper := raw[1] & 0b0011_1111
		ident = uint16(lower) | uint16(upper)<<8
		prefixLen = 2
	default:
		return 0, nil, fmt.Errorf("reserved address type 0x%02x", raw[0])
	}

	if len(raw) != prefixLen+publicKeyLen+checksumLen {
		return 0, nil, fmt.Errorf("unexpected decoded length %d", len(raw))
	}
	body := raw[:prefixLen+publicKeyLen]
	sum := ss58Checksum(body)
	if !bytes.Equal(sum[:checksumLen], raw[prefixLen+publicKeyLen:]) {
		return 0, nil, errors.New("checksum mismatch")
	}

	pub := make([]byte, publicKeyLen)
	copy(pub, raw[prefixLen:prefixLen+publicKeyLen])
	return ident, pub, nil
}

func identBytes(ident uint16) ([]byte, error) {
	switch {
	case ident <= maxSimplePrefix:
		return []byte{byte(ident)}, nil
	case ident <= maxFullPrefix:
		first := byte((ident&0b0000_0000_1111_1100)>>2) | 0b0100_0000
		second := byte(ident>>8) | byte(ident&0b0000_0000_0000_0011)<<6
		return []byte{first, second}, nil
	default:
		return nil, fmt.Errorf("network identifier %d out of range", ident)
	}
}

func ss58Checksum(payload []byte) [blake2b.Size]byte {
	buf := make([]byte, 0, len(ss58Pre)+len(payload))
	buf = append(buf, ss58Pre...)
	buf = append(buf, payload...)
	return blake2b.Sum512(buf)
}
