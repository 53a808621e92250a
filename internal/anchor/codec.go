// Package anchor publishes and reads an address's latest memory CID on the MemoryChain contract.
//
// The contract stores a bytes32 per address. A CID is reduced to the digest of
// its multihash before it is written, and rebuilt from the digest when read, so
// any CID string naming the same content maps to the same on-chain value.
package anchor

import (
	"encoding/hex"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// HashCode is the multihash function every anchored CID must use: blake2b-256.
const HashCode = multihash.BLAKE2B_MIN + 31

// HashLen is the digest length stored on-chain.
const HashLen = 32

// Codec is the content codec of CIDs rebuilt from on-chain hashes. Auto Drive
// publishes dag-pb CIDs, so those read back string-identical.
const Codec = cid.DagProtobuf

// Hash is an on-chain anchor value. The zero value means nothing is anchored.
type Hash [HashLen]byte

// IsZero reports whether h is the "nothing anchored" sentinel.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Hex returns the 0x-prefixed hex form used in results.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// CIDToHash extracts the content digest of a CID string (v0 or v1, any multibase).
func CIDToHash(s string) (Hash, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Hash{}, apperr.ErrInvalidCID.Msgf("CID is empty")
	}
	c, err := cid.Decode(s)
	if err != nil {
		return Hash{}, apperr.ErrInvalidCID.Wrap(err, "invalid CID %q", s)
	}

	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return Hash{}, apperr.ErrInvalidCID.Wrap(err, "invalid multihash in CID %q", s)
	}
	if decoded.Code != HashCode || len(decoded.Digest) != HashLen {
		return Hash{}, apperr.ErrUnsupportedHash.Msgf("CID %q uses %s (%d bytes); only blake2b-256 CIDs can be anchored",
			s, multihash.Codes[decoded.Code], len(decoded.Digest))
	}

	var h Hash
	copy(h[:], decoded.Digest)
	return h, nil
}

// HashToCID rebuilds a CIDv1 from an on-chain hash. ok is false for the sentinel.
func HashToCID(h Hash) (c cid.Cid, ok bool, err error) {
	if h.IsZero() {
		return cid.Undef, false, nil
	}
	mh, err := multihash.Encode(h[:], HashCode)
	if err != nil {
		return cid.Undef, false, apperr.ErrUndecodableResponse.Wrap(err, "failed to encode multihash")
	}
	return cid.NewCidV1(Codec, mh), true, nil
}
