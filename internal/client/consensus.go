package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/hash"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/xxhash"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// SCALE layout of frame_system::AccountInfo<u32, pallet_balances::AccountData<u128>>:
// nonce, consumers, providers, sufficients (u32 each) then free, reserved, frozen, flags (u128 each).
// types.AccountInfo names the last two balances MiscFrozen and FreeFrozen, the pre-holds layout.
const accountInfoLen = 4*4 + 4*16

// AccountInfo is the decoded balance state of a consensus account, in shannons.
type AccountInfo struct {
	Nonce    uint32
	Free     *big.Int
	Reserved *big.Int
	Frozen   *big.Int
}

// Total returns free + reserved.
func (a *AccountInfo) Total() *big.Int {
	return new(big.Int).Add(a.Free, a.Reserved)
}

// RPCCaller is the JSON-RPC surface the consensus client needs; *rpc.Client implements it.
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
	Close()
}

// ConsensusClient reads account state from the consensus chain over JSON-RPC
type ConsensusClient struct {
	rpc RPCCaller
}

// DialConsensus connects to a consensus-chain RPC endpoint (ws or http).
func DialConsensus(ctx context.Context, rpcURL string) (*ConsensusClient, error) {
	c, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, apperr.ErrChainUnreachable.Wrap(err, "failed to connect to consensus chain at %s", rpcURL)
	}
	return NewConsensusClient(c), nil
}

func NewConsensusClient(caller RPCCaller) *ConsensusClient {
	return &ConsensusClient{rpc: caller}
}

func (c *ConsensusClient) Close() {
	c.rpc.Close()
}

// Account returns the System.Account entry for a 32-byte public key.
// An account that has never been funded reads as all zeros.
func (c *ConsensusClient) Account(ctx context.Context, publicKey []byte) (*AccountInfo, error) {
	if len(publicKey) != 32 {
		return nil, fmt.Errorf("public key must be 32 bytes, got %d", len(publicKey))
	}

	var result *string
	if err := c.rpc.CallContext(ctx, &result, "state_getStorage", SystemAccountKey(publicKey)); err != nil {
		return nil, classify(err, "failed to read account storage")
	}
	if result == nil {
		return &AccountInfo{Free: new(big.Int), Reserved: new(big.Int), Frozen: new(big.Int)}, nil
	}

	raw, err := hexutil.Decode(*result)
	if err != nil {
		return nil, apperr.ErrUndecodableResponse.Wrap(err, "invalid storage value")
	}
	return DecodeAccountInfo(raw)
}

// SystemAccountKey builds the storage key of System.Account for an account id:
// twox128("System") ++ twox128("Account") ++ blake2_128(id) ++ id.
func SystemAccountKey(accountID []byte) string {
	key := make([]byte, 0, 16+16+16+len(accountID))
	key = append(key, xxhash.New128([]byte("System")).Sum(nil)...)
	key = append(key, xxhash.New128([]byte("Account")).Sum(nil)...)

	h, err := hash.NewBlake2b128Concat(nil)
	if err != nil {
		// only fails for an invalid key
		panic(err)
	}
	h.Write(accountID)
	key = append(key, h.Sum(nil)...)
	return hexutil.Encode(key)
}

// DecodeAccountInfo decodes a SCALE-encoded AccountInfo.
func DecodeAccountInfo(raw []byte) (*AccountInfo, error) {
	if len(raw) < accountInfoLen {
		return nil, apperr.ErrUndecodableResponse.Msgf("account info is %d bytes, expected at least %d", len(raw), accountInfoLen)
	}
	var decoded types.AccountInfo
	if err := scale.NewDecoder(bytes.NewReader(raw)).Decode(&decoded); err != nil {
		return nil, apperr.ErrUndecodableResponse.Wrap(err, "failed to decode account info")
	}
	return &AccountInfo{
		Nonce:    uint32(decoded.Nonce),
		Free:     u128(decoded.Data.Free),
		Reserved: u128(decoded.Data.Reserved),
		Frozen:   u128(decoded.Data.MiscFrozen),
	}, nil
}

func u128(v types.U128) *big.Int {
	if v.Int == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.Int)
}

// isNodeError reports whether err is an error response from the node, as
// opposed to a failure to reach it.
func isNodeError(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}
