package client

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

// DefaultMemoryChainAddress is the MemoryChain deployment used when no address is configured.
const DefaultMemoryChainAddress = "0x51DAedAFfFf631820a4650a773096A69cB199A3c"

const transferGasLimit = 21000 // plain value transfer

// memoryChainABI is the hash variant of MemoryChain: one bytes32 per address.
const memoryChainABI = `[
  {"type":"function","name":"setLastMemoryHash","stateMutability":"nonpayable",
   "inputs":[{"name":"hash","type":"bytes32","internalType":"bytes32"}],"outputs":[]},
  {"type":"function","name":"getLastMemoryHash","stateMutability":"view",
   "inputs":[{"name":"agent","type":"address","internalType":"address"}],
   "outputs":[{"name":"","type":"bytes32","internalType":"bytes32"}]}
]`

const (
	methodSetHash = "setLastMemoryHash"
	methodGetHash = "getLastMemoryHash"
)

// EvmBackend is the subset of ethclient.Client the EVM client uses.
type EvmBackend interface {
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// EvmClient is a client for the Auto-EVM domain and its MemoryChain contract
type EvmClient struct {
	backend  EvmBackend
	closer   func()
	contract common.Address
	abi      abi.ABI

	chainMu sync.Mutex
	chainID *big.Int
}

// DialEvm connects to an Auto-EVM JSON-RPC endpoint (http or ws).
func DialEvm(ctx context.Context, rpcURL string, contract common.Address) (*EvmClient, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, apperr.ErrChainUnreachable.Wrap(err, "failed to connect to Auto-EVM at %s", rpcURL)
	}
	c, err := NewEvmClient(eth, contract)
	if err != nil {
		eth.Close()
		return nil, err
	}
	c.closer = eth.Close
	return c, nil
}

// NewEvmClient wraps an existing backend.
func NewEvmClient(backend EvmBackend, contract common.Address) (*EvmClient, error) {
	parsed, err := abi.JSON(strings.NewReader(memoryChainABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MemoryChain ABI: %w", err)
	}
	return &EvmClient{backend: backend, contract: contract, abi: parsed}, nil
}

// Close releases the underlying connection.
func (c *EvmClient) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// Contract returns the MemoryChain address the client talks to.
func (c *EvmClient) Contract() common.Address { return c.contract }

// LastMemoryHash reads the anchored hash of owner. The result separates a
// decodable answer, a contract that cannot answer, and an unreachable node.
func (c *EvmClient) LastMemoryHash(ctx context.Context, owner common.Address) model.ReadResult {
	input, err := c.abi.Pack(methodGetHash, owner)
	if err != nil {
		return model.ReadResult{Status: model.ReadUndecodable, Err: fmt.Errorf("failed to pack call: %w", err)}
	}

	contract := c.contract
	output, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: input}, nil)
	if err != nil {
		if isNodeError(err) {
			// the node answered: the call itself failed (revert, bad opcode)
			return model.ReadResult{Status: model.ReadUndecodable, Err: err}
		}
		return model.ReadResult{Status: model.ReadTransportError, Err: err}
	}

	// an address without code answers with empty data
	values, err := c.abi.Unpack(methodGetHash, output)
	if err != nil {
		return model.ReadResult{Status: model.ReadUndecodable, Err: err}
	}
	if len(values) != 1 {
		return model.ReadResult{Status: model.ReadUndecodable, Err: fmt.Errorf("expected 1 return value, got %d", len(values))}
	}
	hash, ok := values[0].([32]byte)
	if !ok {
		return model.ReadResult{Status: model.ReadUndecodable, Err: fmt.Errorf("unexpected return type %T", values[0])}
	}
	return model.ReadResult{Status: model.ReadOK, Value: hash}
}

// SetLastMemoryHash sends one setLastMemoryHash transaction and waits for its receipt.
func (c *EvmClient) SetLastMemoryHash(ctx context.Context, key *ecdsa.PrivateKey, hash [32]byte) (*model.Receipt, error) {
	input, err := c.abi.Pack(methodSetHash, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to pack call: %w", err)
	}
	return c.send(ctx, key, c.contract, big.NewInt(0), input, 0)
}

// Balance returns the wei balance of account at the latest block.
func (c *EvmClient) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, classify(err, "failed to get EVM balance")
	}
	return balance, nil
}

// Transfer sends amount wei from the key's address to to.
func (c *EvmClient) Transfer(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, amount *big.Int) (*model.Receipt, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, apperr.ErrInvalidAmount.Msgf("amount must be positive")
	}
	return c.send(ctx, key, to, amount, nil, transferGasLimit)
}

// loadChainID fetches the chain id once it succeeds; failures are retried on the next call.
func (c *EvmClient) loadChainID(ctx context.Context) (*big.Int, error) {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()
	if c.chainID != nil {
		return c.chainID, nil
	}
	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return nil, classify(err, "failed to get chain id")
	}
	c.chainID = id
	return id, nil
}

// send builds, signs and submits one legacy (EIP-155) transaction, then blocks until mined.
// gasLimit 0 means estimate.
func (c *EvmClient) send(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, value *big.Int, data []byte, gasLimit uint64) (*model.Receipt, error) {
	chainID, err := c.loadChainID(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, opts.From)
	if err != nil {
		return nil, classify(err, "failed to get nonce")
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, classify(err, "failed to get gas price")
	}
	if gasLimit == 0 {
		gasLimit, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{From: opts.From, To: &to, Value: value, Data: data})
		if err != nil {
			return nil, classify(err, "failed to estimate gas")
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := opts.Signer(opts.From, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return nil, classify(err, "failed to send transaction")
	}

	receipt, err := bind.WaitMined(ctx, c.backend, signed)
	if err != nil {
		return nil, apperr.ErrReceiptMissing.Wrap(err, "transaction %s was sent but no receipt was received", signed.Hash().Hex())
	}
	if receipt == nil {
		return nil, apperr.ErrReceiptMissing.Msgf("transaction %s was sent but no receipt was received", signed.Hash().Hex())
	}
	return toReceipt(receipt), nil
}

func toReceipt(r *types.Receipt) *model.Receipt {
	out := &model.Receipt{
		Status:    r.Status,
		TxHash:    r.TxHash.Hex(),
		BlockHash: r.BlockHash.Hex(),
		GasUsed:   r.GasUsed,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}

// classify maps transport failures to ErrChainUnreachable and keeps node-side errors as-is.
func classify(err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if isNodeError(err) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return apperr.ErrChainUnreachable.Wrap(err, "%s", msg)
}
