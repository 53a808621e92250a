package anchor

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"
	"github.com/AlexZinkM/auto-respawn/internal/network"
)

// Contract is the MemoryChain contract as seen by the protocol.
type Contract interface {
	// SetLastMemoryHash submits one transaction and blocks until its receipt is available.
	SetLastMemoryHash(ctx context.Context, key *ecdsa.PrivateKey, hash [32]byte) (*model.Receipt, error)
	// LastMemoryHash reads the stored hash for owner.
	LastMemoryHash(ctx context.Context, owner common.Address) model.ReadResult
}

// Protocol anchors CIDs and reads them back on one network.
type Protocol struct {
	contract Contract
	network  network.Context
	logger   *slog.Logger
}

func NewProtocol(contract Contract, net network.Context, logger *slog.Logger) *Protocol {
	if logger == nil {
		logger = slog.Default()
	}
	return &Protocol{contract: contract, network: net, logger: logger}
}

// Anchor writes the CID's hash as the latest memory of the key's EVM address.
// A reverted transaction returns the partial result together with ErrTransactionReverted.
// Nothing is retried.
func (p *Protocol) Anchor(ctx context.Context, key *ecdsa.PrivateKey, cidStr string) (*model.AnchorResult, error) {
	if key == nil {
		return nil, errors.New("anchor: signing key is required")
	}
	hash, err := CIDToHash(cidStr)
	if err != nil {
		return nil, err
	}
	if hash.IsZero() {
		return nil, apperr.ErrSentinelHash.Msgf("CID %s hashes to the reserved all-zero value", cidStr)
	}

	owner := ethcrypto.PubkeyToAddress(key.PublicKey)
	p.logger.Info("anchoring memory", "evmAddress", owner.Hex(), "cid", cidStr, "network", p.network.String())

	receipt, err := p.contract.SetLastMemoryHash(ctx, key, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to anchor CID: %w", err)
	}
	if receipt == nil {
		return nil, apperr.ErrReceiptMissing.Msgf("no receipt for anchor transaction on %s", p.network)
	}

	result := &model.AnchorResult{
		Success:    receipt.Status == 1,
		TxHash:     receipt.TxHash,
		BlockHash:  receipt.BlockHash,
		CID:        cidStr,
		EvmAddress: owner.Hex(),
		Network:    p.network.String(),
		Warning:    p.network.Warning("Auto-EVM"),
	}
	if !result.Success {
		p.logger.Warn("anchor transaction reverted", "txHash", receipt.TxHash, "network", p.network.String())
		return result, apperr.ErrTransactionReverted.Msgf("anchor transaction %s reverted", receipt.TxHash)
	}

	p.logger.Info("memory anchored", "txHash", receipt.TxHash, "blockNumber", receipt.BlockNumber)
	return result, nil
}

// GetHead reads the latest anchored CID of an EVM address.
// An empty head is a normal result with a nil CID.
func (p *Protocol) GetHead(ctx context.Context, owner string) (*model.HeadResult, error) {
	addr, err := address.NormalizeEvmAddress(owner)
	if err != nil {
		return nil, err
	}

	read := p.contract.LastMemoryHash(ctx, addr.EVM())
	switch read.Status {
	case model.ReadOK:
	case model.ReadUndecodable:
		return nil, apperr.ErrContractUnavailable.Wrap(read.Err,
			"MemoryChain contract not available on network %q; it may not be deployed at the configured address", p.network.String())
	case model.ReadTransportError:
		return nil, apperr.ErrChainUnreachable.Wrap(read.Err, "failed to reach Auto-EVM on network %q", p.network.String())
	default:
		return nil, fmt.Errorf("unknown read status %s", read.Status)
	}

	hash := Hash(read.Value)
	head := &model.HeadResult{
		EvmAddress: addr.String(),
		Hash:       hash.Hex(),
		Network:    p.network.String(),
	}
	c, ok, err := HashToCID(hash)
	if err != nil {
		return nil, err
	}
	if ok {
		s := c.String()
		head.CID = &s
	}
	return head, nil
}
