package autonomys

import (
	"context"
	"strconv"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/common"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

// EvmTransfer sends amount (in AI3, decimal string) from a stored wallet's EVM
// account to a 0x address. A mined but reverted transfer returns the result
// together with ErrTransactionReverted.
func (s *Service) EvmTransfer(ctx context.Context, from, to, amount string) (*model.EvmTransferResult, error) {
	// Validate recipient address
	toAddr, err := address.NormalizeEvmAddress(to)
	if err != nil {
		return nil, err
	}

	// Convert amount to wei (string-based, no float precision loss)
	wei, err := common.AI3ToShannons(amount)
	if err != nil {
		return nil, apperr.ErrInvalidAmount.Wrap(err, "invalid amount")
	}
	if wei.Sign() == 0 {
		return nil, apperr.ErrInvalidAmount.Msgf("amount must be greater than zero")
	}

	id, err := s.keystore.Load(ctx, from)
	if err != nil {
		return nil, err
	}
	defer id.Wipe()

	evm, err := s.dialEvm(ctx, s.endpoints.EvmRPCURL, s.endpoints.Contract)
	if err != nil {
		return nil, err
	}
	defer evm.Close()

	fromAddr, err := address.NormalizeEvmAddress(id.EvmAddress())
	if err != nil {
		return nil, err
	}

	// Check balance sufficiency before signing
	balance, err := evm.Balance(ctx, fromAddr.EVM())
	if err != nil {
		return nil, err
	}
	if balance.Cmp(wei) < 0 {
		return nil, apperr.ErrInsufficientBalance.Msgf("insufficient balance: have %s %s, need %s %s plus gas",
			common.ShannonsToAI3(balance), s.network.TokenSymbol, common.ShannonsToAI3(wei), s.network.TokenSymbol)
	}

	s.logger.Info("sending EVM transfer", "from", fromAddr.String(), "to", toAddr.String(), "amount", amount, "network", s.network.String())
	receipt, err := evm.Transfer(ctx, id.EvmKey(), toAddr.EVM(), wei)
	if err != nil {
		return nil, err
	}

	result := &model.EvmTransferResult{
		Success:         receipt.Status == 1,
		TransactionHash: receipt.TxHash,
		BlockNumber:     receipt.BlockNumber,
		BlockHash:       receipt.BlockHash,
		GasUsed:         strconv.FormatUint(receipt.GasUsed, 10),
		From:            fromAddr.String(),
		To:              toAddr.String(),
		Amount:          common.ShannonsToAI3(wei),
		Network:         s.network.String(),
		Symbol:          s.network.TokenSymbol,
		Warning:         s.network.Warning("Auto-EVM"),
	}
	if !result.Success {
		return result, apperr.ErrTransactionReverted.Msgf("transfer %s reverted", receipt.TxHash)
	}
	return result, nil
}
