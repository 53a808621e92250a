package autonomys

import (
	"context"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/common"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

// Balance gets the consensus-chain balance of a native address
func (s *Service) Balance(ctx context.Context, input string) (*model.BalanceResult, error) {
	addr, err := address.NormalizeNativeAddress(input)
	if err != nil {
		return nil, err
	}

	reader, err := s.dialConsensus(ctx, s.endpoints.ConsensusRPCURL)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	info, err := reader.Account(ctx, addr.Bytes())
	if err != nil {
		return nil, err
	}

	// Convert to display strings (no float precision loss)
	return &model.BalanceResult{
		Address:  addr.String(),
		Free:     common.ShannonsToAI3(info.Free),
		Reserved: common.ShannonsToAI3(info.Reserved),
		Frozen:   common.ShannonsToAI3(info.Frozen),
		Total:    common.ShannonsToAI3(info.Total()),
		Network:  s.network.String(),
		Symbol:   s.network.TokenSymbol,
	}, nil
}

// EvmBalance gets the Auto-EVM balance of a 0x address
func (s *Service) EvmBalance(ctx context.Context, input string) (*model.EvmBalanceResult, error) {
	addr, err := address.NormalizeEvmAddress(input)
	if err != nil {
		return nil, err
	}

	evm, err := s.dialEvm(ctx, s.endpoints.EvmRPCURL, s.endpoints.Contract)
	if err != nil {
		return nil, err
	}
	defer evm.Close()

	wei, err := evm.Balance(ctx, addr.EVM())
	if err != nil {
		return nil, err
	}

	return &model.EvmBalanceResult{
		EvmAddress: addr.String(),
		Balance:    common.ShannonsToAI3(wei),
		Network:    s.network.String(),
		Symbol:     s.network.TokenSymbol,
	}, nil
}

// NormalizeAddress canonicalizes an address of either family
func NormalizeAddress(input string) (*model.AddressResult, error) {
	addr, err := address.Normalize(input)
	if err != nil {
		return nil, err
	}
	return &model.AddressResult{
		Input:   input,
		Family:  string(addr.Family),
		Address: addr.String(),
	}, nil
}
