package autonomys

import (
	"context"
	"strings"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/anchor"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

// Anchor writes a CID as the latest memory of a stored wallet's EVM address.
func (s *Service) Anchor(ctx context.Context, from, cid string) (*model.AnchorResult, error) {
	// reject bad CIDs before asking for the passphrase
	if _, err := anchor.CIDToHash(cid); err != nil {
		return nil, err
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

	return s.protocol(evm).Anchor(ctx, id.EvmKey(), strings.TrimSpace(cid))
}

// GetHead reads the latest anchored CID. target is a 0x address or the name of a stored wallet.
func (s *Service) GetHead(ctx context.Context, target string) (*model.HeadResult, error) {
	owner := strings.TrimSpace(target)
	if !strings.HasPrefix(owner, "0x") && !strings.HasPrefix(owner, "0X") && !address.IsNativeAddress(owner) {
		info, err := s.keystore.Info(ctx, owner)
		if err != nil {
			return nil, err
		}
		owner = info.EvmAddress
	}

	evm, err := s.dialEvm(ctx, s.endpoints.EvmRPCURL, s.endpoints.Contract)
	if err != nil {
		return nil, err
	}
	defer evm.Close()

	return s.protocol(evm).GetHead(ctx, owner)
}
