package autonomys

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/keyring"
	"github.com/AlexZinkM/auto-respawn/internal/model"
)

const qrSize = 256

// CreateWallet generates a new wallet; the recovery phrase is only in the returned value.
func (s *Service) CreateWallet(ctx context.Context, name, keyType string) (*model.CreatedWallet, error) {
	kt, err := keyring.ParseKeyType(keyType)
	if err != nil {
		return nil, err
	}
	return s.keystore.Create(ctx, name, kt)
}

// ImportWallet stores a wallet derived from an existing recovery phrase.
func (s *Service) ImportWallet(ctx context.Context, name, mnemonic, keyType string) (*model.WalletInfo, error) {
	kt, err := keyring.ParseKeyType(keyType)
	if err != nil {
		return nil, err
	}
	return s.keystore.Import(ctx, name, mnemonic, kt)
}

// ListWallets returns the public view of every stored wallet.
func (s *Service) ListWallets(ctx context.Context) (*model.WalletListResponse, error) {
	wallets, err := s.keystore.List(ctx)
	if err != nil {
		return nil, err
	}
	return &model.WalletListResponse{Wallets: wallets}, nil
}

// WalletQR renders a wallet's consensus (or, with evm, Auto-EVM) address as a QR code.
// With outPath set the PNG is written there, otherwise it is returned base64-encoded.
func (s *Service) WalletQR(ctx context.Context, name string, evm bool, outPath string) (*model.QRResult, error) {
	info, err := s.keystore.Info(ctx, name)
	if err != nil {
		return nil, err
	}

	result := &model.QRResult{Name: info.Name, Address: info.Address, Family: string(address.FamilyNative)}
	if evm {
		if info.EvmAddress == "" {
			return nil, fmt.Errorf("wallet %q has no EVM address", name)
		}
		result.Address = info.EvmAddress
		result.Family = string(address.FamilyEVM)
	}

	png, err := generateQRCode(result.Address)
	if err != nil {
		return nil, err
	}

	if outPath == "" {
		result.PNG = base64.StdEncoding.EncodeToString(png)
		return result, nil
	}
	if err := os.WriteFile(outPath, png, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write QR code: %w", err)
	}
	result.Path = outPath
	return result, nil
}

// generateQRCode renders text as a PNG QR code
func generateQRCode(text string) ([]byte, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}
