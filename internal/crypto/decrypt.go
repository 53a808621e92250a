package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/model"

	"golang.org/x/crypto/scrypt"
)

// upper bound on stored scrypt cost, so a tampered record cannot demand unbounded memory
const maxScryptN = 1 << 22

// Open decrypts the sealed part of a wallet file.
// password must be []byte for security (caller should zero it after use).
// Authentication failure is reported as apperr.ErrWrongPassphrase.
// The caller must clear WalletData.Seed and WalletData.EvmPrivateKey after use.
func Open(file *model.WalletFile, password []byte) (*model.WalletData, error) {
	if len(file.Encoding.Type) != 2 || file.Encoding.Type[0] != kdfType || file.Encoding.Type[1] != cipherType {
		return nil, apperr.ErrMalformedRecord.Msgf("unsupported wallet encoding %v", file.Encoding.Type)
	}
	if file.Scrypt.N <= 1 || file.Scrypt.N > maxScryptN || file.Scrypt.R <= 0 || file.Scrypt.P <= 0 {
		return nil, apperr.ErrMalformedRecord.Msgf("invalid scrypt parameters")
	}

	// Decode salt and nonce
	salt, err := base64.StdEncoding.DecodeString(file.Scrypt.Salt)
	if err != nil {
		return nil, apperr.ErrMalformedRecord.Wrap(err, "failed to decode salt")
	}

	nonce, err := base64.StdEncoding.DecodeString(file.Nonce)
	if err != nil {
		return nil, apperr.ErrMalformedRecord.Wrap(err, "failed to decode nonce")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(file.CipherText)
	if err != nil {
		return nil, apperr.ErrMalformedRecord.Wrap(err, "failed to decode ciphertext")
	}

	// Derive key from password
	key, err := scrypt.Key(password, salt, file.Scrypt.N, file.Scrypt.R, file.Scrypt.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, apperr.ErrMalformedRecord.Msgf("invalid nonce length %d", len(nonce))
	}

	// Decrypt
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, apperr.ErrWrongPassphrase
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	// Deserialize wallet data
	var walletData model.WalletData
	if err := json.Unmarshal(plaintext, &walletData); err != nil {
		return nil, apperr.ErrMalformedRecord.Wrap(err, "failed to unmarshal wallet data")
	}

	return &walletData, nil
}

// Clear wipes the secret fields of decrypted wallet data.
func Clear(walletData *model.WalletData) {
	if walletData == nil {
		return
	}
	clear(walletData.Seed)
	clear(walletData.EvmPrivateKey)
}
