package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/AlexZinkM/auto-respawn/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for local wallets
	// Security is prioritized over performance
	//
	// N=2^18 (~256MB RAM, 0.5-2s) - optimal balance:
	//   - Maximum security while remaining usable on small VMs running agents
	//   - Brute-force attacks remain extremely expensive
	//
	// The parameters are stored in every record, so raising them later does not
	// lock out existing wallets.
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12

	contentType = "seed"
	cipherType  = "aes-256-gcm"
	kdfType     = "scrypt"
	version     = "1"
)

// Params are the scrypt cost parameters used when sealing.
type Params struct {
	N int
	R int
	P int
}

// DefaultParams returns the production scrypt parameters.
func DefaultParams() Params {
	return Params{N: scryptN, R: scryptR, P: scryptP}
}

// Sealed is the encrypted part of a wallet record.
type Sealed struct {
	Encoding   model.WalletEncoding
	Scrypt     model.ScryptParams
	Nonce      string
	CipherText string
}

// Seal encrypts wallet data with a key derived from password.
// password must be []byte for security (caller should zero it after use)
func Seal(walletData *model.WalletData, password []byte, params Params) (*Sealed, error) {
	if params.N == 0 {
		params = DefaultParams()
	}

	// Generate salt and nonce
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Derive key from password
	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// Serialize wallet data
	plaintext, err := json.Marshal(walletData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	return &Sealed{
		Encoding: model.WalletEncoding{
			Content: []string{contentType, walletData.KeyType},
			Type:    []string{kdfType, cipherType},
			Version: version,
		},
		Scrypt: model.ScryptParams{
			N:    params.N,
			R:    params.R,
			P:    params.P,
			Salt: base64.StdEncoding.EncodeToString(salt),
		},
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
