package model

// WalletFile represents the on-disk wallet record (<name>.json)
type WalletFile struct {
	Address    string         `json:"address"`
	EvmAddress string         `json:"evmAddress"`
	KeyType    string         `json:"keyType"`
	Encoding   WalletEncoding `json:"encoding"`
	Scrypt     ScryptParams   `json:"scrypt"`
	Nonce      string         `json:"nonce"`
	CipherText string         `json:"cipherText"`
	Meta       WalletMeta     `json:"meta"`
}

// WalletEncoding describes how CipherText was produced
type WalletEncoding struct {
	Content []string `json:"content"`
	Type    []string `json:"type"`
	Version string   `json:"version"`
}

// ScryptParams are the KDF parameters a record was sealed with
type ScryptParams struct {
	N    int    `json:"n"`
	R    int    `json:"r"`
	P    int    `json:"p"`
	Salt string `json:"salt"`
}

// WalletMeta is the clear-text metadata block of a record
type WalletMeta struct {
	Name        string `json:"name,omitempty"`
	WhenCreated int64  `json:"whenCreated,omitempty"` // unix milliseconds
}

// WalletData represents decrypted wallet data
type WalletData struct {
	KeyType       string `json:"keyType"`
	Seed          []byte `json:"seed"`          // 32 bytes native mini-secret (base64 in JSON)
	EvmPrivateKey []byte `json:"evmPrivateKey"` // 32 bytes secp256k1 scalar (base64 in JSON)
	CreatedAt     string `json:"createdAt"`
}

// WalletInfo is the public view of a stored wallet
type WalletInfo struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	EvmAddress  string `json:"evmAddress,omitempty"`
	KeyfilePath string `json:"keyfilePath"`
}

// CreatedWallet is returned once by wallet creation; Mnemonic is never stored
type CreatedWallet struct {
	WalletInfo
	Mnemonic string `json:"-"`
}

// WalletListResponse represents response for wallet list
type WalletListResponse struct {
	Wallets []WalletInfo `json:"wallets"`
}

// QRResult is a wallet address rendered as a PNG QR code
type QRResult struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Family  string `json:"family"`
	Path    string `json:"path,omitempty"` // set when the PNG was written to a file
	PNG     string `json:"png,omitempty"`  // base64 PNG otherwise
}
