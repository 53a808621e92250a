package model

// AnchorResult represents the outcome of anchoring a CID on the MemoryChain contract
type AnchorResult struct {
	Success    bool   `json:"success"`
	TxHash     string `json:"txHash"`
	BlockHash  string `json:"blockHash"`
	CID        string `json:"cid"`
	EvmAddress string `json:"evmAddress"`
	Network    string `json:"network"`
	Warning    string `json:"warning,omitempty"`
}

// HeadResult represents the last anchored CID for an EVM address.
// CID is nil when nothing has been anchored yet.
type HeadResult struct {
	EvmAddress string  `json:"evmAddress"`
	CID        *string `json:"cid"`
	Hash       string  `json:"hash"`
	Network    string  `json:"network"`
}

// AddressResult represents a normalized address of either family
type AddressResult struct {
	Input   string `json:"input"`
	Family  string `json:"family"`
	Address string `json:"address"`
}
