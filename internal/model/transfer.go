package model

// EvmTransferResult represents the outcome of an Auto-EVM value transfer
type EvmTransferResult struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash"`
	BlockNumber     uint64 `json:"blockNumber"`
	BlockHash       string `json:"blockHash"`
	GasUsed         string `json:"gasUsed"`
	From            string `json:"from"`
	To              string `json:"to"`
	Amount          string `json:"amount"`
	Network         string `json:"network"`
	Symbol          string `json:"symbol"`
	Warning         string `json:"warning,omitempty"`
}
