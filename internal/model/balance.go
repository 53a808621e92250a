package model

// BalanceResult represents a consensus-chain account balance
type BalanceResult struct {
	Address  string `json:"address"`
	Free     string `json:"free"`
	Reserved string `json:"reserved"`
	Frozen   string `json:"frozen"`
	Total    string `json:"total"`
	Network  string `json:"network"`
	Symbol   string `json:"symbol"`
}

// EvmBalanceResult represents a native token balance on Auto-EVM
type EvmBalanceResult struct {
	EvmAddress string `json:"evmAddress"`
	Balance    string `json:"balance"`
	Network    string `json:"network"`
	Symbol     string `json:"symbol"`
}
