// Package autonomys implements the wallet, balance, transfer and memory-anchor
// operations shared by the CLI and the HTTP API.
package autonomys

import (
	"context"
	"crypto/ecdsa"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/AlexZinkM/auto-respawn/internal/anchor"
	"github.com/AlexZinkM/auto-respawn/internal/client"
	"github.com/AlexZinkM/auto-respawn/internal/keystore"
	"github.com/AlexZinkM/auto-respawn/internal/model"
	"github.com/AlexZinkM/auto-respawn/internal/network"
)

// ConsensusReader reads consensus-chain account state.
type ConsensusReader interface {
	Account(ctx context.Context, publicKey []byte) (*client.AccountInfo, error)
	Close()
}

// EvmChain is the Auto-EVM surface: the MemoryChain contract plus value transfers.
type EvmChain interface {
	anchor.Contract
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	Transfer(ctx context.Context, key *ecdsa.PrivateKey, to common.Address, amount *big.Int) (*model.Receipt, error)
	Close()
}

// Endpoints are the RPC URLs and contract address for one network.
type Endpoints struct {
	ConsensusRPCURL string
	EvmRPCURL       string
	Contract        common.Address
}

// Service runs operations against one network and one keystore.
type Service struct {
	keystore  *keystore.Manager
	network   network.Context
	endpoints Endpoints
	logger    *slog.Logger

	dialConsensus func(ctx context.Context, url string) (ConsensusReader, error)
	dialEvm       func(ctx context.Context, url string, contract common.Address) (EvmChain, error)
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithConsensusDialer replaces the consensus RPC connector.
func WithConsensusDialer(dial func(ctx context.Context, url string) (ConsensusReader, error)) Option {
	return func(s *Service) { s.dialConsensus = dial }
}

// WithEvmDialer replaces the Auto-EVM RPC connector.
func WithEvmDialer(dial func(ctx context.Context, url string, contract common.Address) (EvmChain, error)) Option {
	return func(s *Service) { s.dialEvm = dial }
}

// New creates a Service. Empty endpoint URLs fall back to the network defaults.
func New(ks *keystore.Manager, net network.Context, endpoints Endpoints, opts ...Option) *Service {
	if endpoints.ConsensusRPCURL == "" {
		endpoints.ConsensusRPCURL = net.ConsensusRPCURL()
	}
	if endpoints.EvmRPCURL == "" {
		endpoints.EvmRPCURL = net.EvmRPCURL()
	}
	if endpoints.Contract == (common.Address{}) {
		endpoints.Contract = common.HexToAddress(client.DefaultMemoryChainAddress)
	}

	s := &Service{
		keystore:      ks,
		network:       net,
		endpoints:     endpoints,
		logger:        slog.Default(),
		dialConsensus: dialConsensus,
		dialEvm:       dialEvm,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Network returns the network the service operates on.
func (s *Service) Network() network.Context { return s.network }

// Keystore returns the wallet store.
func (s *Service) Keystore() *keystore.Manager { return s.keystore }

func (s *Service) protocol(evm EvmChain) *anchor.Protocol {
	return anchor.NewProtocol(evm, s.network, s.logger)
}

func dialConsensus(ctx context.Context, url string) (ConsensusReader, error) {
	c, err := client.DialConsensus(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func dialEvm(ctx context.Context, url string, contract common.Address) (EvmChain, error) {
	c, err := client.DialEvm(ctx, url, contract)
	if err != nil {
		return nil, err
	}
	return c, nil
}
