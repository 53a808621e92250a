// Package network resolves which Autonomys network a command runs against.
package network

import (
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// ID identifies an Autonomys network.
type ID string

const (
	Chronos ID = "chronos" // public testnet
	Mainnet ID = "mainnet"
)

// Default is used when neither a flag nor AUTO_RESPAWN_NETWORK selects a network.
const Default = Chronos

type details struct {
	symbol       string
	tokenName    string
	consensusRPC string
	evmRPC       string
}

var networks = map[ID]details{
	Chronos: {
		symbol:       "tAI3",
		tokenName:    "Testnet Auto Token",
		consensusRPC: "wss://rpc.chronos.autonomys.xyz/ws",
		evmRPC:       "wss://auto-evm.chronos.autonomys.xyz/ws",
	},
	Mainnet: {
		symbol:       "AI3",
		tokenName:    "Auto Token",
		consensusRPC: "wss://rpc.mainnet.autonomys.xyz/ws",
		evmRPC:       "wss://auto-evm.mainnet.autonomys.xyz/ws",
	},
}

// Context is the immutable network selection for one command invocation.
type Context struct {
	ID          ID
	TokenSymbol string
}

// Parse maps a network name to an ID. "testnet" is an alias of chronos.
func Parse(name string) (ID, error) {
	switch name {
	case string(Chronos), "testnet":
		return Chronos, nil
	case string(Mainnet):
		return Mainnet, nil
	default:
		return "", apperr.ErrInvalidNetwork.Msgf("unknown network %q: expected chronos or mainnet", name)
	}
}

// Resolve picks the network from an explicit flag, then the configured default, then Default.
// An empty flag or default means "not set".
func Resolve(flag, configured string) (Context, error) {
	name := flag
	if name == "" {
		name = configured
	}
	if name == "" {
		return New(Default), nil
	}
	id, err := Parse(name)
	if err != nil {
		return Context{}, err
	}
	return New(id), nil
}

// New returns the Context for a known ID.
func New(id ID) Context {
	return Context{ID: id, TokenSymbol: networks[id].symbol}
}

func (c Context) String() string {
	return string(c.ID)
}

// IsMainnet reports whether transactions on this network move real tokens.
func (c Context) IsMainnet() bool {
	return c.ID == Mainnet
}

// TokenName returns the human-readable token name.
func (c Context) TokenName() string {
	return networks[c.ID].tokenName
}

// ConsensusRPCURL returns the default consensus-chain RPC endpoint.
func (c Context) ConsensusRPCURL() string {
	return networks[c.ID].consensusRPC
}

// EvmRPCURL returns the default Auto-EVM RPC endpoint.
func (c Context) EvmRPCURL() string {
	return networks[c.ID].evmRPC
}

// Warning returns the mainnet warning attached to state-changing results, or "".
func (c Context) Warning(domain string) string {
	if !c.IsMainnet() {
		return ""
	}
	if domain != "" {
		return "This was a mainnet transaction on " + domain + " with real " + c.TokenSymbol + " tokens."
	}
	return "This was a mainnet transaction with real " + c.TokenSymbol + " tokens."
}
