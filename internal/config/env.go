package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"

	"github.com/AlexZinkM/auto-respawn/internal/address"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
)

// Config contains all configuration parameters for the application.
// Note: the passphrase itself is never part of Config; it is resolved per operation
// from AUTO_RESPAWN_PASSPHRASE, the passphrase file or the terminal.
type Config struct {
	PassphraseFile  string        `envconfig:"AUTO_RESPAWN_PASSPHRASE_FILE"`
	Network         string        `envconfig:"AUTO_RESPAWN_NETWORK"`
	WalletsDir      string        `envconfig:"AUTO_RESPAWN_WALLETS_DIR"`
	ContractAddress string        `envconfig:"AUTO_RESPAWN_CONTRACT_ADDRESS" default:"0x51DAedAFfFf631820a4650a773096A69cB199A3c"`
	ConsensusRPCURL string        `envconfig:"AUTO_RESPAWN_CONSENSUS_RPC_URL"`
	EvmRPCURL       string        `envconfig:"AUTO_RESPAWN_EVM_RPC_URL"`
	RPCTimeout      time.Duration `envconfig:"AUTO_RESPAWN_RPC_TIMEOUT" default:"2m"`
	LogLevel        string        `envconfig:"AUTO_RESPAWN_LOG_LEVEL" default:"warn"`
	Listen          string        `envconfig:"AUTO_RESPAWN_LISTEN" default:"127.0.0.1:8080"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Load reads, defaults and validates the configuration without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, apperr.ErrInvalidConfig.Wrap(err, "failed to process config")
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, apperr.ErrInvalidConfig.Wrap(err, "invalid configuration")
	}
	return c, nil
}

// BaseDir is the default state directory, ~/.openclaw/auto-respawn.
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".openclaw", "auto-respawn"), nil
}

func (c *Config) applyDefaults() error {
	base, err := BaseDir()
	if err != nil {
		return apperr.ErrInvalidConfig.Wrap(err, "cannot locate default directories")
	}
	if c.PassphraseFile == "" {
		c.PassphraseFile = filepath.Join(base, ".passphrase")
	}
	if c.WalletsDir == "" {
		c.WalletsDir = filepath.Join(base, "wallets")
	}
	c.PassphraseFile = expandHome(c.PassphraseFile)
	c.WalletsDir = expandHome(c.WalletsDir)
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PassphraseFile, validation.Required),
		validation.Field(&c.WalletsDir, validation.Required),
		validation.Field(&c.Network, validation.In("chronos", "testnet", "mainnet")),
		validation.Field(&c.ContractAddress, validation.Required, validation.By(evmAddress)),
		validation.Field(&c.ConsensusRPCURL, validation.By(rpcURL)),
		validation.Field(&c.EvmRPCURL, validation.By(rpcURL)),
		validation.Field(&c.RPCTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Listen, validation.Required),
	)
}

func evmAddress(value interface{}) error {
	s, _ := value.(string)
	if _, err := address.NormalizeEvmAddress(s); err != nil {
		return errors.New("must be a 0x-prefixed 20-byte hex address")
	}
	return nil
}

func rpcURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
		return nil
	default:
		return fmt.Errorf("unsupported scheme %q, expected http(s) or ws(s)", u.Scheme)
	}
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// GetWalletsDir returns the keystore directory from configuration.
func GetWalletsDir() string {
	return Get().WalletsDir
}

// GetPassphraseFile returns the passphrase file path from configuration.
func GetPassphraseFile() string {
	return Get().PassphraseFile
}
