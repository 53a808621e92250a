package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/AlexZinkM/auto-respawn/autonomys"
	"github.com/AlexZinkM/auto-respawn/internal/api"
	"github.com/AlexZinkM/auto-respawn/internal/apperr"
	"github.com/AlexZinkM/auto-respawn/internal/config"
	"github.com/AlexZinkM/auto-respawn/internal/keyring"
	"github.com/AlexZinkM/auto-respawn/internal/keystore"
	"github.com/AlexZinkM/auto-respawn/internal/network"
	"github.com/AlexZinkM/auto-respawn/internal/passphrase"
)

const shutdownTimeout = 10 * time.Second

func networkFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "network",
		Aliases: []string{"n"},
		Usage:   "Network: chronos or mainnet (default from AUTO_RESPAWN_NETWORK, else chronos)",
	}
}

func keyTypeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "key-type",
		Usage: "Consensus key scheme: sr25519 or ed25519",
		Value: string(keyring.SR25519),
	}
}

// newService wires the keystore and chain endpoints for one invocation.
func newService(networkName string) (*autonomys.Service, error) {
	cfg := config.Get()
	net, err := network.Resolve(networkName, cfg.Network)
	if err != nil {
		return nil, err
	}

	ks := keystore.New(config.GetWalletsDir(), passphrase.NewDefaultResolver(config.GetPassphraseFile()), keyring.New(),
		keystore.WithLogger(slog.Default()))

	return autonomys.New(ks, net, autonomys.Endpoints{
		ConsensusRPCURL: cfg.ConsensusRPCURL,
		EvmRPCURL:       cfg.EvmRPCURL,
		Contract:        common.HexToAddress(cfg.ContractAddress),
	}, autonomys.WithLogger(slog.Default())), nil
}

// chainContext bounds a command that talks to an RPC node.
func chainContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.Get().RPCTimeout)
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.Args().First()
	if v == "" {
		return "", apperr.ErrMissingArgument.Msgf("missing argument <%s>", name)
	}
	return v, nil
}

func walletCommand() *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "Create, import and list encrypted wallets",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Generate a new wallet and print its recovery phrase once",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Wallet name", Value: "default"},
					keyTypeFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := newService("")
					if err != nil {
						return err
					}
					created, err := svc.CreateWallet(ctx, cmd.String("name"), cmd.String("key-type"))
					if err != nil {
						return err
					}
					printBackupBanner(created.Name, created.Mnemonic)
					return printJSON(created.WalletInfo)
				},
			},
			{
				Name:  "import",
				Usage: "Restore a wallet from an existing recovery phrase",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Wallet name", Required: true},
					&cli.StringFlag{Name: "mnemonic", Usage: "12 or 24 word BIP39 recovery phrase", Required: true},
					keyTypeFlag(),
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := newService("")
					if err != nil {
						return err
					}
					info, err := svc.ImportWallet(ctx, cmd.String("name"), cmd.String("mnemonic"), cmd.String("key-type"))
					if err != nil {
						return err
					}
					return printJSON(info)
				},
			},
			{
				Name:  "list",
				Usage: "List stored wallets",
				Action: func(ctx context.Context, _ *cli.Command) error {
					svc, err := newService("")
					if err != nil {
						return err
					}
					wallets, err := svc.ListWallets(ctx)
					if err != nil {
						return err
					}
					return printJSON(wallets)
				},
			},
			{
				Name:  "qr",
				Usage: "Render a wallet address as a QR code",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Wallet name", Required: true},
					&cli.BoolFlag{Name: "evm", Usage: "Encode the Auto-EVM address instead of the consensus address"},
					&cli.StringFlag{Name: "out", Usage: "Write the PNG to this file instead of printing it base64-encoded"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := newService("")
					if err != nil {
						return err
					}
					qr, err := svc.WalletQR(ctx, cmd.String("name"), cmd.Bool("evm"), cmd.String("out"))
					if err != nil {
						return err
					}
					return printJSON(qr)
				},
			},
		},
	}
}

func addressCommand() *cli.Command {
	return &cli.Command{
		Name:      "address",
		Usage:     "Validate and normalize a consensus or Auto-EVM address",
		ArgsUsage: "<address>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			input, err := requireArg(cmd, "address")
			if err != nil {
				return err
			}
			res, err := autonomys.NormalizeAddress(input)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func balanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Usage:     "Show the consensus balance of a native address",
		ArgsUsage: "<address>",
		Flags:     []cli.Flag{networkFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input, err := requireArg(cmd, "address")
			if err != nil {
				return err
			}
			svc, err := newService(cmd.String("network"))
			if err != nil {
				return err
			}
			ctx, cancel := chainContext(ctx)
			defer cancel()

			res, err := svc.Balance(ctx, input)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func evmBalanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "evm-balance",
		Usage:     "Show the Auto-EVM balance of a 0x address",
		ArgsUsage: "<0x-address>",
		Flags:     []cli.Flag{networkFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input, err := requireArg(cmd, "0x-address")
			if err != nil {
				return err
			}
			svc, err := newService(cmd.String("network"))
			if err != nil {
				return err
			}
			ctx, cancel := chainContext(ctx)
			defer cancel()

			res, err := svc.EvmBalance(ctx, input)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func evmTransferCommand() *cli.Command {
	return &cli.Command{
		Name:  "evm-transfer",
		Usage: "Send tokens from a wallet's Auto-EVM account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "Sending wallet name", Required: true},
			&cli.StringFlag{Name: "to", Usage: "Recipient 0x address", Required: true},
			&cli.StringFlag{Name: "amount", Usage: "Amount in AI3, e.g. 1.5", Required: true},
			networkFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := newService(cmd.String("network"))
			if err != nil {
				return err
			}
			ctx, cancel := chainContext(ctx)
			defer cancel()

			res, err := svc.EvmTransfer(ctx, cmd.String("from"), cmd.String("to"), cmd.String("amount"))
			if res != nil {
				if perr := printJSON(res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

func anchorCommand() *cli.Command {
	return &cli.Command{
		Name:  "anchor",
		Usage: "Record a memory CID as the wallet's latest head on Auto-EVM",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "Anchoring wallet name", Required: true},
			&cli.StringFlag{Name: "cid", Usage: "CIDv1 of the memory snapshot (blake2b-256)", Required: true},
			networkFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := newService(cmd.String("network"))
			if err != nil {
				return err
			}
			ctx, cancel := chainContext(ctx)
			defer cancel()

			res, err := svc.Anchor(ctx, cmd.String("from"), cmd.String("cid"))
			if res != nil {
				if perr := printJSON(res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

func getHeadCommand() *cli.Command {
	return &cli.Command{
		Name:      "gethead",
		Usage:     "Read the latest anchored memory CID",
		ArgsUsage: "<0x-address|wallet-name>",
		Flags:     []cli.Flag{networkFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			target, err := requireArg(cmd, "0x-address|wallet-name")
			if err != nil {
				return err
			}
			svc, err := newService(cmd.String("network"))
			if err != nil {
				return err
			}
			ctx, cancel := chainContext(ctx)
			defer cancel()

			res, err := svc.GetHead(ctx, target)
			if err != nil {
				return err
			}
			return printJSON(res)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only HTTP API with Swagger UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "Listen address (default from AUTO_RESPAWN_LISTEN)"},
			networkFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Get()
			svc, err := newService(cmd.String("network"))
			if err != nil {
				return err
			}
			listen := cmd.String("listen")
			if listen == "" {
				listen = cfg.Listen
			}
			return serve(ctx, listen, api.SetupRouter(svc, cfg.RPCTimeout), svc.Network())
		},
	}
}

func serve(ctx context.Context, listen string, handler http.Handler, net network.Context) error {
	logger := slog.Default()
	httpServer := &http.Server{
		Addr:              listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", listen), slog.String("network", net.String()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}
