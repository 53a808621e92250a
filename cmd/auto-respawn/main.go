package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/AlexZinkM/auto-respawn/internal/config"
)

func main() {
	if err := config.Init(); err != nil {
		printError(err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	cmd := &cli.Command{
		Name:  "auto-respawn",
		Usage: "Wallets, balances and memory anchoring on the Autonomys Network",
		Commands: []*cli.Command{
			walletCommand(),
			addressCommand(),
			balanceCommand(),
			evmBalanceCommand(),
			evmTransferCommand(),
			anchorCommand(),
			getHeadCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		printError(err)
		os.Exit(1)
	}
}
