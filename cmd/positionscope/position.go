package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"positionScope/internal/ethrpc"
	"positionScope/internal/position"
	"positionScope/internal/token"
)

func newPositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position <token-id>",
		Short: "Fetch a position NFT's on-chain state",
		Args:  cobra.ExactArgs(1),
		RunE:  runPosition,
	}
	cmd.Flags().String("rpc", "", "Ethereum JSON-RPC endpoint")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runPosition(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	caller := ethrpc.NewCaller(cfg.RPCURL, nil, logger)
	fetcher := position.NewFetcher(caller, token.NewResolver(caller, logger), logger)

	pos, err := fetcher.Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("tokenId:     %s\n", pos.TokenID)
	fmt.Printf("pair:        %s(%s) - %s(%s)\n", pos.Token0Symbol, pos.Token0, pos.Token1Symbol, pos.Token1)
	fmt.Printf("fee:         %d\n", pos.Fee)
	fmt.Printf("tick range:  [%d, %d]\n", pos.TickLower, pos.TickUpper)
	fmt.Printf("price range: [%s, %s] %s per %s (mid %s)\n",
		pos.PriceLower, pos.PriceUpper, pos.Token1Symbol, pos.Token0Symbol, pos.MidPrice)
	fmt.Printf("liquidity:   %s\n", pos.Liquidity)
	fmt.Printf("owed:        %s / %s\n", pos.TokensOwed0, pos.TokensOwed1)
	return nil
}
