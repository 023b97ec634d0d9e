package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"positionScope/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically quote configured pools and positions",
		RunE:  runWatch,
	}
	addGraphFlags(cmd)
	cmd.Flags().StringSlice("pool-id", nil, "pool ids to quote (comma-separated)")
	cmd.Flags().StringSlice("position-id", nil, "position NFT ids to resolve and quote (comma-separated)")
	cmd.Flags().Duration("poll-interval", defaultPollInterval, "time between quote cycles")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := watch.NewPoller(watch.Config{
		PoolIDs:     cfg.PoolIDs,
		PositionIDs: cfg.PositionIDs,
		Interval:    cfg.PollInterval,
	}, newGraphClient(cfg, logger), logger)

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
