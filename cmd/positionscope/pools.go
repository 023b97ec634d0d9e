package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"positionScope/internal/model"
)

func newPoolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List top pools ranked by TVL",
		RunE:  runPools,
	}
	addGraphFlags(cmd)
	cmd.Flags().Int("count", 10, "number of pools to list")
	cmd.Flags().Int("page-size", 100, "pools per subgraph page")
	return cmd
}

func runPools(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	count, _ := cmd.Flags().GetInt("count")
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newGraphClient(cfg, logger)
	pools, err := client.TopPoolsPaginated(ctx, count, cfg.PageSize)
	if err != nil {
		return err
	}

	logger.Info("fetched pools", zap.Int("count", len(pools)))
	renderPools(os.Stdout, pools)
	return nil
}

func renderPools(out io.Writer, pools []model.Pool) {
	table := tablewriter.NewWriter(out)
	table.Header("#", "Pool", "Pair", "Fee", "TVL (USD)", "Volume (USD)")
	for i, pool := range pools {
		table.Append(
			fmt.Sprintf("%d", i+1),
			pool.ID,
			pool.Token0.Symbol+"-"+pool.Token1.Symbol,
			pool.FeeTier,
			pool.TotalValueLockedUSD,
			pool.VolumeUSD,
		)
	}
	table.Render()
}

func newPoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool <pool-id>",
		Short: "Fetch a single pool snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runPool,
	}
	addGraphFlags(cmd)
	return cmd
}

func runPool(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newGraphClient(cfg, logger)
	pool, err := client.PoolByID(ctx, args[0])
	if err != nil {
		return err
	}
	if pool == nil {
		return fmt.Errorf("pool %s not found", args[0])
	}

	renderPools(os.Stdout, []model.Pool{*pool})
	return nil
}
