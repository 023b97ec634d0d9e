package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"positionScope/internal/config"
	"positionScope/internal/graph"
)

func main() {
	root := &cobra.Command{
		Use:          "positionscope",
		Short:        "Uniswap V3 pool and position client",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newPoolsCmd())
	root.AddCommand(newPoolCmd())
	root.AddCommand(newPositionCmd())
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// addGraphFlags registers the flags shared by every subgraph-backed command.
func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().String("graph-endpoint", graph.DefaultEndpoint, "subgraph endpoint URL")
	cmd.Flags().String("graph-api-key", "", "Graph gateway API key")
	cmd.Flags().Float64("rate-per-sec", 0, "max subgraph requests per second (0 disables)")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func newGraphClient(cfg config.Config, logger *zap.Logger) *graph.Client {
	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	return graph.NewClient(graph.Config{
		Endpoint: cfg.GraphEndpoint,
		APIKey:   cfg.GraphAPIKey,
		Logger:   logger,
		Limiter:  limiter,
	})
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

const defaultPollInterval = 300 * time.Second
