// Package watch runs a cooperative background loop that re-quotes configured
// pools on a fixed interval. A failed cycle is reported and the loop
// continues on the next tick.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"positionScope/internal/graph"
	"positionScope/internal/model"
)

// Config selects what the poller quotes and how often.
type Config struct {
	PoolIDs     []string
	PositionIDs []string
	Interval    time.Duration
}

// Poller periodically fetches pool snapshots for configured pool ids and
// position ids. Each tick performs one full fetch cycle; cycles are
// independent and share no mutable state.
type Poller struct {
	cfg    Config
	graph  *graph.Client
	logger *zap.Logger
}

func NewPoller(cfg Config, graphClient *graph.Client, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{cfg: cfg, graph: graphClient, logger: logger}
}

// Run executes the polling loop until the context is canceled. The first
// cycle runs immediately; subsequent cycles are spaced by the interval.
func (p *Poller) Run(ctx context.Context) error {
	if len(p.cfg.PoolIDs) == 0 && len(p.cfg.PositionIDs) == 0 {
		return fmt.Errorf("nothing to watch: no pool ids or position ids configured")
	}
	interval := p.cfg.Interval
	if interval <= 0 {
		interval = 300 * time.Second
	}

	p.logger.Info("watch start",
		zap.Int("pools", len(p.cfg.PoolIDs)),
		zap.Int("positions", len(p.cfg.PositionIDs)),
		zap.Duration("interval", interval),
	)

	for {
		p.cycle(ctx)

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			p.logger.Info("watch stop")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// cycle quotes every configured id once. Failures are logged per item and
// never terminate the loop.
func (p *Poller) cycle(ctx context.Context) {
	cycleID := uuid.NewString()[:8]

	for _, poolID := range p.cfg.PoolIDs {
		pool, err := p.graph.PoolByID(ctx, poolID)
		switch {
		case err != nil:
			p.logger.Error("pool quote failed",
				zap.String("cycle", cycleID),
				zap.String("pool_id", poolID),
				zap.Error(err),
			)
		case pool == nil:
			p.logger.Warn("pool not found",
				zap.String("cycle", cycleID),
				zap.String("pool_id", poolID),
			)
		default:
			p.logPool(cycleID, *pool)
		}
	}

	for _, positionID := range p.cfg.PositionIDs {
		pool, err := p.graph.PoolByPositionID(ctx, positionID)
		switch {
		case err != nil:
			p.logger.Error("position quote failed",
				zap.String("cycle", cycleID),
				zap.String("position_id", positionID),
				zap.Error(err),
			)
		case pool == nil:
			p.logger.Warn("position not found",
				zap.String("cycle", cycleID),
				zap.String("position_id", positionID),
			)
		default:
			p.logPool(cycleID, *pool)
		}
	}
}

func (p *Poller) logPool(cycleID string, pool model.Pool) {
	p.logger.Info("pool quote",
		zap.String("cycle", cycleID),
		zap.String("pool_id", pool.ID),
		zap.String("pair", pool.Token0.Symbol+"-"+pool.Token1.Symbol),
		zap.String("tvl_usd", pool.TotalValueLockedUSD),
		zap.String("volume_usd", pool.VolumeUSD),
	)
}
