package graph

import (
	"context"

	"go.uber.org/zap"

	"positionScope/internal/model"
)

const poolFields = `
    id
    feeTier
    liquidity
    volumeUSD
    totalValueLockedUSD
    token0 { id symbol name decimals }
    token1 { id symbol name decimals }`

const topPoolsQuery = `
query TopPools($first: Int!) {
  pools(first: $first, orderBy: totalValueLockedUSD, orderDirection: desc) {` + poolFields + `
  }
}`

const topPoolsPageQuery = `
query TopPools($first: Int!, $skip: Int!) {
  pools(first: $first, skip: $skip, orderBy: totalValueLockedUSD, orderDirection: desc) {` + poolFields + `
  }
}`

const poolByIDQuery = `
query PoolById($id: ID!) {
  pool(id: $id) {` + poolFields + `
  }
}`

const positionByIDQuery = `
query PositionById($id: ID!) {
  position(id: $id) {
    id
    pool { id }
  }
}`

type poolsData struct {
	Pools []model.Pool `json:"pools"`
}

// TopPools fetches the first N pools ranked by TVL descending.
func (c *Client) TopPools(ctx context.Context, first int) ([]model.Pool, error) {
	var body poolsData
	err := c.execute(ctx, topPoolsQuery, map[string]interface{}{"first": first}, &body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetched top pools", zap.Int("count", len(body.Pools)))
	return body.Pools, nil
}

// TopPoolsPaginated walks successive pages (offset = pageSize x pageIndex)
// until `total` pools are accumulated or a page comes back empty, then
// truncates to exactly `total`.
//
// Ordering relies on the server-side TVL ranking staying stable between page
// fetches; if the ranked set mutates concurrently, duplicates or skips are an
// accepted limitation.
func (c *Client) TopPoolsPaginated(ctx context.Context, total, pageSize int) ([]model.Pool, error) {
	if pageSize < 1 {
		pageSize = 1
	}
	all := make([]model.Pool, 0, total)
	for skip := 0; len(all) < total; skip += pageSize {
		batch, err := c.topPoolsPage(ctx, pageSize, skip)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
	}
	if len(all) > total {
		all = all[:total]
	}
	c.logger.Info("completed paginated pool fetch",
		zap.Int("total", total),
		zap.Int("page_size", pageSize),
		zap.Int("count", len(all)),
	)
	return all, nil
}

func (c *Client) topPoolsPage(ctx context.Context, first, skip int) ([]model.Pool, error) {
	var body poolsData
	err := c.execute(ctx, topPoolsPageQuery, map[string]interface{}{"first": first, "skip": skip}, &body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched pool page",
		zap.Int("first", first),
		zap.Int("skip", skip),
		zap.Int("count", len(body.Pools)),
	)
	return body.Pools, nil
}

// PoolByID fetches a single pool snapshot. A missing pool is (nil, nil).
func (c *Client) PoolByID(ctx context.Context, poolID string) (*model.Pool, error) {
	var body struct {
		Pool *model.Pool `json:"pool"`
	}
	err := c.execute(ctx, poolByIDQuery, map[string]interface{}{"id": poolID}, &body)
	if err != nil {
		return nil, err
	}
	return body.Pool, nil
}

// PoolByPositionID resolves a position NFT id to its pool id, then fetches
// the pool. A missing position is (nil, nil).
func (c *Client) PoolByPositionID(ctx context.Context, positionID string) (*model.Pool, error) {
	var body struct {
		Position *struct {
			ID   string `json:"id"`
			Pool struct {
				ID string `json:"id"`
			} `json:"pool"`
		} `json:"position"`
	}
	err := c.execute(ctx, positionByIDQuery, map[string]interface{}{"id": positionID}, &body)
	if err != nil {
		return nil, err
	}
	if body.Position == nil {
		c.logger.Info("position not found", zap.String("position_id", positionID))
		return nil, nil
	}
	return c.PoolByID(ctx, body.Position.Pool.ID)
}
