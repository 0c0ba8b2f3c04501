package platform

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"positionScope/internal/engine"
	"positionScope/internal/model"
)

// Snapshots bundles everything fetched for an owner in one pass. Positions
// that failed to fetch are omitted and HasPartialData is set instead of
// failing the whole batch.
type Snapshots struct {
	Positions      []model.Position
	Pools          map[common.Address]*model.Pool
	Tokens         map[common.Address]*model.Token
	HasPartialData bool
}

// CollectTx is a prepared external call payload for collecting fees.
// Submission and confirmation tracking live outside this package.
type CollectTx struct {
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *big.Int       `json:"value"`
}

// Adapter is the capability set every DEX platform integration exposes. The
// query methods are pure functions of their snapshot arguments.
type Adapter interface {
	// Platform returns the platform identifier used for registry lookups.
	Platform() string
	// ChainID returns the chain this adapter instance is bound to.
	ChainID() uint64
	// GetPositions fetches and assembles snapshots for every position the
	// owner holds on this platform.
	GetPositions(ctx context.Context, owner common.Address, chainID uint64) (*Snapshots, error)
	IsInRange(pos *model.Position, pool *model.Pool) bool
	CalculatePrice(pos *model.Position, pool *model.Pool, token0, token1 *model.Token, invert bool) model.PriceInfo
	CalculateFees(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (engine.PairAmounts, error)
	CalculateTokenAmounts(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (engine.PairAmounts, error)
	BuildCollectFeesTransaction(pos *model.Position, pool *model.Pool, token0, token1 *model.Token, recipient common.Address) (CollectTx, error)
}
