package model

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TickInfo holds the per-tick fee growth counters. A tick absent from the
// pool's tick map counts as zero growth and uninitialized.
type TickInfo struct {
	FeeGrowthOutside0 *uint256.Int
	FeeGrowthOutside1 *uint256.Int
	Initialized       bool
}

// Pool is a read-only snapshot of a V3 pool taken in a single fetch pass.
type Pool struct {
	Address          common.Address
	Token0           common.Address
	Token1           common.Address
	Fee              uint32
	TickSpacing      int32
	Tick             int32
	SqrtPriceX96     *uint256.Int
	Liquidity        *uint256.Int
	FeeGrowthGlobal0 *uint256.Int
	FeeGrowthGlobal1 *uint256.Int
	Ticks            map[int32]TickInfo
}

// TickData returns the snapshot entry for a tick index.
func (p *Pool) TickData(tick int32) (TickInfo, bool) {
	info, ok := p.Ticks[tick]
	return info, ok
}

var feeTiers = map[uint32]struct{}{100: {}, 500: {}, 3000: {}, 10000: {}}

// Validate checks the pool snapshot invariants before computation runs.
func (p *Pool) Validate() error {
	if bytes.Compare(p.Token0.Bytes(), p.Token1.Bytes()) >= 0 {
		return fmt.Errorf("token0 %s must sort below token1 %s", p.Token0.Hex(), p.Token1.Hex())
	}
	if _, ok := feeTiers[p.Fee]; !ok {
		return fmt.Errorf("unknown fee tier %d", p.Fee)
	}
	if p.TickSpacing <= 0 {
		return fmt.Errorf("tick spacing must be positive, got %d", p.TickSpacing)
	}
	if p.SqrtPriceX96 == nil || p.FeeGrowthGlobal0 == nil || p.FeeGrowthGlobal1 == nil {
		return fmt.Errorf("pool snapshot is missing price or fee growth fields")
	}
	return nil
}
