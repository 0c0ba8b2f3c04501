package engine

import (
	"fmt"

	"github.com/holiman/uint256"

	"positionScope/internal/model"
)

// PairAmounts carries a raw/formatted amount per pool token.
type PairAmounts struct {
	Token0 model.Amount
	Token1 model.Amount
}

// FeeGrowthInside derives the cumulative fee growth inside [tickLower,
// tickUpper) for one token, selected by where the current tick sits relative
// to the range. A tick exactly at the upper bound counts as above the range.
// All subtractions wrap mod 2^256.
func FeeGrowthInside(currentTick, tickLower, tickUpper int32, global, lowerOutside, upperOutside *uint256.Int) *uint256.Int {
	switch {
	case currentTick < tickLower:
		return SubMod256(lowerOutside, upperOutside)
	case currentTick >= tickUpper:
		return SubMod256(upperOutside, lowerOutside)
	default:
		return SubMod256(SubMod256(global, lowerOutside), upperOutside)
	}
}

// CalculateFees computes the fees a position has accrued but not yet
// collected. Missing boundary tick data or token metadata is an error, never
// a zero result.
func CalculateFees(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (PairAmounts, error) {
	if token0 == nil {
		return PairAmounts{}, MissingTokenMetadataError{Address: pool.Token0}
	}
	if token1 == nil {
		return PairAmounts{}, MissingTokenMetadataError{Address: pool.Token1}
	}
	if pos.Liquidity == nil || pos.FeeGrowthInside0Last == nil || pos.FeeGrowthInside1Last == nil ||
		pos.TokensOwed0 == nil || pos.TokensOwed1 == nil {
		return PairAmounts{}, fmt.Errorf("position %s snapshot is missing fee fields", pos.TokenID)
	}
	if pool.FeeGrowthGlobal0 == nil || pool.FeeGrowthGlobal1 == nil {
		return PairAmounts{}, fmt.Errorf("pool %s snapshot is missing global fee growth", pool.Address.Hex())
	}

	lower, ok := pool.TickData(pos.TickLower)
	if !ok {
		return PairAmounts{}, MissingTickDataError{Tick: pos.TickLower}
	}
	upper, ok := pool.TickData(pos.TickUpper)
	if !ok {
		return PairAmounts{}, MissingTickDataError{Tick: pos.TickUpper}
	}

	inside0 := FeeGrowthInside(pool.Tick, pos.TickLower, pos.TickUpper,
		pool.FeeGrowthGlobal0, orZero(lower.FeeGrowthOutside0), orZero(upper.FeeGrowthOutside0))
	inside1 := FeeGrowthInside(pool.Tick, pos.TickLower, pos.TickUpper,
		pool.FeeGrowthGlobal1, orZero(lower.FeeGrowthOutside1), orZero(upper.FeeGrowthOutside1))

	raw0 := uncollected(pos.TokensOwed0, pos.Liquidity, SubMod256(inside0, pos.FeeGrowthInside0Last))
	raw1 := uncollected(pos.TokensOwed1, pos.Liquidity, SubMod256(inside1, pos.FeeGrowthInside1Last))

	return PairAmounts{
		Token0: amountOf(raw0, token0.Decimals),
		Token1: amountOf(raw1, token1.Decimals),
	}, nil
}

// uncollected is tokensOwed + floor(liquidity * delta / 2^128).
func uncollected(owed, liquidity, delta *uint256.Int) *uint256.Int {
	return AddMod256(owed, MulDivFloor(liquidity, delta, Q128))
}

func amountOf(raw *uint256.Int, decimals uint8) model.Amount {
	return model.Amount{Raw: raw.Dec(), Formatted: FormatUnits(raw, decimals)}
}

// orZero maps an absent counter to the defined zero value.
func orZero(x *uint256.Int) *uint256.Int {
	if x == nil {
		return uint256.NewInt(0)
	}
	return x
}
