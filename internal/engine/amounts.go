package engine

import (
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"

	"positionScope/internal/model"
)

var q96Big = new(big.Int).Lsh(big.NewInt(1), 96)

// CalculateTokenAmounts computes the token0/token1 amounts the position's
// liquidity represents at the pool's current price. A zero-liquidity
// position yields zero amounts without touching the price.
func CalculateTokenAmounts(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (PairAmounts, error) {
	if token0 == nil {
		return PairAmounts{}, MissingTokenMetadataError{Address: pool.Token0}
	}
	if token1 == nil {
		return PairAmounts{}, MissingTokenMetadataError{Address: pool.Token1}
	}

	zero := uint256.NewInt(0)
	if pos.Liquidity == nil || pos.Liquidity.IsZero() {
		return PairAmounts{
			Token0: amountOf(zero, token0.Decimals),
			Token1: amountOf(zero, token1.Decimals),
		}, nil
	}
	if pool.SqrtPriceX96 == nil || pool.SqrtPriceX96.IsZero() {
		return PairAmounts{}, fmt.Errorf("pool %s snapshot has no sqrt price", pool.Address.Hex())
	}

	amount0, amount1 := AmountsForLiquidity(pos.Liquidity, pool.SqrtPriceX96, pos.TickLower, pos.TickUpper)
	return PairAmounts{
		Token0: amountOf(amount0, token0.Decimals),
		Token1: amountOf(amount1, token1.Decimals),
	}, nil
}

// AmountsForLiquidity applies the standard concentrated liquidity amount
// formulas, clamped to the position's range: all token0 below the range, all
// token1 above it.
func AmountsForLiquidity(liquidity, sqrtPriceX96 *uint256.Int, tickLower, tickUpper int32) (*uint256.Int, *uint256.Int) {
	sqrtCurrent := sqrtPriceX96.ToBig()
	sqrtLower := SqrtRatioX96(tickLower).ToBig()
	sqrtUpper := SqrtRatioX96(tickUpper).ToBig()
	liq := liquidity.ToBig()

	amount0 := new(big.Int)
	amount1 := new(big.Int)

	switch {
	case sqrtCurrent.Cmp(sqrtLower) <= 0:
		amount0 = amount0ForRange(liq, sqrtLower, sqrtUpper)
	case sqrtCurrent.Cmp(sqrtUpper) >= 0:
		amount1 = amount1ForRange(liq, sqrtLower, sqrtUpper)
	default:
		amount0 = amount0ForRange(liq, sqrtCurrent, sqrtUpper)
		amount1 = amount1ForRange(liq, sqrtLower, sqrtCurrent)
	}

	return clampU256(amount0), clampU256(amount1)
}

// amount0ForRange is liquidity * (sqrtB - sqrtA) * 2^96 / (sqrtA * sqrtB).
func amount0ForRange(liquidity, sqrtA, sqrtB *big.Int) *big.Int {
	numerator := new(big.Int).Sub(sqrtB, sqrtA)
	numerator.Mul(numerator, liquidity)
	numerator.Mul(numerator, q96Big)
	denominator := new(big.Int).Mul(sqrtA, sqrtB)
	return numerator.Div(numerator, denominator)
}

// amount1ForRange is liquidity * (sqrtB - sqrtA) / 2^96.
func amount1ForRange(liquidity, sqrtA, sqrtB *big.Int) *big.Int {
	numerator := new(big.Int).Sub(sqrtB, sqrtA)
	numerator.Mul(numerator, liquidity)
	return numerator.Div(numerator, q96Big)
}

// SqrtRatioX96 approximates sqrt(1.0001^tick) * 2^96. The float derived
// boundary price is acceptable for amount display; fee accounting never
// goes through here.
func SqrtRatioX96(tick int32) *uint256.Int {
	sqrt := math.Sqrt(math.Pow(1.0001, float64(tick)))
	f := new(big.Float).Mul(big.NewFloat(sqrt), new(big.Float).SetInt(q96Big))
	i, _ := f.Int(nil)
	z, _ := uint256.FromBig(i)
	return z
}

func clampU256(x *big.Int) *uint256.Int {
	if x.Sign() < 0 {
		return uint256.NewInt(0)
	}
	z, overflow := uint256.FromBig(x)
	if overflow {
		return new(uint256.Int).Set(MaxUint256)
	}
	return z
}

// MaxUint256 is 2^256 - 1.
var MaxUint256 = new(uint256.Int).Not(uint256.NewInt(0))
