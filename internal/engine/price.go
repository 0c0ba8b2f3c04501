package engine

import (
	"math"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"

	"positionScope/internal/model"
)

// PriceNotAvailable is the sentinel display value for prices that cannot be
// derived. Callers render it inline, so conversions never return an error.
const PriceNotAvailable = "n/a"

var q96Float = math.Ldexp(1, 96)

// SqrtPriceToPrice converts a Q96 sqrt price into a display price string.
// Display prices use floating point; precision loss outside [1e-4, 1e6] is
// signalled by the tiered formatting rule in FormatDisplayPrice.
func SqrtPriceToPrice(sqrtPriceX96 *uint256.Int, decimals0, decimals1 uint8, invert bool) string {
	if sqrtPriceX96 == nil || sqrtPriceX96.IsZero() {
		return PriceNotAvailable
	}
	sqrt, _ := new(big.Float).SetInt(sqrtPriceX96.ToBig()).Float64()
	ratio := sqrt / q96Float
	return adjustAndFormat(ratio*ratio, decimals0, decimals1, invert)
}

// TickToPrice converts a tick index into a display price string, using
// price = 1.0001^tick.
func TickToPrice(tick int32, decimals0, decimals1 uint8, invert bool) string {
	return adjustAndFormat(math.Pow(1.0001, float64(tick)), decimals0, decimals1, invert)
}

// PriceToTick inverts TickToPrice before decimal adjustment. The round trip
// recovers the original tick within one due to floating error.
func PriceToTick(price float64) (int32, bool) {
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, false
	}
	return int32(math.Round(math.Log(price) / math.Log(1.0001))), true
}

// CalculatePrice assembles the current pool price and the position's
// boundary prices as display strings.
func CalculatePrice(pos *model.Position, pool *model.Pool, token0, token1 *model.Token, invert bool) model.PriceInfo {
	if token0 == nil || token1 == nil {
		return model.PriceInfo{
			Current: PriceNotAvailable,
			Lower:   PriceNotAvailable,
			Upper:   PriceNotAvailable,
		}
	}
	return model.PriceInfo{
		Current: SqrtPriceToPrice(pool.SqrtPriceX96, token0.Decimals, token1.Decimals, invert),
		Lower:   TickToPrice(pos.TickLower, token0.Decimals, token1.Decimals, invert),
		Upper:   TickToPrice(pos.TickUpper, token0.Decimals, token1.Decimals, invert),
	}
}

// adjustAndFormat applies the one sided decimal adjustment and optional
// inversion. When decimals0 > decimals1 the price is left unadjusted.
func adjustAndFormat(price float64, decimals0, decimals1 uint8, invert bool) string {
	if decimals1 > decimals0 {
		price *= math.Pow10(int(decimals1 - decimals0))
	}
	if invert {
		if price == 0 {
			return PriceNotAvailable
		}
		price = 1 / price
	}
	return FormatDisplayPrice(price)
}

// FormatDisplayPrice applies the tiered display rule: tiny values collapse
// to "<0.0001", very large values switch to scientific notation, everything
// in between keeps 4 to 6 decimals depending on magnitude.
func FormatDisplayPrice(price float64) string {
	switch {
	case math.IsNaN(price) || math.IsInf(price, 0):
		return PriceNotAvailable
	case price < 0.0001:
		return "<0.0001"
	case price >= 1e6:
		return strconv.FormatFloat(price, 'e', 4, 64)
	case price >= 1000:
		return strconv.FormatFloat(price, 'f', 4, 64)
	default:
		return strconv.FormatFloat(price, 'f', 6, 64)
	}
}
