package engine

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Fixed point scales used by the V3 accounting model.
var (
	// Q96 is 2^96, the sqrt price scale.
	Q96 = new(uint256.Int).Lsh(uint256.NewInt(1), 96)
	// Q128 is 2^128, the fee growth per unit of liquidity scale.
	Q128 = new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	// MaxUint128 bounds liquidity and tokensOwed values.
	MaxUint128 = new(uint256.Int).SubUint64(Q128, 1)
)

// SubMod256 returns (a - b) mod 2^256. Fee growth counters wrap on overflow,
// so an apparently negative difference is a valid result, never an error.
func SubMod256(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sub(a, b)
}

// SubMod128 returns (a - b) mod 2^128.
func SubMod128(a, b *uint256.Int) *uint256.Int {
	z := new(uint256.Int).Sub(a, b)
	return z.Mod(z, Q128)
}

// AddMod256 returns (a + b) mod 2^256.
func AddMod256(a, b *uint256.Int) *uint256.Int {
	return new(uint256.Int).Add(a, b)
}

// MulDivFloor returns floor(a * b / denom). The product is taken at full
// width, so a*b may transiently exceed 256 bits without truncation.
func MulDivFloor(a, b, denom *uint256.Int) *uint256.Int {
	prod := new(big.Int).Mul(a.ToBig(), b.ToBig())
	prod.Div(prod, denom.ToBig())
	z, _ := uint256.FromBig(prod)
	return z
}
