package model

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Position is a read-only snapshot of one liquidity position. Liquidity may
// be zero for a fully withdrawn position that has not been burned yet.
type Position struct {
	TokenID              *big.Int
	Pool                 common.Address
	TickLower            int32
	TickUpper            int32
	Liquidity            *uint256.Int
	FeeGrowthInside0Last *uint256.Int
	FeeGrowthInside1Last *uint256.Int
	TokensOwed0          *uint256.Int
	TokensOwed1          *uint256.Int
}

// Validate checks the position snapshot against its pool's invariants.
func (pos *Position) Validate(pool *Pool) error {
	if pos.TokenID == nil {
		return fmt.Errorf("position has no token id")
	}
	if pos.TickLower >= pos.TickUpper {
		return fmt.Errorf("tick lower %d must be below tick upper %d", pos.TickLower, pos.TickUpper)
	}
	if pool != nil && pool.TickSpacing > 0 {
		if pos.TickLower%pool.TickSpacing != 0 || pos.TickUpper%pool.TickSpacing != 0 {
			return fmt.Errorf("ticks [%d, %d] are not multiples of spacing %d",
				pos.TickLower, pos.TickUpper, pool.TickSpacing)
		}
	}
	if pos.Liquidity == nil || pos.FeeGrowthInside0Last == nil || pos.FeeGrowthInside1Last == nil ||
		pos.TokensOwed0 == nil || pos.TokensOwed1 == nil {
		return fmt.Errorf("position snapshot is missing liquidity or fee fields")
	}
	return nil
}
