package platform

import (
	"go.uber.org/zap"

	"positionScope/internal/model"
)

// BuildReport derives the presentation views from fetched snapshots. A
// position whose inputs are invalid or incomplete is skipped and the report
// is marked partial; it never silently shows zero fees.
func BuildReport(adapter Adapter, snaps *Snapshots, logger *zap.Logger) model.Report {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := model.Report{
		Positions:      make([]model.PositionView, 0, len(snaps.Positions)),
		PoolData:       make(map[string]model.PoolView),
		TokenData:      make(map[string]model.TokenView),
		HasPartialData: snaps.HasPartialData,
	}

	for i := range snaps.Positions {
		pos := &snaps.Positions[i]

		pool, ok := snaps.Pools[pos.Pool]
		if !ok || pool == nil {
			logger.Warn("position skipped: pool snapshot missing",
				zap.String("token_id", pos.TokenID.String()), zap.String("pool", pos.Pool.Hex()))
			report.HasPartialData = true
			continue
		}
		if err := pos.Validate(pool); err != nil {
			malformed := MalformedPositionError{TokenID: pos.TokenID.String(), Err: err}
			logger.Warn("position skipped", zap.Error(malformed))
			report.HasPartialData = true
			continue
		}

		token0 := snaps.Tokens[pool.Token0]
		token1 := snaps.Tokens[pool.Token1]

		fees, err := adapter.CalculateFees(pos, pool, token0, token1)
		if err != nil {
			logger.Warn("position skipped: fee calculation failed",
				zap.String("token_id", pos.TokenID.String()), zap.Error(err))
			report.HasPartialData = true
			continue
		}
		amounts, err := adapter.CalculateTokenAmounts(pos, pool, token0, token1)
		if err != nil {
			logger.Warn("position skipped: amount calculation failed",
				zap.String("token_id", pos.TokenID.String()), zap.Error(err))
			report.HasPartialData = true
			continue
		}

		report.Positions = append(report.Positions, model.PositionView{
			ChainID:   adapter.ChainID(),
			Platform:  adapter.Platform(),
			TokenID:   pos.TokenID.String(),
			Pool:      pos.Pool.Hex(),
			TickLower: pos.TickLower,
			TickUpper: pos.TickUpper,
			Liquidity: pos.Liquidity.Dec(),
			InRange:   adapter.IsInRange(pos, pool),
			Price:     adapter.CalculatePrice(pos, pool, token0, token1, false),
			Amount0:   amounts.Token0,
			Amount1:   amounts.Token1,
			Fees0:     fees.Token0,
			Fees1:     fees.Token1,
		})

		report.PoolData[pos.Pool.Hex()] = poolView(pool)
		if token0 != nil {
			report.TokenData[token0.Address.Hex()] = tokenView(token0)
		}
		if token1 != nil {
			report.TokenData[token1.Address.Hex()] = tokenView(token1)
		}
	}

	return report
}

func poolView(pool *model.Pool) model.PoolView {
	view := model.PoolView{
		Address:     pool.Address.Hex(),
		Token0:      pool.Token0.Hex(),
		Token1:      pool.Token1.Hex(),
		Fee:         pool.Fee,
		TickSpacing: pool.TickSpacing,
		Tick:        pool.Tick,
	}
	if pool.SqrtPriceX96 != nil {
		view.SqrtPriceX96 = pool.SqrtPriceX96.Dec()
	}
	if pool.Liquidity != nil {
		view.Liquidity = pool.Liquidity.Dec()
	}
	return view
}

func tokenView(token *model.Token) model.TokenView {
	return model.TokenView{
		Address:  token.Address.Hex(),
		Decimals: token.Decimals,
		Symbol:   token.Symbol,
		Name:     token.Name,
	}
}
