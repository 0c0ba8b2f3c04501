package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"positionScope/internal/model"
)

// Store provides Postgres persistence for position snapshots.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// PutPositionBatch satisfies storage.Storage using the ambient context.
func (s *Store) PutPositionBatch(positions []model.PositionView) error {
	return s.UpsertPositions(context.Background(), positions)
}

// UpsertPositions inserts or updates position snapshots. A position is keyed
// by (chain_id, platform, token_id); re-running an inspection refreshes the
// stored row in place.
func (s *Store) UpsertPositions(ctx context.Context, positions []model.PositionView) error {
	if len(positions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range positions {
		batch.Queue(`
			INSERT INTO positions (
				chain_id, platform, token_id, pool_address, tick_lower, tick_upper,
				liquidity, in_range, price_current, price_lower, price_upper,
				amount0, amount1, fees0, fees1, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,now(),now())
			ON CONFLICT (chain_id, platform, token_id)
			DO UPDATE SET
				pool_address = EXCLUDED.pool_address,
				tick_lower = EXCLUDED.tick_lower,
				tick_upper = EXCLUDED.tick_upper,
				liquidity = EXCLUDED.liquidity,
				in_range = EXCLUDED.in_range,
				price_current = EXCLUDED.price_current,
				price_lower = EXCLUDED.price_lower,
				price_upper = EXCLUDED.price_upper,
				amount0 = EXCLUDED.amount0,
				amount1 = EXCLUDED.amount1,
				fees0 = EXCLUDED.fees0,
				fees1 = EXCLUDED.fees1,
				updated_at = now()
		`,
			int64(p.ChainID),
			p.Platform,
			p.TokenID,
			p.Pool,
			p.TickLower,
			p.TickUpper,
			p.Liquidity,
			p.InRange,
			p.Price.Current,
			p.Price.Lower,
			p.Price.Upper,
			p.Amount0.Raw,
			p.Amount1.Raw,
			p.Fees0.Raw,
			p.Fees1.Raw,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range positions {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
