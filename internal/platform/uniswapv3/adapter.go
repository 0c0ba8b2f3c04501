package uniswapv3

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"positionScope/internal/engine"
	"positionScope/internal/model"
	"positionScope/internal/platform"
)

// maxConcurrentFetches bounds the parallel per-position RPC fan-out.
const maxConcurrentFetches = 8

// ContractCaller abstracts eth_call so the adapter can run against a live
// RPC client or a canned responder in tests.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Adapter reads Uniswap V3 position state for one chain. All pricing and
// fee math is pure; only GetPositions and SnapshotPosition touch the chain.
type Adapter struct {
	chainID uint64
	caller  ContractCaller
	addrs   platform.Addresses
	tokens  *tokenCache
	logger  *zap.Logger
}

// New builds an adapter bound to one chain deployment.
func New(chainID uint64, caller ContractCaller, addrs platform.Addresses, logger *zap.Logger) (*Adapter, error) {
	if caller == nil {
		return nil, fmt.Errorf("contract caller is nil")
	}
	if (addrs.Factory == common.Address{}) || (addrs.PositionManager == common.Address{}) {
		return nil, fmt.Errorf("chain %d has no uniswap v3 deployment configured", chainID)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		chainID: chainID,
		caller:  caller,
		addrs:   addrs,
		tokens:  newTokenCache(),
		logger:  logger,
	}, nil
}

func (a *Adapter) Platform() string { return platform.PlatformUniswapV3 }

func (a *Adapter) ChainID() uint64 { return a.chainID }

// GetPositions enumerates every position NFT the owner holds and snapshots
// the position, pool, and token state each one needs. A single position
// failing to fetch marks the result partial instead of failing the batch.
func (a *Adapter) GetPositions(ctx context.Context, owner common.Address, chainID uint64) (*platform.Snapshots, error) {
	if chainID != a.chainID {
		return nil, fmt.Errorf("adapter is bound to chain %d, requested %d", a.chainID, chainID)
	}

	managerABI, err := PositionManagerABI()
	if err != nil {
		return nil, fmt.Errorf("parse position manager abi: %w", err)
	}

	values, err := a.call(ctx, a.addrs.PositionManager, managerABI, "balanceOf", owner)
	if err != nil {
		return nil, platform.ContractCallError{Field: "balanceOf", Err: err}
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return nil, platform.ContractCallError{Field: "balanceOf", Err: err}
	}
	if !balance.IsUint64() {
		return nil, fmt.Errorf("implausible position count %s for %s", balance.String(), owner.Hex())
	}
	count := balance.Uint64()

	snaps := &platform.Snapshots{
		Positions: make([]model.Position, 0, count),
		Pools:     make(map[common.Address]*model.Pool),
		Tokens:    make(map[common.Address]*model.Token),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i := uint64(0); i < count; i++ {
		index := new(big.Int).SetUint64(i)
		g.Go(func() error {
			values, err := a.call(gctx, a.addrs.PositionManager, managerABI, "tokenOfOwnerByIndex", owner, index)
			if err != nil {
				a.markPartial(snaps, &mu, "token id fetch failed",
					zap.String("owner", owner.Hex()), zap.String("index", index.String()), zap.Error(err))
				return nil
			}
			tokenID, err := asBigInt(values[0])
			if err != nil {
				a.markPartial(snaps, &mu, "token id fetch failed",
					zap.String("owner", owner.Hex()), zap.String("index", index.String()), zap.Error(err))
				return nil
			}

			pos, pool, err := a.fetchPosition(gctx, managerABI, tokenID)
			if err != nil {
				a.markPartial(snaps, &mu, "position fetch failed",
					zap.String("token_id", tokenID.String()), zap.Error(err))
				return nil
			}

			mu.Lock()
			mergePool(snaps.Pools, pool)
			snaps.Positions = append(snaps.Positions, *pos)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.fillTokens(ctx, snaps)

	sort.Slice(snaps.Positions, func(i, j int) bool {
		return snaps.Positions[i].TokenID.Cmp(snaps.Positions[j].TokenID) < 0
	})
	return snaps, nil
}

// SnapshotPosition fetches one position by its NFT token id along with its
// pool and token state, regardless of owner.
func (a *Adapter) SnapshotPosition(ctx context.Context, tokenID *big.Int) (*platform.Snapshots, error) {
	if tokenID == nil {
		return nil, fmt.Errorf("token id is nil")
	}
	managerABI, err := PositionManagerABI()
	if err != nil {
		return nil, fmt.Errorf("parse position manager abi: %w", err)
	}

	pos, pool, err := a.fetchPosition(ctx, managerABI, tokenID)
	if err != nil {
		return nil, err
	}

	snaps := &platform.Snapshots{
		Positions: []model.Position{*pos},
		Pools:     map[common.Address]*model.Pool{pool.Address: pool},
		Tokens:    make(map[common.Address]*model.Token),
	}
	a.fillTokens(ctx, snaps)
	return snaps, nil
}

func (a *Adapter) IsInRange(pos *model.Position, pool *model.Pool) bool {
	return engine.IsInRange(pool.Tick, pos.TickLower, pos.TickUpper)
}

func (a *Adapter) CalculatePrice(pos *model.Position, pool *model.Pool, token0, token1 *model.Token, invert bool) model.PriceInfo {
	return engine.CalculatePrice(pos, pool, token0, token1, invert)
}

func (a *Adapter) CalculateFees(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (engine.PairAmounts, error) {
	return engine.CalculateFees(pos, pool, token0, token1)
}

func (a *Adapter) CalculateTokenAmounts(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (engine.PairAmounts, error) {
	return engine.CalculateTokenAmounts(pos, pool, token0, token1)
}

// fetchPosition reads the position tuple, resolves its pool through the
// factory, and snapshots the pool state including both boundary ticks.
func (a *Adapter) fetchPosition(ctx context.Context, managerABI abi.ABI, tokenID *big.Int) (*model.Position, *model.Pool, error) {
	values, err := a.call(ctx, a.addrs.PositionManager, managerABI, "positions", tokenID)
	if err != nil {
		return nil, nil, platform.ContractCallError{Field: "positions", Err: err}
	}
	if len(values) != 12 {
		return nil, nil, fmt.Errorf("unexpected positions tuple size %d", len(values))
	}

	token0, err := asAddress(values[2])
	if err != nil {
		return nil, nil, fmt.Errorf("token0: %w", err)
	}
	token1, err := asAddress(values[3])
	if err != nil {
		return nil, nil, fmt.Errorf("token1: %w", err)
	}
	feeInt, err := asBigInt(values[4])
	if err != nil {
		return nil, nil, fmt.Errorf("fee: %w", err)
	}
	fee := uint32(feeInt.Uint64())
	tickLower, err := asInt24(values[5])
	if err != nil {
		return nil, nil, fmt.Errorf("tick lower: %w", err)
	}
	tickUpper, err := asInt24(values[6])
	if err != nil {
		return nil, nil, fmt.Errorf("tick upper: %w", err)
	}
	liquidity, err := asUint256(values[7])
	if err != nil {
		return nil, nil, fmt.Errorf("liquidity: %w", err)
	}
	feeGrowth0Last, err := asUint256(values[8])
	if err != nil {
		return nil, nil, fmt.Errorf("fee growth inside 0: %w", err)
	}
	feeGrowth1Last, err := asUint256(values[9])
	if err != nil {
		return nil, nil, fmt.Errorf("fee growth inside 1: %w", err)
	}
	tokensOwed0, err := asUint256(values[10])
	if err != nil {
		return nil, nil, fmt.Errorf("tokens owed 0: %w", err)
	}
	tokensOwed1, err := asUint256(values[11])
	if err != nil {
		return nil, nil, fmt.Errorf("tokens owed 1: %w", err)
	}

	poolAddr, err := a.resolvePool(ctx, token0, token1, feeInt)
	if err != nil {
		return nil, nil, err
	}

	pool, err := a.fetchPool(ctx, poolAddr, token0, token1, fee, tickLower, tickUpper)
	if err != nil {
		return nil, nil, err
	}

	pos := &model.Position{
		TokenID:              new(big.Int).Set(tokenID),
		Pool:                 poolAddr,
		TickLower:            tickLower,
		TickUpper:            tickUpper,
		Liquidity:            liquidity,
		FeeGrowthInside0Last: feeGrowth0Last,
		FeeGrowthInside1Last: feeGrowth1Last,
		TokensOwed0:          tokensOwed0,
		TokensOwed1:          tokensOwed1,
	}
	return pos, pool, nil
}

func (a *Adapter) resolvePool(ctx context.Context, token0, token1 common.Address, fee *big.Int) (common.Address, error) {
	factoryABI, err := FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}
	values, err := a.call(ctx, a.addrs.Factory, factoryABI, "getPool", token0, token1, fee)
	if err != nil {
		return common.Address{}, platform.ContractCallError{Field: "getPool", Err: err}
	}
	poolAddr, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("getPool: %w", err)
	}
	if (poolAddr == common.Address{}) {
		return common.Address{}, fmt.Errorf("no pool for %s/%s fee %s", token0.Hex(), token1.Hex(), fee.String())
	}
	return poolAddr, nil
}

// fetchPool snapshots pool state plus the two ticks a position's fee math
// depends on. Boundary tick reads must succeed; fee accounting cannot
// substitute zeros for them.
func (a *Adapter) fetchPool(ctx context.Context, addr, token0, token1 common.Address, fee uint32, tickLower, tickUpper int32) (*model.Pool, error) {
	poolABI, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := a.call(ctx, addr, poolABI, "slot0")
	if err != nil {
		return nil, platform.ContractCallError{Field: "slot0", Err: err}
	}
	sqrtPrice, err := asUint256(values[0])
	if err != nil {
		return nil, fmt.Errorf("sqrt price: %w", err)
	}
	tick, err := asInt24(values[1])
	if err != nil {
		return nil, fmt.Errorf("tick: %w", err)
	}

	values, err = a.call(ctx, addr, poolABI, "liquidity")
	if err != nil {
		return nil, platform.ContractCallError{Field: "liquidity", Err: err}
	}
	liquidity, err := asUint256(values[0])
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}

	values, err = a.call(ctx, addr, poolABI, "tickSpacing")
	if err != nil {
		return nil, platform.ContractCallError{Field: "tickSpacing", Err: err}
	}
	tickSpacing, err := asInt24(values[0])
	if err != nil {
		return nil, fmt.Errorf("tick spacing: %w", err)
	}

	values, err = a.call(ctx, addr, poolABI, "feeGrowthGlobal0X128")
	if err != nil {
		return nil, platform.ContractCallError{Field: "feeGrowthGlobal0X128", Err: err}
	}
	feeGrowth0, err := asUint256(values[0])
	if err != nil {
		return nil, fmt.Errorf("fee growth global 0: %w", err)
	}

	values, err = a.call(ctx, addr, poolABI, "feeGrowthGlobal1X128")
	if err != nil {
		return nil, platform.ContractCallError{Field: "feeGrowthGlobal1X128", Err: err}
	}
	feeGrowth1, err := asUint256(values[0])
	if err != nil {
		return nil, fmt.Errorf("fee growth global 1: %w", err)
	}

	pool := &model.Pool{
		Address:          addr,
		Token0:           token0,
		Token1:           token1,
		Fee:              fee,
		TickSpacing:      tickSpacing,
		Tick:             tick,
		SqrtPriceX96:     sqrtPrice,
		Liquidity:        liquidity,
		FeeGrowthGlobal0: feeGrowth0,
		FeeGrowthGlobal1: feeGrowth1,
		Ticks:            make(map[int32]model.TickInfo, 2),
	}

	for _, t := range []int32{tickLower, tickUpper} {
		info, err := a.fetchTick(ctx, addr, poolABI, t)
		if err != nil {
			return nil, err
		}
		pool.Ticks[t] = info
	}
	return pool, nil
}

func (a *Adapter) fetchTick(ctx context.Context, pool common.Address, poolABI abi.ABI, tick int32) (model.TickInfo, error) {
	values, err := a.call(ctx, pool, poolABI, "ticks", big.NewInt(int64(tick)))
	if err != nil {
		return model.TickInfo{}, platform.ContractCallError{Field: "ticks", Err: err}
	}
	if len(values) != 8 {
		return model.TickInfo{}, fmt.Errorf("unexpected ticks tuple size %d", len(values))
	}
	outside0, err := asUint256(values[2])
	if err != nil {
		return model.TickInfo{}, fmt.Errorf("fee growth outside 0: %w", err)
	}
	outside1, err := asUint256(values[3])
	if err != nil {
		return model.TickInfo{}, fmt.Errorf("fee growth outside 1: %w", err)
	}
	initialized, _ := values[7].(bool)
	return model.TickInfo{
		FeeGrowthOutside0: outside0,
		FeeGrowthOutside1: outside1,
		Initialized:       initialized,
	}, nil
}

// fillTokens resolves metadata for every token the snapshots reference,
// through the adapter-lifetime cache. A token that cannot be resolved is
// left out of the map and the snapshots are marked partial.
func (a *Adapter) fillTokens(ctx context.Context, snaps *platform.Snapshots) {
	for _, pool := range snaps.Pools {
		for _, addr := range []common.Address{pool.Token0, pool.Token1} {
			if _, ok := snaps.Tokens[addr]; ok {
				continue
			}
			token, err := a.tokenFor(ctx, addr)
			if err != nil {
				a.logger.Warn("token metadata fetch failed", zap.String("token", addr.Hex()), zap.Error(err))
				snaps.HasPartialData = true
				continue
			}
			snaps.Tokens[addr] = token
		}
	}
}

func (a *Adapter) tokenFor(ctx context.Context, addr common.Address) (*model.Token, error) {
	if token, ok := a.tokens.Get(addr); ok {
		return token, nil
	}

	stringABI, err := erc20StringABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20Bytes32ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := a.call(ctx, addr, stringABI, "decimals")
	if err != nil {
		return nil, platform.ContractCallError{Field: "decimals", Err: err}
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return nil, fmt.Errorf("decimals: %w", err)
	}

	token := &model.Token{Address: addr, Decimals: decimals}

	if values, err := a.call(ctx, addr, stringABI, "symbol"); err == nil {
		if symbol, ok := values[0].(string); ok {
			token.Symbol = symbol
		}
	} else if values, err := a.call(ctx, addr, bytes32ABI, "symbol"); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			token.Symbol = symbol
		}
	} else {
		a.logger.Debug("symbol call failed", zap.String("token", addr.Hex()), zap.Error(err))
	}

	if values, err := a.call(ctx, addr, stringABI, "name"); err == nil {
		if name, ok := values[0].(string); ok {
			token.Name = name
		}
	} else if values, err := a.call(ctx, addr, bytes32ABI, "name"); err == nil {
		if name, ok := bytes32ToString(values[0]); ok {
			token.Name = name
		}
	} else {
		a.logger.Debug("name call failed", zap.String("token", addr.Hex()), zap.Error(err))
	}

	a.tokens.Set(addr, token)
	return token, nil
}

func (a *Adapter) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := a.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func (a *Adapter) markPartial(snaps *platform.Snapshots, mu *sync.Mutex, msg string, fields ...zap.Field) {
	a.logger.Warn(msg, fields...)
	mu.Lock()
	snaps.HasPartialData = true
	mu.Unlock()
}

// mergePool keeps the first snapshot of a pool and folds in boundary ticks
// observed through later positions on the same pool.
func mergePool(pools map[common.Address]*model.Pool, pool *model.Pool) {
	existing, ok := pools[pool.Address]
	if !ok {
		pools[pool.Address] = pool
		return
	}
	for tick, info := range pool.Ticks {
		if _, ok := existing.Ticks[tick]; !ok {
			existing.Ticks[tick] = info
		}
	}
}
