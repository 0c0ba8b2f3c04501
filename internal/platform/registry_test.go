package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/engine"
	"positionScope/internal/model"
)

type stubAdapter struct {
	platform string
	chainID  uint64
}

func (a *stubAdapter) Platform() string { return a.platform }
func (a *stubAdapter) ChainID() uint64  { return a.chainID }
func (a *stubAdapter) GetPositions(context.Context, common.Address, uint64) (*Snapshots, error) {
	return &Snapshots{}, nil
}
func (a *stubAdapter) IsInRange(pos *model.Position, pool *model.Pool) bool {
	return engine.IsInRange(pool.Tick, pos.TickLower, pos.TickUpper)
}
func (a *stubAdapter) CalculatePrice(pos *model.Position, pool *model.Pool, token0, token1 *model.Token, invert bool) model.PriceInfo {
	return engine.CalculatePrice(pos, pool, token0, token1, invert)
}
func (a *stubAdapter) CalculateFees(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (engine.PairAmounts, error) {
	return engine.CalculateFees(pos, pool, token0, token1)
}
func (a *stubAdapter) CalculateTokenAmounts(pos *model.Position, pool *model.Pool, token0, token1 *model.Token) (engine.PairAmounts, error) {
	return engine.CalculateTokenAmounts(pos, pool, token0, token1)
}
func (a *stubAdapter) BuildCollectFeesTransaction(*model.Position, *model.Pool, *model.Token, *model.Token, common.Address) (CollectTx, error) {
	return CollectTx{}, nil
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()
	adapter := &stubAdapter{platform: PlatformUniswapV3, chainID: 1}
	if err := registry.Register(adapter); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := registry.Adapter(PlatformUniswapV3)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != Adapter(adapter) {
		t.Fatalf("lookup returned a different adapter")
	}
}

func TestRegistryUnknownPlatform(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Adapter("doesNotExist")
	if err == nil {
		t.Fatalf("expected error for unknown platform")
	}
	var unknown UnknownPlatformError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownPlatformError, got %v", err)
	}
	if unknown.Platform != "doesNotExist" {
		t.Fatalf("platform mismatch: %q", unknown.Platform)
	}
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&stubAdapter{platform: PlatformUniswapV3, chainID: 1}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(&stubAdapter{platform: PlatformUniswapV3, chainID: 1}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestRegistryAdaptersForChain(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&stubAdapter{platform: "uniswap-v3", chainID: 1}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(&stubAdapter{platform: "other-dex", chainID: 137}); err != nil {
		t.Fatalf("register: %v", err)
	}

	mainnet := registry.AdaptersForChain(1)
	if len(mainnet) != 1 || mainnet[0].Platform() != "uniswap-v3" {
		t.Fatalf("chain filter mismatch: %+v", mainnet)
	}
	if got := registry.AdaptersForChain(42161); len(got) != 0 {
		t.Fatalf("expected no adapters for unregistered chain, got %d", len(got))
	}
}

func TestPlatformAddressesTable(t *testing.T) {
	addrs, ok := PlatformAddresses(1, PlatformUniswapV3)
	if !ok {
		t.Fatalf("mainnet uniswap v3 should be configured")
	}
	if (addrs.Factory == common.Address{}) || (addrs.PositionManager == common.Address{}) {
		t.Fatalf("mainnet addresses are empty")
	}

	if _, ok := PlatformAddresses(99999, PlatformUniswapV3); ok {
		t.Fatalf("unknown chain should not resolve")
	}
	if _, ok := PlatformAddresses(1, "doesNotExist"); ok {
		t.Fatalf("unknown platform should not resolve")
	}

	platforms := PlatformsForChain(1)
	if len(platforms) != 1 || platforms[0] != PlatformUniswapV3 {
		t.Fatalf("platform list mismatch: %v", platforms)
	}
}
