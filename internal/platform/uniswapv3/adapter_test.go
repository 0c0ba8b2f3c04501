package uniswapv3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"positionScope/internal/engine"
	"positionScope/internal/platform"
)

var (
	testFactory = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testManager = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testPool    = common.HexToAddress("0x9999999999999999999999999999999999999999")
	testTokenA  = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testTokenB  = common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	testOwner   = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

type fakeCaller struct {
	responses map[string][]byte
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{responses: make(map[string][]byte)}
}

func callKey(to common.Address, data []byte) string {
	return to.Hex() + ":" + common.Bytes2Hex(data)
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	resp, ok := f.responses[callKey(*msg.To, msg.Data)]
	if !ok {
		return nil, fmt.Errorf("no canned response for %s", callKey(*msg.To, msg.Data))
	}
	return resp, nil
}

func (f *fakeCaller) stub(t *testing.T, to common.Address, parsed abi.ABI, method string, args []interface{}, outs []interface{}) {
	t.Helper()
	data, err := parsed.Pack(method, args...)
	if err != nil {
		t.Fatalf("pack %s: %v", method, err)
	}
	resp, err := parsed.Methods[method].Outputs.Pack(outs...)
	if err != nil {
		t.Fatalf("pack %s outputs: %v", method, err)
	}
	f.responses[callKey(to, data)] = resp
}

func (f *fakeCaller) unstub(t *testing.T, to common.Address, parsed abi.ABI, method string, args []interface{}) {
	t.Helper()
	data, err := parsed.Pack(method, args...)
	if err != nil {
		t.Fatalf("pack %s: %v", method, err)
	}
	delete(f.responses, callKey(to, data))
}

func testABIs(t *testing.T) (manager, factory, pool, erc20 abi.ABI) {
	t.Helper()
	manager, err := PositionManagerABI()
	if err != nil {
		t.Fatalf("manager abi: %v", err)
	}
	factory, err = FactoryABI()
	if err != nil {
		t.Fatalf("factory abi: %v", err)
	}
	pool, err = PoolABI()
	if err != nil {
		t.Fatalf("pool abi: %v", err)
	}
	erc20, err = erc20StringABI()
	if err != nil {
		t.Fatalf("erc20 abi: %v", err)
	}
	return manager, factory, pool, erc20
}

// stubOnePosition wires the full call graph for one owner holding token id 42
// on a USDC/WETH 0.3% pool at tick 0.
func stubOnePosition(t *testing.T, caller *fakeCaller) {
	t.Helper()
	manager, factory, pool, erc20 := testABIs(t)

	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 96)
	zero := big.NewInt(0)

	caller.stub(t, testManager, manager, "balanceOf",
		[]interface{}{testOwner}, []interface{}{big.NewInt(1)})
	caller.stub(t, testManager, manager, "tokenOfOwnerByIndex",
		[]interface{}{testOwner, big.NewInt(0)}, []interface{}{big.NewInt(42)})
	caller.stub(t, testManager, manager, "positions",
		[]interface{}{big.NewInt(42)},
		[]interface{}{
			zero, common.Address{}, testTokenA, testTokenB, big.NewInt(3000),
			big.NewInt(-60), big.NewInt(60), big.NewInt(1_000_000),
			zero, zero, big.NewInt(5), big.NewInt(7),
		})
	caller.stub(t, testFactory, factory, "getPool",
		[]interface{}{testTokenA, testTokenB, big.NewInt(3000)}, []interface{}{testPool})

	caller.stub(t, testPool, pool, "slot0", nil,
		[]interface{}{sqrtPrice, zero, uint16(0), uint16(0), uint16(0), uint8(0), true})
	caller.stub(t, testPool, pool, "liquidity", nil, []interface{}{big.NewInt(1_000_000)})
	caller.stub(t, testPool, pool, "tickSpacing", nil, []interface{}{big.NewInt(60)})
	caller.stub(t, testPool, pool, "feeGrowthGlobal0X128", nil, []interface{}{zero})
	caller.stub(t, testPool, pool, "feeGrowthGlobal1X128", nil, []interface{}{zero})
	for _, tick := range []*big.Int{big.NewInt(-60), big.NewInt(60)} {
		caller.stub(t, testPool, pool, "ticks", []interface{}{tick},
			[]interface{}{zero, zero, zero, zero, zero, zero, uint32(0), true})
	}

	caller.stub(t, testTokenA, erc20, "decimals", nil, []interface{}{uint8(6)})
	caller.stub(t, testTokenA, erc20, "symbol", nil, []interface{}{"USDC"})
	caller.stub(t, testTokenA, erc20, "name", nil, []interface{}{"USD Coin"})
	caller.stub(t, testTokenB, erc20, "decimals", nil, []interface{}{uint8(18)})
	caller.stub(t, testTokenB, erc20, "symbol", nil, []interface{}{"WETH"})
	caller.stub(t, testTokenB, erc20, "name", nil, []interface{}{"Wrapped Ether"})
}

func newTestAdapter(t *testing.T, caller *fakeCaller) *Adapter {
	t.Helper()
	adapter, err := New(1, caller, platform.Addresses{
		Factory:         testFactory,
		PositionManager: testManager,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter
}

func TestGetPositionsSnapshotsFullState(t *testing.T) {
	caller := newFakeCaller()
	stubOnePosition(t, caller)
	adapter := newTestAdapter(t, caller)

	snaps, err := adapter.GetPositions(context.Background(), testOwner, 1)
	if err != nil {
		t.Fatalf("get positions: %v", err)
	}
	if snaps.HasPartialData {
		t.Fatalf("unexpected partial data")
	}
	if len(snaps.Positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(snaps.Positions))
	}

	pos := snaps.Positions[0]
	if pos.TokenID.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("token id mismatch: %s", pos.TokenID)
	}
	if pos.Pool != testPool {
		t.Fatalf("pool mismatch: %s", pos.Pool.Hex())
	}
	if pos.TickLower != -60 || pos.TickUpper != 60 {
		t.Fatalf("tick range mismatch: [%d, %d]", pos.TickLower, pos.TickUpper)
	}
	if pos.Liquidity.Dec() != "1000000" {
		t.Fatalf("liquidity mismatch: %s", pos.Liquidity.Dec())
	}
	if pos.TokensOwed0.Dec() != "5" || pos.TokensOwed1.Dec() != "7" {
		t.Fatalf("tokens owed mismatch: %s / %s", pos.TokensOwed0.Dec(), pos.TokensOwed1.Dec())
	}

	pool, ok := snaps.Pools[testPool]
	if !ok {
		t.Fatalf("pool snapshot missing")
	}
	if pool.Tick != 0 || pool.TickSpacing != 60 || pool.Fee != 3000 {
		t.Fatalf("pool state mismatch: %+v", pool)
	}
	if _, ok := pool.TickData(-60); !ok {
		t.Fatalf("lower boundary tick missing")
	}
	if _, ok := pool.TickData(60); !ok {
		t.Fatalf("upper boundary tick missing")
	}

	token0 := snaps.Tokens[testTokenA]
	token1 := snaps.Tokens[testTokenB]
	if token0 == nil || token0.Decimals != 6 || token0.Symbol != "USDC" {
		t.Fatalf("token0 metadata mismatch: %+v", token0)
	}
	if token1 == nil || token1.Decimals != 18 || token1.Symbol != "WETH" {
		t.Fatalf("token1 metadata mismatch: %+v", token1)
	}

	// Fee growth counters are all zero, so only tokensOwed pays out.
	fees, err := adapter.CalculateFees(&pos, pool, token0, token1)
	if err != nil {
		t.Fatalf("calculate fees: %v", err)
	}
	if fees.Token0.Raw != "5" || fees.Token1.Raw != "7" {
		t.Fatalf("fees mismatch: %s / %s", fees.Token0.Raw, fees.Token1.Raw)
	}
	if !adapter.IsInRange(&pos, pool) {
		t.Fatalf("position at tick 0 should be in [-60, 60]")
	}
}

func TestGetPositionsMissingTickFlagsPartial(t *testing.T) {
	caller := newFakeCaller()
	stubOnePosition(t, caller)
	_, _, pool, _ := testABIs(t)
	caller.unstub(t, testPool, pool, "ticks", []interface{}{big.NewInt(60)})
	adapter := newTestAdapter(t, caller)

	snaps, err := adapter.GetPositions(context.Background(), testOwner, 1)
	if err != nil {
		t.Fatalf("get positions: %v", err)
	}
	if !snaps.HasPartialData {
		t.Fatalf("expected partial data flag")
	}
	if len(snaps.Positions) != 0 {
		t.Fatalf("expected position to be skipped, got %d", len(snaps.Positions))
	}
}

func TestGetPositionsTokenMetadataFailureFlagsPartial(t *testing.T) {
	caller := newFakeCaller()
	stubOnePosition(t, caller)
	_, _, _, erc20 := testABIs(t)
	caller.unstub(t, testTokenB, erc20, "decimals", nil)
	adapter := newTestAdapter(t, caller)

	snaps, err := adapter.GetPositions(context.Background(), testOwner, 1)
	if err != nil {
		t.Fatalf("get positions: %v", err)
	}
	if !snaps.HasPartialData {
		t.Fatalf("expected partial data flag")
	}
	if len(snaps.Positions) != 1 {
		t.Fatalf("position itself should survive, got %d", len(snaps.Positions))
	}
	if _, ok := snaps.Tokens[testTokenB]; ok {
		t.Fatalf("unresolved token should be absent from the map")
	}
}

func TestGetPositionsRejectsWrongChain(t *testing.T) {
	caller := newFakeCaller()
	stubOnePosition(t, caller)
	adapter := newTestAdapter(t, caller)

	if _, err := adapter.GetPositions(context.Background(), testOwner, 137); err == nil {
		t.Fatalf("expected error for mismatched chain id")
	}
}

func TestGetPositionsBalanceFailure(t *testing.T) {
	caller := newFakeCaller()
	adapter := newTestAdapter(t, caller)

	_, err := adapter.GetPositions(context.Background(), testOwner, 1)
	if err == nil {
		t.Fatalf("expected error when balanceOf fails")
	}
	var callErr platform.ContractCallError
	if !errors.As(err, &callErr) || callErr.Field != "balanceOf" {
		t.Fatalf("expected ContractCallError for balanceOf, got %v", err)
	}
}

func TestSnapshotPositionByTokenID(t *testing.T) {
	caller := newFakeCaller()
	stubOnePosition(t, caller)
	adapter := newTestAdapter(t, caller)

	snaps, err := adapter.SnapshotPosition(context.Background(), big.NewInt(42))
	if err != nil {
		t.Fatalf("snapshot position: %v", err)
	}
	if len(snaps.Positions) != 1 || snaps.Positions[0].TokenID.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected single position 42, got %+v", snaps.Positions)
	}
	if _, ok := snaps.Pools[testPool]; !ok {
		t.Fatalf("pool snapshot missing")
	}
}

func TestTokenMetadataBytes32Fallback(t *testing.T) {
	caller := newFakeCaller()
	stubOnePosition(t, caller)

	_, _, _, erc20 := testABIs(t)
	caller.unstub(t, testTokenA, erc20, "symbol", nil)
	caller.unstub(t, testTokenA, erc20, "name", nil)

	b32, err := erc20Bytes32ABI()
	if err != nil {
		t.Fatalf("bytes32 abi: %v", err)
	}
	var symbol, name [32]byte
	copy(symbol[:], "MKR")
	copy(name[:], "Maker")
	caller.stub(t, testTokenA, b32, "symbol", nil, []interface{}{symbol})
	caller.stub(t, testTokenA, b32, "name", nil, []interface{}{name})

	adapter := newTestAdapter(t, caller)
	snaps, err := adapter.GetPositions(context.Background(), testOwner, 1)
	if err != nil {
		t.Fatalf("get positions: %v", err)
	}
	token := snaps.Tokens[testTokenA]
	if token == nil || token.Symbol != "MKR" || token.Name != "Maker" {
		t.Fatalf("bytes32 fallback failed: %+v", token)
	}
}

func TestBuildCollectFeesTransaction(t *testing.T) {
	caller := newFakeCaller()
	stubOnePosition(t, caller)
	adapter := newTestAdapter(t, caller)

	snaps, err := adapter.SnapshotPosition(context.Background(), big.NewInt(42))
	if err != nil {
		t.Fatalf("snapshot position: %v", err)
	}
	pos := &snaps.Positions[0]
	pool := snaps.Pools[testPool]
	recipient := common.HexToAddress("0x5555555555555555555555555555555555555555")

	tx, err := adapter.BuildCollectFeesTransaction(pos, pool, snaps.Tokens[testTokenA], snaps.Tokens[testTokenB], recipient)
	if err != nil {
		t.Fatalf("build collect tx: %v", err)
	}
	if tx.To != testManager {
		t.Fatalf("collect target mismatch: %s", tx.To.Hex())
	}
	if tx.Value.Sign() != 0 {
		t.Fatalf("collect should not attach value")
	}

	manager, _, _, _ := testABIs(t)
	want, err := manager.Pack("collect", collectParams{
		TokenId:    big.NewInt(42),
		Recipient:  recipient,
		Amount0Max: engine.MaxUint128.ToBig(),
		Amount1Max: engine.MaxUint128.ToBig(),
	})
	if err != nil {
		t.Fatalf("pack expected calldata: %v", err)
	}
	if !bytes.Equal(tx.Data, want) {
		t.Fatalf("calldata mismatch:\n got %x\nwant %x", []byte(tx.Data), want)
	}

	if _, err := adapter.BuildCollectFeesTransaction(pos, pool, nil, nil, common.Address{}); err == nil {
		t.Fatalf("expected error for zero recipient")
	}
}
