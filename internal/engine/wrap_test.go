package engine

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestSubMod256OrdinarySubtraction(t *testing.T) {
	got := SubMod256(uint256.NewInt(100), uint256.NewInt(42))
	if got.Uint64() != 58 {
		t.Fatalf("expected 58, got %s", got.Dec())
	}
}

func TestSubMod256Wraparound(t *testing.T) {
	got := SubMod256(uint256.NewInt(1), uint256.NewInt(2))
	// 2^256 - 1
	if got.Cmp(MaxUint256) != 0 {
		t.Fatalf("expected 2^256-1, got %s", got.Dec())
	}

	// Wrapped difference plus subtrahend recovers the minuend mod 2^256.
	back := AddMod256(got, uint256.NewInt(2))
	if back.Uint64() != 1 {
		t.Fatalf("expected 1, got %s", back.Dec())
	}
}

func TestSubMod128(t *testing.T) {
	got := SubMod128(uint256.NewInt(1), uint256.NewInt(2))
	if got.Cmp(MaxUint128) != 0 {
		t.Fatalf("expected 2^128-1, got %s", got.Dec())
	}
	if got := SubMod128(uint256.NewInt(9), uint256.NewInt(4)); got.Uint64() != 5 {
		t.Fatalf("expected 5, got %s", got.Dec())
	}
}

func TestMulDivFloorWideIntermediate(t *testing.T) {
	// liquidity near 2^128 times a delta near 2^256 exceeds 256 bits
	// transiently; the quotient must still be exact.
	liquidity := new(uint256.Int).Set(MaxUint128)
	delta := new(uint256.Int).Set(MaxUint256)
	got := MulDivFloor(liquidity, delta, Q128)

	// floor((2^128-1)(2^256-1)/2^128) = 2^256 - 2^128 - 1
	want := SubMod256(MaxUint256, Q128)
	if got.Cmp(want) != 0 {
		t.Fatalf("quotient mismatch: got %s want %s", got.Dec(), want.Dec())
	}
}

func TestMulDivFloorSmall(t *testing.T) {
	got := MulDivFloor(uint256.NewInt(7), uint256.NewInt(3), uint256.NewInt(2))
	if got.Uint64() != 10 {
		t.Fatalf("expected floor(21/2)=10, got %s", got.Dec())
	}
}
