package engine

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestFormatUnits(t *testing.T) {
	raw, _ := uint256.FromDecimal("1234500000000000000")
	if got := FormatUnits(raw, 18); got != "1.2345" {
		t.Fatalf("expected 1.2345, got %s", got)
	}

	if got := FormatUnits(uint256.NewInt(0), 6); got != "0" {
		t.Fatalf("expected 0, got %s", got)
	}

	if got := FormatUnits(nil, 6); got != "0" {
		t.Fatalf("nil should format as 0, got %s", got)
	}
}

func TestFormatUnitsLeadingZeroPadding(t *testing.T) {
	if got := FormatUnits(uint256.NewInt(42), 6); got != "0.000042" {
		t.Fatalf("expected 0.000042, got %s", got)
	}
}

func TestFormatUnitsWholeNumber(t *testing.T) {
	raw, _ := uint256.FromDecimal("5000000")
	if got := FormatUnits(raw, 6); got != "5" {
		t.Fatalf("expected 5, got %s", got)
	}
}

func TestFormatUnitsZeroDecimals(t *testing.T) {
	if got := FormatUnits(uint256.NewInt(12345), 0); got != "12345" {
		t.Fatalf("expected 12345, got %s", got)
	}
}
