package engine

import "testing"

func TestIsInRangeInclusiveBounds(t *testing.T) {
	if !IsInRange(100, -100, 100) {
		t.Fatalf("upper bound should be in range for the indicator")
	}
	if !IsInRange(-100, -100, 100) {
		t.Fatalf("lower bound should be in range")
	}
	if !IsInRange(0, -100, 100) {
		t.Fatalf("interior tick should be in range")
	}
	if IsInRange(101, -100, 100) || IsInRange(-101, -100, 100) {
		t.Fatalf("ticks outside the bounds should not be in range")
	}
}

func TestEarningFeesExclusiveUpper(t *testing.T) {
	// The fee accounting convention treats the upper bound as above range
	// while the user facing indicator includes it. Both hold at once.
	if EarningFees(100, -100, 100) {
		t.Fatalf("upper bound should not earn fees")
	}
	if !IsInRange(100, -100, 100) {
		t.Fatalf("upper bound should still show as in range")
	}
	if !EarningFees(-100, -100, 100) {
		t.Fatalf("lower bound should earn fees")
	}
	if !EarningFees(0, -100, 100) {
		t.Fatalf("interior tick should earn fees")
	}
}
