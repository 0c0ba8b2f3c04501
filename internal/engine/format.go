package engine

import (
	"strings"

	"github.com/holiman/uint256"
)

// FormatUnits renders raw divided by 10^decimals using integer arithmetic
// only. Trailing zeros are stripped from the fraction; a zero value renders
// as "0".
func FormatUnits(raw *uint256.Int, decimals uint8) string {
	if raw == nil || raw.IsZero() {
		return "0"
	}
	s := raw.Dec()
	d := int(decimals)
	if d == 0 {
		return s
	}
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	intPart := s[:len(s)-d]
	frac := strings.TrimRight(s[len(s)-d:], "0")
	if frac == "" {
		return intPart
	}
	return intPart + "." + frac
}
