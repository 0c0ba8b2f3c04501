package platform

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable signals that the RPC provider could not be reached
// at all, as opposed to a single call failing.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ContractCallError reports a failed contract read, keeping the field that
// was being fetched.
type ContractCallError struct {
	Field string
	Err   error
}

func (e ContractCallError) Error() string {
	return fmt.Sprintf("contract call for %s failed: %v", e.Field, e.Err)
}

func (e ContractCallError) Unwrap() error { return e.Err }

// UnknownPlatformError reports a registry lookup for an unconfigured
// platform. Returned instead of a nil adapter.
type UnknownPlatformError struct {
	Platform string
}

func (e UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q", e.Platform)
}

// MalformedPositionError reports a position snapshot that violates the data
// model invariants.
type MalformedPositionError struct {
	TokenID string
	Err     error
}

func (e MalformedPositionError) Error() string {
	return fmt.Sprintf("malformed position %s: %v", e.TokenID, e.Err)
}

func (e MalformedPositionError) Unwrap() error { return e.Err }
