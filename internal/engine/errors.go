package engine

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// MissingTickDataError reports a boundary tick absent from the pool snapshot.
// Distinct from a zero-fee result: the computation cannot run at all.
type MissingTickDataError struct {
	Tick int32
}

func (e MissingTickDataError) Error() string {
	return fmt.Sprintf("missing tick data for tick %d", e.Tick)
}

// MissingTokenMetadataError reports absent token metadata for a pool token.
type MissingTokenMetadataError struct {
	Address common.Address
}

func (e MissingTokenMetadataError) Error() string {
	return fmt.Sprintf("missing token metadata for %s", e.Address.Hex())
}
