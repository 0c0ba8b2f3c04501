package model

import "github.com/ethereum/go-ethereum/common"

// Token captures ERC20 metadata for one side of a pool.
type Token struct {
	Address  common.Address
	Decimals uint8
	Symbol   string
	Name     string
}
