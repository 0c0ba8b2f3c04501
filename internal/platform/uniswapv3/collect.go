package uniswapv3

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/engine"
	"positionScope/internal/model"
	"positionScope/internal/platform"
)

// collectParams mirrors the position manager's CollectParams tuple.
type collectParams struct {
	TokenId    *big.Int
	Recipient  common.Address
	Amount0Max *big.Int
	Amount1Max *big.Int
}

// BuildCollectFeesTransaction prepares the calldata that sweeps every
// uncollected fee on the position to the recipient. The amounts are set to
// the uint128 maximum so the contract pays out whatever is owed; nothing is
// signed or submitted here.
func (a *Adapter) BuildCollectFeesTransaction(pos *model.Position, pool *model.Pool, token0, token1 *model.Token, recipient common.Address) (platform.CollectTx, error) {
	if pos == nil || pos.TokenID == nil {
		return platform.CollectTx{}, fmt.Errorf("position has no token id")
	}
	if (recipient == common.Address{}) {
		return platform.CollectTx{}, fmt.Errorf("recipient is the zero address")
	}

	managerABI, err := PositionManagerABI()
	if err != nil {
		return platform.CollectTx{}, fmt.Errorf("parse position manager abi: %w", err)
	}

	data, err := managerABI.Pack("collect", collectParams{
		TokenId:    new(big.Int).Set(pos.TokenID),
		Recipient:  recipient,
		Amount0Max: engine.MaxUint128.ToBig(),
		Amount1Max: engine.MaxUint128.ToBig(),
	})
	if err != nil {
		return platform.CollectTx{}, fmt.Errorf("pack collect: %w", err)
	}

	return platform.CollectTx{
		To:    a.addrs.PositionManager,
		Data:  data,
		Value: big.NewInt(0),
	}, nil
}
