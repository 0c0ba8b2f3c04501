package platform

import "github.com/ethereum/go-ethereum/common"

// PlatformUniswapV3 is the platform identifier for Uniswap V3 deployments.
const PlatformUniswapV3 = "uniswap-v3"

// Addresses holds the contract deployment of one platform on one chain.
type Addresses struct {
	Factory         common.Address
	PositionManager common.Address
}

// chainConfigs is the static chainID -> platformID -> addresses table.
var chainConfigs = map[uint64]map[string]Addresses{
	// Ethereum mainnet
	1: {
		PlatformUniswapV3: {
			Factory:         common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
			PositionManager: common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
		},
	},
	// Optimism
	10: {
		PlatformUniswapV3: {
			Factory:         common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
			PositionManager: common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
		},
	},
	// Polygon
	137: {
		PlatformUniswapV3: {
			Factory:         common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
			PositionManager: common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
		},
	},
	// Arbitrum One
	42161: {
		PlatformUniswapV3: {
			Factory:         common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
			PositionManager: common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88"),
		},
	},
	// Base
	8453: {
		PlatformUniswapV3: {
			Factory:         common.HexToAddress("0x33128a8fC17869897dcE68Ed026d694621f6FDfD"),
			PositionManager: common.HexToAddress("0x03a520b32C04BF3bEEf7BEb72E919cf822Ed34f1"),
		},
	},
}

// PlatformAddresses looks up the deployment addresses for a platform on a
// chain.
func PlatformAddresses(chainID uint64, platform string) (Addresses, bool) {
	platforms, ok := chainConfigs[chainID]
	if !ok {
		return Addresses{}, false
	}
	addrs, ok := platforms[platform]
	return addrs, ok
}

// PlatformsForChain lists the platform identifiers configured for a chain.
func PlatformsForChain(chainID uint64) []string {
	platforms := chainConfigs[chainID]
	out := make([]string, 0, len(platforms))
	for id := range platforms {
		out = append(out, id)
	}
	return out
}
