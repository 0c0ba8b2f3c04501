package model

// Amount pairs a raw string-encoded integer with its human-formatted form.
type Amount struct {
	Raw       string `json:"raw"`
	Formatted string `json:"formatted"`
}

// PriceInfo carries display prices for a position's range and the pool price.
type PriceInfo struct {
	Current string `json:"current"`
	Lower   string `json:"lower"`
	Upper   string `json:"upper"`
}

// TokenView is the presentation form of a token snapshot.
type TokenView struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}

// PoolView is the presentation form of a pool snapshot.
type PoolView struct {
	Address      string `json:"address"`
	Token0       string `json:"token0"`
	Token1       string `json:"token1"`
	Fee          uint32 `json:"fee"`
	TickSpacing  int32  `json:"tick_spacing"`
	Tick         int32  `json:"tick"`
	SqrtPriceX96 string `json:"sqrt_price_x96"`
	Liquidity    string `json:"liquidity"`
}

// PositionView is the presentation form of one position with derived fields.
type PositionView struct {
	ChainID   uint64    `json:"chain_id"`
	Platform  string    `json:"platform"`
	TokenID   string    `json:"token_id"`
	Pool      string    `json:"pool"`
	TickLower int32     `json:"tick_lower"`
	TickUpper int32     `json:"tick_upper"`
	Liquidity string    `json:"liquidity"`
	InRange   bool      `json:"in_range"`
	Price     PriceInfo `json:"price"`
	Amount0   Amount    `json:"amount0"`
	Amount1   Amount    `json:"amount1"`
	Fees0     Amount    `json:"fees0"`
	Fees1     Amount    `json:"fees1"`
}

// Report is the aggregate result handed to the presentation layer. Positions
// that failed to fetch are omitted and HasPartialData is set.
type Report struct {
	Positions      []PositionView       `json:"positions"`
	PoolData       map[string]PoolView  `json:"pool_data"`
	TokenData      map[string]TokenView `json:"token_data"`
	HasPartialData bool                 `json:"has_partial_data"`
}
