package uniswapv3

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/model"
)

// tokenCache caches token metadata by address. Metadata is immutable on
// chain, so entries never expire.
type tokenCache struct {
	mu   sync.RWMutex
	data map[common.Address]*model.Token
}

func newTokenCache() *tokenCache {
	return &tokenCache{data: make(map[common.Address]*model.Token)}
}

func (c *tokenCache) Get(address common.Address) (*model.Token, bool) {
	c.mu.RLock()
	token, ok := c.data[address]
	c.mu.RUnlock()
	return token, ok
}

func (c *tokenCache) Set(address common.Address, token *model.Token) {
	c.mu.Lock()
	c.data[address] = token
	c.mu.Unlock()
}
