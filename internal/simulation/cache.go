package simulation

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"quanta-tokenomics/internal/domain"
)

// resultCache memoises simulations by scenario ID. Entries are stored and
// returned as copies.
type resultCache struct {
	lru *lru.Cache[string, *domain.Simulation]
}

func newResultCache(size int) (*resultCache, error) {
	c, err := lru.New[string, *domain.Simulation](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{lru: c}, nil
}

func (c *resultCache) get(id string) (*domain.Simulation, bool) {
	sim, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	return clone(sim), true
}

func (c *resultCache) add(id string, sim *domain.Simulation) {
	c.lru.Add(id, clone(sim))
}

func (c *resultCache) size() int {
	return c.lru.Len()
}
