package household

import "time"

// Cache holds household rows keyed by id. Mutations in Service evict the affected entry.
type Cache interface {
	Get(id string) (*Household, bool)
	Set(id string, household *Household, ttl time.Duration)
	Delete(id string)
	Clear()
}

type noopCache struct{}

func (noopCache) Get(string) (*Household, bool) {
	return nil, false
}

func (noopCache) Set(string, *Household, time.Duration) {}

func (noopCache) Delete(string) {}

func (noopCache) Clear() {}
