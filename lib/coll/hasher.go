package coll

import "hash/maphash"

// Hasher hashes comparable keys with a per-instance random seed.
// The hash is stable within one process and one Hasher only.
type Hasher[K comparable] struct {
	seed maphash.Seed
}

func NewHasher[K comparable]() Hasher[K] {
	return Hasher[K]{seed: maphash.MakeSeed()}
}

// NewSeedHasher shares the seed of h, so both hash equal keys equally.
func NewSeedHasher[K, T comparable](h Hasher[T]) Hasher[K] {
	return Hasher[K]{seed: h.seed}
}

func (h Hasher[K]) Hash(key K) uint64 {
	return maphash.Comparable(h.seed, key)
}
