package model

import (
	"math/rand"
	"time"
)

// Source supplies uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded source. A zero seed picks one from the clock.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// ValidProbability reports whether p lies in [0, 1]. NaN is rejected.
func ValidProbability(p float64) bool {
	return p >= 0.0 && p <= 1.0
}
