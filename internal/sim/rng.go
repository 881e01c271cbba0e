package sim

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
)

// Source feeds uniform rolls in [0, 1) to draws and verification runs.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Seeded returns a PCG source. Runs with the same seed replay the same kills,
// so a verification can be reproduced from its reported seed.
func Seeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// Unseeded returns a ChaCha8 source keyed from crypto/rand, for runs that
// did not ask for a seed.
func Unseeded() Source {
	var key [32]byte
	// never fails since go1.24
	_, _ = cryptorand.Read(key[:])
	return rand.New(rand.NewChaCha8(key))
}

// pcgStream decorrelates the second PCG word from the seed.
const pcgStream = 0x9e3779b97f4a7c15

func orUnseeded(src Source) Source {
	if src == nil {
		return Unseeded()
	}
	return src
}
