// Package services implements the raffle draw engine and the service that
// orchestrates draws for events.
//
// The selectors are pure functions over the caller's participant slice: they
// copy before shuffling, never mutate the input, and hold no state between
// calls. SelectSeeded is reproducible but NOT cryptographically secure and
// must not be used where a participant could gain by predicting a draw.
package services

import (
	"math/rand/v2"

	"fairdraw/internal/models"
)

// randomSource is the randomness a shuffle or weighted draw consumes.
type randomSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// globalSource draws from the runtime-seeded math/rand/v2 generator.
type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// SelectUniform draws up to maxWinners participants, each with equal
// probability. The returned order is random and carries no meaning.
func SelectUniform(participants []models.Participant, maxWinners int) []models.Participant {
	return shuffleAndTake(participants, maxWinners, globalSource{})
}

// shuffleAndTake runs a Fisher-Yates shuffle over a private copy of
// participants and returns the first maxWinners elements.
func shuffleAndTake(participants []models.Participant, maxWinners int, src randomSource) []models.Participant {
	n := winnerCount(len(participants), maxWinners)
	if n == 0 {
		return []models.Participant{}
	}

	pool := make([]models.Participant, len(participants))
	copy(pool, participants)

	for i := len(pool) - 1; i >= 1; i-- {
		j := src.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:n:n]
}

// winnerCount clamps the requested count to [0, population].
func winnerCount(population, maxWinners int) int {
	if maxWinners <= 0 || population == 0 {
		return 0
	}
	return min(maxWinners, population)
}
