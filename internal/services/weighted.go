package services

import (
	"fairdraw/internal/models"
)

// WeightFunc maps a participant to its non-negative, finite draw weight.
type WeightFunc func(models.Participant) float64

// SelectWeighted draws up to maxWinners participants without replacement,
// each step picking a remaining participant with probability proportional to
// its weight among those still remaining.
//
// When every weight is zero the draw falls back to SelectUniform. If only
// zero-weight participants remain part way through, they are drawn uniformly
// so that requesting the whole population still returns all of it.
// Negative or non-finite weights break the caller contract; the result then
// still holds distinct participants from the input but its distribution is
// unspecified.
func SelectWeighted(participants []models.Participant, maxWinners int, weight WeightFunc) []models.Participant {
	return selectWeighted(participants, maxWinners, weight, globalSource{})
}

type weightedEntry struct {
	participant models.Participant
	weight      float64
}

func selectWeighted(participants []models.Participant, maxWinners int, weight WeightFunc, src randomSource) []models.Participant {
	n := winnerCount(len(participants), maxWinners)
	if n == 0 {
		return []models.Participant{}
	}

	pool := make([]weightedEntry, len(participants))
	var total float64
	for i, p := range participants {
		pool[i] = weightedEntry{participant: p, weight: weight(p)}
		total += pool[i].weight
	}
	if total == 0 {
		return shuffleAndTake(participants, maxWinners, src)
	}

	winners := make([]models.Participant, 0, n)
	for len(winners) < n {
		idx := pickWeighted(pool, src)
		winners = append(winners, pool[idx].participant)
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return winners
}

// pickWeighted returns the index of the next winner in pool.
func pickWeighted(pool []weightedEntry, src randomSource) int {
	var sum float64
	for _, e := range pool {
		sum += e.weight
	}
	if sum == 0 {
		return src.IntN(len(pool))
	}

	r := src.Float64() * sum
	var running float64
	for i, e := range pool {
		running += e.weight
		if running > r {
			return i
		}
	}
	// Rounding, or weights outside the contract.
	return len(pool) - 1
}
