package services

import (
	"unicode/utf16"

	"fairdraw/internal/models"
)

// LCG parameters. These are part of the reproducibility contract: a seeded
// draw must give the same winners in every implementation and version.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// HashSeed folds seed into a 32-bit signed integer with h = h*31 + c over its
// UTF-16 code units, wrapping on overflow. The result equals Java's
// String.hashCode for the same string.
func HashSeed(seed string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(seed)) {
		h = h*31 + int32(c)
	}
	return h
}

// lcg is the deterministic generator behind SelectSeeded. It lives for a
// single draw.
type lcg struct {
	state int64
}

func newLCG(seed string) *lcg {
	state := int64(HashSeed(seed)) % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return &lcg{state: state}
}

// Float64 advances the generator and returns a value in [0, 1).
func (g *lcg) Float64() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / lcgModulus
}

// IntN returns floor(next * n). Seeded shuffles must pick indexes this way
// to stay reproducible.
func (g *lcg) IntN(n int) int {
	return int(g.Float64() * float64(n))
}

// SelectSeeded draws like SelectUniform but from a generator derived from
// seed, so identical participants (in the same order), maxWinners and seed
// always yield the same winners in the same order.
//
// The generator is a small LCG and is trivially predictable. Use it for
// audits and replays, never where a participant could gain by predicting or
// steering the outcome.
func SelectSeeded(participants []models.Participant, maxWinners int, seed string) []models.Participant {
	return shuffleAndTake(participants, maxWinners, newLCG(seed))
}
