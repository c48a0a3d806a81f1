package services

import (
	"fmt"

	"fairdraw/internal/models"
)

// ValidateResult checks winners against the participants they were drawn from
// and reports every violation found, not just the first one.
func ValidateResult(participants, winners []models.Participant, maxWinners int) (bool, []string) {
	var errs []string

	if len(winners) > maxWinners {
		errs = append(errs, fmt.Sprintf("too many winners: got %d, max %d", len(winners), maxWinners))
	}

	seen := make(map[string]int, len(winners))
	for _, w := range winners {
		seen[w.ID]++
		if seen[w.ID] == 2 {
			errs = append(errs, fmt.Sprintf("duplicate winner: %s", w.ID))
		}
	}

	registered := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		registered[p.ID] = struct{}{}
	}
	for _, w := range winners {
		if _, ok := registered[w.ID]; !ok {
			errs = append(errs, fmt.Sprintf("winner %q (%s) is not a participant", w.Name, w.ID))
		}
	}

	return len(errs) == 0, errs
}
