package services

import (
	"fmt"
	"time"

	"fairdraw/internal/models"
)

func makeParticipants(n int) []models.Participant {
	ps := make([]models.Participant, n)
	for i := range ps {
		ps[i] = models.Participant{
			ID:           fmt.Sprintf("p%d", i+1),
			Name:         fmt.Sprintf("Participant %d", i+1),
			Email:        fmt.Sprintf("p%d@example.com", i+1),
			EventID:      "event-1",
			RegisteredAt: "2024-01-01T00:00:00Z",
		}
	}
	return ps
}

func ids(ps []models.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

// fixedSource replays canned values.
type fixedSource struct {
	floats []float64
	ints   []int
}

func (f *fixedSource) Float64() float64 {
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func (f *fixedSource) IntN(n int) int {
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}

func registeredDaysAgo(now time.Time, days int) string {
	return now.Add(-time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
}
