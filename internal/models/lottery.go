package models

import "time"

// WinnerStat is the per-winner line of a statistics report.
type WinnerStat struct {
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	RegisteredAt          string `json:"registeredAt"`
	DaysSinceRegistration int    `json:"daysSinceRegistration"`
}

// Stats summarizes a finished draw.
// WinRate is a percentage rounded to two decimal places.
type Stats struct {
	TotalParticipants            int          `json:"totalParticipants"`
	TotalWinners                 int          `json:"totalWinners"`
	WinRate                      float64      `json:"winRate"`
	AverageDaysSinceRegistration int          `json:"averageDaysSinceRegistration"`
	Winners                      []WinnerStat `json:"winners"`
}

// DrawResult stores the outcome of a single draw for one event.
// Seed is only set for seeded draws; replaying it over the same participant
// order reproduces Winners exactly.
type DrawResult struct {
	DrawID  string        `json:"drawId"`
	EventID string        `json:"eventId"`
	Policy  string        `json:"policy"`
	Seed    string        `json:"seed,omitempty"`
	Winners []Participant `json:"winners"`
	Stats   Stats         `json:"stats"`
	DrawnAt time.Time     `json:"drawnAt"`
}
