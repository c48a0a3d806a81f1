package services

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"fairdraw/internal/models"
)

var registeredAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// GenerateStats summarizes a draw as of now.
func GenerateStats(participants, winners []models.Participant) models.Stats {
	return GenerateStatsAt(participants, winners, time.Now())
}

// GenerateStatsAt summarizes a draw using now for every day computation.
func GenerateStatsAt(participants, winners []models.Participant, now time.Time) models.Stats {
	report := models.Stats{
		TotalParticipants: len(participants),
		TotalWinners:      len(winners),
		Winners:           make([]models.WinnerStat, 0, len(winners)),
	}

	if len(participants) > 0 {
		rate := float64(len(winners)) / float64(len(participants)) * 100
		report.WinRate, _ = stats.Round(rate, 2)
	}

	days := make([]float64, 0, len(participants))
	for _, p := range participants {
		if d, ok := daysSince(p.RegisteredAt, now); ok {
			days = append(days, float64(d))
		}
	}
	if len(days) > 0 {
		mean, _ := stats.Mean(days)
		avg, _ := stats.Round(mean, 0)
		report.AverageDaysSinceRegistration = int(avg)
	}

	for _, w := range winners {
		d, _ := daysSince(w.RegisteredAt, now)
		report.Winners = append(report.Winners, models.WinnerStat{
			Name:                  w.Name,
			Email:                 w.Email,
			RegisteredAt:          w.RegisteredAt,
			DaysSinceRegistration: d,
		})
	}

	return report
}

// daysSince returns whole days elapsed between registeredAt and now, floored.
func daysSince(registeredAt string, now time.Time) (int, bool) {
	t, ok := parseRegisteredAt(registeredAt)
	if !ok {
		return 0, false
	}
	return int(math.Floor(now.Sub(t).Hours() / 24)), true
}

func parseRegisteredAt(s string) (time.Time, bool) {
	for _, layout := range registeredAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
