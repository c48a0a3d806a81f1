package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"fairdraw/internal/models"
)

// Policy selects how winners are drawn.
type Policy int

const (
	// PolicyUniform gives every participant the same chance.
	PolicyUniform Policy = iota
	// PolicySeeded draws reproducibly from a seed string.
	PolicySeeded
	// PolicyWeighted draws in proportion to a per-participant weight.
	PolicyWeighted
)

func (p Policy) String() string {
	switch p {
	case PolicyUniform:
		return "uniform"
	case PolicySeeded:
		return "seeded"
	case PolicyWeighted:
		return "weighted"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a policy name to its Policy, ignoring case.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform", "":
		return PolicyUniform, nil
	case "seeded":
		return PolicySeeded, nil
	case "weighted":
		return PolicyWeighted, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// ErrUnknownPolicy indicates a policy name or value with no selector.
var ErrUnknownPolicy = errors.New("unknown draw policy")

// ErrDrawInProgress indicates the event already has a draw running.
var ErrDrawInProgress = errors.New("a draw for this event is already in progress")

// ErrMissingWeight indicates a weighted draw was requested without weights.
var ErrMissingWeight = errors.New("weighted draw requires a weight function")

// ErrInvalidWeight indicates a negative or non-finite weight.
var ErrInvalidWeight = errors.New("weights must be finite and non-negative")

// ErrNotReplayable indicates a replay of a draw that was not seeded.
var ErrNotReplayable = errors.New("only seeded draws can be replayed")

// ErrInvalidResult indicates a draw whose winners failed validation.
var ErrInvalidResult = errors.New("draw produced an invalid result")

// DrawRequest describes one draw for one event.
type DrawRequest struct {
	EventID      string
	Participants []models.Participant
	MaxWinners   int
	Policy       Policy
	// Seed is used by PolicySeeded. When empty the generated draw id is used,
	// so the draw can still be replayed from its result.
	Seed string
	// Weight is required by PolicyWeighted.
	Weight WeightFunc
}

// LotteryService runs draws and makes sure an event never has two draws
// running at the same time.
type LotteryService struct {
	mu       sync.Mutex
	inFlight map[string]time.Time // Key: eventID, value: draw start
	now      func() time.Time
}

// NewLotteryService creates and initializes a new LotteryService.
func NewLotteryService() *LotteryService {
	return &LotteryService{
		inFlight: make(map[string]time.Time),
		now:      time.Now,
	}
}

// acquire marks eventID as drawing. It returns false if a draw is already
// running for it.
func (s *LotteryService) acquire(eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[eventID]; busy {
		return false
	}
	s.inFlight[eventID] = s.now()
	return true
}

func (s *LotteryService) release(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, eventID)
}

// Draw performs a draw, checks the outcome and attaches its statistics.
func (s *LotteryService) Draw(req DrawRequest) (*models.DrawResult, error) {
	if !s.acquire(req.EventID) {
		logger.Warningf("Rejected draw for event %s: draw already in progress", req.EventID)
		return nil, fmt.Errorf("event %s: %w", req.EventID, ErrDrawInProgress)
	}
	defer s.release(req.EventID)

	result := &models.DrawResult{
		DrawID:  uuid.NewString(),
		EventID: req.EventID,
		Policy:  req.Policy.String(),
	}

	switch req.Policy {
	case PolicyUniform:
		result.Winners = SelectUniform(req.Participants, req.MaxWinners)
	case PolicySeeded:
		result.Seed = req.Seed
		if result.Seed == "" {
			result.Seed = result.DrawID
		}
		result.Winners = SelectSeeded(req.Participants, req.MaxWinners, result.Seed)
	case PolicyWeighted:
		if req.Weight == nil {
			return nil, ErrMissingWeight
		}
		if err := checkWeights(req.Participants, req.Weight); err != nil {
			return nil, err
		}
		result.Winners = SelectWeighted(req.Participants, req.MaxWinners, req.Weight)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, int(req.Policy))
	}

	if ok, violations := ValidateResult(req.Participants, result.Winners, req.MaxWinners); !ok {
		logger.Errorf("Draw %s for event %s failed validation: %v", result.DrawID, req.EventID, violations)
		return nil, fmt.Errorf("%w: %s", ErrInvalidResult, strings.Join(violations, "; "))
	}

	result.DrawnAt = s.now()
	result.Stats = GenerateStatsAt(req.Participants, result.Winners, result.DrawnAt)

	logger.Infof("Draw %s for event %s (%s): %d of %d participants won",
		result.DrawID, req.EventID, result.Policy, len(result.Winners), len(req.Participants))
	return result, nil
}

// Replay re-runs a seeded draw over participants and reports whether it
// reproduces the recorded winners in the recorded order.
func (s *LotteryService) Replay(result *models.DrawResult, participants []models.Participant, maxWinners int) (bool, error) {
	if result.Policy != PolicySeeded.String() {
		return false, fmt.Errorf("draw %s (%s): %w", result.DrawID, result.Policy, ErrNotReplayable)
	}

	replayed := SelectSeeded(participants, maxWinners, result.Seed)
	match := slices.EqualFunc(replayed, result.Winners, func(a, b models.Participant) bool {
		return a.ID == b.ID
	})
	if !match {
		logger.Warningf("Replay of draw %s for event %s did not reproduce its winners", result.DrawID, result.EventID)
	}
	return match, nil
}

// checkWeights rejects weights outside the WeightFunc contract.
func checkWeights(participants []models.Participant, weight WeightFunc) error {
	for _, p := range participants {
		w := weight(p)
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("participant %s has weight %v: %w", p.ID, w, ErrInvalidWeight)
		}
	}
	return nil
}
