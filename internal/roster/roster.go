// Package roster reads participant lists from CSV and writes winner lists
// back out.
package roster

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/logger"

	"fairdraw/internal/models"
	"fairdraw/internal/services"
)

// utf8BOM is prepended to exports so spreadsheet tools detect UTF-8.
var utf8BOM = []byte("\xef\xbb\xbf")

// Columns expected in a roster file, in order. The weight column is optional.
var Columns = []string{"id", "name", "email", "phone", "eventId", "registeredAt", "weight"}

const requiredColumns = 6

var (
	// ErrEmptyRoster is returned when a file holds no usable participant rows.
	ErrEmptyRoster = errors.New("roster has no participants")

	// ErrMalformedRow is returned by ReadWinners for any row it cannot use.
	ErrMalformedRow = errors.New("malformed row")
)

// Roster is a participant list with the per-participant weights read
// alongside it.
type Roster struct {
	Participants []models.Participant
	// Skipped counts rows left out of Participants.
	Skipped int

	weights  map[string]float64
	defaultW float64
}

// Weight returns the weight function for weighted draws over this roster.
// Participants without a weight column value get the default weight.
func (r *Roster) Weight() services.WeightFunc {
	return func(p models.Participant) float64 {
		if w, ok := r.weights[p.ID]; ok {
			return w
		}
		return r.defaultW
	}
}

// Read parses a roster CSV. A header row is optional. Malformed rows and
// repeated ids are skipped, logged as warnings and counted in Skipped rather
// than failing the whole file.
func Read(r io.Reader, defaultWeight float64) (*Roster, error) {
	roster, err := read(r, defaultWeight, false)
	if err != nil {
		return nil, err
	}
	if len(roster.Participants) == 0 {
		return nil, ErrEmptyRoster
	}
	return roster, nil
}

// ReadWinners parses a winners CSV as written by WriteWinners. Unlike Read it
// keeps repeated ids so a validator can see them, fails on the first
// malformed row, and accepts an empty list.
func ReadWinners(r io.Reader) ([]models.Participant, error) {
	roster, err := read(r, 0, true)
	if err != nil {
		return nil, err
	}
	return roster.Participants, nil
}

// read parses rows into a Roster. In strict mode a bad row is an error and
// repeated ids are kept; otherwise bad rows and repeats are skipped.
func read(r io.Reader, defaultWeight float64, strict bool) (*Roster, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	roster := &Roster{
		Participants: make([]models.Participant, 0),
		weights:      make(map[string]float64),
		defaultW:     defaultWeight,
	}
	seen := make(map[string]bool)

	// reject reports a bad row: an error in strict mode, a counted skip
	// otherwise.
	reject := func(line int, reason string, record []string) error {
		if strict {
			return fmt.Errorf("line %d: %s: %w", line, reason, ErrMalformedRow)
		}
		logger.Warningf("Skipping roster line %d (%s): %v", line, reason, record)
		roster.Skipped++
		return nil
	}

	for first := true; ; first = false {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first && strings.EqualFold(strings.TrimSpace(record[0]), Columns[0]) {
			continue
		}
		if len(record) < requiredColumns || len(record) > len(Columns) {
			reason := fmt.Sprintf("want %d to %d columns, got %d", requiredColumns, len(Columns), len(record))
			if err := reject(line, reason, record); err != nil {
				return nil, err
			}
			continue
		}

		p := models.Participant{
			ID:           strings.TrimSpace(record[0]),
			Name:         record[1],
			Email:        record[2],
			Phone:        record[3],
			EventID:      record[4],
			RegisteredAt: strings.TrimSpace(record[5]),
		}
		if p.ID == "" {
			if err := reject(line, "missing id", record); err != nil {
				return nil, err
			}
			continue
		}
		if !strict && seen[p.ID] {
			if err := reject(line, "duplicate id "+p.ID, record); err != nil {
				return nil, err
			}
			continue
		}

		if len(record) == len(Columns) && strings.TrimSpace(record[6]) != "" {
			w, err := strconv.ParseFloat(strings.TrimSpace(record[6]), 64)
			if err != nil || w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				if err := reject(line, fmt.Sprintf("invalid weight %q", record[6]), record); err != nil {
					return nil, err
				}
				continue
			}
			roster.weights[p.ID] = w
		}

		seen[p.ID] = true
		roster.Participants = append(roster.Participants, p)
	}
	return roster, nil
}

// WriteWinners writes winners as CSV, in draw order, using the roster
// columns without weight.
func WriteWinners(w io.Writer, winners []models.Participant) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns[:requiredColumns]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range winners {
		row := []string{p.ID, p.Name, p.Email, p.Phone, p.EventID, p.RegisteredAt}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write winner %s: %w", p.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
