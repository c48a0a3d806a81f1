package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdraw/internal/config"
	"fairdraw/internal/models"
	"fairdraw/internal/roster"
	"fairdraw/internal/services"
)

const testRoster = "id,name,email,phone,eventId,registeredAt,weight\n" +
	"001,Alice,alice@example.com,,gala,2025-01-01T09:00:00Z,1\n" +
	"002,Bob,bob@example.com,,gala,2025-01-02T09:00:00Z,1\n" +
	"003,Charlie,charlie@example.com,,gala,2025-01-03T09:00:00Z,1\n" +
	"004,Dana,dana@example.com,,gala,2025-01-04T09:00:00Z,1\n" +
	"005,Eve,eve@example.com,,gala,2025-01-05T09:00:00Z,1\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cfg := config.Config{Policy: "uniform", Winners: 1, DefaultWeight: 1}
	cmd := newRootCmd(cfg, services.NewLotteryService())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestDrawValidateReplay(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFile(t, dir, "roster.csv", testRoster)
	winnersPath := filepath.Join(dir, "winners.csv")
	reportPath := filepath.Join(dir, "report.json")

	_, _, err := runCmd(t, "draw", "-f", rosterPath, "-n", "2", "-p", "seeded",
		"--seed", "gala-2025", "-o", winnersPath, "--report", reportPath)
	require.NoError(t, err)

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var result models.DrawResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "gala", result.EventID)
	assert.Equal(t, "seeded", result.Policy)
	assert.Equal(t, "gala-2025", result.Seed)
	assert.Len(t, result.Winners, 2)
	assert.Equal(t, 40.0, result.Stats.WinRate)

	stdout, _, err := runCmd(t, "validate", "-f", rosterPath, "-w", winnersPath, "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK: 2 winners from 5 participants")

	stdout, _, err = runCmd(t, "replay", "-f", rosterPath, "--report", reportPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `seed "gala-2025"`)

	stdout, _, err = runCmd(t, "stats", "-f", rosterPath, "-w", winnersPath)
	require.NoError(t, err)
	var report models.Stats
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 5, report.TotalParticipants)
	assert.Equal(t, 2, report.TotalWinners)
}

func TestDraw_WritesCSVToStdout(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFile(t, dir, "roster.csv", testRoster)

	stdout, stderr, err := runCmd(t, "draw", "-f", rosterPath, "-n", "10", "-p", "weighted")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, stderr, `"policy": "weighted"`)
}

func TestValidate_ReportsViolations(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFile(t, dir, "roster.csv", testRoster)
	winnersPath := writeFile(t, dir, "winners.csv",
		"001,Alice,alice@example.com,,gala,2025-01-01T09:00:00Z\n"+
			"001,Alice,alice@example.com,,gala,2025-01-01T09:00:00Z\n"+
			"999,Mallory,mallory@example.com,,gala,2025-01-01T09:00:00Z\n")

	stdout, _, err := runCmd(t, "validate", "-f", rosterPath, "-w", winnersPath, "-n", "2")
	require.ErrorIs(t, err, errInvalidWinners)
	assert.Contains(t, stdout, "too many winners")
	assert.Contains(t, stdout, "duplicate winner: 001")
	assert.Contains(t, stdout, "Mallory")
}

func TestDraw_UnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFile(t, dir, "roster.csv", testRoster)

	_, _, err := runCmd(t, "draw", "-f", rosterPath, "-p", "rigged")
	assert.ErrorIs(t, err, services.ErrUnknownPolicy)
}

func TestValidate_MalformedWinnersFileFails(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFile(t, dir, "roster.csv", testRoster)
	winnersPath := writeFile(t, dir, "winners.csv", "999,Mallory\n001,Alice\n001,Alice\n")

	stdout, _, err := runCmd(t, "validate", "-f", rosterPath, "-w", winnersPath, "-n", "1")
	require.ErrorIs(t, err, roster.ErrMalformedRow)
	assert.Contains(t, err.Error(), "line 1")
	assert.NotContains(t, stdout, "OK")
}

func TestDraw_ReportsSkippedRosterRows(t *testing.T) {
	dir := t.TempDir()
	rosterPath := writeFile(t, dir, "roster.csv", testRoster+
		"006,Frank,frank@example.com,,gala,2025-01-06T09:00:00Z,abc\n"+
		"007,Grace\n")

	stdout, stderr, err := runCmd(t, "draw", "-f", rosterPath, "-n", "10")
	require.NoError(t, err)

	assert.Contains(t, stderr, "skipped 2 roster rows")
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 6)
}

func TestSetupLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "draws.log")
	var console bytes.Buffer

	l, closeLog, err := setupLogging(logPath, true, &console)
	require.NoError(t, err)

	l.Warningf("Skipping roster line %d", 3)
	l.Errorf("draw failed")
	closeLog()

	assert.Contains(t, console.String(), "Skipping roster line 3")
	assert.NotContains(t, console.String(), "draw failed")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Skipping roster line 3")
	assert.Contains(t, string(data), "draw failed")
}

func TestSetupLogging_QuietByDefault(t *testing.T) {
	var console bytes.Buffer

	l, closeLog, err := setupLogging("", false, &console)
	require.NoError(t, err)
	defer closeLog()

	l.Warningf("Skipping roster line %d", 3)
	assert.Empty(t, console.String())
}
