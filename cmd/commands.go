package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fairdraw/internal/config"
	"fairdraw/internal/models"
	"fairdraw/internal/roster"
	"fairdraw/internal/services"
)

var errInvalidWinners = errors.New("winner list failed validation")

func newRootCmd(cfg config.Config, service *services.LotteryService) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lottery",
		Short:         "Draw raffle winners from a participant roster",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newDrawCmd(cfg, service),
		newValidateCmd(cfg),
		newStatsCmd(cfg),
		newReplayCmd(cfg, service),
	)
	rootCmd.PersistentFlags().BoolP("verbose", "v", cfg.Verbose, "log skipped rows and draw details to stderr")
	return rootCmd
}

func newDrawCmd(cfg config.Config, service *services.LotteryService) *cobra.Command {
	var (
		file, event, policyName, seed, out, report string
		winners                                    int
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw winners and write them as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := services.ParsePolicy(policyName)
			if err != nil {
				return err
			}
			r, err := loadRoster(cmd.ErrOrStderr(), file, cfg.DefaultWeight)
			if err != nil {
				return err
			}
			if event == "" {
				event = r.Participants[0].EventID
			}

			result, err := service.Draw(services.DrawRequest{
				EventID:      event,
				Participants: r.Participants,
				MaxWinners:   winners,
				Policy:       policy,
				Seed:         seed,
				Weight:       r.Weight(),
			})
			if err != nil {
				return fmt.Errorf("draw: %w", err)
			}

			if err := writeTo(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return roster.WriteWinners(w, result.Winners)
			}); err != nil {
				return err
			}
			return writeTo(report, cmd.ErrOrStderr(), func(w io.Writer) error {
				return writeJSON(w, result)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "participant roster CSV")
	cmd.Flags().StringVar(&event, "event", "", "event id (defaults to the first participant's)")
	cmd.Flags().IntVarP(&winners, "winners", "n", cfg.Winners, "maximum number of winners")
	cmd.Flags().StringVarP(&policyName, "policy", "p", cfg.Policy, "uniform, seeded or weighted")
	cmd.Flags().StringVar(&seed, "seed", cfg.Seed, "seed for seeded draws (defaults to the draw id)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "winners CSV path (defaults to stdout)")
	cmd.Flags().StringVar(&report, "report", "", "draw report JSON path (defaults to stderr)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newValidateCmd(cfg config.Config) *cobra.Command {
	var (
		file, winnersFile string
		maxWinners        int
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a winner list against its roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			participants, winners, err := loadPair(cmd.ErrOrStderr(), file, winnersFile, cfg.DefaultWeight)
			if err != nil {
				return err
			}

			ok, violations := services.ValidateResult(participants, winners, maxWinners)
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "OK: %d winners from %d participants\n", len(winners), len(participants))
				return nil
			}
			for _, v := range violations {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return fmt.Errorf("%w: %d violation(s)", errInvalidWinners, len(violations))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "participant roster CSV")
	cmd.Flags().StringVarP(&winnersFile, "winners-file", "w", "", "winners CSV")
	cmd.Flags().IntVarP(&maxWinners, "max", "n", cfg.Winners, "maximum number of winners allowed")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("winners-file")
	return cmd
}

func newStatsCmd(cfg config.Config) *cobra.Command {
	var file, winnersFile string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics for a finished draw as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			participants, winners, err := loadPair(cmd.ErrOrStderr(), file, winnersFile, cfg.DefaultWeight)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), services.GenerateStats(participants, winners))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "participant roster CSV")
	cmd.Flags().StringVarP(&winnersFile, "winners-file", "w", "", "winners CSV")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("winners-file")
	return cmd
}

func newReplayCmd(cfg config.Config, service *services.LotteryService) *cobra.Command {
	var file, report string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run a seeded draw from its report and compare the winners",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRoster(cmd.ErrOrStderr(), file, cfg.DefaultWeight)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(report)
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}
			var result models.DrawResult
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("decode report: %w", err)
			}

			// A shuffle's prefix does not depend on how many winners were
			// requested, so the recorded winner count is enough to replay.
			match, err := service.Replay(&result, r.Participants, len(result.Winners))
			if err != nil {
				return err
			}
			if !match {
				return fmt.Errorf("draw %s: replay did not reproduce the recorded winners", result.DrawID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: draw %s reproduced with seed %q\n", result.DrawID, result.Seed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "participant roster CSV, in the original order")
	cmd.Flags().StringVar(&report, "report", "", "draw report JSON written by draw")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("report")
	return cmd
}

// loadRoster reads a participant roster and reports skipped rows on stderr.
func loadRoster(stderr io.Writer, path string, defaultWeight float64) (*roster.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	r, err := roster.Read(f, defaultWeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(stderr, "skipped %d roster rows in %s (run with --verbose for details)\n", r.Skipped, path)
	}
	return r, nil
}

func loadPair(stderr io.Writer, file, winnersFile string, defaultWeight float64) ([]models.Participant, []models.Participant, error) {
	participants, err := loadRoster(stderr, file, defaultWeight)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(winnersFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open winners: %w", err)
	}
	defer f.Close()

	winners, err := roster.ReadWinners(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", winnersFile, err)
	}
	return participants.Participants, winners, nil
}

// writeTo writes to path, or to fallback when path is empty or "-".
func writeTo(path string, fallback io.Writer, write func(io.Writer) error) error {
	if strings.TrimSpace(path) == "" || path == "-" {
		return write(fallback)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
