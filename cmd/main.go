package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/logger"
	"github.com/spf13/cobra"

	"fairdraw/internal/config"
	"fairdraw/internal/services"
)

func main() {
	os.Exit(run())
}

// run wires and executes the CLI and returns the process exit code, so that
// deferred cleanup happens before os.Exit.
func run() int {
	// 1. Load defaults from .env and the environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// 2. Build the command tree. Logging starts once --verbose is parsed.
	rootCmd := newRootCmd(cfg, services.NewLotteryService())
	closeLog := func() {}
	defer func() { closeLog() }()
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return err
		}
		_, closeLog, err = setupLogging(cfg.LogFile, verbose, cmd.ErrOrStderr())
		return err
	}

	// 3. Run the selected command
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

// setupLogging routes logs to logFile (when set) and, when verbose, to
// console. Errors always reach stderr through the logger itself.
func setupLogging(logFile string, verbose bool, console io.Writer) (*logger.Logger, func(), error) {
	writers := []io.Writer{io.Discard}
	closeFn := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = func() { f.Close() }
	}
	if verbose {
		writers = append(writers, consoleWriter{console})
	}

	// A MultiWriter is never an io.Closer, so Close on the logger leaves the
	// file to closeFn.
	l := logger.Init("lottery", false, false, io.MultiWriter(writers...))
	return l, func() {
		l.Close()
		closeFn()
	}, nil
}

// consoleWriter drops error and fatal lines, which the logger already
// writes to stderr on its own.
type consoleWriter struct {
	w io.Writer
}

func (c consoleWriter) Write(p []byte) (int, error) {
	if bytes.HasPrefix(p, []byte("ERROR: ")) || bytes.HasPrefix(p, []byte("FATAL: ")) {
		return len(p), nil
	}
	return c.w.Write(p)
}
