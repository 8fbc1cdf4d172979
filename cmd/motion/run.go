package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/runner"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

var (
	flagRunTicks int
	flagRunSave  bool
	flagRunAuto  bool
)

var runCmd = &cobra.Command{
	Use:   "run <game>",
	Short: "Run a game headless",
	Long: `Run the specified game without a terminal UI, as fast as possible,
and print the final state, event counts and snapshot hash.

Two runs with the same game, seed, preset and tick count produce the same
hash. Debug logging prints every collision event.

Examples:
  motion run breakout
  motion run asteroids --ticks 3600 --seed 42
  motion run lander --preset heavy --save
  motion run pong --log-level debug --ticks 600`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagRunTicks, "ticks", 0, "Exact tick count (0 = until game over)")
	runCmd.Flags().BoolVar(&flagRunSave, "save", false, "Save the run to the history database")
	runCmd.Flags().BoolVar(&flagRunAuto, "autopilot", true, "Drive the game with its autopilot")
}

func runRun(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'motion list' to see available games", gameID)
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	opts := runner.Options{
		Runtime:   cfg,
		Ticks:     flagRunTicks,
		Autopilot: flagRunAuto,
		Mode:      storage.ModeHeadless,
		Logger:    logger,
	}
	if flagRunSave {
		opts.Store = openStore(logger)
		defer closeStore(opts.Store)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(ctx, game, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	printResult(res, cfg.Seed)
	return nil
}

func printResult(res runner.Result, seed int64) {
	fmt.Printf("Game:      %s\n", res.GameID)
	fmt.Printf("Seed:      %d\n", seed)
	fmt.Printf("Ticks:     %d\n", res.Ticks)
	fmt.Printf("Score:     %d\n", res.State.Score)
	fmt.Printf("Level:     %d\n", res.State.Level)
	fmt.Printf("Lives:     %d\n", res.State.Lives)
	fmt.Printf("Game over: %t\n", res.State.GameOver)
	fmt.Printf("Hash:      %016x\n", res.Hash)
	if res.RunID != 0 {
		fmt.Printf("Run ID:    %d\n", res.RunID)
	}

	if len(res.Counts) == 0 {
		return
	}
	kinds := make([]string, 0, len(res.Counts))
	for k := range res.Counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	fmt.Println()
	fmt.Println("Events:")
	for _, k := range kinds {
		fmt.Printf("  %-20s %d\n", k, res.Counts[k])
	}
}
