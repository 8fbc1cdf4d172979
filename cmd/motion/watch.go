package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/render"
	"github.com/vovakirdan/arcade-motion/internal/runner"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

var (
	flagWatchTicks int
	flagWatchSave  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <game>",
	Short: "Watch the autopilot play a game",
	Long: `Run the specified game in real time with its autopilot and draw
every frame as plain text. Works on any terminal, including ones where
the full-screen UI is unavailable.

Press Ctrl+C to stop.

Examples:
  motion watch asteroids
  motion watch lander --fps 30 --preset damped
  motion watch breakout --ticks 1800 --save`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&flagWatchTicks, "ticks", 0, "Exact tick count (0 = until game over)")
	watchCmd.Flags().BoolVar(&flagWatchSave, "save", false, "Save the run to the history database")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	// One row is left free so the terminal does not scroll.
	canvas := render.NewCanvas(cfg.ScreenW, max(cfg.ScreenH-1, 2))
	out := bufio.NewWriter(os.Stdout)

	opts := runner.Options{
		Runtime:   cfg,
		Ticks:     flagWatchTicks,
		Autopilot: true,
		Realtime:  true,
		Mode:      storage.ModeInteractive,
		Logger:    logger,
		OnStep: func(_ int, g registry.Game, _ core.StepResult) {
			render.Frame(canvas, g.World(), fmt.Sprintf("%s  %s", g.Title(), g.HUD()))
			out.WriteString("\x1b[H")
			out.WriteString(canvas.String())
			out.Flush()
		},
	}
	if flagWatchSave {
		opts.Store = openStore(logger)
		defer closeStore(opts.Store)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Clear screen and hide the cursor while drawing.
	fmt.Print("\x1b[2J\x1b[?25l")
	res, err := runner.Run(ctx, game, opts)
	fmt.Print("\x1b[?25h\n")
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	printResult(res, cfg.Seed)
	return nil
}
