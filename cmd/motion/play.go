package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-motion/internal/platform/tui"
	"github.com/vovakirdan/arcade-motion/internal/registry"
)

var flagPlayAuto bool

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Up/W       - Paddle up / main engine
  Left/Right - Move paddle / rotate
  Space      - Fire / launch
  Tab        - Toggle autopilot
  P          - Pause
  R          - Restart (after game over)
  Ctrl+S     - Save screenshot
  Esc        - Back
  Q/Ctrl+C   - Quit

Examples:
  motion play breakout
  motion play lander --preset heavy
  motion play asteroids --seed 7 --auto
  motion play pong --physics ./my-physics.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagPlayAuto, "auto", false, "Start with the autopilot flying")
}

func runPlay(_ *cobra.Command, args []string) error {
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

	store := openStore(logger)
	defer closeStore(store)

	if _, err := tui.Run(game, store, cfg, flagPlayAuto); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
