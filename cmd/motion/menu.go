package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-motion/internal/platform/tui"
	"github.com/vovakirdan/arcade-motion/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, Esc returns to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab/H        - Run history
  Q            - Quit

Examples:
  motion menu
  motion menu --fps 30
  motion menu --db ./runs.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := runtimeConfig()
	if err != nil {
		return err
	}

	store := openStore(logger)
	defer closeStore(store)

	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}

		// Keep any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsHistory {
			goBack, err := tui.RunHistory(store, "", cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				logger.Error("history failed", "error", err)
			}
			if goBack {
				continue
			}
			return nil
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			logger.Error("could not create game", "game", menuResult.GameID, "error", err)
			continue
		}

		backToMenu, err := tui.Run(game, store, cfg, false)
		if err != nil {
			logger.Error("game stopped", "game", menuResult.GameID, "error", err)
		}
		if !backToMenu {
			return nil
		}
		cfg.Seed++
	}
}
