package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every registered game with its run count and best score.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return nil
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	store := openStore(logger)
	defer closeStore(store)

	stats := map[string]*storage.GameStats{}
	if store != nil {
		if all, statsErr := store.GetAllGamesStats(); statsErr == nil {
			stats = all
		} else {
			logger.Warn("could not read stats", "error", statsErr)
		}
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Printf("  %-*s  %-*s  %5s  %6s\n", maxIDLen, "ID", maxTitleLen, "Title", "Runs", "Best")
	fmt.Printf("  %-*s  %-*s  %5s  %6s\n", maxIDLen, "--", maxTitleLen, "-----", "----", "----")

	for _, g := range games {
		runs, best := 0, 0
		if s, ok := stats[g.ID]; ok {
			runs, best = s.Runs, s.BestScore
		}
		fmt.Printf("  %-*s  %-*s  %5d  %6d\n", maxIDLen, g.ID, maxTitleLen, g.Title, runs, best)
	}

	fmt.Println()
	fmt.Println("Run 'motion play <id>' to play a game.")
	return nil
}
