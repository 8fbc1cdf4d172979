package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-motion/internal/platform/tui"
	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

var (
	flagHistoryTop    bool
	flagHistoryLimit  int
	flagHistoryEvents int64
	flagHistoryTUI    bool
	flagHistoryClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [game]",
	Short: "Show recorded runs for a game",
	Long: `Display the recorded runs of a game, most recent first.

Examples:
  motion history asteroids
  motion history breakout --top
  motion history --events 12
  motion history lander --tui
  motion history pong --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryTop, "top", false, "Order by score instead of date")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to show")
	historyCmd.Flags().Int64Var(&flagHistoryEvents, "events", 0, "Show the events of this run ID")
	historyCmd.Flags().BoolVar(&flagHistoryTUI, "tui", false, "Browse history interactively")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all runs of the game")
}

func runHistory(_ *cobra.Command, args []string) error {
	gameID := ""
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			return fmt.Errorf("unknown game %q, run 'motion list' to see available games", gameID)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening run database: %w", err)
	}
	defer store.Close()

	switch {
	case flagHistoryEvents > 0:
		return printEvents(store, flagHistoryEvents)
	case flagHistoryTUI:
		cfg, err := runtimeConfig()
		if err != nil {
			return err
		}
		_, err = tui.RunHistory(store, gameID, cfg.ScreenW, cfg.ScreenH)
		return err
	case gameID == "":
		return fmt.Errorf("a game is required unless --events or --tui is set")
	case flagHistoryClear:
		if err := store.ClearRuns(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared runs for %s.\n", gameID)
		return nil
	}

	return printRuns(store, gameID)
}

func printRuns(store *storage.Store, gameID string) error {
	var (
		runs []storage.Run
		err  error
	)
	if flagHistoryTop {
		runs, err = store.TopRuns(gameID, flagHistoryLimit)
	} else {
		runs, err = store.RecentRuns(gameID, flagHistoryLimit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Runs - %s\n", gameID)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'motion play %s' or 'motion run %s --save' to record one.\n", gameID, gameID)
		return nil
	}

	fmt.Printf("  %-5s  %-11s  %-8s  %7s  %6s  %7s  %-16s  %s\n", "ID", "Mode", "Seed", "Score", "Ticks", "Events", "Hash", "Date")
	fmt.Printf("  %-5s  %-11s  %-8s  %7s  %6s  %7s  %-16s  %s\n", "--", "----", "----", "-----", "-----", "------", "----", "----")
	for _, r := range runs {
		fmt.Printf("  %-5d  %-11s  %-8d  %7d  %6d  %7d  %016x  %s\n",
			r.ID, r.Mode, r.Seed, r.Score, r.Ticks, r.Events, r.Hash,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if best, err := store.BestScore(gameID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func printEvents(store *storage.Store, runID int64) error {
	run, err := store.RunByID(runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", runID)
	}

	events, err := store.RunEvents(runID, flagHistoryLimit*100)
	if err != nil {
		return err
	}

	fmt.Printf("Run %d - %s, seed %d, score %d, %d ticks\n", run.ID, run.GameID, run.Seed, run.Score, run.Ticks)
	fmt.Println()
	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}

	fmt.Printf("  %-7s  %-20s  %-7s  %-7s  %s\n", "Tick", "Kind", "Subject", "Other", "Detail")
	fmt.Printf("  %-7s  %-20s  %-7s  %-7s  %s\n", "----", "----", "-------", "-----", "------")
	for _, e := range events {
		fmt.Printf("  %-7d  %-20s  %-7d  %-7d  %s\n", e.Tick, e.Kind, e.Subject, e.Other, e.Detail)
	}
	return nil
}
