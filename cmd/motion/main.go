// motion runs the arcade games built on the motion and collision engine,
// interactively, headless or over SSH.
//
// Usage:
//
//	motion                      - Start the game picker menu
//	motion list                 - List available games
//	motion play <game>          - Play a game
//	motion run <game>           - Run a game headless and print the result
//	motion watch <game>         - Watch the autopilot play in the terminal
//	motion history <game>       - Show recorded runs for a game
//	motion serve                - Start SSH server with a live broadcast
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible runs
//	--db <path>         - Set database path (default: ~/.arcade-motion/runs.db)
//	--physics <path>    - Physics YAML override
//	--config <path>     - Game YAML override
//	--preset <name>     - Physics preset (classic, damped, heavy)
//	--log-level <level> - Log level (debug, info, warn, error)
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arcade-motion/internal/config"
	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/runner"
	"github.com/vovakirdan/arcade-motion/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/arcade-motion/internal/games/asteroids"
	_ "github.com/vovakirdan/arcade-motion/internal/games/breakout"
	_ "github.com/vovakirdan/arcade-motion/internal/games/lander"
	_ "github.com/vovakirdan/arcade-motion/internal/games/pong"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagPhysics  string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "motion",
	Short: "Motion Arcade - physics-driven arcade games in your terminal",
	Long: `Motion Arcade runs Breakout, Pong, Asteroids and Lunar Lander on a
shared 2D motion and collision engine.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu (default)
  run      - Run a game headless and report the outcome
  watch    - Watch the autopilot play
  history  - View recorded runs and their events
  serve    - Start SSH server for remote play

Examples:
  motion
  motion play asteroids
  motion run breakout --ticks 3600 --seed 42
  motion watch lander --preset heavy
  motion serve --ssh :2222 --game pong`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade-motion/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagPhysics, "physics", "", "Path to custom physics YAML")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Physics preset: classic, damped, heavy")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// runtimeConfig builds the runtime config from the global flags, sized to
// the terminal when there is one.
func runtimeConfig() (core.RuntimeConfig, error) {
	if flagPreset != "" {
		if _, err := config.ParsePreset(flagPreset); err != nil {
			return core.RuntimeConfig{}, err
		}
	}

	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg.PhysicsPath = flagPhysics
	cfg.ConfigPath = flagConfig
	cfg.Preset = flagPreset
	return cfg, nil
}

// newLogger returns the CLI logger at the --log-level level.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return runner.NewLogger(os.Stderr, "motion", level), nil
}

// openStore opens the run database. Failure is only a warning: games still
// work without history.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// closeStore closes store if it was opened.
func closeStore(store *storage.Store) {
	if store != nil {
		store.Close()
	}
}
