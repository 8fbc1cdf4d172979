// Package runner drives a game headlessly at a fixed tick, with structured
// logging of collision events and optional persistence of the run.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arcade-motion/internal/core"
	"github.com/vovakirdan/arcade-motion/internal/registry"
	"github.com/vovakirdan/arcade-motion/internal/storage"
)

// DefaultMaxTicks bounds runs that stop on game over: ten minutes at 60fps.
const DefaultMaxTicks = 36000

// Options configures a run.
type Options struct {
	Runtime core.RuntimeConfig

	// Ticks is the exact number of ticks to run. Zero runs until game over,
	// at most DefaultMaxTicks.
	Ticks int

	// Autopilot drives the game with its own pilot when it has one.
	// Otherwise Input is used, or no input at all.
	Autopilot bool
	Input     func(tick int) core.InputFrame

	// Realtime paces the loop at Runtime.TickRate instead of running
	// as fast as possible.
	Realtime bool

	// OnStep is called after every tick, for live rendering.
	OnStep func(tick int, game registry.Game, result core.StepResult)

	// Store saves the run and its events when set.
	Store *storage.Store
	Mode  string

	Logger *log.Logger
}

// Result summarizes a finished run.
type Result struct {
	GameID string
	Ticks  int
	State  core.GameState
	Hash   uint64 // World snapshot hash after the last tick
	Events []core.EventRecord
	Counts map[string]int // Events per kind
	RunID  int64          // Zero when the run was not saved
}

// NewLogger returns the logger used by runs and the CLI.
func NewLogger(w io.Writer, prefix string, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(level)
	return logger
}

// Run resets game and steps it until the tick budget is spent, the game is
// over or ctx is cancelled. A cancelled run still returns its partial result
// together with the context error.
func Run(ctx context.Context, game registry.Game, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(io.Discard, "runner", log.InfoLevel)
	}
	logger = logger.With("game", game.ID())

	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}
	if err := game.Reset(opts.Runtime); err != nil {
		return Result{GameID: game.ID()}, fmt.Errorf("runner: reset %s: %w", game.ID(), err)
	}

	input := opts.Input
	if pilot, ok := game.(registry.Pilot); ok && opts.Autopilot {
		input = func(int) core.InputFrame { return pilot.Autopilot() }
	}
	if input == nil {
		input = func(int) core.InputFrame { return core.NewInputFrame() }
	}

	limit := opts.Ticks
	if limit <= 0 {
		limit = DefaultMaxTicks
	}

	var ticker *time.Ticker
	if opts.Realtime {
		ticker = time.NewTicker(time.Second / time.Duration(opts.Runtime.TickRate))
		defer ticker.Stop()
	}

	res := Result{GameID: game.ID(), Counts: make(map[string]int)}
	logger.Info("run started", "seed", opts.Runtime.Seed, "ticks", opts.Ticks, "autopilot", opts.Autopilot)
	start := time.Now()

	var runErr error
loop:
	for res.Ticks < limit {
		if ticker != nil {
			select {
			case <-ctx.Done():
				runErr = ctx.Err()
				break loop
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		result, err := game.Step(input(res.Ticks))
		if err != nil {
			logger.Error("step failed", "tick", res.Ticks, "error", err)
			runErr = fmt.Errorf("runner: tick %d: %w", res.Ticks, err)
			break
		}
		res.Ticks++
		res.State = result.State

		for _, e := range result.Events {
			logger.Debug("event", "tick", e.Tick, "kind", e.Kind, "subject", e.Subject, "other", e.Other, "detail", e.Detail)
			res.Counts[e.Kind]++
		}
		res.Events = append(res.Events, result.Events...)

		if opts.OnStep != nil {
			opts.OnStep(res.Ticks, game, result)
		}
		if result.State.GameOver && opts.Ticks <= 0 {
			break
		}
	}

	snap := game.World().Snapshot()
	res.Hash = snap.Hash()

	logger.Info("run finished",
		"ticks", res.Ticks,
		"score", res.State.Score,
		"level", res.State.Level,
		"game_over", res.State.GameOver,
		"events", len(res.Events),
		"hash", fmt.Sprintf("%016x", res.Hash),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if opts.Store != nil && (runErr == nil || errors.Is(runErr, context.Canceled)) {
		id, err := opts.Store.SaveRun(storage.Run{
			GameID:   res.GameID,
			Mode:     modeOrDefault(opts.Mode),
			Seed:     opts.Runtime.Seed,
			Preset:   opts.Runtime.Preset,
			Ticks:    res.Ticks,
			Score:    res.State.Score,
			Level:    res.State.Level,
			Lives:    res.State.Lives,
			GameOver: res.State.GameOver,
			Hash:     res.Hash,
		}, res.Events)
		if err != nil {
			logger.Error("could not save run", "error", err)
			return res, errors.Join(runErr, err)
		}
		res.RunID = id
		logger.Info("run saved", "run_id", id)
	}

	return res, runErr
}

func modeOrDefault(mode string) string {
	if mode == "" {
		return storage.ModeHeadless
	}
	return mode
}
