package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arcade-motion/internal/platform/tui"
	"github.com/vovakirdan/arcade-motion/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagLiveGame    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH server",
	Long: `Start an SSH server that allows users to connect and play games.

Each SSH connection gets its own session with a game picker menu.
One game is also played by its autopilot on a shared broadcast that
every session can watch. Finished broadcast games are saved to the
run history and a new one starts after a short pause.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade-motion/host_key

Examples:
  motion serve                           # Listen on :23234, broadcast asteroids
  motion serve --ssh :2222               # Listen on port 2222
  motion serve --game lander             # Broadcast lander
  motion serve --game ""                 # No broadcast
  motion serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagLiveGame, "game", "asteroids", "Game to broadcast (empty disables the broadcast)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagLiveGame != "" && !registry.Exists(flagLiveGame) {
		return fmt.Errorf("unknown game %q, run 'motion list' to see available games", flagLiveGame)
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	rt, err := runtimeConfig()
	if err != nil {
		return err
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.LiveGame = flagLiveGame
	cfg.Runtime = rt
	// The broadcast has no terminal of its own.
	cfg.Runtime.ScreenW, cfg.Runtime.ScreenH = 80, 24

	server, err := tui.NewSSHServer(cfg, logger.WithPrefix("motion-ssh"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting motion SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(cmd.Context())
}
