package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live timer display",
	Long: `Watch polls the server on a fixed interval and redraws the clock in
place, like a stopwatch face. The timer itself only answers point-in-time
queries; all ticking happens here in the client.

Example:
  chrono watch
  chrono watch --interval 250ms`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 100*time.Millisecond, "How often to poll the server")
}

func runWatch(cmd *cobra.Command, args []string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	fmt.Println("Watching timer (press Ctrl+C to stop)...")

	// Draw immediately, then on every tick.
	if err := drawTimer(); err != nil {
		return err
	}

	for {
		select {
		case <-sigChan:
			fmt.Println()
			return nil
		case <-ticker.C:
			if err := drawTimer(); err != nil {
				return err
			}
		}
	}
}

func drawTimer() error {
	snap, err := fetchTimer()
	if err != nil {
		return err
	}

	label := "stopped"
	if snap.Running {
		label = "running"
	}

	// \r redraws the same line; trailing spaces clear leftovers from a
	// longer previous draw.
	fmt.Printf("\r%s  [%s]  %.1fs   ", snap.Formatted, label, snap.ElapsedSeconds)
	return nil
}
