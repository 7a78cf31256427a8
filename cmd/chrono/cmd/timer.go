package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the timer from zero",
	Long:  `Start the timer, counting from zero. No-op if the timer is already running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimerCommand("start")
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the timer",
	Long:  `Freeze the timer, keeping the elapsed time. No-op if the timer is not running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimerCommand("pause")
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused timer",
	Long:  `Continue counting from the paused elapsed time. No-op if the timer is running or was never started.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimerCommand("resume")
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the timer to zero",
	Long:  `Stop the timer and clear the elapsed time. Valid in any state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimerCommand("reset")
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer",
	Long:  `Freeze the timer, keeping the elapsed time. The timer can still be resumed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimerCommand("stop")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current timer state",
	Long:  `Retrieve the timer state, elapsed seconds and clock string from the server.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
}

type timerSnapshot struct {
	Running        bool      `json:"running"`
	State          string    `json:"state"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	Formatted      string    `json:"formatted"`
	LastCommand    string    `json:"last_command,omitempty"`
	ChangedAt      time.Time `json:"changed_at,omitempty"`
}

type commandResponse struct {
	Command string        `json:"command"`
	Applied bool          `json:"applied"`
	Timer   timerSnapshot `json:"timer"`
}

func runTimerCommand(command string) error {
	url := fmt.Sprintf("%s/timer/%s", GetServerURL(), command)

	httpReq, err := http.NewRequest("POST", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	client := GetHTTPClient()
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to connect to chrono server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(body))
	}

	var result commandResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	displaySnapshot(&result.Timer)
	if result.Applied {
		fmt.Printf("\n✓ Timer %s applied\n", command)
	} else {
		fmt.Printf("\n– Timer %s had no effect (%s)\n", command, noopReason(command, &result.Timer))
	}
	return nil
}

// noopReason explains why a command did not change the timer
func noopReason(command string, snap *timerSnapshot) string {
	switch command {
	case "start":
		return "already running"
	case "pause", "stop":
		return "not running"
	case "resume":
		if snap.Running {
			return "already running"
		}
		return "nothing to resume, use start"
	default:
		return "state unchanged"
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	snap, err := fetchTimer()
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	displaySnapshot(snap)
	return nil
}

func fetchTimer() (*timerSnapshot, error) {
	url := fmt.Sprintf("%s/timer", GetServerURL())

	httpReq, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := GetHTTPClient()
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chrono server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server error (status %d): %s", resp.StatusCode, string(body))
	}

	var snap timerSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &snap, nil
}

func displaySnapshot(snap *timerSnapshot) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	table.Append("State", snap.State)
	table.Append("Clock", snap.Formatted)
	table.Append("Elapsed", fmt.Sprintf("%.1fs", snap.ElapsedSeconds))

	if snap.LastCommand != "" {
		table.Append("Last Command", snap.LastCommand)
	}
	if !snap.ChangedAt.IsZero() {
		table.Append("Changed At", snap.ChangedAt.Format(time.RFC3339))
	}

	table.Render()
}
