package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Commands for inspecting the effective chrono client configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Prints the configuration the CLI would use after merging defaults,
the config file and environment variables.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringVarP(&configOutput, "output", "o", "text",
		"Output format: text, json, yaml")
}

// ClientConfig is the effective CLI configuration
type ClientConfig struct {
	ServerURL    string `json:"server_url" yaml:"server_url"`
	OutputFormat string `json:"output_format" yaml:"output_format"`
	ConfigFile   string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := ClientConfig{
		ServerURL:    GetServerURL(),
		OutputFormat: outputFormat,
		ConfigFile:   viper.ConfigFileUsed(),
	}

	switch configOutput {
	case "json":
		output, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
	case "yaml":
		output, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Print(string(output))
	case "text":
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Setting", "Value")
		table.Append("Server URL", cfg.ServerURL)
		table.Append("Output Format", cfg.OutputFormat)
		if cfg.ConfigFile != "" {
			table.Append("Config File", cfg.ConfigFile)
		} else {
			table.Append("Config File", "(none)")
		}
		table.Render()
	default:
		return fmt.Errorf("unknown output format: %s", configOutput)
	}

	return nil
}
