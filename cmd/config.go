package cmd

import (
	"fmt"
	"os"

	"github.com/ppqm/hpc-funcs/internal/config"
	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long: `Show the resolved configuration and where it came from.

Settings resolve in order: command-line flags, HPCQ_* environment
variables, the user config file, /etc/hpcq/config.yaml, then built-in
defaults.`,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the user config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetUserConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println("Resolved configuration:")
	fmt.Printf("  bin_dir:          %s\n", orDefault(config.Global.BinDir, "(PATH)"))
	fmt.Printf("  poll_interval:    %s\n", config.Global.PollInterval)
	fmt.Printf("  command_timeout:  %s\n", config.Global.CommandTimeout)
	fmt.Printf("  max_retries:      %d\n", config.Global.MaxRetries)
	fmt.Printf("  retry_delay:      %s\n", config.Global.RetryDelay)
	fmt.Println()

	if used := viper.ConfigFileUsed(); used != "" {
		utils.PrintMessage("Config file: %s", utils.StylePath(used))
	} else {
		path, err := config.GetUserConfigPath()
		if err == nil {
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				utils.PrintMessage("No config file found; using defaults.")
				utils.PrintMessage("Create one at: %s", utils.StylePath(path))
			}
		}
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
