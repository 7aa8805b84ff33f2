package cmd

import (
	"os"

	"github.com/ppqm/hpc-funcs/internal/config"
	"github.com/ppqm/hpc-funcs/internal/utils"
	"github.com/spf13/cobra"
)

var (
	debugMode bool
	quietMode bool
	binDir    string
)

var rootCmd = &cobra.Command{
	Use:           "hpcq",
	Short:         "hpcq: Query and monitor Grid Engine jobs, task arrays and hosts.",
	Version:       config.VERSION,
	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Step 1: Load built-in defaults
		config.LoadDefaults()

		// Step 2: Initialize Viper (read config file, env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintDebug("Error reading config file: %v", err)
		}

		// Step 3: Load resolved values from Viper into Global config
		config.LoadFromViper()

		// Step 4: Apply command-line flags (highest priority)
		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("hpcq Version: %s", utils.StyleInfo(config.VERSION))
			if config.Global.BinDir != "" {
				utils.PrintDebug("Scheduler Bin Directory: %s", utils.StylePath(config.Global.BinDir))
			}
			utils.PrintDebug("Poll Interval: %s", config.Global.PollInterval)
			utils.PrintDebug("Command Timeout: %s", config.Global.CommandTimeout)
		}

		if quietMode {
			utils.QuietMode = true
			config.Global.Quiet = true
		}

		if binDir != "" {
			config.Global.BinDir = binDir
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.PrintError("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVar(&quietMode, "quiet", false, "Suppress informational output")
	rootCmd.PersistentFlags().StringVar(&binDir, "bin-dir", "", "Directory holding the scheduler commands (default: PATH)")
}
