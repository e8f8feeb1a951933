package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"behancescraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "behancescraper",
	Short: "Download project images from Behance keyword searches",
	Long: `Behance Scraper searches Behance for a keyword, collects project pages
from the infinite-scroll results and downloads every image on them.

Features:
  - Headless Chrome rendering with network-idle detection
  - Static HTML engine for server-rendered pages
  - Concurrent downloads with rotating user agents
  - Automatic retry with linear backoff
  - Proxy support for page and image traffic
  - Timestamped log file per run`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			return
		}
		if cmd.Name() != "version" && cmd.Name() != "help" {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.behancescraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also print log records to the console")

	rootCmd.SetVersionTemplate(`Behance Scraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
