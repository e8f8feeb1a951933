package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"behancescraper/pkg/config"
	"behancescraper/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Create, inspect and validate the scraper configuration.

Configuration is resolved in this order of priority:
  1. Command line flags
  2. Environment variables (BEHANCE_*, also read from .env)
  3. Configuration file
  4. Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

var forceInit bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := ".behancescraper.yaml"
	if len(args) == 1 {
		path = args[0]
	} else if configFile != "" {
		path = configFile
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		ui.PrintWarning("Configuration file already exists", path)
		fmt.Fprintln(cmd.OutOrStdout(), "Use --force to overwrite it")
		return nil
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		return err
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Fprintln(cmd.OutOrStdout(), "\nNext steps:")
	fmt.Fprintln(cmd.OutOrStdout(), "1. Adjust the selectors under 'site' if Behance markup changed")
	fmt.Fprintln(cmd.OutOrStdout(), "2. Run 'behancescraper config validate' to check the configuration")
	fmt.Fprintln(cmd.OutOrStdout(), "3. Start scraping with 'behancescraper scrape <keyword>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		return err
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		return err
	}

	var warnings []string
	if cfg.Browser.Engine == config.EngineStatic {
		warnings = append(warnings, "static engine cannot scroll, only the first result page is read")
	}
	if cfg.Download.Concurrency == 0 {
		warnings = append(warnings, "download concurrency is unlimited, one request per image")
	}
	if cfg.Download.FileNaming == config.FileNamingOverwrite {
		warnings = append(warnings, "images sharing a file name overwrite each other, set download.file_naming to hash to keep both")
	}
	if dir := cfg.Download.Directory; dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			ui.PrintError("Download directory is not a directory", dir)
			return fmt.Errorf("download directory %s is not a directory", dir)
		}
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", w)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Fprintln(cmd.OutOrStdout(), "\nConfiguration summary:")
	fmt.Fprintf(cmd.OutOrStdout(), "  Engine: %s (headless: %t)\n", cfg.Browser.Engine, cfg.Browser.Headless)
	fmt.Fprintf(cmd.OutOrStdout(), "  Download directory: %s\n", cfg.Download.Directory)
	fmt.Fprintf(cmd.OutOrStdout(), "  Max projects: %d\n", cfg.Scrape.MaxProjects)
	fmt.Fprintf(cmd.OutOrStdout(), "  Max retries: %d\n", cfg.Network.MaxRetries)
	fmt.Fprintf(cmd.OutOrStdout(), "  Log level: %s\n", cfg.Logging.Level)
	return nil
}
