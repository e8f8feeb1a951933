package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"behancescraper/pkg/config"
	"behancescraper/pkg/logger"
	"behancescraper/pkg/models"
	"behancescraper/pkg/progress"
	"behancescraper/pkg/scraper"
	"behancescraper/pkg/ui"
)

var (
	// Scrape command flags
	maxProjects int
	scrollDelay time.Duration
	outputDir   string
	proxy       string
	engine      string
	concurrency int
	fileNaming  string
	headful     bool
	notify      bool
)

var errScrapeFailed = errors.New("scrape failed")

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <keyword>",
	Short: "Search Behance for a keyword and download project images",
	Long: `Search Behance for a keyword, collect up to --max-projects project pages
from the search results and download every image found on them.

Images are written to the download directory ("old" by default). Progress
lines are printed as they happen and a numbered list of the collected
projects is printed at the end.`,
	Example: `  # Collect 10 projects for a keyword
  behancescraper scrape jetour

  # Collect 30 projects with a slower scroll through a proxy
  behancescraper scrape "car design" -n 30 --scroll-delay 3s --proxy http://10.7.100.40:9910

  # Use the static HTML engine and limit downloads to 4 at a time
  behancescraper scrape poster --engine static --concurrency 4`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().IntVarP(&maxProjects, "max-projects", "n", 0, "maximum number of projects to collect (default from config: 10)")
	scrapeCmd.Flags().DurationVar(&scrollDelay, "scroll-delay", 0, "wait after each scroll (default from config: 1.5s)")
	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "download directory (default from config: old)")
	scrapeCmd.Flags().StringVar(&proxy, "proxy", "", "proxy URL for page and image traffic")
	scrapeCmd.Flags().StringVar(&engine, "engine", "", "page renderer: chrome or static")
	scrapeCmd.Flags().IntVar(&concurrency, "concurrency", -1, "maximum parallel downloads per page, 0 for unlimited")
	scrapeCmd.Flags().StringVar(&fileNaming, "file-naming", "", "file naming: overwrite or hash")
	scrapeCmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	scrapeCmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")
}

// scrapeFlags collects the flags that were set into the map config.Load merges
func scrapeFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("max-projects") {
		flags["max-projects"] = maxProjects
	}
	if cmd.Flags().Changed("scroll-delay") {
		flags["scroll-delay"] = scrollDelay
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if proxy != "" {
		flags["proxy"] = proxy
	}
	if engine != "" {
		flags["engine"] = engine
	}
	if cmd.Flags().Changed("concurrency") {
		flags["concurrency"] = concurrency
	}
	if fileNaming != "" {
		flags["file-naming"] = fileNaming
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	if headful {
		flags["headful"] = true
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	keyword := strings.TrimSpace(args[0])

	cfg, err := config.Load(configFile, scrapeFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return err
	}

	params := models.RunParams{
		Keyword:     keyword,
		MaxProjects: cfg.Scrape.MaxProjects,
		ScrollDelay: cfg.Scrape.ScrollDelay,
	}
	if err := params.Validate(); err != nil {
		ui.PrintError("Invalid arguments", err.Error())
		return err
	}

	// Progress lines already go to the console, so log records only go
	// there when asked for
	cfg.Logging.Console = verbose
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		return err
	}
	log.WithFields(map[string]interface{}{
		"version": version,
		"keyword": keyword,
		"max":     cfg.Scrape.MaxProjects,
		"engine":  cfg.Browser.Engine,
	}).Info("Behance scraper starting")

	ui.PrintInfo("Keyword", keyword)
	ui.PrintInfo("Download directory", cfg.Download.Directory)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	_, summary := scraper.RunScrape(ctx, scraper.Options{
		Config: cfg,
		Logger: log,
		Live:   progress.NewConsole(cmd.OutOrStdout(), !noColor),
	}, keyword, cfg.Scrape.MaxProjects)

	failed := summary == ""
	if !failed {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), summary)
	}

	if notify {
		sendNotification(log, keyword, failed, time.Since(started))
	}

	if failed {
		if errors.Is(ctx.Err(), context.Canceled) {
			ui.PrintWarning("Scrape interrupted")
		}
		return errScrapeFailed
	}
	return nil
}

func sendNotification(log logger.Logger, keyword string, failed bool, elapsed time.Duration) {
	notifier := ui.NewNotifier()

	var err error
	if failed {
		err = notifier.SendError("Behance Scraper", fmt.Sprintf("Scrape for %q failed", keyword))
	} else {
		err = notifier.SendSuccess("Behance Scraper", fmt.Sprintf("Scrape for %q finished in %s", keyword, elapsed.Round(time.Second)))
	}
	if err != nil {
		log.WithError(err).Warn("Failed to send desktop notification")
	}
}
