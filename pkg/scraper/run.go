package scraper

import (
	"context"
	"fmt"

	"behancescraper/internal/downloader"
	"behancescraper/pkg/config"
	"behancescraper/pkg/fetch"
	"behancescraper/pkg/logger"
	"behancescraper/pkg/models"
	"behancescraper/pkg/progress"
	"behancescraper/pkg/render"
	"behancescraper/pkg/storage"
)

// Options wires a full scrape run
type Options struct {
	Config *config.Config
	Logger logger.Logger
	// Live receives progress lines as they happen, in addition to the
	// returned transcript
	Live progress.Reporter
	// Renderer overrides the engine selected by Config.Browser.Engine
	Renderer render.Renderer
}

// RunScrape builds the fetcher, renderer, storage and downloader from opts,
// runs a scrape and returns the progress transcript together with the
// numbered result summary. On failure the error is logged and appended to
// the transcript, and the summary is empty.
func RunScrape(ctx context.Context, opts Options, keyword string, maxProjects int) (string, string) {
	transcript := progress.NewTranscript()
	reporter := progress.Multi(transcript, opts.Live)

	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	fail := func(err error) (string, string) {
		line := fmt.Sprintf("scrape failed: %v", err)
		log.WithError(err).Error("scrape failed")
		reporter.Emit(line)
		return transcript.String(), ""
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s, err := build(cfg, opts, reporter, log)
	if err != nil {
		return fail(err)
	}

	result, err := s.Run(ctx, keyword, maxProjects)
	if err != nil {
		return fail(err)
	}

	return transcript.String(), models.FormatSummary(result.Projects)
}

func build(cfg *config.Config, opts Options, reporter progress.Reporter, log logger.Logger) (*Scraper, error) {
	fetcher, err := fetch.NewClient(cfg.Network, log.WithField("component", "fetch"))
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer, err = render.New(cfg, fetcher, log.WithField("component", "render"))
		if err != nil {
			return nil, fmt.Errorf("create renderer: %w", err)
		}
	}

	store := storage.NewManager(cfg.Download.Directory)
	dl := downloader.NewManager(fetcher, store, cfg.Download, reporter, log.WithField("component", "downloader"))

	return New(renderer, dl, cfg, reporter, log.WithField("component", "scraper"))
}
