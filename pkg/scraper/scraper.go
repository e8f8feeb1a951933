package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"behancescraper/pkg/config"
	"behancescraper/pkg/logger"
	"behancescraper/pkg/models"
	"behancescraper/pkg/progress"
	"behancescraper/pkg/render"
	"behancescraper/pkg/retry"
)

// Scraper discovers projects for a keyword and downloads their images
type Scraper struct {
	renderer   render.Renderer
	downloader ImageDownloader
	site       config.SiteConfig
	scrape     config.ScrapeConfig
	baseURL    *url.URL
	reporter   progress.Reporter
	logger     logger.Logger
	wait       func(ctx context.Context, delay time.Duration) error
}

// New creates a Scraper. Every progress line goes to reporter and to log.
func New(
	renderer render.Renderer,
	downloader ImageDownloader,
	cfg *config.Config,
	reporter progress.Reporter,
	log logger.Logger,
) (*Scraper, error) {
	baseURL, err := url.Parse(cfg.Site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if reporter == nil {
		reporter = progress.Nop
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Scraper{
		renderer:   renderer,
		downloader: downloader,
		site:       cfg.Site,
		scrape:     cfg.Scrape,
		baseURL:    baseURL,
		reporter:   reporter,
		logger:     log,
		wait:       retry.Wait,
	}, nil
}

// Run discovers up to maxProjects projects for keyword, downloads the images
// of each and reports a completion line
func (s *Scraper) Run(ctx context.Context, keyword string, maxProjects int) (*models.RunResult, error) {
	start := time.Now()
	params := models.RunParams{
		Keyword:     keyword,
		MaxProjects: maxProjects,
		ScrollDelay: s.scrape.ScrollDelay,
	}

	s.logger.InfoWithFields("scrape run started", map[string]interface{}{
		"keyword":      keyword,
		"max_projects": maxProjects,
	})

	projects, urls, err := s.Discover(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("discover projects: %w", err)
	}

	imageCount, err := s.ExtractImages(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	result := &models.RunResult{
		Projects:   projects,
		ImageCount: imageCount,
		Elapsed:    time.Since(start),
	}
	s.report(result.CompletionMessage())
	return result, nil
}

// report emits a progress line and records it in the log
func (s *Scraper) report(line string) {
	s.logger.Info(line)
	s.reporter.Emit(line)
}

// normalizeURL resolves href against ref and drops the fragment. It returns
// "" for hrefs that do not lead to an http(s) page.
func normalizeURL(ref *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	u = ref.ResolveReference(u)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	return u.String()
}

// CleanTitle removes every occurrence of prefix from title and trims the
// result. Applying it twice yields the same string as applying it once.
func CleanTitle(title, prefix string) string {
	if prefix != "" {
		for strings.Contains(title, prefix) {
			title = strings.ReplaceAll(title, prefix, "")
		}
	}
	return strings.TrimSpace(title)
}
