package scraper

import (
	"context"
	"errors"
	"sync"
	"time"

	"behancescraper/pkg/config"
	"behancescraper/pkg/models"
	"behancescraper/pkg/render"
)

type fakeElement map[string]string

func (e fakeElement) Attribute(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

func project(href, title string) render.Element {
	return fakeElement{"href": href, "title": title}
}

func image(src string) render.Element {
	return fakeElement{"src": src}
}

// fakeSite serves a listing page whose content depends on how often it has
// been scrolled, plus fixed detail pages
type fakeSite struct {
	mu       sync.Mutex
	listing  func(scrolls int) []render.Element
	details  map[string][]render.Element
	gotoErrs map[string]error
	openErr  error

	scrolls int
	visited []string
	opened  int
	closed  int
}

func (f *fakeSite) Open(ctx context.Context) (render.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return &fakePage{site: f}, nil
}

func (f *fakeSite) scrollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scrolls
}

type fakePage struct {
	site    *fakeSite
	current string
}

func (p *fakePage) Goto(ctx context.Context, url string) error {
	p.site.mu.Lock()
	defer p.site.mu.Unlock()
	p.site.visited = append(p.site.visited, url)
	if err := p.site.gotoErrs[url]; err != nil {
		return err
	}
	p.current = url
	return nil
}

func (p *fakePage) WaitForNetworkIdle(ctx context.Context) error { return ctx.Err() }

func (p *fakePage) QueryAll(ctx context.Context, selector string) ([]render.Element, error) {
	p.site.mu.Lock()
	defer p.site.mu.Unlock()

	if selector == config.DefaultConfig().Site.ProjectSelector {
		if p.site.listing == nil {
			return nil, nil
		}
		return p.site.listing(p.site.scrolls), nil
	}
	return p.site.details[p.current], nil
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error {
	p.site.mu.Lock()
	defer p.site.mu.Unlock()
	p.site.scrolls++
	return nil
}

func (p *fakePage) Close() error {
	p.site.mu.Lock()
	defer p.site.mu.Unlock()
	p.site.closed++
	return nil
}

// recordingDownloader records every batch it is handed
type recordingDownloader struct {
	mu       sync.Mutex
	batches  [][]string
	projects [][]string
}

func (d *recordingDownloader) DownloadBatch(ctx context.Context, images []models.ImageReference) []models.DownloadOutcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	urls := make([]string, len(images))
	projects := make([]string, len(images))
	outcomes := make([]models.DownloadOutcome, len(images))
	for i, img := range images {
		urls[i] = img.SourceURL
		projects[i] = img.ProjectURL
		outcomes[i] = models.DownloadOutcome{SourceURL: img.SourceURL, ProjectURL: img.ProjectURL, Success: true}
	}
	d.batches = append(d.batches, urls)
	d.projects = append(d.projects, projects)
	return outcomes
}

// delayRecorder replaces sleeping with recording
type delayRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *delayRecorder) wait(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Scrape.ScrollDelay = time.Millisecond
	cfg.Scrape.PageDelay = 0
	return cfg
}
