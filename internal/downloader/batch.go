package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"behancescraper/pkg/config"
	"behancescraper/pkg/fetch"
	"behancescraper/pkg/logger"
	"behancescraper/pkg/models"
	"behancescraper/pkg/progress"
	"behancescraper/pkg/storage"
)

// ImageFetcher retrieves image bytes
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Response, error)
}

// ImageStore persists image bytes under a file name
type ImageStore interface {
	Save(r io.Reader, fileName string) (int64, error)
}

// Manager downloads batches of images concurrently
type Manager struct {
	fetcher     ImageFetcher
	store       ImageStore
	naming      string
	concurrency int
	reporter    progress.Reporter
	logger      logger.Logger
}

// NewManager creates a download manager. A concurrency of zero starts one
// task per image.
func NewManager(
	fetcher ImageFetcher,
	store ImageStore,
	cfg config.DownloadConfig,
	reporter progress.Reporter,
	log logger.Logger,
) *Manager {
	if reporter == nil {
		reporter = progress.Nop
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Manager{
		fetcher:     fetcher,
		store:       store,
		naming:      cfg.FileNaming,
		concurrency: cfg.Concurrency,
		reporter:    reporter,
		logger:      log,
	}
}

// DownloadBatch downloads every image and returns once all tasks have
// finished. A failed task never cancels its siblings; outcomes are in input
// order.
func (m *Manager) DownloadBatch(ctx context.Context, images []models.ImageReference) []models.DownloadOutcome {
	outcomes := make([]models.DownloadOutcome, len(images))
	if len(images) == 0 {
		return outcomes
	}

	m.logger.DebugWithFields("starting download batch", map[string]interface{}{
		"images":      len(images),
		"project":     images[0].ProjectURL,
		"concurrency": m.concurrency,
	})

	var g errgroup.Group
	if m.concurrency > 0 {
		g.SetLimit(m.concurrency)
	}

	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			outcomes[i] = m.download(ctx, img)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		}
	}
	m.logger.InfoWithFields("download batch finished", map[string]interface{}{
		"images":    len(images),
		"succeeded": succeeded,
		"failed":    len(images) - succeeded,
	})

	return outcomes
}

// download handles a single image task
func (m *Manager) download(ctx context.Context, img models.ImageReference) models.DownloadOutcome {
	start := time.Now()
	sourceURL := img.SourceURL
	outcome := models.DownloadOutcome{
		SourceURL:  sourceURL,
		ProjectURL: img.ProjectURL,
		FileName:   storage.FileName(sourceURL, m.naming),
	}

	size, err := m.fetchAndSave(ctx, sourceURL, outcome.FileName)
	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Err = err
		line := fmt.Sprintf("download %s failed: %v", sourceURL, err)
		m.logger.WithError(err).ErrorWithFields(line, map[string]interface{}{
			"url":      sourceURL,
			"project":  img.ProjectURL,
			"duration": outcome.Duration,
		})
		m.reporter.Emit(line)
		return outcome
	}

	outcome.Success = true
	outcome.Size = size
	line := fmt.Sprintf(">> %s downloaded", outcome.FileName)
	m.logger.InfoWithFields(line, map[string]interface{}{
		"url":      sourceURL,
		"project":  img.ProjectURL,
		"size":     size,
		"duration": outcome.Duration,
	})
	m.reporter.Emit(line)
	return outcome
}

func (m *Manager) fetchAndSave(ctx context.Context, sourceURL, fileName string) (int64, error) {
	resp, err := m.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return 0, err
	}

	size, err := m.store.Save(bytes.NewReader(resp.Body), fileName)
	if err != nil {
		return 0, fmt.Errorf("save failed: %w", err)
	}
	return size, nil
}
