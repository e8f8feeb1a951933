package scraper

import (
	"context"

	"behancescraper/pkg/models"
)

// ImageDownloader downloads one page's images and returns after all of them
// have finished
type ImageDownloader interface {
	DownloadBatch(ctx context.Context, images []models.ImageReference) []models.DownloadOutcome
}
