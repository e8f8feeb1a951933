package scraper

import (
	"context"
	"fmt"
	"net/url"

	"behancescraper/pkg/models"
	"behancescraper/pkg/render"
)

// ExtractImages visits each project page in order, collects the image
// sources on it and downloads them before moving on. It returns the number
// of image URLs found.
//
// A failing page is reported and skipped. Only failing to open the renderer
// or cancellation of ctx ends extraction early.
func (s *Scraper) ExtractImages(ctx context.Context, projectURLs []string) (int, error) {
	if len(projectURLs) == 0 {
		return 0, nil
	}

	page, err := s.renderer.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	total := 0
	for _, projectURL := range projectURLs {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		found, err := s.extractPage(ctx, page, projectURL)
		total += found
		if err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			line := fmt.Sprintf("error processing page %s: %v", projectURL, err)
			s.logger.WithError(err).Warn(line)
			s.reporter.Emit(line)
			continue
		}

		if err := s.wait(ctx, s.scrape.PageDelay); err != nil {
			return total, err
		}
	}

	s.logger.InfoWithFields("image extraction finished", map[string]interface{}{
		"pages":  len(projectURLs),
		"images": total,
	})
	return total, nil
}

func (s *Scraper) extractPage(ctx context.Context, page render.Page, projectURL string) (int, error) {
	s.report(fmt.Sprintf("Opening detail page: %s", projectURL))
	if err := page.Goto(ctx, projectURL); err != nil {
		return 0, err
	}
	if err := page.WaitForNetworkIdle(ctx); err != nil {
		return 0, err
	}

	elements, err := page.QueryAll(ctx, s.site.ImageSelector)
	if err != nil {
		return 0, err
	}
	s.report(fmt.Sprintf("Found %d images on the current page", len(elements)))

	pageURL, err := url.Parse(projectURL)
	if err != nil {
		pageURL = s.baseURL
	}

	var images []models.ImageReference
	for _, el := range elements {
		src, _ := el.Attribute("src")
		if imageURL := normalizeURL(pageURL, src); imageURL != "" {
			images = append(images, models.ImageReference{SourceURL: imageURL, ProjectURL: projectURL})
		}
	}

	if len(images) > 0 {
		s.downloader.DownloadBatch(ctx, images)
	}
	return len(images), nil
}
