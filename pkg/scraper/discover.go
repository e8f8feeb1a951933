package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"behancescraper/pkg/models"
)

// Discover loads the search results page for params.Keyword and collects up
// to params.MaxProjects distinct projects in page order.
//
// When a pass over the page yields nothing new the page is scrolled to the
// bottom to trigger lazy loading. After scroll_retries consecutive scrolls
// without new projects discovery ends normally with what it has. Renderer
// failures abort discovery.
func (s *Scraper) Discover(ctx context.Context, params models.RunParams) ([]models.Project, []string, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid run parameters: %w", err)
	}

	searchURL := fmt.Sprintf(s.site.SearchURLTemplate, url.PathEscape(strings.TrimSpace(params.Keyword)))

	page, err := s.renderer.Open(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	s.report(fmt.Sprintf("Opening page: %s", searchURL))
	if err := page.Goto(ctx, searchURL); err != nil {
		return nil, nil, err
	}
	if err := page.WaitForNetworkIdle(ctx); err != nil {
		return nil, nil, err
	}

	s.report(fmt.Sprintf("Starting discovery, target: %d projects", params.MaxProjects))

	var (
		projects     []models.Project
		seen         = make(map[string]struct{})
		emptyScrolls int
	)

	for len(projects) < params.MaxProjects {
		elements, err := page.QueryAll(ctx, s.site.ProjectSelector)
		if err != nil {
			return nil, nil, err
		}
		s.report(fmt.Sprintf("Found %d projects on the current page", len(elements)))

		newFound := false
		for _, el := range elements {
			href, _ := el.Attribute("href")
			projectURL := normalizeURL(s.baseURL, href)
			if projectURL == "" {
				continue
			}
			if _, ok := seen[projectURL]; ok {
				continue
			}

			title, _ := el.Attribute("title")
			title = CleanTitle(title, s.site.TitlePrefix)

			seen[projectURL] = struct{}{}
			projects = append(projects, models.Project{Title: title, URL: projectURL})
			newFound = true
			s.report(fmt.Sprintf("[%d/%d] found project: %s", len(projects), params.MaxProjects, title))

			if len(projects) >= params.MaxProjects {
				break
			}
		}

		if len(projects) >= params.MaxProjects {
			break
		}
		if newFound {
			emptyScrolls = 0
			continue
		}

		if emptyScrolls >= s.scrape.ScrollRetries {
			s.report("Reached end of content, no more projects to load")
			break
		}

		s.report(fmt.Sprintf("Scrolling to load more... current: %d/%d", len(projects), params.MaxProjects))
		if err := page.ScrollToBottom(ctx); err != nil {
			return nil, nil, err
		}
		emptyScrolls++

		if err := s.wait(ctx, params.ScrollDelay); err != nil {
			return nil, nil, err
		}
	}

	s.report(fmt.Sprintf("Project discovery complete! Collected %d projects", len(projects)))

	urls := make([]string, len(projects))
	for i, p := range projects {
		urls[i] = p.URL
	}
	return projects, urls, nil
}
