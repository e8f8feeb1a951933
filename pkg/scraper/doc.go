// Package scraper runs a keyword scrape against Behance.
//
// A run has two stages that share nothing but a list of URLs:
//
//  1. Discover opens the search results page for the keyword and collects
//     distinct project links, scrolling to trigger lazy loading until the
//     requested number is reached or the page stops producing new results.
//  2. ExtractImages visits each project page in order, collects image
//     sources and hands each page's images to the downloader, waiting for
//     the whole batch before moving on.
//
// Progress is reported line by line through a progress.Reporter and mirrored
// into the structured log.
//
// Usage:
//
//	transcript, summary := scraper.RunScrape(ctx, scraper.Options{
//		Config: cfg,
//		Logger: log,
//		Live:   progress.NewConsole(os.Stdout, true),
//	}, "jetour", 10)
package scraper
