// Package render adapts page renderers to the small surface the scraper
// needs: navigate, wait for the network to settle, query elements by CSS
// selector, scroll and read attributes.
//
// Two engines are provided. ChromeRenderer drives headless Chrome through
// the DevTools protocol and is required for the live site, which loads
// results lazily as the page scrolls. StaticRenderer fetches HTML over
// pkg/fetch and queries it with goquery; scrolling is a no-op.
package render

import (
	"context"
	"fmt"
	"strings"

	"behancescraper/pkg/config"
	"behancescraper/pkg/logger"
)

// Element is a DOM element matched by a selector
type Element interface {
	// Attribute returns the attribute value and whether it is present
	Attribute(name string) (string, bool)
}

// Page is a single browser tab
type Page interface {
	Goto(ctx context.Context, url string) error
	WaitForNetworkIdle(ctx context.Context) error
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	ScrollToBottom(ctx context.Context) error
	Close() error
}

// Renderer opens pages. Every Open starts an independent session that is
// released by Page.Close.
type Renderer interface {
	Open(ctx context.Context) (Page, error)
}

// New returns the renderer selected by cfg.Browser.Engine
func New(cfg *config.Config, fetcher Fetcher, log logger.Logger) (Renderer, error) {
	switch strings.ToLower(cfg.Browser.Engine) {
	case config.EngineChrome, "":
		return NewChromeRenderer(cfg.Browser, cfg.Network.Proxy, log), nil
	case config.EngineStatic:
		if fetcher == nil {
			return nil, fmt.Errorf("static renderer requires a fetcher")
		}
		return NewStaticRenderer(fetcher, log), nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q", cfg.Browser.Engine)
	}
}
