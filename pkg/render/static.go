package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	errs "behancescraper/pkg/errors"
	"behancescraper/pkg/fetch"
	"behancescraper/pkg/logger"
)

// Fetcher retrieves a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Response, error)
}

// StaticRenderer serves pages from plain HTTP responses without running
// scripts
type StaticRenderer struct {
	fetcher Fetcher
	logger  logger.Logger
}

// NewStaticRenderer creates a renderer that loads pages through fetcher
func NewStaticRenderer(fetcher Fetcher, log logger.Logger) *StaticRenderer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &StaticRenderer{fetcher: fetcher, logger: log}
}

// Open returns an empty page
func (r *StaticRenderer) Open(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &staticPage{renderer: r}, nil
}

type staticPage struct {
	renderer *StaticRenderer
	doc      *goquery.Document
}

func (p *staticPage) Goto(ctx context.Context, url string) error {
	resp, err := p.renderer.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return errs.New(errs.ErrorTypeExtraction, fmt.Sprintf("parse %s", url), err)
	}
	p.doc = doc

	p.renderer.logger.DebugWithFields("static page loaded", map[string]interface{}{
		"url":  url,
		"size": len(resp.Body),
	})
	return nil
}

// WaitForNetworkIdle returns at once; the document is complete after Goto
func (p *staticPage) WaitForNetworkIdle(ctx context.Context) error {
	return ctx.Err()
}

func (p *staticPage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.doc == nil {
		return nil, errs.New(errs.ErrorTypeNavigation, "no page loaded", nil)
	}

	var elements []Element
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, staticElement{sel: s})
	})
	return elements, nil
}

// ScrollToBottom has nothing to load in a static document
func (p *staticPage) ScrollToBottom(ctx context.Context) error {
	return ctx.Err()
}

func (p *staticPage) Close() error {
	p.doc = nil
	return nil
}

type staticElement struct {
	sel *goquery.Selection
}

func (e staticElement) Attribute(name string) (string, bool) {
	return e.sel.Attr(name)
}
