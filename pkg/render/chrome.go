package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"behancescraper/pkg/config"
	errs "behancescraper/pkg/errors"
	"behancescraper/pkg/logger"
)

const (
	// idleWindow is how long the page must have no requests in flight
	idleWindow   = 500 * time.Millisecond
	idlePollRate = 50 * time.Millisecond
)

// ChromeRenderer launches a Chrome process per opened page
type ChromeRenderer struct {
	cfg    config.BrowserConfig
	proxy  string
	logger logger.Logger
}

// NewChromeRenderer creates a Chrome-backed renderer
func NewChromeRenderer(cfg config.BrowserConfig, proxy string, log logger.Logger) *ChromeRenderer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &ChromeRenderer{cfg: cfg, proxy: proxy, logger: log}
}

func (r *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(r.cfg.ViewportWidth, r.cfg.ViewportHeight),
	)
	if r.proxy != "" {
		opts = append(opts, chromedp.ProxyServer(r.proxy))
	}
	if r.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ExecPath))
	}
	return opts
}

// Open starts Chrome, attaches a tab and enables network tracking
func (r *ChromeRenderer) Open(ctx context.Context) (Page, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), r.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}))

	p := &chromePage{
		ctx:      tabCtx,
		timeout:  r.cfg.NavigationTimeout,
		inflight: make(map[network.RequestID]struct{}),
		logger:   r.logger,
		cancel: func() {
			tabCancel()
			allocCancel()
		},
	}
	chromedp.ListenTarget(tabCtx, p.onEvent)

	// The first Run on tabCtx starts the browser and must not use a derived
	// context, otherwise cancelling it would close the browser.
	started := make(chan error, 1)
	go func() {
		started <- chromedp.Run(tabCtx,
			network.Enable(),
			chromedp.EmulateViewport(int64(r.cfg.ViewportWidth), int64(r.cfg.ViewportHeight)),
		)
	}()

	select {
	case err := <-started:
		if err != nil {
			p.cancel()
			return nil, errs.New(errs.ErrorTypeNavigation, "failed to start browser", err)
		}
	case <-ctx.Done():
		p.cancel()
		return nil, ctx.Err()
	}

	r.logger.DebugWithFields("browser page opened", map[string]interface{}{
		"headless": r.cfg.Headless,
		"proxy":    r.proxy,
	})
	return p, nil
}

type chromePage struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  logger.Logger

	mu           sync.Mutex
	inflight     map[network.RequestID]struct{}
	lastActivity time.Time
}

func (p *chromePage) onEvent(ev interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		p.inflight[e.RequestID] = struct{}{}
	case *network.EventLoadingFinished:
		delete(p.inflight, e.RequestID)
	case *network.EventLoadingFailed:
		delete(p.inflight, e.RequestID)
	default:
		return
	}
	p.lastActivity = time.Now()
}

// run executes actions bounded by ctx and the navigation timeout
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if p.timeout > 0 {
		runCtx, cancel = context.WithTimeout(p.ctx, p.timeout)
	} else {
		runCtx, cancel = context.WithCancel(p.ctx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (p *chromePage) Goto(ctx context.Context, url string) error {
	p.mu.Lock()
	p.inflight = make(map[network.RequestID]struct{})
	p.lastActivity = time.Now()
	p.mu.Unlock()

	if err := p.run(ctx, chromedp.Navigate(url)); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return errs.New(errs.ErrorTypeNavigation, fmt.Sprintf("navigate to %s", url), err)
	}
	return nil
}

func (p *chromePage) WaitForNetworkIdle(ctx context.Context) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(idlePollRate)
	defer ticker.Stop()

	for {
		p.mu.Lock()
		idle := len(p.inflight) == 0 && time.Since(p.lastActivity) >= idleWindow
		p.mu.Unlock()
		if idle {
			return nil
		}

		select {
		case <-ticker.C:
		case <-p.ctx.Done():
			return errs.New(errs.ErrorTypeNavigation, "browser closed while waiting for network idle", p.ctx.Err())
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return errs.New(errs.ErrorTypeTimeout, "network did not become idle", ctx.Err())
			}
			return ctx.Err()
		}
	}
}

func (p *chromePage) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errs.New(errs.ErrorTypeExtraction, fmt.Sprintf("query %q", selector), err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		elements = append(elements, chromeElement{node: n})
	}
	return elements, nil
}

func (p *chromePage) ScrollToBottom(ctx context.Context) error {
	return p.run(ctx, chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil))
}

func (p *chromePage) Close() error {
	p.cancel()
	return nil
}

type chromeElement struct {
	node *cdp.Node
}

func (e chromeElement) Attribute(name string) (string, bool) {
	return e.node.Attribute(name)
}
