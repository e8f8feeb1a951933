package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"behancescraper/pkg/config"
	"behancescraper/pkg/fetch"
	"behancescraper/pkg/logger"
)

const listingHTML = `<html><body>
<a class="ProjectCoverNeue-coverLink-U39" href="/gallery/1/a" title="项目的链接 - A"></a>
<a class="ProjectCoverNeue-coverLink-U39" href="https://www.behance.net/gallery/2/b"></a>
<a class="other" href="/ignored"></a>
</body></html>`

func newStaticTestRenderer(t *testing.T, handler http.Handler) (*StaticRenderer, string) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := fetch.NewClient(config.DefaultConfig().Network, nil)
	require.NoError(t, err)
	return NewStaticRenderer(client, logger.NewTestLogger()), server.URL
}

func TestStaticRendererQueryAll(t *testing.T) {
	r, base := newStaticTestRenderer(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	}))

	ctx := context.Background()
	page, err := r.Open(ctx)
	require.NoError(t, err)
	defer page.Close()

	require.NoError(t, page.Goto(ctx, base+"/search/projects/car"))
	require.NoError(t, page.WaitForNetworkIdle(ctx))
	require.NoError(t, page.ScrollToBottom(ctx))

	elements, err := page.QueryAll(ctx, "a.ProjectCoverNeue-coverLink-U39")
	require.NoError(t, err)
	require.Len(t, elements, 2)

	href, ok := elements[0].Attribute("href")
	assert.True(t, ok)
	assert.Equal(t, "/gallery/1/a", href)

	title, ok := elements[0].Attribute("title")
	assert.True(t, ok)
	assert.Equal(t, "项目的链接 - A", title)

	_, ok = elements[1].Attribute("title")
	assert.False(t, ok)

	none, err := page.QueryAll(ctx, "img.missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStaticRendererQueryBeforeGoto(t *testing.T) {
	r := NewStaticRenderer(nil, nil)
	page, err := r.Open(context.Background())
	require.NoError(t, err)

	_, err = page.QueryAll(context.Background(), "a")
	assert.Error(t, err)
}

func TestStaticRendererGotoError(t *testing.T) {
	r, base := newStaticTestRenderer(t, http.NotFoundHandler())

	page, err := r.Open(context.Background())
	require.NoError(t, err)
	assert.Error(t, page.Goto(context.Background(), base+"/missing"))
}

func TestNewSelectsEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	client, err := fetch.NewClient(cfg.Network, nil)
	require.NoError(t, err)

	r, err := New(cfg, client, nil)
	require.NoError(t, err)
	assert.IsType(t, &ChromeRenderer{}, r)

	cfg.Browser.Engine = config.EngineStatic
	r, err = New(cfg, client, nil)
	require.NoError(t, err)
	assert.IsType(t, &StaticRenderer{}, r)

	_, err = New(cfg, nil, nil)
	assert.Error(t, err)

	cfg.Browser.Engine = "firefox"
	_, err = New(cfg, client, nil)
	assert.Error(t, err)
}

func TestChromeAllocatorOptions(t *testing.T) {
	cfg := config.DefaultConfig().Browser
	plain := NewChromeRenderer(cfg, "", nil)

	cfg.ExecPath = "/usr/bin/chromium"
	withExtras := NewChromeRenderer(cfg, "http://10.7.100.40:9910", nil)

	assert.Len(t, withExtras.allocatorOptions(), len(plain.allocatorOptions())+2)
}
