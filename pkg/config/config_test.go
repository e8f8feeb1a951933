package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://www.behance.net", cfg.Site.BaseURL)
	assert.Equal(t, "a.ProjectCoverNeue-coverLink-U39", cfg.Site.ProjectSelector)
	assert.Equal(t, "img.ImageElement-image-SRv", cfg.Site.ImageSelector)
	assert.Equal(t, "项目的链接 - ", cfg.Site.TitlePrefix)

	assert.Equal(t, EngineChrome, cfg.Browser.Engine)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 1080, cfg.Browser.ViewportHeight)

	assert.Equal(t, 10*time.Second, cfg.Network.Timeout)
	assert.Equal(t, 4, cfg.Network.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Network.RetryDelay)
	assert.Len(t, cfg.Network.UserAgents, len(DefaultUserAgents))

	assert.Equal(t, 5, cfg.Scrape.ScrollRetries)
	assert.Equal(t, 2*time.Second, cfg.Scrape.PageDelay)

	assert.Equal(t, "old", cfg.Download.Directory)
	assert.Equal(t, FileNamingOverwrite, cfg.Download.FileNaming)
	assert.Equal(t, "logs", cfg.Logging.Directory)

	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigDoesNotShareUserAgentPool(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Network.UserAgents[0] = "changed"

	assert.NotEqual(t, "changed", DefaultUserAgents[0])
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BEHANCE_PROXY", "http://10.0.0.1:9910")
	t.Setenv("BEHANCE_USER_AGENTS", "agent-a | agent-b|")
	t.Setenv("BEHANCE_DOWNLOAD_DIR", "/tmp/images")
	t.Setenv("BEHANCE_LOG_LEVEL", "debug")
	t.Setenv("BEHANCE_BROWSER_ENGINE", "STATIC")
	t.Setenv("BEHANCE_MAX_PROJECTS", "25")
	t.Setenv("BEHANCE_CONCURRENCY", "8")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "http://10.0.0.1:9910", cfg.Network.Proxy)
	assert.Equal(t, []string{"agent-a", "agent-b"}, cfg.Network.UserAgents)
	assert.Equal(t, "/tmp/images", cfg.Download.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, EngineStatic, cfg.Browser.Engine)
	assert.Equal(t, 25, cfg.Scrape.MaxProjects)
	assert.Equal(t, 8, cfg.Download.Concurrency)
}

func TestLoadFromEnvInvalidNumber(t *testing.T) {
	t.Setenv("BEHANCE_MAX_PROJECTS", "many")

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"static engine", func(c *Config) { c.Browser.Engine = EngineStatic }, false},
		{"unknown engine", func(c *Config) { c.Browser.Engine = "firefox" }, true},
		{"template without placeholder", func(c *Config) { c.Site.SearchURLTemplate = "https://example.com/search" }, true},
		{"relative base URL", func(c *Config) { c.Site.BaseURL = "behance.net" }, true},
		{"missing project selector", func(c *Config) { c.Site.ProjectSelector = "" }, true},
		{"zero max projects", func(c *Config) { c.Scrape.MaxProjects = 0 }, true},
		{"zero scroll delay", func(c *Config) { c.Scrape.ScrollDelay = 0 }, true},
		{"empty user agent pool", func(c *Config) { c.Network.UserAgents = nil }, true},
		{"bad proxy", func(c *Config) { c.Network.Proxy = "::not a url" }, true},
		{"valid proxy", func(c *Config) { c.Network.Proxy = "http://10.7.100.40:9910" }, false},
		{"zero retries", func(c *Config) { c.Network.MaxRetries = 0 }, true},
		{"negative concurrency", func(c *Config) { c.Download.Concurrency = -1 }, true},
		{"hash naming", func(c *Config) { c.Download.FileNaming = FileNamingHash }, false},
		{"unknown naming", func(c *Config) { c.Download.FileNaming = "random" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
site:
  project_selector: "a.cover"
network:
  proxy: "http://127.0.0.1:8080"
  timeout: 5s
scrape:
  scroll_delay: 250ms
  scroll_retries: 3
download:
  directory: "./images"
  file_naming: hash
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "a.cover", cfg.Site.ProjectSelector)
	assert.Equal(t, "img.ImageElement-image-SRv", cfg.Site.ImageSelector, "unset keys keep defaults")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Network.Proxy)
	assert.Equal(t, 5*time.Second, cfg.Network.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Scrape.ScrollDelay)
	assert.Equal(t, 3, cfg.Scrape.ScrollRetries)
	assert.Equal(t, "./images", cfg.Download.Directory)
	assert.Equal(t, FileNamingHash, cfg.Download.FileNaming)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0644))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Download.Directory = "saved"
	cfg.Scrape.PageDelay = 3 * time.Second
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "saved", loaded.Download.Directory)
	assert.Equal(t, 3*time.Second, loaded.Scrape.PageDelay)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":       "./out",
		"proxy":        "http://proxy:3128",
		"engine":       "Static",
		"concurrency":  4,
		"max-projects": 7,
		"scroll-delay": 3 * time.Second,
		"log-level":    "warn",
		"headful":      true,
	})

	assert.Equal(t, "./out", cfg.Download.Directory)
	assert.Equal(t, "http://proxy:3128", cfg.Network.Proxy)
	assert.Equal(t, EngineStatic, cfg.Browser.Engine)
	assert.Equal(t, 4, cfg.Download.Concurrency)
	assert.Equal(t, 7, cfg.Scrape.MaxProjects)
	assert.Equal(t, 3*time.Second, cfg.Scrape.ScrollDelay)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Browser.Headless)
}

func TestMergeCommandLineFlagsKeepsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]interface{}
		check func(t *testing.T, c *Config)
	}{
		{"zero max projects", map[string]interface{}{"max-projects": 0}, func(t *testing.T, c *Config) {
			assert.Equal(t, 0, c.Scrape.MaxProjects)
		}},
		{"zero scroll delay", map[string]interface{}{"scroll-delay": time.Duration(0)}, func(t *testing.T, c *Config) {
			assert.Equal(t, time.Duration(0), c.Scrape.ScrollDelay)
		}},
		{"negative concurrency", map[string]interface{}{"concurrency": -3}, func(t *testing.T, c *Config) {
			assert.Equal(t, -3, c.Download.Concurrency)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MergeCommandLineFlags(tt.flags)
			tt.check(t, cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestMergeCommandLineFlagsExplicitZeroConcurrency(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Download.Concurrency = 6
	cfg.MergeCommandLineFlags(map[string]interface{}{"concurrency": 0})

	assert.Equal(t, 0, cfg.Download.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsInvalidFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scrape:\n  max_projects: 20\n"), 0644))

	_, err := Load(path, map[string]interface{}{"max-projects": 0})
	assert.ErrorContains(t, err, "configuration validation failed")

	_, err = Load(path, map[string]interface{}{"scroll-delay": time.Duration(0)})
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  directory: from-file\n"), 0644))

	t.Setenv("HOME", dir)
	t.Setenv("BEHANCE_LOG_LEVEL", "error")

	cfg, err := Load(path, map[string]interface{}{"max-projects": 3})
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Download.Directory)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, 3, cfg.Scrape.MaxProjects)

	_, err = Load(path, map[string]interface{}{"engine": "netscape"})
	assert.Error(t, err)
}
