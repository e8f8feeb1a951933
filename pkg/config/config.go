package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Behance scraper
type Config struct {
	// Site markup and URL contract
	Site SiteConfig `yaml:"site" json:"site"`

	// Page renderer settings
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// HTTP fetcher settings
	Network NetworkConfig `yaml:"network" json:"network"`

	// Discovery and extraction pacing
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SiteConfig holds the site-specific surface: URLs and CSS selectors.
// Selectors follow live site markup and are expected to need periodic updates.
type SiteConfig struct {
	BaseURL           string `yaml:"base_url" json:"base_url"`
	SearchURLTemplate string `yaml:"search_url_template" json:"search_url_template"`
	ProjectSelector   string `yaml:"project_selector" json:"project_selector"`
	ImageSelector     string `yaml:"image_selector" json:"image_selector"`
	TitlePrefix       string `yaml:"title_prefix" json:"title_prefix"`
}

// BrowserConfig holds renderer configuration
type BrowserConfig struct {
	Engine            string        `yaml:"engine" json:"engine"`
	Headless          bool          `yaml:"headless" json:"headless"`
	ViewportWidth     int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height" json:"viewport_height"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout"`
	ExecPath          string        `yaml:"exec_path" json:"exec_path"`
}

// NetworkConfig holds HTTP fetcher configuration
type NetworkConfig struct {
	Proxy      string        `yaml:"proxy" json:"proxy"`
	UserAgents []string      `yaml:"user_agents" json:"user_agents"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// ScrapeConfig holds discovery and extraction configuration
type ScrapeConfig struct {
	MaxProjects   int           `yaml:"max_projects" json:"max_projects"`
	ScrollDelay   time.Duration `yaml:"scroll_delay" json:"scroll_delay"`
	ScrollRetries int           `yaml:"scroll_retries" json:"scroll_retries"`
	PageDelay     time.Duration `yaml:"page_delay" json:"page_delay"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Directory   string `yaml:"directory" json:"directory"`
	Concurrency int    `yaml:"concurrency" json:"concurrency"`
	FileNaming  string `yaml:"file_naming" json:"file_naming"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	Directory string `yaml:"directory" json:"directory"`
	Console   bool   `yaml:"console" json:"console"`
}

const (
	EngineChrome = "chrome"
	EngineStatic = "static"

	FileNamingOverwrite = "overwrite"
	FileNamingHash      = "hash"
)

// DefaultUserAgents is the user-agent pool drawn from for every image request
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/535.1 (KHTML, like Gecko) Chrome/14.0.835.163 Safari/535.1",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/73.0.3683.103 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_7_0) AppleWebKit/535.11 (KHTML, like Gecko) Chrome/17.0.963.56 Safari/535.11",
	"Mozilla/5.0 (Windows NT 6.1; WOW64; rv:6.0) Gecko/20100101 Firefox/6.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.6; rv:2.0.1) Gecko/20100101 Firefox/4.0.1",
	"Mozilla/5.0 (Windows; U; Windows NT 6.1; en-us) AppleWebKit/534.50 (KHTML, like Gecko) Version/5.1 Safari/534.50",
	"Opera/9.80 (Windows NT 6.1; U; en) Presto/2.8.131 Version/11.11",
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:           "https://www.behance.net",
			SearchURLTemplate: "https://www.behance.net/search/projects/%s?tracking_source=typeahead_nav_recent_suggestion",
			ProjectSelector:   "a.ProjectCoverNeue-coverLink-U39",
			ImageSelector:     "img.ImageElement-image-SRv",
			TitlePrefix:       "项目的链接 - ",
		},
		Browser: BrowserConfig{
			Engine:            EngineChrome,
			Headless:          true,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			NavigationTimeout: 60 * time.Second,
		},
		Network: NetworkConfig{
			UserAgents: append([]string(nil), DefaultUserAgents...),
			Timeout:    10 * time.Second,
			MaxRetries: 4,
			RetryDelay: 2 * time.Second,
		},
		Scrape: ScrapeConfig{
			MaxProjects:   10,
			ScrollDelay:   1500 * time.Millisecond,
			ScrollRetries: 5,
			PageDelay:     2 * time.Second,
		},
		Download: DownloadConfig{
			Directory:   "old",
			Concurrency: 0, // one task per image
			FileNaming:  FileNamingOverwrite,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Directory: "logs",
			Console:   true,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if proxy := os.Getenv("BEHANCE_PROXY"); proxy != "" {
		c.Network.Proxy = proxy
	}
	if agents := os.Getenv("BEHANCE_USER_AGENTS"); agents != "" {
		var pool []string
		for _, ua := range strings.Split(agents, "|") {
			if ua = strings.TrimSpace(ua); ua != "" {
				pool = append(pool, ua)
			}
		}
		if len(pool) > 0 {
			c.Network.UserAgents = pool
		}
	}
	if outputDir := os.Getenv("BEHANCE_DOWNLOAD_DIR"); outputDir != "" {
		c.Download.Directory = outputDir
	}
	if logDir := os.Getenv("BEHANCE_LOG_DIR"); logDir != "" {
		c.Logging.Directory = logDir
	}
	if logLevel := os.Getenv("BEHANCE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if tmpl := os.Getenv("BEHANCE_SEARCH_URL_TEMPLATE"); tmpl != "" {
		c.Site.SearchURLTemplate = tmpl
	}
	if engine := os.Getenv("BEHANCE_BROWSER_ENGINE"); engine != "" {
		c.Browser.Engine = strings.ToLower(engine)
	}
	if execPath := os.Getenv("BEHANCE_CHROME_PATH"); execPath != "" {
		c.Browser.ExecPath = execPath
	}
	if v := os.Getenv("BEHANCE_MAX_PROJECTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BEHANCE_MAX_PROJECTS %q: %w", v, err)
		}
		c.Scrape.MaxProjects = n
	}
	if v := os.Getenv("BEHANCE_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BEHANCE_CONCURRENCY %q: %w", v, err)
		}
		c.Download.Concurrency = n
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".behancescraper.yaml",
		".behancescraper.yml",
		filepath.Join(home, ".config", "behancescraper", "config.yaml"),
		filepath.Join(home, ".config", "behancescraper", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Site
	if _, err := url.ParseRequestURI(c.Site.BaseURL); err != nil || c.Site.BaseURL == "" {
		errs = append(errs, errors.New("site base URL must be an absolute URL"))
	}
	if strings.Count(c.Site.SearchURLTemplate, "%s") != 1 {
		errs = append(errs, errors.New("search URL template must contain exactly one %s placeholder"))
	}
	if c.Site.ProjectSelector == "" {
		errs = append(errs, errors.New("project selector is required"))
	}
	if c.Site.ImageSelector == "" {
		errs = append(errs, errors.New("image selector is required"))
	}

	// Browser
	switch c.Browser.Engine {
	case EngineChrome, EngineStatic:
	default:
		errs = append(errs, fmt.Errorf("unknown browser engine %q", c.Browser.Engine))
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		errs = append(errs, errors.New("viewport dimensions must be positive"))
	}
	if c.Browser.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation timeout must be positive"))
	}

	// Network
	if c.Network.Proxy != "" {
		if u, err := url.Parse(c.Network.Proxy); err != nil || u.Host == "" {
			errs = append(errs, fmt.Errorf("invalid proxy address %q", c.Network.Proxy))
		}
	}
	if len(c.Network.UserAgents) == 0 {
		errs = append(errs, errors.New("at least one user agent is required"))
	}
	if c.Network.Timeout <= 0 {
		errs = append(errs, errors.New("network timeout must be positive"))
	}
	if c.Network.MaxRetries < 1 {
		errs = append(errs, errors.New("max retries must be at least 1"))
	}
	if c.Network.RetryDelay < 0 {
		errs = append(errs, errors.New("retry delay cannot be negative"))
	}

	// Scrape
	if c.Scrape.MaxProjects < 1 {
		errs = append(errs, errors.New("max projects must be at least 1"))
	}
	if c.Scrape.ScrollDelay <= 0 {
		errs = append(errs, errors.New("scroll delay must be positive"))
	}
	if c.Scrape.ScrollRetries < 0 {
		errs = append(errs, errors.New("scroll retries cannot be negative"))
	}
	if c.Scrape.PageDelay < 0 {
		errs = append(errs, errors.New("page delay cannot be negative"))
	}

	// Download
	if c.Download.Directory == "" {
		errs = append(errs, errors.New("download directory is required"))
	}
	if c.Download.Concurrency < 0 {
		errs = append(errs, errors.New("download concurrency cannot be negative"))
	}
	switch c.Download.FileNaming {
	case FileNamingOverwrite, FileNamingHash:
	default:
		errs = append(errs, fmt.Errorf("unknown file naming strategy %q", c.Download.FileNaming))
	}

	// Logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Numeric flags present in the map are applied as given, so an out-of-range
// value is reported by Validate instead of falling back to the default.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Download.Directory = outputDir
	}
	if proxy, ok := flags["proxy"].(string); ok && proxy != "" {
		c.Network.Proxy = proxy
	}
	if engine, ok := flags["engine"].(string); ok && engine != "" {
		c.Browser.Engine = strings.ToLower(engine)
	}
	if concurrency, ok := flags["concurrency"].(int); ok {
		c.Download.Concurrency = concurrency
	}
	if maxProjects, ok := flags["max-projects"].(int); ok {
		c.Scrape.MaxProjects = maxProjects
	}
	if scrollDelay, ok := flags["scroll-delay"].(time.Duration); ok {
		c.Scrape.ScrollDelay = scrollDelay
	}
	if naming, ok := flags["file-naming"].(string); ok && naming != "" {
		c.Download.FileNaming = naming
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if headful, ok := flags["headful"].(bool); ok && headful {
		c.Browser.Headless = false
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".behancescraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
