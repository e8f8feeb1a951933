package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Project is a search result discovered on the listing page
type Project struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ImageReference is an image found on a project detail page
type ImageReference struct {
	SourceURL  string `json:"source_url"`
	ProjectURL string `json:"project_url"`
}

// DownloadOutcome is the result of one image download task
type DownloadOutcome struct {
	SourceURL  string        `json:"source_url"`
	ProjectURL string        `json:"project_url"`
	FileName   string        `json:"file_name"`
	Success    bool          `json:"success"`
	Err        error         `json:"-"`
	Size       int64         `json:"size"`
	Duration   time.Duration `json:"duration"`
}

// RunParams are the inputs of one scrape run
type RunParams struct {
	Keyword     string        `json:"keyword"`
	MaxProjects int           `json:"max_projects"`
	ScrollDelay time.Duration `json:"scroll_delay"`
}

// Validate checks the run parameters
func (p RunParams) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Keyword) == "" {
		errs = append(errs, errors.New("keyword is required"))
	}
	if p.MaxProjects < 1 {
		errs = append(errs, fmt.Errorf("max projects must be at least 1, got %d", p.MaxProjects))
	}
	if p.ScrollDelay <= 0 {
		errs = append(errs, fmt.Errorf("scroll delay must be positive, got %s", p.ScrollDelay))
	}
	return errors.Join(errs...)
}

// RunResult summarizes a completed run
type RunResult struct {
	Projects   []Project     `json:"projects"`
	ImageCount int           `json:"image_count"`
	Elapsed    time.Duration `json:"elapsed"`
}

// CompletionMessage is the final progress line of a successful run
func (r *RunResult) CompletionMessage() string {
	return fmt.Sprintf("Task complete! %d projects, %d images, took %.2fs",
		len(r.Projects), r.ImageCount, r.Elapsed.Seconds())
}

// FormatSummary renders the numbered result list:
//
//	Results:
//	1. <title>
//	   <url>
func FormatSummary(projects []Project) string {
	var b strings.Builder
	b.WriteString("Results:\n")
	for i, p := range projects {
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, p.Title, p.URL)
	}
	return b.String()
}
