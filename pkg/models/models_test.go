package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunParamsValidate(t *testing.T) {
	valid := RunParams{Keyword: "jetour", MaxProjects: 10, ScrollDelay: 1500 * time.Millisecond}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		params RunParams
	}{
		{"blank keyword", RunParams{Keyword: "  ", MaxProjects: 1, ScrollDelay: time.Second}},
		{"zero max", RunParams{Keyword: "car", MaxProjects: 0, ScrollDelay: time.Second}},
		{"zero delay", RunParams{Keyword: "car", MaxProjects: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.params.Validate())
		})
	}
}

func TestFormatSummary(t *testing.T) {
	projects := []Project{
		{Title: "A", URL: "https://www.behance.net/gallery/1/a"},
		{Title: "B", URL: "https://www.behance.net/gallery/2/b"},
	}

	want := "Results:\n" +
		"1. A\n   https://www.behance.net/gallery/1/a\n" +
		"2. B\n   https://www.behance.net/gallery/2/b\n"
	assert.Equal(t, want, FormatSummary(projects))
	assert.Equal(t, "Results:\n", FormatSummary(nil))
}

func TestCompletionMessage(t *testing.T) {
	r := &RunResult{
		Projects:   []Project{{Title: "A"}, {Title: "B"}},
		ImageCount: 7,
		Elapsed:    12340 * time.Millisecond,
	}
	assert.Equal(t, "Task complete! 2 projects, 7 images, took 12.34s", r.CompletionMessage())
}
