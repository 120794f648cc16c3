package cfg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Site holds branding and listing parameters read from the site YAML file.
type Site struct {
	Label      string     `yaml:"label"`
	Tagline    string     `yaml:"tagline"`
	PageSize   int        `yaml:"page_size"`
	Pagination Pagination `yaml:"pagination"`
	Feed       FeedLimits `yaml:"feed"`
}

type Pagination struct {
	OnEachSide int `yaml:"on_each_side"`
	OnEnds     int `yaml:"on_ends"`
}

type FeedLimits struct {
	MaxItems int `yaml:"max_items"`
}

func DefaultSite() *Site {
	return &Site{
		Label:      "moodlehack",
		Tagline:    "Knowledge Base",
		PageSize:   24,
		Pagination: Pagination{OnEachSide: 2, OnEnds: 1},
		Feed:       FeedLimits{MaxItems: 50},
	}
}

// LoadSite reads path over the defaults. A missing file yields the defaults.
func LoadSite(path string) (*Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("Site config not found, using defaults", "path", path)
		return site, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	if err := yaml.Unmarshal(data, site); err != nil {
		return nil, fmt.Errorf("failed to parse site config %s: %w", path, err)
	}

	if err := site.validate(); err != nil {
		return nil, fmt.Errorf("invalid site config %s: %w", path, err)
	}

	slog.Debug("Site config loaded", "path", path, "label", site.Label, "page_size", site.PageSize)
	return site, nil
}

func (s *Site) validate() error {
	if s.Label == "" {
		return fmt.Errorf("label is required")
	}
	if s.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", s.PageSize)
	}
	if s.Pagination.OnEachSide < 0 || s.Pagination.OnEnds < 0 {
		return fmt.Errorf("pagination values must not be negative")
	}
	if s.Feed.MaxItems < 1 {
		return fmt.Errorf("feed.max_items must be positive, got %d", s.Feed.MaxItems)
	}
	return nil
}
