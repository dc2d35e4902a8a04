// Package pageinfo builds the static page-load data served to the front end.
// The data is captured once at startup and never reads the user store.
package pageinfo

import (
	"time"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultTitle       = "User Management System"
	DefaultDescription = "A simple user management application"
	DefaultVersion     = "1.0.0"
)

// DefaultFeatures lists the features advertised on the landing page.
var DefaultFeatures = []string{
	"Create new users",
	"View existing users",
	"Form validation",
	"Responsive design",
	"Typed API",
}

// Options configures a Page.
type Options struct {
	Title       string
	Description string
	Version     string
	Features    []string
	// Now defaults to time.Now.
	Now func() time.Time
}

// AppConfig describes the application.
type AppConfig struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Version     string   `json:"version"`
	BuildTime   string   `json:"build_time"`
	Features    []string `json:"features"`
}

// InitialStats is the placeholder summary rendered before the client loads users.
type InitialStats struct {
	TotalUsers    int    `json:"total_users"`
	LastUpdated   string `json:"last_updated"`
	IsPrerendered bool   `json:"is_prerendered"`
}

// Meta holds document metadata for the requested page.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Canonical   string `json:"canonical"`
}

// PageData is the full payload returned by Load.
type PageData struct {
	AppConfig    AppConfig    `json:"app_config"`
	InitialStats InitialStats `json:"initial_stats"`
	Meta         Meta         `json:"meta"`
}

// Page holds prerendered page data.
type Page struct {
	config AppConfig
	stats  InitialStats
}

// New prerenders the page data, stamping the build time.
func New(opts Options) *Page {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	built := now().UTC().Format(time.RFC3339)

	features := opts.Features
	if len(features) == 0 {
		features = DefaultFeatures
	}

	return &Page{
		config: AppConfig{
			Title:       orDefault(opts.Title, DefaultTitle),
			Description: orDefault(opts.Description, DefaultDescription),
			Version:     orDefault(opts.Version, DefaultVersion),
			BuildTime:   built,
			Features:    append([]string(nil), features...),
		},
		stats: InitialStats{
			TotalUsers:    0,
			LastUpdated:   built,
			IsPrerendered: true,
		},
	}
}

// Load returns the page data for pathname. An empty pathname means "/".
func (p *Page) Load(pathname string) PageData {
	if pathname == "" {
		pathname = "/"
	}

	cfg := p.config
	cfg.Features = append([]string(nil), p.config.Features...)

	return PageData{
		AppConfig:    cfg,
		InitialStats: p.stats,
		Meta: Meta{
			Title:       cfg.Title,
			Description: cfg.Description,
			Canonical:   pathname,
		},
	}
}

// BuildTime returns the prerender timestamp.
func (p *Page) BuildTime() string {
	return p.config.BuildTime
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
