// Package sopview turns a loaded feed into the tabbed page shown to users.
package sopview

import (
	"context"
	"log/slog"
	"time"

	"sopaggregator/lib/sop"
	"sopaggregator/lib/sopfeed"
)

const (
	Title         = "Guyana 2025 Elections - SOP Aggregator"
	LoadingText   = "Loading..."
	NoDataText    = "No SOP data available."
	TotalTabValue = "total"
)

type LoadState int

const (
	Loading LoadState = iota
	Loaded
	// Empty covers both a failed load and a feed without records.
	Empty
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	}
	return "unknown"
}

type Fetcher interface {
	Fetch(ctx context.Context) (sopfeed.Feed, error)
}

type Tab struct {
	Value string
	Label string
}

// Page is the terminal state of a single page load. The zero value is a
// page that is still loading.
type Page struct {
	State       LoadState
	LastUpdated string
	Count       int
	Report      sop.Report
}

// Load fetches the feed exactly once. Any failure is logged and collapsed
// into the Empty state.
func Load(ctx context.Context, fetcher Fetcher, loc *time.Location) Page {
	feed, err := fetcher.Fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load sops", "err", err)
		return Page{State: Empty}
	}

	page := Page{
		State:       Loaded,
		LastUpdated: FormatTimestamp(ctx, feed.LastUpdated, loc),
		Count:       feed.Count,
		Report:      sop.Aggregate(feed.Sops),
	}
	if len(feed.Sops) == 0 {
		page.State = Empty
	}
	return page
}

// Tabs lists one tab per region in encounter order followed by the total.
func (p Page) Tabs() []Tab {
	tabs := make([]Tab, 0, len(p.Report.Regions)+1)
	for _, g := range p.Report.Regions {
		tabs = append(tabs, Tab{Value: g.Region, Label: "Region " + g.Region})
	}
	return append(tabs, Tab{Value: TotalTabValue, Label: "Total"})
}

// DefaultTab is the first region, or the total when there are no regions.
func (p Page) DefaultTab() string {
	if len(p.Report.Regions) == 0 {
		return TotalTabValue
	}
	return p.Report.Regions[0].Region
}

func (p Page) region(value string) (sop.RegionGroup, bool) {
	for _, g := range p.Report.Regions {
		if g.Region == value {
			return g, true
		}
	}
	return sop.RegionGroup{}, false
}

// HasTab reports whether value names one of the page's tabs.
func (p Page) HasTab(value string) bool {
	if value == TotalTabValue {
		return true
	}
	_, ok := p.region(value)
	return ok
}

const readableLayout = "January 2, 2006 at 3:04:05 PM"

type isoLayout struct {
	layout string
	// forms without an offset are read as local time in the display zone,
	// except date-only forms which ISO-8601 readers take as UTC
	local bool
}

var isoLayouts = []isoLayout{
	{layout: time.RFC3339},
	{layout: "2006-01-02T15:04:05Z0700"},
	{layout: "2006-01-02T15:04Z07:00"},
	{layout: "2006-01-02T15:04:05", local: true},
	{layout: "2006-01-02T15:04", local: true},
	{layout: "2006-01-02"},
}

func parseISO(iso string, loc *time.Location) (time.Time, error) {
	var firstErr error
	for _, l := range isoLayouts {
		var t time.Time
		var err error
		if l.local {
			t, err = time.ParseInLocation(l.layout, iso, loc)
		} else {
			t, err = time.Parse(l.layout, iso)
		}
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FormatTimestamp renders an ISO-8601 timestamp in long US form within
// loc. Timestamps that cannot be parsed are returned verbatim.
func FormatTimestamp(ctx context.Context, iso string, loc *time.Location) string {
	if iso == "" {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := parseISO(iso, loc)
	if err != nil {
		slog.WarnContext(ctx, "unparseable lastUpdated", "value", iso, "err", err)
		return iso
	}
	return t.In(loc).Format(readableLayout)
}
