package sopview

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

type TextOptions struct {
	// empty selects DefaultTab
	Tab string
	// renders every tab in order instead of a single one
	All bool
}

func writeHeader(w io.Writer, p Page) error {
	_, err := fmt.Fprintf(
		w, "%s\nLast Updated @ %s\nTotal Records %d\n\n",
		Title, p.LastUpdated, p.Count,
	)
	return err
}

func tabBar(p Page, selected string) string {
	labels := []string{}
	for _, tab := range p.Tabs() {
		if tab.Value == selected {
			labels = append(labels, "["+tab.Label+"]")
			continue
		}
		labels = append(labels, " "+tab.Label+" ")
	}
	return strings.Join(labels, " ")
}

// RenderText writes the page for a terminal.
func RenderText(w io.Writer, p Page, opts TextOptions) error {
	switch p.State {
	case Loading:
		_, err := fmt.Fprintln(w, LoadingText)
		return err
	case Empty:
		_, err := fmt.Fprintln(w, NoDataText)
		return err
	}

	selected := opts.Tab
	if selected == "" {
		selected = p.DefaultTab()
	}
	if !p.HasTab(selected) {
		return fmt.Errorf("no tab named %q", selected)
	}

	err := writeHeader(w, p)
	if err != nil {
		return err
	}

	tabs := []string{selected}
	if opts.All {
		tabs = tabs[:0]
		for _, tab := range p.Tabs() {
			tabs = append(tabs, tab.Value)
		}
	} else {
		_, err = fmt.Fprintf(w, "%s\n\n", tabBar(p, selected))
		if err != nil {
			return err
		}
	}

	for _, value := range tabs {
		t, err := p.TabTable(value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n\n", t.Render())
		if err != nil {
			return err
		}
	}
	return nil
}

type htmlTab struct {
	Tab
	Active bool
}

type htmlPage struct {
	Title       string
	Message     string
	LastUpdated string
	Count       int
	Tabs        []htmlTab
	Caption     string
	Table       template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; padding: 1rem; }
nav a { margin-right: .5rem; padding: .25rem .5rem; border: 1px solid #ccc; text-decoration: none; }
nav a.active { background: #222; color: #fff; }
table.sop-table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
table.sop-table td, table.sop-table th { border: 1px solid #ddd; padding: .25rem .5rem; }
</style>
</head>
<body>
{{if .Message}}<p class="message">{{.Message}}</p>{{else}}
<h1>{{.Title}} based on data from <a href="https://www.stabroeknews.com/2025/09/02/news/guyana/guyana-elections-results-2025-statements-of-poll/">Stabroek News</a> by <a class="author" href="https://github.com/Sa-YoorHeadley/">Sa-Yoor Headley</a></h1>
<h2>Last Updated @ <span class="last-updated">{{.LastUpdated}}</span></h2>
<h3 class="count">Total Records {{.Count}}</h3>
<nav>{{range .Tabs}}<a href="?tab={{.Value}}" data-tab="{{.Value}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>{{end}}</nav>
<section id="tab-content"><h4 class="caption">{{.Caption}}</h4>{{.Table}}</section>
<small>This app is still in development and is subject to change</small>
{{end}}
</body>
</html>
`))

// RenderHTML writes the page with the tab named by selected open. An empty
// or unknown selection falls back to DefaultTab.
func RenderHTML(w io.Writer, p Page, selected string) error {
	data := htmlPage{Title: Title}
	switch p.State {
	case Loading:
		data.Message = LoadingText
		return pageTemplate.Execute(w, data)
	case Empty:
		data.Message = NoDataText
		return pageTemplate.Execute(w, data)
	}

	if selected == "" || !p.HasTab(selected) {
		selected = p.DefaultTab()
	}
	t, err := p.TabTable(selected)
	if err != nil {
		return err
	}

	data.LastUpdated = p.LastUpdated
	data.Count = p.Count
	// go-pretty does not escape titles, the caption goes through the template instead
	t.SetTitle("")
	data.Caption = p.TabTitle(selected)
	data.Table = template.HTML(t.RenderHTML())
	for _, tab := range p.Tabs() {
		data.Tabs = append(data.Tabs, htmlTab{Tab: tab, Active: tab.Value == selected})
	}
	return pageTemplate.Execute(w, data)
}
