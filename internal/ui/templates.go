package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

var templates = mustParseTemplates()

var funcMap = template.FuncMap{
	// formatDate renders an epoch-milliseconds date the way the portal
	// displays it.
	"formatDate": func(millis int64) string {
		return time.UnixMilli(millis).UTC().Format("02.01.2006")
	},
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	// hourOffset converts a grid hour label into its vertical pixel offset.
	"hourOffset": func(hour int) int {
		return (hour - 7) * 60
	},
}

func mustParseTemplates() map[string]*template.Template {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		panic(err)
	}

	base := template.Must(template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html"))

	sets := make(map[string]*template.Template)
	for _, file := range files {
		if file == "templates/base.html" {
			continue
		}

		set := template.Must(base.Clone())
		template.Must(set.ParseFS(templateFS, file))
		sets[file[len("templates/"):]] = set
	}

	return sets
}
