package feed

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	feedTemplate = "feed"
	pageTemplate = "posts_page"

	displayLayout = "Jan 2, 2006 15:04 MST"
	unknownDate   = "unknown date"
)

var funcs = template.FuncMap{
	"isoTime":        func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"displayTime":    displayTime,
	"sentimentLabel": SentimentLabel,
}

var templates = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// Render writes the feed section for v.
func Render(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, feedTemplate, v)
}

// RenderPage writes a full HTML page wrapping the feed section.
func RenderPage(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, pageTemplate, v)
}

func displayTime(p PostView) string {
	if !p.TimestampValid {
		return unknownDate
	}
	return p.CreatedAt.UTC().Format(displayLayout)
}

// SentimentLabel renders the opaque sentiment value for display. Strings are
// shown as-is, objects by their "label" field, anything else via fmt.
func SentimentLabel(s any) string {
	switch v := s.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if label, ok := v["label"].(string); ok {
			return label
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}
