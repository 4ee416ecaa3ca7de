package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"unposted/internal/errors"
	"unposted/internal/journal"
	"unposted/internal/ops"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
	Nav     string // active nav item: "journal", "entries", "streaks"
}

// CapturePageData is the template data for the capture/processing page.
type CapturePageData struct {
	PageData
	SpeechConfigured   bool
	GenerateConfigured bool
	TodayCount         int
}

// ResultPageData is the template data for a freshly processed entry.
type ResultPageData struct {
	PageData
	Entry          journal.Entry
	ReflectionHTML template.HTML
	StreakCount    int
}

// ListPageData is the template data for the past-entries page.
type ListPageData struct {
	PageData
	Items []journal.EntrySummary
}

// DetailPageData is the template data for the entry detail page.
type DetailPageData struct {
	PageData
	Entry          *journal.Entry
	SummaryHTML    template.HTML
	ReflectionHTML template.HTML
}

// StreaksPageData is the template data for the streak tracker page.
type StreaksPageData struct {
	PageData
	TotalDays int
	Days      []journal.StreakDay
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
		"formatDate": formatDate,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"capture": "capture.html",
		"result":  "result.html",
		"entries": "entries.html",
		"detail":  "detail.html",
		"streaks": "streaks.html",
		"error":   "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data and HTTP 200 status.
func (r *Renderer) renderPage(w http.ResponseWriter, req *http.Request, name string, data any) {
	r.renderPageStatus(w, req, http.StatusOK, name, data)
}

// renderPageStatus renders a named page template with the given data and HTTP
// status code. For HX requests only the "content" block is rendered, so the
// capture page can swap the result card in place.
func (r *Renderer) renderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if req != nil && req.Header.Get("HX-Request") == "true" {
		block = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var jErr *errors.JournalError
	if !stderrors.As(err, &jErr) {
		jErr = errors.NewInternal(err)
	}

	status := jErr.Status
	message := jErr.Message

	// HX request: return an HTML fragment for in-place swap
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprintf(w, `<div class="notice notice-error">%s</div>`, template.HTMLEscapeString(message))
		return
	}

	// JSON request
	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    string(jErr.Code),
				"message": message,
				"status":  status,
			},
		})
		return
	}

	// Full error page
	r.renderPageStatus(w, req, status, "error", ErrorPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("Error %d", status),
			Version: r.version,
		},
		StatusCode: status,
		Message:    message,
	})
}

// renderMarkdown converts markdown text to HTML using goldmark.
// Generated summaries and reflections are markdown-ish; fallback text renders
// fine as plain paragraphs and bullet lists.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// entriesListData builds ListPageData from an ops result.
func (r *Renderer) entriesListData(out *ops.ListEntriesOutput) ListPageData {
	return ListPageData{
		PageData: PageData{
			Title:   "Past Entries",
			Version: r.version,
			Nav:     "entries",
		},
		Items: out.Items,
	}
}

// formatTime formats a Unix timestamp as "2006-01-02 15:04" UTC.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04")
}

// formatDate formats a YYYY-MM-DD date as "Jan 2, 2006".
func formatDate(date string) string {
	t, err := time.Parse(journal.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}
