package web

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"unposted/internal/config"
	"unposted/internal/db"
	"unposted/internal/errors"
	"unposted/internal/journal"
	"unposted/internal/ops"
	"unposted/internal/process"
	"unposted/internal/speech"
)

// maxAudioBytes bounds an uploaded recording (~90s of audio fits comfortably).
const maxAudioBytes = 16 << 20

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	speech   *speech.Client
	gen      process.Generator
	renderer *Renderer
}

// HandleCapture handles GET /, the capture page.
func (h *Handlers) HandleCapture(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(journal.DateFormat)
	count, err := db.GetStreak(h.db, today)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "capture", CapturePageData{
		PageData: PageData{
			Title:   "Journal",
			Version: h.renderer.version,
			Nav:     "journal",
		},
		SpeechConfigured:   h.speech != nil,
		GenerateConfigured: h.gen != nil,
		TodayCount:         count,
	})
}

// HandleCreate handles POST /entries: audio upload through transcription,
// processing, and persistence. An empty transcript persists nothing and
// surfaces a "no speech detected" notice.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("audio upload required"))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("audio upload required"))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInternal(err))
		return
	}

	transcript, err := h.speech.Transcribe(r.Context(), audio, header.Header.Get("Content-Type"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.Record(r.Context(), h.db, h.gen, ops.RecordInput{Transcript: transcript})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "result", ResultPageData{
		PageData: PageData{
			Title:   "Saved",
			Version: h.renderer.version,
			Nav:     "journal",
		},
		Entry:          result.Entry,
		ReflectionHTML: renderMarkdown(result.Entry.Reflection),
		StreakCount:    result.StreakCount,
	})
}

// HandleList handles GET /entries, the 10 most recent entries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListEntries(h.db, ops.ListEntriesInput{
		Limit: parseIntParam(r, "limit", ops.DefaultEntriesLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "entries", h.renderer.entriesListData(out))
}

// HandleDetail handles GET /entries/{id}, a single entry view.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	entry, err := ops.Fetch(h.db, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   entry.Date + " — " + entry.Emotion,
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Entry:          entry,
		SummaryHTML:    renderMarkdown(entry.Summary),
		ReflectionHTML: renderMarkdown(entry.Reflection),
	})
}

// HandleExport handles GET /entries/{id}/reflection.txt, serving the
// reflection as plain text.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	entry, err := ops.Fetch(h.db, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "reflection-"+entry.Date+".txt"))
	_, _ = w.Write([]byte(entry.Reflection + "\n"))
}

// HandleStreaks handles GET /streaks: total journal days plus recent counts.
func (h *Handlers) HandleStreaks(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Streaks(h.db, ops.StreaksInput{
		Limit: parseIntParam(r, "limit", ops.DefaultStreaksLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "streaks", StreaksPageData{
		PageData: PageData{
			Title:   "Streak Tracker",
			Version: h.renderer.version,
			Nav:     "streaks",
		},
		TotalDays: out.TotalDays,
		Days:      out.Days,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
