package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"unposted/internal/config"
	"unposted/internal/errors"
	"unposted/internal/generate"
	"unposted/internal/ops"
	"unposted/internal/process"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
	gen process.Generator
}

// NewHandlers creates a new Handlers instance. The generation client is built
// from config; without a GROQ_API_KEY entries are processed fallback-only.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	var gen process.Generator
	if c := generate.NewClient(cfg.GroqKey, cfg.Model, cfg.RequestTimeout()); c != nil {
		gen = c
	}
	return &Handlers{db: db, cfg: cfg, gen: gen}
}

// Request types for each tool

// RecordRequest represents the arguments for journal_record.
type RecordRequest struct {
	Transcript string `json:"transcript"`
	Date       string `json:"date,omitempty"`
}

// EntriesRequest represents the arguments for journal_entries.
type EntriesRequest struct {
	Limit int `json:"limit,omitempty"`
}

// EntryRequest represents the arguments for journal_entry.
type EntryRequest struct {
	ID string `json:"id"`
}

// StreaksRequest represents the arguments for journal_streaks.
type StreaksRequest struct {
	Limit int `json:"limit,omitempty"`
}

// Handler implementations

// HandleRecord handles the journal_record tool call. It runs the same
// processor and persistence path as a web upload, minus transcription.
func (h *Handlers) HandleRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecordRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Record(ctx, h.db, h.gen, ops.RecordInput{
		Transcript: input.Transcript,
		Date:       input.Date,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEntries handles the journal_entries tool call.
func (h *Handlers) HandleEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EntriesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListEntries(h.db, ops.ListEntriesInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEntry handles the journal_entry tool call.
func (h *Handlers) HandleEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EntryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStreaks handles the journal_streaks tool call.
func (h *Handlers) HandleStreaks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StreaksRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Streaks(h.db, ops.StreaksInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if jErr, ok := err.(*errors.JournalError); ok {
		errorObj := map[string]any{
			"code":    jErr.Code,
			"message": jErr.Message,
			"status":  jErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if jErr.Code != errors.ErrInternal && jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
