package mcp

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"unposted/internal/journal"
	"unposted/internal/ops"
)

var recordToolDef = mcp.NewTool("journal_record",
	mcp.WithDescription("Record a journal entry from transcript text. Detects the dominant emotion, summarizes the entry, writes three bullet reflections, and bumps the day's streak count."),
	mcp.WithString("transcript",
		mcp.Required(),
		mcp.Description("The journal entry text. Must contain at least one non-whitespace character."),
	),
	mcp.WithString("date",
		mcp.Description("Entry date as YYYY-MM-DD. Defaults to today."),
	),
)

var entriesToolDef = mcp.NewTool("journal_entries",
	mcp.WithDescription(fmt.Sprintf("List recent journal entries, newest first. Each item has id, date, emotion (%s), and summary.", strings.Join(journal.Labels, "/"))),
	mcp.WithNumber("limit",
		mcp.Description(fmt.Sprintf("Maximum entries to return (default %d, max %d).", ops.DefaultEntriesLimit, ops.MaxListLimit)),
	),
)

var entryToolDef = mcp.NewTool("journal_entry",
	mcp.WithDescription("Fetch a single journal entry by id, including the full transcription and reflections."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("The entry id (ULID)."),
	),
)

var streaksToolDef = mcp.NewTool("journal_streaks",
	mcp.WithDescription("Show the total number of journal days and per-day entry counts for recent days."),
	mcp.WithNumber("limit",
		mcp.Description(fmt.Sprintf("Maximum days to return (default %d, max %d).", ops.DefaultStreaksLimit, ops.MaxListLimit)),
	),
)
