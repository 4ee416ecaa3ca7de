// Package ops is the operation layer shared by the web, CLI, and MCP
// surfaces: validate input, run the processor, talk to the store.
package ops

// List limits for the two history views.
const (
	DefaultEntriesLimit = 10
	DefaultStreaksLimit = 30
	MaxListLimit        = 100
)

// clampLimit applies the default and upper bound to a requested limit.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
