package ops

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"unposted/internal/errors"
)

// ExportInput contains parameters for the ExportReflection operation.
type ExportInput struct {
	ID  string
	Dir string // exports directory, normally <base>/exports
}

// ExportOutput contains the result of the ExportReflection operation.
type ExportOutput struct {
	Path string `json:"path"`
}

// ExportReflection writes an entry's reflection text to a plain-text file in
// the exports directory. The web UI serves the same text as a download
// instead of writing a file.
func ExportReflection(database *sql.DB, input ExportInput) (*ExportOutput, error) {
	entry, err := Fetch(database, FetchInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	if input.Dir == "" {
		return nil, errors.NewInvalidRequest("export directory is required")
	}
	if err := os.MkdirAll(input.Dir, 0700); err != nil {
		return nil, errors.NewInternal(err)
	}

	path := filepath.Join(input.Dir, fmt.Sprintf("%s-reflection.txt", entry.ID))
	if err := os.WriteFile(path, []byte(entry.Reflection+"\n"), 0600); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ExportOutput{Path: path}, nil
}
