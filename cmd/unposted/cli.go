package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fernet/fernet-go"
	"github.com/urfave/cli/v2"

	"unposted/internal/config"
	"unposted/internal/errors"
	"unposted/internal/generate"
	"unposted/internal/ops"
	"unposted/internal/process"
	"unposted/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "unposted",
		Usage:   "Private audio journaling",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, cfg),
			recordCmd(db, cfg),
			entriesCmd(db),
			streaksCmd(db),
			exportCmd(db, baseDir),
			keygenCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}
			return web.Run(web.NewServer(db, cfg, Version))
		},
	}
}

// recordCmd creates the record command.
func recordCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "record",
		Usage: "Record a journal entry (reads transcript text from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Entry date as YYYY-MM-DD (defaults to today)"},
		},
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("transcript must be piped via stdin"))
			}

			transcript, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			var gen process.Generator
			if client := generate.NewClient(cfg.GroqKey, cfg.Model, cfg.RequestTimeout()); client != nil {
				gen = client
			}

			output, err := ops.Record(context.Background(), db, gen, ops.RecordInput{
				Transcript: transcript,
				Date:       c.String("date"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// entriesCmd creates the entries command.
func entriesCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "entries",
		Usage: "List recent journal entries",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultEntriesLimit, Usage: "Maximum entries to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListEntries(db, ops.ListEntriesInput{
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// streaksCmd creates the streaks command.
func streaksCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "streaks",
		Usage: "Show total journal days and recent daily counts",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultStreaksLimit, Usage: "Maximum days to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Streaks(db, ops.StreaksInput{
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export an entry's reflections to a text file",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "Output directory (default: <base>/exports)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("entry id is required"))
			}

			dir := c.String("dir")
			if dir == "" {
				dir = filepath.Join(baseDir, "exports")
			}

			output, err := ops.ExportReflection(db, ops.ExportInput{
				ID:  c.Args().First(),
				Dir: dir,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// keygenCmd creates the keygen command.
func keygenCmd() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Generate a fresh Fernet key for FERNET_KEY",
		Action: func(c *cli.Context) error {
			key := new(fernet.Key)
			if err := key.Generate(); err != nil {
				return outputError(errors.NewInternal(err))
			}
			fmt.Println(key.Encode())
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if jErr, ok := err.(*errors.JournalError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", jErr.Code, jErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
