package db

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-page-assistant/models"
	dbpkg "github.com/dtnitsch/llm-page-assistant/pkg/db"
)

func TestParseKind(t *testing.T) {
	got, err := ParseKind("GenerateEmail")
	if err != nil {
		t.Fatalf("ParseKind() error = %v", err)
	}
	if got != models.KindGenerateEmail {
		t.Errorf("ParseKind() = %q, want %q", got, models.KindGenerateEmail)
	}

	if _, err := ParseKind("summarize"); err == nil {
		t.Error("ParseKind() expected error for unknown kind")
	}
}

func TestRunsAction_URLID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lpa.db")
	database, err := dbpkg.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	ctx := context.Background()
	if err := database.RecordRun(ctx, models.RunRecord{Kind: models.KindGenerateEmail, URL: "https://acme.example", Success: true}); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	urlID, err := database.InsertURL(ctx, "https://acme.example")
	if err != nil {
		t.Fatalf("InsertURL() error = %v", err)
	}
	if err := database.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	app := &cli.App{
		Name: "lpa",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db"},
			&cli.StringFlag{Name: "format", Value: "yaml"},
			&cli.BoolFlag{Name: "quiet"},
		},
		Commands: []*cli.Command{{
			Name: "runs",
			Flags: []cli.Flag{
				&cli.Int64Flag{Name: "url-id"},
				&cli.BoolFlag{Name: "table"},
			},
			Action: RunsAction,
		}},
	}

	id := func(n int64) string { return strconv.FormatInt(n, 10) }
	if err := app.Run([]string{"lpa", "--db", dbPath, "--quiet", "runs", "--url-id", id(urlID)}); err != nil {
		t.Errorf("runs --url-id %d error = %v", urlID, err)
	}
	if err := app.Run([]string{"lpa", "--db", dbPath, "--quiet", "runs", "--table", "--url-id", id(urlID)}); err != nil {
		t.Errorf("runs --table --url-id %d error = %v", urlID, err)
	}
	if err := app.Run([]string{"lpa", "--db", dbPath, "--quiet", "runs", "--url-id", id(urlID + 100)}); err == nil {
		t.Error("runs --url-id expected error for unknown url_id")
	}
}
