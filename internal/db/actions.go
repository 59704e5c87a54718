package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-page-assistant/internal/app"
	"github.com/dtnitsch/llm-page-assistant/models"
	dbpkg "github.com/dtnitsch/llm-page-assistant/pkg/db"
)

// RunsAction lists dispatch history, newest first.
func RunsAction(c *cli.Context) error {
	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	if c.IsSet("prune") {
		n, err := a.DB.PruneRuns(c.Context, c.Duration("prune"))
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d runs older than %s\n", n, c.Duration("prune"))
		return nil
	}

	filter := dbpkg.RunFilter{
		FailedOnly: c.Bool("failed"),
		Limit:      c.Int("limit"),
	}
	if k := c.String("kind"); k != "" {
		kind, err := ParseKind(k)
		if err != nil {
			return err
		}
		filter.Kind = kind
	}

	var pageURL string
	if c.IsSet("url-id") {
		filter.URLID = c.Int64("url-id")
		if pageURL, err = a.DB.GetURLByID(c.Context, filter.URLID); err != nil {
			return err
		}
	}

	runs, err := a.DB.ListRuns(c.Context, filter)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if !c.Bool("table") {
		if pageURL != "" {
			return a.Print(map[string]interface{}{"url": pageURL, "runs": runs})
		}
		return a.Print(runs)
	}

	if pageURL != "" {
		fmt.Printf("Runs for %s\n\n", pageURL)
	}
	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-16s %-8s %-8s %-22s %-40s\n",
		"ID", "Created", "Kind", "OK", "ms", "Error", "URL")
	fmt.Println(strings.Repeat("-", 124))

	for _, r := range runs {
		ok := "yes"
		if !r.Success {
			ok = "no"
		}
		fmt.Printf("%-6d %-20s %-16s %-8s %-8d %-22s %-40s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Kind,
			ok,
			r.DurationMS,
			r.ErrorType,
			r.URL,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}

// ParseKind validates a --kind value.
func ParseKind(s string) (models.TaskKind, error) {
	for _, k := range models.AllTaskKinds() {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	names := make([]string, 0, len(models.AllTaskKinds()))
	for _, k := range models.AllTaskKinds() {
		names = append(names, string(k))
	}
	return "", fmt.Errorf("unknown kind %q (valid: %s)", s, strings.Join(names, ", "))
}
