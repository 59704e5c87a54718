package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-page-assistant/internal/db"
	"github.com/dtnitsch/llm-page-assistant/internal/serve"
	"github.com/dtnitsch/llm-page-assistant/internal/settings"
	"github.com/dtnitsch/llm-page-assistant/internal/tasks"
	"github.com/dtnitsch/llm-page-assistant/pkg/help"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "lpa",
		Usage:   "page-aware LLM assistant: outreach emails, SEO keywords and articles from any web page",
		Version: version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:   "quickstart",
				Usage:  "print a command cheat sheet",
				Action: func(c *cli.Context) error { fmt.Print(help.ColdstartYAML); return nil },
			},
			{
				Name:   "snapshot",
				Usage:  "extract the structured page snapshot",
				Flags:  pageFlags(true),
				Action: tasks.SnapshotAction,
			},
			{
				Name:   "email",
				Usage:  "generate a business development email for the page",
				Flags:  pageFlags(true),
				Action: tasks.EmailAction,
			},
			{
				Name:      "chat",
				Usage:     "send one chat message",
				ArgsUsage: "<message>",
				Action:    tasks.ChatAction,
			},
			{
				Name:   "keywords",
				Usage:  "extract SEO keywords from the page",
				Flags:  pageFlags(false),
				Action: tasks.KeywordsAction,
			},
			{
				Name:   "expand",
				Usage:  "suggest related keywords",
				Flags:  append(pageFlags(false), keywordsFlag(true)),
				Action: tasks.ExpandAction,
			},
			{
				Name:   "article",
				Usage:  "write an SEO article (keywords are extracted first when none are given)",
				Flags:  append(pageFlags(true), keywordsFlag(false)),
				Action: tasks.ArticleAction,
			},
			{
				Name:  "settings",
				Usage: "show or change the model endpoint settings",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print the stored settings (API key masked)",
						Action: settings.ShowAction,
					},
					{
						Name:   "set",
						Usage:  "update settings; apiKey, baseUrl and modelName must end up non-empty",
						Flags:  settings.Flags(),
						Action: settings.SetAction,
					},
					{
						Name:      "get",
						Usage:     "print one stored setting",
						ArgsUsage: "<key>",
						Action:    settings.GetAction,
					},
					{
						Name:      "put",
						Usage:     "write one setting, e.g. 'put articleLength 800'",
						ArgsUsage: "<key> <value>",
						Action:    settings.PutAction,
					},
				},
			},
			{
				Name:  "runs",
				Usage: "list dispatch history",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum rows (0 = all)"},
					&cli.StringFlag{Name: "kind", Usage: "only runs of this task kind"},
					&cli.BoolFlag{Name: "failed", Usage: "only failed runs"},
					&cli.Int64Flag{Name: "url-id", Usage: "only runs for this page (url_id from the run list)"},
					&cli.BoolFlag{Name: "table", Usage: "print a table instead of YAML/JSON"},
					&cli.DurationFlag{Name: "prune", Usage: "delete runs older than this (e.g. 720h) and exit"},
				},
				Action: db.RunsAction,
			},
			{
				Name:  "serve",
				Usage: "serve the message protocol over HTTP for the browser extension",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address (default from LPA_HTTP_ADDR)"},
					&cli.StringSliceFlag{Name: "allow-origin", Usage: "CORS origin, may repeat (default from LPA_ALLOWED_ORIGINS)"},
				},
				Action: serve.ServeAction,
			},
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"LPA_CONFIG"}},
		&cli.StringFlag{Name: "db", Usage: "SQLite database path (default: next to the binary)"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "yaml", Usage: "output format: yaml or json"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors, no status lines"},
		&cli.StringFlag{Name: "chrome-path", Usage: "Chrome binary for --render"},
		&cli.BoolFlag{Name: "detect-language", Usage: "guess the page language statistically when the markup does not say"},
		&cli.BoolFlag{Name: "readability", Usage: "use readability when no main/article/.content region exists"},
	}
}

func pageFlags(withOut bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "page URL"},
		&cli.StringFlag{Name: "html-file", Usage: "read page HTML from a file instead of fetching"},
		&cli.BoolFlag{Name: "render", Usage: "render the page in headless Chrome before extracting"},
	}
	if withOut {
		flags = append(flags, &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "also save the output to this file or directory"})
	}
	return flags
}

func keywordsFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "keywords",
		Aliases:  []string{"k"},
		Usage:    "comma separated keywords",
		Required: required,
	}
}
