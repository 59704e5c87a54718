package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-page-assistant/internal/app"
	"github.com/dtnitsch/llm-page-assistant/internal/common"
	"github.com/dtnitsch/llm-page-assistant/models"
	"github.com/dtnitsch/llm-page-assistant/pkg/dispatcher"
	"github.com/dtnitsch/llm-page-assistant/pkg/session"
)

// SnapshotAction prints the page snapshot the other commands would send.
func SnapshotAction(c *cli.Context) error {
	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := PageRequest(c, a)
	if err != nil {
		return err
	}
	snap, err := a.Source.Snapshot(c.Context, req)
	if err != nil {
		// still print what we have; an unreadable page is the empty snapshot
		a.Logger.Warn("page snapshot failed", "url", req.URL, "error", err)
	}

	if err := saveOutput(c, a, snap.URL, "snapshot", "json", []byte(snap.JSON())); err != nil {
		return err
	}
	return a.Print(snap)
}

// EmailAction generates the outreach email (two languages for non-English pages).
func EmailAction(c *cli.Context) error {
	return withSession(c, true, func(ctx context.Context, a *app.App, s *session.Session) error {
		emails, err := s.GenerateEmail(ctx)
		if err != nil {
			return err
		}

		text := emails.English
		if emails.Other != "" {
			text += "\n\n---\n\n" + emails.Other
		}
		snap, _ := s.Snapshot()
		if err := saveOutput(c, a, snap.URL, string(models.KindGenerateEmail), "txt", []byte(text+"\n")); err != nil {
			return err
		}
		return a.Print(emails)
	})
}

// ChatAction sends one message and prints the reply.
func ChatAction(c *cli.Context) error {
	message := strings.Join(c.Args().Slice(), " ")
	return withSession(c, false, func(ctx context.Context, a *app.App, s *session.Session) error {
		reply, err := s.SendChat(ctx, message)
		if err != nil {
			if errors.Is(err, session.ErrEmptyMessage) {
				return fmt.Errorf("usage: lpa chat <message>")
			}
			return err
		}
		return a.Print(map[string]interface{}{"reply": reply})
	})
}

// KeywordsAction extracts SEO keywords from the page.
func KeywordsAction(c *cli.Context) error {
	return withSession(c, true, func(ctx context.Context, a *app.App, s *session.Session) error {
		keywords, err := s.ExtractKeywords(ctx)
		if err != nil {
			return err
		}
		return a.Print(map[string]interface{}{"keywords": keywords})
	})
}

// ExpandAction adds related keywords to the ones given with --keywords.
func ExpandAction(c *cli.Context) error {
	return withSession(c, true, func(ctx context.Context, a *app.App, s *session.Session) error {
		for _, k := range dispatcher.ParseKeywordList(c.String("keywords")) {
			s.AddKeyword(k)
		}
		added, err := s.ExpandKeywords(ctx)
		if err != nil {
			return err
		}
		return a.Print(map[string]interface{}{
			"added":    added,
			"keywords": s.Keywords(),
		})
	})
}

// ArticleAction writes an SEO article. Without --keywords the keywords are
// extracted from the page first.
func ArticleAction(c *cli.Context) error {
	return withSession(c, true, func(ctx context.Context, a *app.App, s *session.Session) error {
		for _, k := range dispatcher.ParseKeywordList(c.String("keywords")) {
			s.AddKeyword(k)
		}
		if len(s.Keywords()) == 0 {
			if _, err := s.ExtractKeywords(ctx); err != nil {
				return err
			}
		}

		article, err := s.GenerateArticle(ctx)
		if err != nil {
			return err
		}
		snap, _ := s.Snapshot()
		if err := saveOutput(c, a, snap.URL, string(models.KindGenerateArticle), "md", []byte(article+"\n")); err != nil {
			return err
		}
		return a.Print(map[string]interface{}{
			"keywords": s.Keywords(),
			"article":  article,
		})
	})
}

// withSession opens the app and a session, loads the page when needed and
// reports task failures the same way for every command.
func withSession(c *cli.Context, needsPage bool, fn func(context.Context, *app.App, *session.Session) error) error {
	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	var notifier session.Notifier
	if !c.Bool("quiet") {
		notifier = common.NewConsoleNotifier(os.Stderr)
	}
	s := a.NewSession(notifier)

	if needsPage {
		req, err := PageRequest(c, a)
		if err != nil {
			return err
		}
		if _, err := s.Open(c.Context, a.Source, req); err != nil {
			return err
		}
	}

	if err := fn(c.Context, a, s); err != nil {
		return reportError(a, err)
	}
	return nil
}

// reportError prints a task failure as a structured reply and exits 1.
func reportError(a *app.App, err error) error {
	var te *session.TaskError
	if !errors.As(err, &te) {
		return err
	}
	if printErr := a.Print(models.NewErrorResponse(te.Info)); printErr != nil {
		return printErr
	}
	if te.Info.Type == string(dispatcher.ConfigurationMissing) {
		return cli.Exit("", 2)
	}
	return cli.Exit("", 1)
}

// PageRequest builds the extract request from --url, --html-file and --render.
func PageRequest(c *cli.Context, a *app.App) (models.ExtractRequest, error) {
	var req models.ExtractRequest

	if raw := c.String("url"); raw != "" {
		u, err := common.NormalizePageURL(raw)
		if err != nil {
			return req, err
		}
		req.URL = u
	}
	if path := c.String("html-file"); path != "" {
		data, err := a.Storage.ReadFile(path)
		if err != nil {
			return req, err
		}
		req.HTML = string(data)
	}
	if req.URL == "" && req.HTML == "" {
		return req, fmt.Errorf("one of --url or --html-file is required")
	}
	req.Render = c.Bool("render")
	return req, nil
}

func saveOutput(c *cli.Context, a *app.App, pageURL, kind, ext string, content []byte) error {
	out := c.String("out")
	if out == "" {
		return nil
	}
	path := a.Storage.ResolveOutputPath(out, pageURL, kind, ext, time.Now())
	if err := a.Storage.SaveFile(path, content); err != nil {
		return err
	}
	a.Logger.Info("output saved", "path", path)
	return nil
}
