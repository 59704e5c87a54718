package serve

import (
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/llm-page-assistant/internal/app"
	"github.com/dtnitsch/llm-page-assistant/pkg/router"
	"github.com/dtnitsch/llm-page-assistant/pkg/server"
)

// ServeAction runs the HTTP message endpoint until SIGINT/SIGTERM.
func ServeAction(c *cli.Context) error {
	a, err := app.FromContext(c)
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.Config.HTTPAddr
	if c.IsSet("addr") {
		addr = c.String("addr")
	}
	origins := a.Config.AllowedOrigins
	if c.IsSet("allow-origin") {
		origins = c.StringSlice("allow-origin")
	}

	r := router.New(a.Source, a.Dispatcher, a.Logger)
	srv := server.New(r, a.DB, server.Options{AllowedOrigins: origins}, a.Logger)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, addr)
}
