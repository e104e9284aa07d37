package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address (defaults to server.addr from the config file)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.Server.Addr
	}

	opts := server.Options{
		Tracker: ctx.Tracker,
		Engine:  ctx.Engine,
		Logger:  logger.Named("server"),
	}
	// A nil *ai.Client must not become a non-nil interface.
	if ctx.AI != nil {
		opts.Analyzer = ctx.AI
	}
	srv := server.New(opts)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Printf("Serving matic API on http://%s\n", addr)
	return srv.ListenAndServe(sigCtx, addr)
}
