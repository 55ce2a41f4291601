package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/azsu/crossfwd/internal/config"
	"github.com/azsu/crossfwd/internal/engine"
	"github.com/azsu/crossfwd/internal/hub"
	"github.com/azsu/crossfwd/internal/identity"
	"github.com/azsu/crossfwd/internal/logging"
	"github.com/azsu/crossfwd/internal/router"
	"github.com/azsu/crossfwd/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to routerd TOML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "routerd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadRouterConfig(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Name)

	h := hub.New(log, cfg.Channel)
	directory := identity.NewMemoryDirectory()
	eng := engine.NewExecEngine(log)
	rt := router.New(log, cfg.Channel, h, h, directory, eng)
	h.SetSink(rt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(log, cfg, h, rt).Run(ctx)
}
