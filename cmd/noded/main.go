package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/azsu/crossfwd/internal/config"
	"github.com/azsu/crossfwd/internal/engine"
	"github.com/azsu/crossfwd/internal/identity"
	"github.com/azsu/crossfwd/internal/logging"
	"github.com/azsu/crossfwd/internal/node"
)

func main() {
	configPath := flag.String("config", "", "path to noded TOML config")
	flag.Parse()

	if err := run(*configPath); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "noded: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadNodeConfig(configPath)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Name)

	agent := node.NewAgent(log, node.Config{
		HubURL:  cfg.HubURL,
		Name:    cfg.Name,
		Channel: cfg.Channel,
		Backoff: node.DefaultBackoff(),
	}, identity.NewMemoryDirectory(), engine.NewExecEngine(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return agent.Run(ctx)
}
