package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/trailperks/trailperks-server/internal/app"
	"github.com/trailperks/trailperks-server/internal/config"
	"github.com/trailperks/trailperks-server/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	command := "serve"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	path := config.ResolveConfigPath(*configPath)
	cfg, errLoad := config.Load(path)
	if errLoad != nil {
		fmt.Fprintln(os.Stderr, errLoad)
		os.Exit(1)
	}
	logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var errRun error
	switch command {
	case "serve":
		errRun = app.RunServer(ctx, cfg)
	case "migrate":
		errRun = app.Migrate(cfg)
	default:
		errRun = fmt.Errorf("unknown command: %s", command)
	}
	if errRun != nil {
		log.WithError(errRun).Fatal("exit")
	}
}
