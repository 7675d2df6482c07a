package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	ucli "github.com/urfave/cli/v3"

	"github.com/regenrek/paneldeck/internal/cli"
	"github.com/regenrek/paneldeck/internal/logging"
	"github.com/regenrek/paneldeck/internal/panelcfg"
)

var version = "dev"

func main() {
	mode := logging.ModeFromArgs(os.Args)
	logCfg := logging.Config{}
	if configPath, err := panelcfg.DefaultPath(); err == nil && configPath != "" {
		if cfg, err := panelcfg.NewLoader(configPath).Load(); err == nil {
			logCfg = cfg.Logging
		} else {
			fmt.Fprintf(os.Stderr, "paneldeck: load config: %v\n", err)
			os.Exit(1)
		}
	}
	closeLogger, err := logging.Init(context.Background(), logCfg, logging.InitOptions{
		App:     "paneldeck",
		Version: version,
		Mode:    mode,
	})
	if err != nil {
		if mode == logging.ModeDaemon {
			fmt.Fprintf(os.Stderr, "paneldeck: init logging: %v\n", err)
			os.Exit(1)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
		slog.Error("init logging failed; using stderr fallback", "err", err)
	} else if closeLogger != nil {
		defer func() { _ = closeLogger() }()
	}

	deps := cli.DefaultDependencies(version)
	if err := cli.Run(context.Background(), deps, os.Args); err != nil {
		if exitErr, ok := err.(ucli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "paneldeck: %v\n", err)
		os.Exit(1)
	}
}
