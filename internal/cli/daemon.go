package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/paneldeck/internal/cli/output"
	"github.com/regenrek/paneldeck/internal/panelsd"
	"github.com/regenrek/paneldeck/internal/runenv"
)

var (
	ensureDaemon  = panelsd.EnsureDaemonRunning
	stopDaemon    = panelsd.StopDaemon
	restartDaemon = panelsd.RestartDaemon
	dialDaemon    = panelsd.Dial
)

func daemonCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "start the panel daemon (detached unless --foreground)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "scene",
				Usage: "scene file to seed the engine with (--foreground only)",
			},
			&cli.StringFlag{
				Name:  "socket",
				Usage: "unix socket to listen on (--foreground only)",
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "expanded-state file (--foreground only)",
			},
			&cli.BoolFlag{
				Name:  "foreground",
				Usage: "run the daemon in this process",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("foreground") {
				return runDaemonForeground(ctx, cmd, deps)
			}
			for _, flag := range []string{"scene", "socket", "state"} {
				if cmd.IsSet(flag) {
					return fmt.Errorf("--%s requires --foreground", flag)
				}
			}
			if err := ensureDaemon(ctx, deps.Version); err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}
			_, err := fmt.Fprintln(deps.Stderr, "Daemon running.")
			return err
		},
		Commands: []*cli.Command{
			daemonStopCommand(deps),
			daemonRestartCommand(deps),
			daemonStatusCommand(deps),
		},
	}
}

func runDaemonForeground(ctx context.Context, cmd *cli.Command, deps Dependencies) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fresh := runenv.FreshConfigEnabled()
	daemon, err := panelsd.NewDaemon(panelsd.DaemonConfig{
		Version:                 deps.Version,
		SocketPath:              cmd.String("socket"),
		ScenePath:               cmd.String("scene"),
		StatePath:               cmd.String("state"),
		DisableStatePersistence: fresh,
		HandleSignals:           true,
		OpaqueResize:            cfg.Panels.OpaqueResize,
		DisableDocks:            !cfg.Panels.Docks(),
		ShowDelay:               cfg.Panels.ShowDelay(),
		HideDelay:               cfg.Panels.HideDelay(),
	})
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		_ = daemon.Stop()
	}()
	if err := daemon.Run(); err != nil {
		return fmt.Errorf("daemon failed: %w", err)
	}
	return nil
}

func daemonStopCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "stop a running daemon",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			ctxTimeout, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			if err := stopDaemon(ctxTimeout, deps.Version); err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}
			if cmd.Bool("json") {
				meta := output.WithDuration(output.NewMeta("daemon.stop", deps.Version), start)
				return output.WriteSuccess(deps.Stdout, meta, output.ActionResult{
					Action: "daemon.stop",
					Status: "ok",
				})
			}
			_, err := fmt.Fprintln(deps.Stderr, "Daemon stopped.")
			return err
		},
	}
}

func daemonRestartCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "restart",
		Usage: "restart the daemon",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			ctxTimeout, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			if err := restartDaemon(ctxTimeout, deps.Version); err != nil {
				return fmt.Errorf("failed to restart daemon: %w", err)
			}
			if cmd.Bool("json") {
				meta := output.WithDuration(output.NewMeta("daemon.restart", deps.Version), start)
				return output.WriteSuccess(deps.Stdout, meta, output.ActionResult{
					Action: "daemon.restart",
					Status: "ok",
				})
			}
			_, err := fmt.Fprintln(deps.Stderr, "Daemon restarted.")
			return err
		},
	}
}

func daemonStatusCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "report whether the daemon is running",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			socketPath, err := panelsd.DefaultSocketPath()
			if err != nil {
				return err
			}
			status := probeStatus(ctx, socketPath, deps.Version)
			if cmd.Bool("json") {
				meta := output.NewMeta("daemon.status", deps.Version)
				if err := output.WriteSuccess(deps.Stdout, meta, status); err != nil {
					return err
				}
			} else if status.Running {
				if _, err := fmt.Fprintf(deps.Stdout, "Daemon running (pid %d).\n", status.PID); err != nil {
					return err
				}
			} else {
				if _, err := fmt.Fprintln(deps.Stdout, "Daemon not running."); err != nil {
					return err
				}
			}
			if !status.Running {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// probeStatus dials without auto-starting; status must observe, not mutate.
func probeStatus(ctx context.Context, socketPath, version string) output.DaemonStatus {
	ctxTimeout, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	client, err := dialDaemon(ctxTimeout, socketPath, version)
	if err != nil {
		return output.DaemonStatus{Running: false, Socket: socketPath}
	}
	defer func() { _ = client.Close() }()
	return output.DaemonStatus{
		Running: true,
		PID:     client.DaemonPID(),
		Socket:  socketPath,
	}
}
