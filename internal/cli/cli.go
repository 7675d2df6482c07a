// Package cli declares the paneldeck command tree.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/paneldeck/internal/panelsd"
)

// Dependencies provides external services for CLI handlers.
type Dependencies struct {
	Version string
	AppName string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Connect func(ctx context.Context, version string) (*panelsd.Client, error)
}

// DefaultDependencies returns dependencies wired to production services.
func DefaultDependencies(version string) Dependencies {
	return Dependencies{
		Version: version,
		AppName: "paneldeck",
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
		Connect: panelsd.ConnectDefault,
	}
}

// New builds the root command.
func New(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      deps.AppName,
		Usage:     "desktop-style panel engine: bar, docks, drag, collapse",
		Writer:    deps.Stdout,
		ErrWriter: deps.Stderr,
		Commands: []*cli.Command{
			simCommand(deps),
			daemonCommand(deps),
			sendCommand(deps),
			sceneCommand(deps),
			versionCommand(deps),
		},
	}
}

// Run parses args and dispatches.
func Run(ctx context.Context, deps Dependencies, args []string) error {
	return New(deps).Run(ctx, args)
}
