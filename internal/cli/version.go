package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/paneldeck/internal/cli/output"
)

func versionCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the paneldeck version",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("json") {
				meta := output.NewMeta("version", deps.Version)
				return output.WriteSuccess(deps.Stdout, meta, struct {
					Name    string `json:"name"`
					Version string `json:"version"`
				}{Name: deps.AppName, Version: deps.Version})
			}
			_, err := fmt.Fprintf(deps.Stdout, "%s %s\n", deps.AppName, deps.Version)
			return err
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "emit a machine-readable envelope",
	}
}
