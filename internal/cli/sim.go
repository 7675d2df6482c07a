package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/paneldeck/internal/sim"
)

func simCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "sim",
		Usage: "run the terminal panel simulator",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scene", Usage: "scene file to open"},
			&cli.StringFlag{Name: "scene-dir", Usage: "directory for the scene picker"},
			&cli.BoolFlag{Name: "watch", Usage: "reload the scene when the file changes"},
			&cli.BoolFlag{Name: "opaque-resize", Usage: "resize panel contents live during drags"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadAppConfig()
			if err != nil {
				return err
			}
			if cmd.IsSet("opaque-resize") {
				cfg.Panels.OpaqueResize = cmd.Bool("opaque-resize")
			}
			sceneDir := cmd.String("scene-dir")
			if sceneDir == "" {
				sceneDir = cfg.Sim.SceneDir
			}
			return sim.Run(ctx, sim.Options{
				Config:    cfg,
				ScenePath: cmd.String("scene"),
				SceneDir:  sceneDir,
				Watch:     cmd.Bool("watch"),
				Version:   deps.Version,
			})
		},
	}
}
