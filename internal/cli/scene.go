package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/paneldeck/internal/cli/output"
	"github.com/regenrek/paneldeck/internal/scene"
)

func sceneCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "scene",
		Usage: "inspect scene files",
		Commands: []*cli.Command{
			sceneValidateCommand(deps),
			sceneShowCommand(deps),
		},
	}
}

func sceneValidateCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check a scene file against the schema and semantics",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := strings.TrimSpace(cmd.Args().Get(0))
			if path == "" {
				return fmt.Errorf("scene file is required")
			}
			scn, err := scene.LoadFile(path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(deps.Stdout, "Scene OK: %d panels, screen %dx%d.\n",
				len(scn.Panels), scn.Screen.Width, scn.Screen.Height)
			return err
		},
	}
}

func sceneShowCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print a scene's panels (the embedded demo without FILE)",
		ArgsUsage: "[FILE]",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := strings.TrimSpace(cmd.Args().Get(0))
			var scn *scene.Scene
			var err error
			if path == "" {
				scn, err = scene.LoadDefault()
			} else {
				scn, err = scene.LoadFile(path)
			}
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				meta := output.NewMeta("scene.show", deps.Version)
				return output.WriteSuccess(deps.Stdout, meta, sceneToOutput(path, scn))
			}
			return writeSceneText(deps, scn)
		},
	}
}

func sceneToOutput(path string, scn *scene.Scene) output.Scene {
	out := output.Scene{
		Path:          path,
		MinAppVersion: scn.MinAppVersion,
		Screen:        output.Screen{Width: scn.Screen.Width, Height: scn.Screen.Height},
		Panels:        make([]output.ScenePanel, 0, len(scn.Panels)),
	}
	for _, p := range scn.Panels {
		out.Panels = append(out.Panels, output.ScenePanel{
			Title:          p.Title,
			Width:          p.Width,
			TitlebarHeight: p.TitlebarHeight,
			ContentHeight:  p.ContentHeight,
			Expanded:       p.Expanded,
			Focus:          p.Focus,
			Urgent:         p.Urgent,
			Creator:        p.Creator,
		})
	}
	return out
}

func writeSceneText(deps Dependencies, scn *scene.Scene) error {
	if _, err := fmt.Fprintf(deps.Stdout, "screen %dx%d, %d panels\n",
		scn.Screen.Width, scn.Screen.Height, len(scn.Panels)); err != nil {
		return err
	}
	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "TITLE\tSIZE\tSTATE\tCREATOR"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-----\t----\t-----\t-------"); err != nil {
		return err
	}
	for _, p := range scn.Panels {
		state := "collapsed"
		if p.Expanded {
			state = "expanded"
		}
		if p.Focus {
			state += "+focus"
		}
		if p.Urgent {
			state += "+urgent"
		}
		size := fmt.Sprintf("%dx%d/%d", p.Width, p.TitlebarHeight, p.ContentHeight)
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Title, size, state, p.Creator); err != nil {
			return err
		}
	}
	return w.Flush()
}
