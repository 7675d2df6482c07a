package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/paneldeck/internal/cli/output"
	"github.com/regenrek/paneldeck/internal/panelsd"
	"github.com/regenrek/paneldeck/internal/runenv"
)

func sendCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "drive a running daemon",
		Commands: []*cli.Command{
			sendDragCommand(deps),
			sendDragCompleteCommand(deps),
			sendSetStateCommand(deps),
			sendFocusCommand(deps),
			sendAddPanelCommand(deps),
			sendCloseCommand(deps),
			sendSnapshotCommand(deps),
			sendWatchCommand(deps),
		},
	}
}

// connectDaemon dials via the injected connector, which by default also
// starts the daemon when none is running.
func connectDaemon(ctx context.Context, deps Dependencies) (*panelsd.Client, func(), error) {
	connect := deps.Connect
	if connect == nil {
		return nil, func() {}, fmt.Errorf("daemon connection not configured")
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, runenv.SendTimeout())
	client, err := connect(ctxTimeout, deps.Version)
	if err != nil {
		cancel()
		return nil, func() {}, err
	}
	cleanup := func() {
		cancel()
		_ = client.Close()
	}
	return client, cleanup, nil
}

func titleArg(cmd *cli.Command) (string, error) {
	title := strings.TrimSpace(cmd.Args().Get(0))
	if title == "" {
		return "", fmt.Errorf("panel title is required")
	}
	return title, nil
}

func writeAction(deps Dependencies, cmd *cli.Command, action, title, plain string, start time.Time) error {
	if cmd.Bool("json") {
		meta := output.WithDuration(output.NewMeta(action, deps.Version), start)
		return output.WriteSuccess(deps.Stdout, meta, output.ActionResult{
			Action: action,
			Status: "ok",
			Title:  title,
		})
	}
	_, err := fmt.Fprintln(deps.Stderr, plain)
	return err
}

func sendDragCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "drag",
		Usage:     "report a titlebar drag to a root position",
		ArgsUsage: "TITLE X Y",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			title, err := titleArg(cmd)
			if err != nil {
				return err
			}
			x, err := strconv.Atoi(cmd.Args().Get(1))
			if err != nil {
				return fmt.Errorf("drag x: %w", err)
			}
			y, err := strconv.Atoi(cmd.Args().Get(2))
			if err != nil {
				return fmt.Errorf("drag y: %w", err)
			}
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := client.Dragged(ctx, title, x, y); err != nil {
				return err
			}
			plain := fmt.Sprintf("Dragged %q to (%d, %d).", title, x, y)
			return writeAction(deps, cmd, "send.drag", title, plain, start)
		},
	}
}

func sendDragCompleteCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "drag-complete",
		Usage:     "finish a drag and drop the panel",
		ArgsUsage: "TITLE",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			title, err := titleArg(cmd)
			if err != nil {
				return err
			}
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := client.DragComplete(ctx, title); err != nil {
				return err
			}
			plain := fmt.Sprintf("Drag complete for %q.", title)
			return writeAction(deps, cmd, "send.drag_complete", title, plain, start)
		},
	}
}

func sendSetStateCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "set-state",
		Usage:     "expand or collapse a panel",
		ArgsUsage: "TITLE expanded|collapsed",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			title, err := titleArg(cmd)
			if err != nil {
				return err
			}
			var expanded bool
			switch state := strings.TrimSpace(cmd.Args().Get(1)); state {
			case "expanded":
				expanded = true
			case "collapsed":
				expanded = false
			default:
				return fmt.Errorf("state must be expanded or collapsed, got %q", state)
			}
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := client.SetState(ctx, title, expanded); err != nil {
				return err
			}
			word := "collapsed"
			if expanded {
				word = "expanded"
			}
			plain := fmt.Sprintf("Panel %q %s.", title, word)
			return writeAction(deps, cmd, "send.set_state", title, plain, start)
		},
	}
}

func sendFocusCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "focus",
		Usage:     "give a panel the focus",
		ArgsUsage: "TITLE",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			title, err := titleArg(cmd)
			if err != nil {
				return err
			}
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := client.Focus(ctx, title); err != nil {
				return err
			}
			plain := fmt.Sprintf("Focused %q.", title)
			return writeAction(deps, cmd, "send.focus", title, plain, start)
		},
	}
}

func sendAddPanelCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "add-panel",
		Usage:     "create a panel in the bar",
		ArgsUsage: "TITLE",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Usage: "panel width in px", Value: 200},
			&cli.IntFlag{Name: "titlebar-height", Usage: "titlebar height in px", Value: 20},
			&cli.IntFlag{Name: "content-height", Usage: "content height in px", Value: 300},
			&cli.BoolFlag{Name: "expanded", Usage: "create expanded", Value: true},
			&cli.BoolFlag{Name: "focus", Usage: "focus the panel on creation"},
			&cli.BoolFlag{Name: "urgent", Usage: "mark the panel urgent"},
			&cli.StringFlag{Name: "creator", Usage: "existing panel to insert next to"},
			jsonFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			title, err := titleArg(cmd)
			if err != nil {
				return err
			}
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			created, err := client.AddPanel(ctx, panelsd.AddPanelRequest{
				Title:          title,
				Width:          cmd.Int("width"),
				TitlebarHeight: cmd.Int("titlebar-height"),
				ContentHeight:  cmd.Int("content-height"),
				Expanded:       cmd.Bool("expanded"),
				Focus:          cmd.Bool("focus"),
				Urgent:         cmd.Bool("urgent"),
				Creator:        strings.TrimSpace(cmd.String("creator")),
			})
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				meta := output.WithDuration(output.NewMeta("send.add_panel", deps.Version), start)
				return output.WriteSuccess(deps.Stdout, meta, panelToOutput(created))
			}
			_, err = fmt.Fprintf(deps.Stderr, "Added panel %q to %s.\n", created.Title, created.Container)
			return err
		},
	}
}

func sendCloseCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "close",
		Usage:     "remove a panel",
		ArgsUsage: "TITLE",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			title, err := titleArg(cmd)
			if err != nil {
				return err
			}
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := client.ClosePanel(ctx, title); err != nil {
				return err
			}
			plain := fmt.Sprintf("Closed panel %q.", title)
			return writeAction(deps, cmd, "send.close", title, plain, start)
		},
	}
}

func sendSnapshotCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "print the current panel layout",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			start := time.Now()
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			resp, err := client.Snapshot(ctx)
			if err != nil {
				return err
			}
			if cmd.Bool("json") {
				meta := output.WithDuration(output.NewMeta("send.snapshot", deps.Version), start)
				return output.WriteSuccess(deps.Stdout, meta, snapshotToOutput(resp))
			}
			return writeSnapshotText(deps, resp)
		},
	}
}

func sendWatchCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "stream panel state events until interrupted",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, cleanup, err := connectDaemon(ctx, deps)
			if err != nil {
				return err
			}
			defer cleanup()
			asJSON := cmd.Bool("json")
			seq := int64(0)
			for {
				select {
				case <-ctx.Done():
					return nil
				case evt, ok := <-client.Events():
					if !ok {
						return nil
					}
					out := output.Event{
						Type:     string(evt.Type),
						Title:    evt.Title,
						Expanded: evt.Expanded,
					}
					if asJSON {
						seq++
						meta := output.NewStreamMeta("send.watch", deps.Version, seq)
						if err := output.WriteSuccess(deps.Stdout, meta, struct {
							Event output.Event `json:"event"`
						}{Event: out}); err != nil {
							return err
						}
						continue
					}
					word := "collapsed"
					if out.Expanded {
						word = "expanded"
					}
					if _, err := fmt.Fprintf(deps.Stdout, "%s\t%s\t%s\n", out.Type, out.Title, word); err != nil {
						return err
					}
				}
			}
		},
	}
}

func panelToOutput(p panelsd.PanelSnapshot) output.Panel {
	return output.Panel{
		Title:     p.Title,
		Container: p.Container,
		Expanded:  p.Expanded,
		Urgent:    p.Urgent,
		Focused:   p.Focused,
		Titlebar:  rectToOutput(p.Titlebar),
		Content:   rectToOutput(p.Content),
	}
}

func rectToOutput(r panelsd.RectSnapshot) output.Rect {
	return output.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func snapshotToOutput(resp panelsd.SnapshotResponse) output.Snapshot {
	snap := output.Snapshot{
		DaemonVersion: resp.Version,
		Screen:        output.Screen{Width: resp.Screen.Width, Height: resp.Screen.Height},
		Panels:        make([]output.Panel, 0, len(resp.Panels)),
	}
	for _, p := range resp.Panels {
		snap.Panels = append(snap.Panels, panelToOutput(p))
	}
	return snap
}

func writeSnapshotText(deps Dependencies, resp panelsd.SnapshotResponse) error {
	if _, err := fmt.Fprintf(deps.Stdout, "screen %dx%d, %d panels\n",
		resp.Screen.Width, resp.Screen.Height, len(resp.Panels)); err != nil {
		return err
	}
	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "TITLE\tCONTAINER\tSTATE\tFOCUS\tTITLEBAR\tCONTENT"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "-----\t---------\t-----\t-----\t--------\t-------"); err != nil {
		return err
	}
	for _, p := range resp.Panels {
		state := "collapsed"
		if p.Expanded {
			state = "expanded"
		}
		if p.Urgent {
			state += "!"
		}
		focus := ""
		if p.Focused {
			focus = "focused"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Title, p.Container, state, focus,
			formatRect(p.Titlebar), formatRect(p.Content)); err != nil {
			return err
		}
	}
	return w.Flush()
}

func formatRect(r panelsd.RectSnapshot) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}
