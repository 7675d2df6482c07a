package panelsd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/panels"
	"github.com/regenrek/paneldeck/internal/wm"
)

// onLoop runs fn on the engine goroutine and waits for the result. Every
// request handler goes through here; the engine is never touched from a
// connection goroutine.
func (d *Daemon) onLoop(fn func() error) error {
	errCh := make(chan error, 1)
	d.loop.PostTask(func() { errCh <- fn() })
	select {
	case err := <-errCh:
		return err
	case <-d.ctx.Done():
		return errors.New("panelsd: daemon closed")
	case <-time.After(defaultOpTimeout):
		return errors.New("panelsd: engine did not respond")
	}
}

// applyScene seeds the engine with the loaded scene's panels. A rejected
// panel is logged and skipped; the rest of the scene still applies.
func (d *Daemon) applyScene() {
	for _, sp := range d.scn.Panels {
		req := AddPanelRequest{
			Title:          sp.Title,
			Width:          sp.Width,
			TitlebarHeight: sp.TitlebarHeight,
			ContentHeight:  sp.ContentHeight,
			Expanded:       sp.Expanded,
			Focus:          sp.Focus,
			Urgent:         sp.Urgent,
			Creator:        sp.Creator,
		}
		if _, err := d.addPanel(req); err != nil {
			slog.Error("panelsd: scene panel rejected",
				slog.String("title", sp.Title), slog.Any("err", err))
		}
	}
	slog.Info("panelsd: scene applied",
		slog.Int("panels", d.mgr.NumPanels()),
		slog.Int("width", d.windows.screen.Width()),
		slog.Int("height", d.windows.screen.Height()))
}

func (d *Daemon) panelByTitle(title string) (*panels.Panel, error) {
	p, ok := d.panelsByTitle[title]
	if !ok {
		return nil, fmt.Errorf("panelsd: unknown panel %q", title)
	}
	return p, nil
}

// addPanel creates the window pair for a panel and hands it to the
// engine. Runs on the loop.
func (d *Daemon) addPanel(req AddPanelRequest) (*panels.Panel, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.New("panelsd: panel title is required")
	}
	if _, ok := d.panelsByTitle[title]; ok {
		return nil, fmt.Errorf("panelsd: panel %q already exists", title)
	}
	if req.Width <= 0 || req.TitlebarHeight <= 0 || req.ContentHeight <= 0 {
		return nil, fmt.Errorf("panelsd: panel %q has a non-positive size", title)
	}
	creator := wm.None
	if req.Creator != "" {
		cp, err := d.panelByTitle(req.Creator)
		if err != nil {
			return nil, fmt.Errorf("panelsd: creator %q does not exist", req.Creator)
		}
		creator = cp.ContentID()
	}

	titlebar := d.windows.createWindow(title+" titlebar",
		geometry.Sz(req.Width, req.TitlebarHeight), nil)
	content := d.windows.createWindow(title,
		geometry.Sz(req.Width, req.ContentHeight), []int{
			int(titlebar.id),
			boolToInt(req.Expanded),
			boolToInt(req.Focus),
			int(creator),
			int(panels.ResizeBoth),
		})

	p, err := d.mgr.AddPanel(content, titlebar, panels.SourceNew)
	if err != nil {
		d.windows.destroyWindow(content.id)
		d.windows.destroyWindow(titlebar.id)
		return nil, err
	}
	if req.Urgent {
		content.urgent = true
		d.mgr.HandleWindowUrgencyChange(content.id)
	}

	d.panelsByTitle[title] = p
	d.titleOrder = append(d.titleOrder, title)
	return p, nil
}

// closePanel removes a panel and its windows. Runs on the loop.
func (d *Daemon) closePanel(title string) error {
	p, err := d.panelByTitle(title)
	if err != nil {
		return err
	}
	contentID := p.ContentID()
	titlebarID := p.Titlebar().ID()
	d.mgr.RemovePanel(p)
	d.windows.destroyWindow(contentID)
	d.windows.destroyWindow(titlebarID)

	delete(d.panelsByTitle, title)
	for i, t := range d.titleOrder {
		if t == title {
			d.titleOrder = append(d.titleOrder[:i], d.titleOrder[i+1:]...)
			break
		}
	}
	return nil
}

// buildSnapshot captures the layout in panel creation order. Runs on the
// loop.
func (d *Daemon) buildSnapshot() SnapshotResponse {
	resp := SnapshotResponse{
		Version: d.version,
		Screen: ScreenSnapshot{
			Width:  d.windows.screen.Width(),
			Height: d.windows.screen.Height(),
		},
	}
	for _, title := range d.titleOrder {
		resp.Panels = append(resp.Panels, d.panelSnapshot(d.panelsByTitle[title]))
	}
	return resp
}

func (d *Daemon) panelSnapshot(p *panels.Panel) PanelSnapshot {
	return PanelSnapshot{
		Title:     p.Title(),
		Container: d.containerName(p),
		Expanded:  p.IsExpanded(),
		Urgent:    p.IsUrgent(),
		Focused:   p.IsFocused(),
		Titlebar: RectSnapshot{
			X: p.TitlebarX(), Y: p.TitlebarY(),
			Width: p.TitlebarWidth(), Height: p.TitlebarHeight(),
		},
		Content: RectSnapshot{
			X: p.ContentX(), Y: p.ContentY(),
			Width: p.ContentWidth(), Height: p.ContentHeight(),
		},
	}
}

func (d *Daemon) containerName(p *panels.Panel) string {
	if p.IsFullscreen() {
		return "fullscreen"
	}
	switch c := d.mgr.ContainerOf(p).(type) {
	case *panels.PanelBar:
		return "bar"
	case *panels.PanelDock:
		return "dock-" + c.Side().String()
	default:
		return "detached"
	}
}

// NotifyPanelState broadcasts an engine-imposed expand or collapse to
// every connected client. Satisfies panels.Notifier.
func (d *Daemon) NotifyPanelState(content wm.WindowID, expanded bool) error {
	title := d.windows.title(content)
	if title == "" {
		return nil
	}
	d.broadcast(Event{Type: EventPanelState, Title: title, Expanded: expanded})
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
