package panelsd

import (
	"fmt"
	"os"

	"github.com/regenrek/paneldeck/internal/geometry"
	"github.com/regenrek/paneldeck/internal/profiling"
)

func (d *Daemon) handleRequest(env Envelope) Envelope {
	resp := Envelope{
		Kind: EnvelopeResponse,
		Op:   env.Op,
		ID:   env.ID,
	}
	payload, err := d.handleRequestPayload(env)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Payload = payload
	return resp
}

func (d *Daemon) handleRequestPayload(env Envelope) ([]byte, error) {
	handler, ok := requestHandlers[env.Op]
	if !ok {
		return nil, fmt.Errorf("panelsd: unknown op %q", env.Op)
	}
	return handler(d, env.Payload)
}

type requestHandler func(d *Daemon, payload []byte) ([]byte, error)

var requestHandlers = map[Op]requestHandler{
	OpHello: func(d *Daemon, payload []byte) ([]byte, error) {
		return d.handleHello(payload)
	},
	OpDragged: func(d *Daemon, payload []byte) ([]byte, error) {
		return d.handleDragged(payload)
	},
	OpDragComplete: func(d *Daemon, payload []byte) ([]byte, error) {
		return d.handleDragComplete(payload)
	},
	OpSetState: func(d *Daemon, payload []byte) ([]byte, error) {
		return d.handleSetState(payload)
	},
	OpFocus: func(d *Daemon, payload []byte) ([]byte, error) {
		return d.handleFocus(payload)
	},
	OpAddPanel: func(d *Daemon, payload []byte) ([]byte, error) {
		return d.handleAddPanel(payload)
	},
	OpClosePanel: func(d *Daemon, payload []byte) ([]byte, error) {
		return d.handleClosePanel(payload)
	},
	OpSnapshot: func(d *Daemon, _ []byte) ([]byte, error) {
		return d.handleSnapshot()
	},
}

func (d *Daemon) handleHello(payload []byte) ([]byte, error) {
	var req HelloRequest
	if err := decodePayload(payload, &req); err != nil {
		return nil, err
	}
	return encodePayload(HelloResponse{Version: d.version, PID: os.Getpid()})
}

func (d *Daemon) handleDragged(payload []byte) ([]byte, error) {
	var req DraggedRequest
	if err := decodePayload(payload, &req); err != nil {
		return nil, err
	}
	profiling.Trigger("drag")
	return nil, d.onLoop(func() error {
		p, err := d.panelByTitle(req.Title)
		if err != nil {
			return err
		}
		d.mgr.HandleNotifyPanelDragged(p.ContentID(), geometry.Pt(req.X, req.Y))
		return nil
	})
}

func (d *Daemon) handleDragComplete(payload []byte) ([]byte, error) {
	var req DragCompleteRequest
	if err := decodePayload(payload, &req); err != nil {
		return nil, err
	}
	return nil, d.onLoop(func() error {
		p, err := d.panelByTitle(req.Title)
		if err != nil {
			return err
		}
		d.mgr.HandleNotifyPanelDragComplete(p.ContentID())
		return nil
	})
}

func (d *Daemon) handleSetState(payload []byte) ([]byte, error) {
	var req SetStateRequest
	if err := decodePayload(payload, &req); err != nil {
		return nil, err
	}
	return nil, d.onLoop(func() error {
		p, err := d.panelByTitle(req.Title)
		if err != nil {
			return err
		}
		d.mgr.HandleSetPanelState(p.ContentID(), req.Expanded)
		return nil
	})
}

func (d *Daemon) handleFocus(payload []byte) ([]byte, error) {
	var req FocusRequest
	if err := decodePayload(payload, &req); err != nil {
		return nil, err
	}
	return nil, d.onLoop(func() error {
		p, err := d.panelByTitle(req.Title)
		if err != nil {
			return err
		}
		d.mgr.HandleFocusPanel(p.ContentID(), d.windows.Now())
		return nil
	})
}

func (d *Daemon) handleAddPanel(payload []byte) ([]byte, error) {
	var req AddPanelRequest
	if err := decodePayload(payload, &req); err != nil {
		return nil, err
	}
	var snap PanelSnapshot
	err := d.onLoop(func() error {
		p, err := d.addPanel(req)
		if err != nil {
			return err
		}
		snap = d.panelSnapshot(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return encodePayload(AddPanelResponse{Panel: snap})
}

func (d *Daemon) handleClosePanel(payload []byte) ([]byte, error) {
	var req ClosePanelRequest
	if err := decodePayload(payload, &req); err != nil {
		return nil, err
	}
	return nil, d.onLoop(func() error {
		return d.closePanel(req.Title)
	})
}

func (d *Daemon) handleSnapshot() ([]byte, error) {
	var resp SnapshotResponse
	if err := d.onLoop(func() error {
		resp = d.buildSnapshot()
		return nil
	}); err != nil {
		return nil, err
	}
	return encodePayload(resp)
}
