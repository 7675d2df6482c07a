package panelsd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Client is a daemon connection used by the send commands and by anything
// else that wants to drive the engine remotely.
type Client struct {
	conn       net.Conn
	br         *bufio.Reader
	socketPath string
	version    string
	daemonPID  int

	pendingMu sync.Mutex
	pending   map[uint64]chan Envelope
	nextID    atomic.Uint64

	sendMu sync.Mutex
	events chan Event

	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// Dial connects to a running daemon and performs the hello handshake.
func Dial(ctx context.Context, socketPath, version string) (*Client, error) {
	conn, err := dialSocket(ctx, socketPath)
	if err != nil {
		return nil, err
	}
	client := &Client{
		conn:       conn,
		br:         bufio.NewReader(conn),
		socketPath: socketPath,
		version:    version,
		pending:    make(map[uint64]chan Envelope),
		events:     make(chan Event, 16),
		done:       make(chan struct{}),
	}
	go client.readLoop()
	if err := client.hello(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Close shuts down the client connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.closed.Swap(true) {
		return nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.pendingMu.Lock()
	for _, ch := range c.pending {
		close(ch)
	}
	c.pending = nil
	c.pendingMu.Unlock()
	c.closeOnce.Do(func() {
		if c.done != nil {
			close(c.done)
		}
	})
	return nil
}

// Events returns the daemon's broadcast stream. The channel closes with
// the client.
func (c *Client) Events() <-chan Event {
	if c == nil {
		return nil
	}
	return c.events
}

// Version returns the version string this client identifies with.
func (c *Client) Version() string {
	if c == nil {
		return ""
	}
	return c.version
}

func (c *Client) hello(ctx context.Context) error {
	var resp HelloResponse
	if _, err := c.call(ctx, OpHello, HelloRequest{Version: c.version}, &resp); err != nil {
		return fmt.Errorf("panelsd: hello failed: %w", err)
	}
	c.daemonPID = resp.PID
	return nil
}

// DaemonPID returns the pid the daemon reported in the handshake.
func (c *Client) DaemonPID() int {
	if c == nil {
		return 0
	}
	return c.daemonPID
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		if c.conn == nil {
			return
		}
		if err := c.conn.SetReadDeadline(time.Now().Add(defaultReadTimeout)); err != nil {
			_ = c.Close()
			return
		}
		env, err := readEnvelope(c.br)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			_ = c.Close()
			return
		}
		switch env.Kind {
		case EnvelopeResponse:
			c.pendingMu.Lock()
			ch := c.pending[env.ID]
			delete(c.pending, env.ID)
			c.pendingMu.Unlock()
			if ch != nil {
				ch <- env
				close(ch)
			}
		case EnvelopeEvent:
			var evt Event
			if err := decodePayload(env.Payload, &evt); err != nil {
				continue
			}
			select {
			case c.events <- evt:
			case <-c.done:
				return
			default:
				slog.Debug("panelsd: dropping event for slow consumer",
					slog.String("type", string(evt.Type)))
			}
		}
	}
}

func (c *Client) call(ctx context.Context, op Op, req any, out any) (Envelope, error) {
	if c == nil {
		return Envelope{}, errors.New("panelsd: client is nil")
	}
	if c.closed.Load() {
		return Envelope{}, ErrClientClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}
	id := c.nextID.Add(1)
	payload, err := encodePayload(req)
	if err != nil {
		return Envelope{}, err
	}
	respCh := make(chan Envelope, 1)
	c.pendingMu.Lock()
	if c.pending == nil {
		c.pendingMu.Unlock()
		return Envelope{}, ErrClientClosed
	}
	c.pending[id] = respCh
	c.pendingMu.Unlock()
	if err := c.send(ctx, Envelope{Kind: EnvelopeRequest, Op: op, ID: id, Payload: payload}); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return Envelope{}, err
	}
	select {
	case <-ctx.Done():
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return Envelope{}, ctx.Err()
	case env, ok := <-respCh:
		if !ok {
			return Envelope{}, ErrResponseChannelClosed
		}
		if env.Error != "" {
			return env, errors.New(env.Error)
		}
		if out != nil {
			if err := decodePayload(env.Payload, out); err != nil {
				return env, err
			}
		}
		return env, nil
	}
}

func (c *Client) send(ctx context.Context, env Envelope) error {
	if c.conn == nil {
		return ErrConnectionUnavailable
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c.closed.Load() {
		return ErrClientClosed
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(defaultWriteTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := writeEnvelope(c.conn, env); err != nil {
		if ctx.Err() != nil && isTimeout(err) {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Dragged reports a panel drag to the given root position.
func (c *Client) Dragged(ctx context.Context, title string, x, y int) error {
	_, err := c.call(ctx, OpDragged, DraggedRequest{Title: title, X: x, Y: y}, nil)
	return err
}

// DragComplete ends a panel drag.
func (c *Client) DragComplete(ctx context.Context, title string) error {
	_, err := c.call(ctx, OpDragComplete, DragCompleteRequest{Title: title}, nil)
	return err
}

// SetState expands or collapses a panel.
func (c *Client) SetState(ctx context.Context, title string, expanded bool) error {
	_, err := c.call(ctx, OpSetState, SetStateRequest{Title: title, Expanded: expanded}, nil)
	return err
}

// Focus gives a panel the focus.
func (c *Client) Focus(ctx context.Context, title string) error {
	_, err := c.call(ctx, OpFocus, FocusRequest{Title: title}, nil)
	return err
}

// AddPanel creates a panel and returns its placement.
func (c *Client) AddPanel(ctx context.Context, req AddPanelRequest) (PanelSnapshot, error) {
	var resp AddPanelResponse
	if _, err := c.call(ctx, OpAddPanel, req, &resp); err != nil {
		return PanelSnapshot{}, err
	}
	return resp.Panel, nil
}

// ClosePanel removes a panel.
func (c *Client) ClosePanel(ctx context.Context, title string) error {
	_, err := c.call(ctx, OpClosePanel, ClosePanelRequest{Title: title}, nil)
	return err
}

// Snapshot fetches the full panel layout.
func (c *Client) Snapshot(ctx context.Context) (SnapshotResponse, error) {
	var resp SnapshotResponse
	if _, err := c.call(ctx, OpSnapshot, nil, &resp); err != nil {
		return SnapshotResponse{}, err
	}
	return resp, nil
}

func dialSocket(ctx context.Context, socketPath string) (net.Conn, error) {
	d := net.Dialer{Timeout: 2 * time.Second}
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("panelsd: dial %s: %w", socketPath, err)
	}
	return conn, nil
}

// probeDaemon reports nil when a live daemon answers on socketPath.
func probeDaemon(ctx context.Context, socketPath, version string) error {
	client, err := Dial(ctx, socketPath, version)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrDaemonProbeTimeout, err)
		}
		return err
	}
	return client.Close()
}
