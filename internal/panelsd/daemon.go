// Package panelsd exposes the panel engine over a unix socket. The daemon
// hosts the engine headlessly: an event loop dispatches it, an in-memory
// window table stands in for the display, and gob-framed envelopes carry
// requests, responses, and broadcast events.
package panelsd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/regenrek/paneldeck/internal/evloop"
	"github.com/regenrek/paneldeck/internal/panels"
	"github.com/regenrek/paneldeck/internal/scene"
	"github.com/regenrek/paneldeck/internal/statestore"
)

const (
	defaultReadTimeout  = 2 * time.Minute
	defaultWriteTimeout = 5 * time.Second
	defaultOpTimeout    = 5 * time.Second
)

// DaemonConfig configures a panel daemon instance.
type DaemonConfig struct {
	Version    string
	SocketPath string
	PidPath    string

	// ScenePath seeds the engine at startup; empty loads the embedded
	// demo scene.
	ScenePath string

	// StatePath is where expanded flags persist across runs; empty uses
	// the default state file.
	StatePath string

	// DisableStatePersistence runs without the expanded-state store, for
	// fresh-config runs.
	DisableStatePersistence bool

	HandleSignals bool

	// Engine knobs, normally fed from the [panels] config section.
	OpaqueResize bool
	DisableDocks bool
	ShowDelay    time.Duration
	HideDelay    time.Duration
}

// Daemon hosts the panel engine and serves clients over a local socket.
type Daemon struct {
	loop    *evloop.Loop
	windows *windowTable
	mgr     *panels.PanelManager
	scn     *scene.Scene

	// panelsByTitle and titleOrder are the daemon's title registry,
	// loop-confined like the engine itself.
	panelsByTitle map[string]*panels.Panel
	titleOrder    []string

	listener   net.Listener
	listenerMu sync.RWMutex
	socketPath string
	pidPath    string
	version    string

	ctx    context.Context
	cancel context.CancelFunc

	clients   map[uint64]*clientConn
	clientsMu sync.RWMutex
	clientSeq atomic.Uint64

	// alive probes pid liveness for stale-runtime detection.
	alive func(pid int) bool

	closing      atomic.Bool
	shutdownOnce sync.Once
	wg           sync.WaitGroup

	// profileStop is set by profiler builds.
	profileStop func()
}

type clientConn struct {
	id      uint64
	conn    net.Conn
	br      *bufio.Reader
	respCh  chan outboundEnvelope
	eventCh chan outboundEnvelope
	done    chan struct{}
}

type outboundEnvelope struct {
	env     Envelope
	timeout time.Duration
}

// NewDaemon loads the scene and builds the engine. The engine does not
// dispatch until Start.
func NewDaemon(cfg DaemonConfig) (*Daemon, error) {
	socketPath := cfg.SocketPath
	if socketPath == "" {
		path, err := DefaultSocketPath()
		if err != nil {
			return nil, err
		}
		socketPath = path
	}
	pidPath := cfg.PidPath
	if pidPath == "" {
		path, err := DefaultPidPath()
		if err != nil {
			return nil, err
		}
		pidPath = path
	}

	scn, err := loadScene(cfg.ScenePath)
	if err != nil {
		return nil, err
	}
	if err := scn.CheckAppVersion(cfg.Version); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		loop:          evloop.New(),
		windows:       newWindowTable(scn.Screen.Width, scn.Screen.Height),
		scn:           scn,
		panelsByTitle: make(map[string]*panels.Panel),
		socketPath:    socketPath,
		pidPath:       pidPath,
		version:       cfg.Version,
		ctx:           ctx,
		cancel:        cancel,
		clients:       make(map[uint64]*clientConn),
		alive:         pidAlive,
	}
	var store panels.StateStore
	if !cfg.DisableStatePersistence {
		store = openStateStore(cfg.StatePath)
	}
	d.mgr = panels.NewPanelManager(panels.Config{
		Conn:         d.windows,
		Focus:        d.windows,
		Screen:       d.windows.screen,
		Sched:        d.loop,
		Store:        store,
		Notify:       d,
		DisableDocks: cfg.DisableDocks,
		OpaqueResize: cfg.OpaqueResize,
		ShowDelay:    cfg.ShowDelay,
		HideDelay:    cfg.HideDelay,
	})
	if cfg.HandleSignals {
		d.handleSignals()
	}
	return d, nil
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.LoadDefault()
	}
	return scene.LoadFile(path)
}

// openStateStore opens the persisted expanded-state registry. A store
// that cannot be opened degrades to no persistence rather than refusing
// to start.
func openStateStore(path string) panels.StateStore {
	if path == "" {
		p, err := statestore.DefaultPath()
		if err != nil {
			slog.Warn("panelsd: state store path unavailable", slog.Any("err", err))
			return nil
		}
		path = p
	}
	store, err := statestore.Open(path)
	if err != nil {
		slog.Warn("panelsd: state store unavailable", slog.String("path", path), slog.Any("err", err))
		return nil
	}
	return store
}

// Start claims the runtime files, begins listening, and sets the engine
// dispatching with the scene applied.
func (d *Daemon) Start() error {
	if d == nil {
		return errors.New("panelsd: daemon is nil")
	}
	if err := ensureSocketDir(d.socketPath); err != nil {
		return err
	}
	if err := d.claimRuntime(); err != nil {
		return err
	}
	listener, err := net.Listen("unix", d.socketPath)
	if err != nil {
		return fmt.Errorf("panelsd: listen on %s: %w", d.socketPath, err)
	}
	d.setListener(listener)
	if err := os.Chmod(d.socketPath, 0o600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("panelsd: chmod socket: %w", err)
	}
	if err := d.writePidFile(); err != nil {
		_ = listener.Close()
		return err
	}

	d.startProfiler()

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.loop.Run()
	}()
	go d.acceptLoop()
	d.loop.PostTask(d.applyScene)

	slog.Info("panelsd: daemon listening",
		slog.String("socket", d.socketPath),
		slog.String("version", d.version))
	return nil
}

// Run starts the daemon and blocks until it is stopped.
func (d *Daemon) Run() error {
	if err := d.Start(); err != nil {
		return err
	}
	<-d.ctx.Done()
	d.shutdown()
	return nil
}

// Stop signals the daemon to shut down and waits for it.
func (d *Daemon) Stop() error {
	if d == nil {
		return nil
	}
	if d.closing.Swap(true) {
		return nil
	}
	d.cancel()
	d.shutdown()
	return nil
}

// shutdown tears everything down exactly once; concurrent callers block
// until the first finishes.
func (d *Daemon) shutdown() {
	d.shutdownOnce.Do(func() {
		d.closing.Store(true)
		d.stopProfiler()

		if listener := d.clearListener(); listener != nil {
			_ = listener.Close()
		}

		d.clientsMu.Lock()
		for _, client := range d.clients {
			closeClient(client)
		}
		d.clients = make(map[uint64]*clientConn)
		d.clientsMu.Unlock()

		d.loop.Exit()
		d.wg.Wait()

		// The loop has stopped; the engine can be torn down from here.
		d.mgr.Close()

		_ = os.Remove(d.socketPath)
		_ = os.Remove(d.pidPath)
	})
}

func (d *Daemon) handleSignals() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		_ = d.Stop()
	}()
}

// claimRuntime decides whether a previous instance is still alive. A live
// pid in the pidfile refuses the claim; a dead one means the socket and
// pidfile are leftovers and are removed.
func (d *Daemon) claimRuntime() error {
	if pid, err := readPidFile(d.pidPath); err == nil {
		if d.alive(pid) {
			return fmt.Errorf("panelsd: daemon already running (pid %d)", pid)
		}
		slog.Warn("panelsd: removing stale pid file",
			slog.Int("pid", pid), slog.String("path", d.pidPath))
		if err := os.Remove(d.pidPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("panelsd: remove stale pid file: %w", err)
		}
	}
	if _, err := os.Stat(d.socketPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("panelsd: stat socket: %w", err)
	}
	slog.Warn("panelsd: removing stale socket", slog.String("path", d.socketPath))
	if err := os.Remove(d.socketPath); err != nil {
		return fmt.Errorf("panelsd: remove stale socket: %w", err)
	}
	return nil
}

func (d *Daemon) acceptLoop() {
	defer d.wg.Done()
	listener := d.listenerValue()
	if listener == nil {
		return
	}
	for {
		conn, err := listener.Accept()
		if err != nil {
			if d.closing.Load() {
				return
			}
			continue
		}
		client := d.newClient(conn)
		d.registerClient(client)
		d.wg.Add(2)
		go d.readLoop(client)
		go d.writeLoop(client)
	}
}

func (d *Daemon) setListener(listener net.Listener) {
	d.listenerMu.Lock()
	d.listener = listener
	d.listenerMu.Unlock()
}

func (d *Daemon) listenerValue() net.Listener {
	d.listenerMu.RLock()
	listener := d.listener
	d.listenerMu.RUnlock()
	return listener
}

func (d *Daemon) clearListener() net.Listener {
	d.listenerMu.Lock()
	listener := d.listener
	d.listener = nil
	d.listenerMu.Unlock()
	return listener
}

func (d *Daemon) newClient(conn net.Conn) *clientConn {
	id := d.clientSeq.Add(1)
	return &clientConn{
		id:      id,
		conn:    conn,
		br:      bufio.NewReader(conn),
		respCh:  make(chan outboundEnvelope, 16),
		eventCh: make(chan outboundEnvelope, 64),
		done:    make(chan struct{}),
	}
}

func (d *Daemon) registerClient(client *clientConn) {
	d.clientsMu.Lock()
	d.clients[client.id] = client
	d.clientsMu.Unlock()
}

func (d *Daemon) removeClient(client *clientConn) {
	d.clientsMu.Lock()
	delete(d.clients, client.id)
	d.clientsMu.Unlock()
}

func (d *Daemon) readLoop(client *clientConn) {
	defer d.wg.Done()
	defer d.shutdownClientConn(client)
	for {
		if err := client.conn.SetReadDeadline(time.Now().Add(defaultReadTimeout)); err != nil {
			return
		}
		env, err := readEnvelope(client.br)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return
		}
		if env.Kind != EnvelopeRequest {
			continue
		}
		resp := d.handleRequest(env)
		if err := sendEnvelope(client, resp, defaultWriteTimeout); err != nil {
			return
		}
	}
}

func (d *Daemon) writeLoop(client *clientConn) {
	defer d.wg.Done()
	for {
		select {
		case <-client.done:
			return
		case <-d.ctx.Done():
			return
		default:
		}

		// Responses drain ahead of events.
		select {
		case out := <-client.respCh:
			if err := d.writeEnvelopeWithTimeout(client, out.env, out.timeout); err != nil {
				d.shutdownClientConn(client)
				return
			}
			continue
		default:
		}

		select {
		case out := <-client.respCh:
			if err := d.writeEnvelopeWithTimeout(client, out.env, out.timeout); err != nil {
				d.shutdownClientConn(client)
				return
			}
		case out := <-client.eventCh:
			if err := d.writeEnvelopeWithTimeout(client, out.env, out.timeout); err != nil {
				d.shutdownClientConn(client)
				return
			}
		case <-client.done:
			return
		case <-d.ctx.Done():
			return
		}
	}
}

func sendEnvelope(client *clientConn, env Envelope, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	select {
	case <-client.done:
		return ErrClientClosed
	default:
	}
	select {
	case client.respCh <- outboundEnvelope{env: env, timeout: timeout}:
		return nil
	case <-client.done:
		return ErrClientClosed
	case <-time.After(timeout):
		return errors.New("panelsd: client send timeout")
	}
}

func closeClient(client *clientConn) {
	select {
	case <-client.done:
		return
	default:
		close(client.done)
	}
	if client.conn != nil {
		_ = client.conn.Close()
	}
}

func (d *Daemon) shutdownClientConn(client *clientConn) {
	if client == nil {
		return
	}
	d.removeClient(client)
	closeClient(client)
}

func (d *Daemon) writeEnvelopeWithTimeout(client *clientConn, env Envelope, timeout time.Duration) error {
	if client == nil {
		return ErrConnectionUnavailable
	}
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	if err := client.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return writeEnvelope(client.conn, env)
}

// broadcast fans an event out to every connected client. Slow clients
// drop events rather than stall the engine.
func (d *Daemon) broadcast(event Event) {
	d.clientsMu.RLock()
	defer d.clientsMu.RUnlock()
	if len(d.clients) == 0 {
		return
	}
	payload, err := encodePayload(event)
	if err != nil {
		return
	}
	env := Envelope{Kind: EnvelopeEvent, Event: event.Type, Payload: payload}
	for _, client := range d.clients {
		select {
		case <-client.done:
			continue
		default:
		}
		select {
		case client.eventCh <- outboundEnvelope{env: env, timeout: defaultWriteTimeout}:
		default:
		}
	}
}

func (d *Daemon) writePidFile() error {
	if d.pidPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(d.pidPath), 0o700); err != nil {
		return fmt.Errorf("panelsd: create pid dir: %w", err)
	}
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(d.pidPath, []byte(pid), 0o600); err != nil {
		return fmt.Errorf("panelsd: write pid file: %w", err)
	}
	return nil
}

func ensureSocketDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("panelsd: create socket dir: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if ne, ok := err.(net.Error); ok {
		return ne.Timeout()
	}
	return false
}
