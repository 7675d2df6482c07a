package panelsd

// Op identifies the request/response operation.
type Op string

const (
	OpHello        Op = "hello"
	OpDragged      Op = "dragged"
	OpDragComplete Op = "drag_complete"
	OpSetState     Op = "set_state"
	OpFocus        Op = "focus"
	OpAddPanel     Op = "add_panel"
	OpClosePanel   Op = "close_panel"
	OpSnapshot     Op = "snapshot"
)

// EventType identifies async daemon events.
type EventType string

const (
	// EventPanelState is broadcast when the engine imposes an expand or
	// collapse on a panel, mirroring the notification its owner would get.
	EventPanelState EventType = "panel_state"
)

// Event is broadcast from daemon to clients.
type Event struct {
	Type     EventType
	Title    string
	Expanded bool
}

// HelloRequest begins a connection handshake.
type HelloRequest struct {
	Version string
}

// HelloResponse acknowledges the handshake.
type HelloResponse struct {
	Version string
	PID     int
}

// DraggedRequest reports a panel drag to the given root position.
type DraggedRequest struct {
	Title string
	X     int
	Y     int
}

// DragCompleteRequest ends a panel drag.
type DragCompleteRequest struct {
	Title string
}

// SetStateRequest expands or collapses a panel.
type SetStateRequest struct {
	Title    string
	Expanded bool
}

// FocusRequest gives a panel the focus.
type FocusRequest struct {
	Title string
}

// AddPanelRequest creates a panel. Creator optionally names an existing
// panel the new one is inserted next to.
type AddPanelRequest struct {
	Title          string
	Width          int
	TitlebarHeight int
	ContentHeight  int
	Expanded       bool
	Focus          bool
	Urgent         bool
	Creator        string
}

// AddPanelResponse returns the created panel's placement.
type AddPanelResponse struct {
	Panel PanelSnapshot
}

// ClosePanelRequest removes a panel.
type ClosePanelRequest struct {
	Title string
}

// RectSnapshot is a window rectangle in screen coordinates.
type RectSnapshot struct {
	X      int
	Y      int
	Width  int
	Height int
}

// PanelSnapshot describes one panel's current placement and state.
// Container is "bar", "dock-left", "dock-right", "fullscreen", or
// "detached" for a panel mid-drag outside every container.
type PanelSnapshot struct {
	Title     string
	Container string
	Expanded  bool
	Urgent    bool
	Focused   bool
	Titlebar  RectSnapshot
	Content   RectSnapshot
}

// ScreenSnapshot is the screen geometry panels are laid out against.
type ScreenSnapshot struct {
	Width  int
	Height int
}

// SnapshotResponse returns the full panel layout in creation order.
type SnapshotResponse struct {
	Version string
	Screen  ScreenSnapshot
	Panels  []PanelSnapshot
}
