package output

// Rect is a window rectangle in screen pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Screen struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Panel struct {
	Title     string `json:"title"`
	Container string `json:"container"`
	Expanded  bool   `json:"expanded"`
	Urgent    bool   `json:"urgent,omitempty"`
	Focused   bool   `json:"focused,omitempty"`
	Titlebar  Rect   `json:"titlebar"`
	Content   Rect   `json:"content"`
}

type Snapshot struct {
	DaemonVersion string  `json:"daemon_version,omitempty"`
	Screen        Screen  `json:"screen"`
	Panels        []Panel `json:"panels"`
}

type Event struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Expanded bool   `json:"expanded"`
}

type ScenePanel struct {
	Title          string `json:"title"`
	Width          int    `json:"width"`
	TitlebarHeight int    `json:"titlebar_height"`
	ContentHeight  int    `json:"content_height"`
	Expanded       bool   `json:"expanded"`
	Focus          bool   `json:"focus,omitempty"`
	Urgent         bool   `json:"urgent,omitempty"`
	Creator        string `json:"creator,omitempty"`
}

type Scene struct {
	Path          string       `json:"path,omitempty"`
	MinAppVersion string       `json:"min_app_version,omitempty"`
	Screen        Screen       `json:"screen"`
	Panels        []ScenePanel `json:"panels"`
}

type ActionResult struct {
	Action string `json:"action"`
	Status string `json:"status"`
	Title  string `json:"title,omitempty"`
}

type DaemonStatus struct {
	Running bool   `json:"running"`
	PID     int    `json:"pid,omitempty"`
	Socket  string `json:"socket,omitempty"`
}
