package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/regenrek/paneldeck/internal/scene"
)

// sceneItem is one selectable scene file.
type sceneItem struct {
	name string
	path string
	desc string
}

func (s sceneItem) Title() string       { return s.name }
func (s sceneItem) Description() string { return s.desc }
func (s sceneItem) FilterValue() string { return strings.ToLower(s.name) }

func newScenePicker() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Scenes"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("scene", "scenes")
	return l
}

// openPicker rescans the scene directory; the picker owns the keyboard
// until a pick or a cancel.
func (m *Model) openPicker() {
	m.picker.SetItems(loadSceneItems(m.sceneDir))
	m.picker.ResetFilter()
	m.state = statePicker
}

// loadSceneItems lists the directory's scene files. Each one is parsed
// up front so broken files advertise themselves before being picked.
func loadSceneItems(dir string) []list.Item {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []list.Item{sceneItem{name: "(unreadable directory)", desc: err.Error()}}
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		item := sceneItem{name: e.Name(), path: path}
		if scn, err := scene.LoadFile(path); err != nil {
			item.desc = "invalid: " + err.Error()
		} else {
			item.desc = fmt.Sprintf("%d panels · %d×%dpx",
				len(scn.Panels), scn.Screen.Width, scn.Screen.Height)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		items = append(items, sceneItem{name: "(no scene files)", desc: dir})
	}
	return items
}

func (m Model) updatePicker(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.picker.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc", "q":
			m.state = stateBoard
			return m, nil
		case "enter":
			item, ok := m.picker.SelectedItem().(sceneItem)
			if !ok || item.path == "" {
				m.state = stateBoard
				return m, nil
			}
			m.pickScene(item.path)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) pickScene(path string) {
	scn, err := scene.LoadFile(path)
	if err != nil {
		m.setError(err)
		m.state = stateBoard
		return
	}
	if err := scn.CheckAppVersion(m.version); err != nil {
		m.setError(err)
		m.state = stateBoard
		return
	}
	m.applyScene(scn, path)
	m.state = stateBoard
	m.setStatus("scene %s loaded", m.sceneName)
}
