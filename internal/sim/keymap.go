package sim

import "github.com/charmbracelet/bubbles/key"

type simKeyMap struct {
	newPanel   key.Binding
	closePanel key.Binding
	toggle     key.Binding
	fullscreen key.Binding
	urgent     key.Binding
	jump       key.Binding
	copyScene  key.Binding
	log        key.Binding
	cycleFocus key.Binding
	scenes     key.Binding
	quit       key.Binding
}

func newSimKeyMap() simKeyMap {
	return simKeyMap{
		newPanel: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		closePanel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "expand/collapse"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		urgent: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "urgent"),
		),
		jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump"),
		),
		copyScene: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy scene"),
		),
		log: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log"),
		),
		cycleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus next"),
		),
		scenes: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scenes"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpEntries feeds the status line, in display order.
func (k simKeyMap) helpEntries() []key.Binding {
	return []key.Binding{
		k.newPanel, k.closePanel, k.toggle, k.fullscreen, k.urgent,
		k.jump, k.copyScene, k.log, k.cycleFocus, k.scenes, k.quit,
	}
}
