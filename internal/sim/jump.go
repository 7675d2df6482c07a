package sim

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

const jumpMaxRows = 10

// panelTitles adapts the creation-order title list to fuzzy.Source.
type panelTitles []string

func (t panelTitles) String(i int) string { return t[i] }
func (t panelTitles) Len() int            { return len(t) }

// jumpPrompt is the `/` overlay: type a few characters, pick a panel,
// focus it.
type jumpPrompt struct {
	input   textinput.Model
	matches fuzzy.Matches
	sel     int
}

func (m Model) openJump() (Model, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "panel title"
	ti.CharLimit = 64
	m.jump = jumpPrompt{input: ti}
	m.jump.refresh(m.titleOrder)
	m.state = stateJump
	return m, m.jump.input.Focus()
}

func (m Model) updateJump(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = stateBoard
			return m, nil
		case "enter":
			if title, ok := m.jump.selected(); ok {
				m.focusPanelByTitle(title)
				m.setStatus("focused %q", title)
			}
			m.state = stateBoard
			return m, nil
		case "up", "ctrl+p":
			m.jump.move(-1)
			return m, nil
		case "down", "ctrl+n", "tab":
			m.jump.move(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	before := m.jump.input.Value()
	m.jump.input, cmd = m.jump.input.Update(msg)
	if m.jump.input.Value() != before {
		m.jump.refresh(m.titleOrder)
	}
	return m, cmd
}

// refresh recomputes matches against the current titles. An empty query
// lists every panel in creation order.
func (j *jumpPrompt) refresh(titles []string) {
	query := strings.TrimSpace(j.input.Value())
	if query == "" {
		j.matches = j.matches[:0]
		for i, t := range titles {
			j.matches = append(j.matches, fuzzy.Match{Str: t, Index: i})
		}
	} else {
		j.matches = fuzzy.FindFrom(query, panelTitles(titles))
	}
	j.sel = 0
}

func (j *jumpPrompt) move(delta int) {
	if len(j.matches) == 0 {
		return
	}
	j.sel = (j.sel + delta + len(j.matches)) % len(j.matches)
}

func (j *jumpPrompt) selected() (string, bool) {
	if j.sel < 0 || j.sel >= len(j.matches) {
		return "", false
	}
	return j.matches[j.sel].Str, true
}

func (m Model) jumpView() string {
	var sb strings.Builder
	sb.WriteString("\n ")
	sb.WriteString(m.jump.input.View())
	sb.WriteString("\n\n")

	if len(m.jump.matches) == 0 {
		sb.WriteString(m.pal.statusDesc.Render("  no matching panel"))
		sb.WriteByte('\n')
		return sb.String()
	}
	for i, match := range m.jump.matches {
		if i >= jumpMaxRows {
			break
		}
		cursor := "  "
		if i == m.jump.sel {
			cursor = m.pal.statusKey.Render("▸ ")
		}
		sb.WriteString(" " + cursor + m.highlightMatch(match) + "\n")
	}
	sb.WriteByte('\n')
	sb.WriteString(" " + m.pal.statusDesc.Render("enter focus · esc cancel"))
	return sb.String()
}

// highlightMatch renders a title with its matched runes accented.
func (m Model) highlightMatch(match fuzzy.Match) string {
	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}
	var sb strings.Builder
	for i, r := range match.Str {
		if matched[i] {
			sb.WriteString(m.pal.statusKey.Render(string(r)))
		} else {
			sb.WriteString(m.pal.statusDesc.Render(string(r)))
		}
	}
	return sb.String()
}
