package sim

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func TestJumpRefreshEmptyQueryListsAllInOrder(t *testing.T) {
	titles := []string{"chat", "notes", "downloads", "reply"}
	j := jumpPrompt{input: textinput.New()}

	j.refresh(titles)
	if len(j.matches) != len(titles) {
		t.Fatalf("refresh(\"\") kept %d matches, want %d", len(j.matches), len(titles))
	}
	for i, title := range titles {
		if j.matches[i].Str != title {
			t.Errorf("matches[%d] = %q, want %q (creation order)", i, j.matches[i].Str, title)
		}
	}
	if j.sel != 0 {
		t.Errorf("sel = %d after refresh, want 0", j.sel)
	}
}

func TestJumpRefreshFiltersFuzzily(t *testing.T) {
	titles := []string{"chat", "notes", "downloads", "reply"}
	j := jumpPrompt{input: textinput.New()}
	j.input.SetValue("ch")

	j.refresh(titles)
	if len(j.matches) != 1 || j.matches[0].Str != "chat" {
		t.Fatalf("refresh(\"ch\") matches = %v, want just chat", j.matches)
	}

	j.input.SetValue("zzz")
	j.refresh(titles)
	if len(j.matches) != 0 {
		t.Errorf("refresh(\"zzz\") matches = %v, want none", j.matches)
	}
	if _, ok := j.selected(); ok {
		t.Error("selected() reported a pick with no matches")
	}
}

func TestJumpMoveWrapsAroundMatches(t *testing.T) {
	j := jumpPrompt{input: textinput.New()}
	j.refresh([]string{"a", "b", "c"})

	j.move(-1)
	if j.sel != 2 {
		t.Fatalf("sel = %d after moving up from the top, want 2", j.sel)
	}
	j.move(1)
	if j.sel != 0 {
		t.Fatalf("sel = %d after moving back down, want 0", j.sel)
	}
	if title, ok := j.selected(); !ok || title != "a" {
		t.Errorf("selected() = %q,%v, want a,true", title, ok)
	}

	empty := jumpPrompt{input: textinput.New()}
	empty.move(1) // no matches, stays put
	if empty.sel != 0 {
		t.Errorf("sel = %d on an empty prompt, want 0", empty.sel)
	}
}

func TestJumpOverlayFocusesTypedPanel(t *testing.T) {
	m := newTestModel(t)

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.state != stateJump {
		t.Fatalf("state = %v after /, want stateJump", m.state)
	}

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("do")})
	if len(m.jump.matches) != 1 || m.jump.matches[0].Str != "downloads" {
		t.Fatalf("matches after typing \"do\" = %v, want just downloads", m.jump.matches)
	}

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateBoard {
		t.Fatalf("state = %v after enter, want stateBoard", m.state)
	}
	dl := demoPanel(t, m, "downloads")
	if p := m.focusedPanel(); p != dl {
		t.Errorf("focusedPanel() = %v, want downloads", p)
	}
	if !dl.IsExpanded() {
		t.Error("jumping to collapsed downloads did not expand it")
	}
	if !strings.Contains(m.status, `focused "downloads"`) {
		t.Errorf("status = %q, want the jump confirmation", m.status)
	}
}

func TestJumpOverlayEscCancels(t *testing.T) {
	m := newTestModel(t)

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.state != stateBoard {
		t.Fatalf("state = %v after esc, want stateBoard", m.state)
	}
	if p := m.focusedPanel(); p == nil || p.Title() != "chat" {
		t.Errorf("focusedPanel() = %v after cancel, want chat untouched", p)
	}
}
