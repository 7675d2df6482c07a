package sim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/ansi"
)

// panelForm collects the fields for a new panel. Dimensions are text
// inputs so the form can validate them before the addSpec is built.
type panelForm struct {
	form *huh.Form

	title    string
	width    string
	titlebar string
	content  string
	expanded bool
}

func (m Model) openNewPanelForm() (Model, tea.Cmd) {
	pf := &panelForm{
		width:    "200",
		titlebar: "20",
		content:  "400",
		expanded: true,
	}
	taken := m.panelsByTitle
	pf.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("unique panel title").
			Value(&pf.title).
			Validate(func(s string) error {
				s = cleanTitle(s)
				if s == "" {
					return errors.New("title is required")
				}
				if _, ok := taken[s]; ok {
					return fmt.Errorf("panel %q already exists", s)
				}
				return nil
			}),
		huh.NewInput().
			Title("Width (px)").
			Value(&pf.width).
			Validate(validateDim),
		huh.NewInput().
			Title("Titlebar height (px)").
			Value(&pf.titlebar).
			Validate(validateDim),
		huh.NewInput().
			Title("Content height (px)").
			Value(&pf.content).
			Validate(validateDim),
		huh.NewConfirm().
			Title("Expanded").
			Affirmative("expanded").
			Negative("collapsed").
			Value(&pf.expanded),
	)).WithShowHelp(true)

	m.form = pf
	m.state = stateNewPanel
	return m, pf.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.state = stateBoard
		return m, nil
	}
	f, cmd := m.form.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form.form = hf
	}
	switch m.form.form.State {
	case huh.StateCompleted:
		spec := m.form.spec()
		m.form = nil
		m.state = stateBoard
		if _, err := m.addPanel(spec); err != nil {
			m.setError(err)
		} else {
			m.setStatus("panel %q opened", spec.title)
		}
	case huh.StateAborted:
		m.form = nil
		m.state = stateBoard
	}
	return m, cmd
}

func (m Model) formView() string {
	if m.form == nil {
		return ""
	}
	return m.form.form.View()
}

// spec builds the add request from validated fields. Atoi cannot fail
// here; validateDim already ran on every dimension.
func (pf *panelForm) spec() addSpec {
	width, _ := strconv.Atoi(strings.TrimSpace(pf.width))
	titlebar, _ := strconv.Atoi(strings.TrimSpace(pf.titlebar))
	content, _ := strconv.Atoi(strings.TrimSpace(pf.content))
	return addSpec{
		title:          cleanTitle(pf.title),
		width:          width,
		titlebarHeight: titlebar,
		contentHeight:  content,
		expanded:       pf.expanded,
		focus:          true,
	}
}

// cleanTitle strips escape sequences and surrounding space, the same
// scrub scene titles get.
func cleanTitle(s string) string {
	return strings.TrimSpace(ansi.Strip(s))
}

func validateDim(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number of pixels")
	}
	if n <= 0 || n > 4096 {
		return errors.New("must be between 1 and 4096")
	}
	return nil
}
