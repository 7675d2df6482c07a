package sim

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/regenrek/paneldeck/internal/geometry"
)

// styleID indexes the board cell styles.
type styleID uint8

const (
	styBg styleID = iota
	styContent
	styContentFocus
	styTitlebar
	styTitlebarFocus
	styTitlebarUrgent
	styDeco
	styAnchor
	styResizeBox
	styPointer
	styCount
)

// palette holds every style the simulator renders with, resolved once
// from the terminal's background probe.
type palette struct {
	cells [styCount]lipgloss.Style

	header    lipgloss.Style
	headerDim lipgloss.Style

	statusKey  lipgloss.Style
	statusDesc lipgloss.Style
	statusErr  lipgloss.Style
	statusInfo lipgloss.Style

	logTitle lipgloss.Style
}

func newPalette(dark bool) palette {
	// Accents
	accent := lipgloss.Color("#3B82F6")
	urgent := lipgloss.Color("#F59E0B")
	errCol := lipgloss.Color("#F87171")
	okCol := lipgloss.Color("#22C55E")

	// Dark-terminal surfaces, light variants second.
	boardBg := lipgloss.Color("#1A1A1A")
	contentBg := lipgloss.Color("#242424")
	contentFocusBg := lipgloss.Color("#2E2E2E")
	titlebarBg := lipgloss.Color("#3A3A3A")
	dockBg := lipgloss.Color("#202020")
	textPrimary := lipgloss.Color("#F8FAFC")
	textMuted := lipgloss.Color("#94A3B8")
	textDim := lipgloss.Color("#64748B")
	if !dark {
		boardBg = lipgloss.Color("#E2E8F0")
		contentBg = lipgloss.Color("#F1F5F9")
		contentFocusBg = lipgloss.Color("#F8FAFC")
		titlebarBg = lipgloss.Color("#CBD5E1")
		dockBg = lipgloss.Color("#D8DEE9")
		textPrimary = lipgloss.Color("#0F172A")
		textMuted = lipgloss.Color("#475569")
		textDim = lipgloss.Color("#94A3B8")
	}

	var p palette
	p.cells[styBg] = lipgloss.NewStyle().Background(boardBg).Foreground(textDim)
	p.cells[styContent] = lipgloss.NewStyle().Background(contentBg).Foreground(textDim)
	p.cells[styContentFocus] = lipgloss.NewStyle().Background(contentFocusBg).Foreground(textMuted)
	p.cells[styTitlebar] = lipgloss.NewStyle().Background(titlebarBg).Foreground(textPrimary)
	p.cells[styTitlebarFocus] = lipgloss.NewStyle().Background(accent).Foreground(boardBg).Bold(true)
	p.cells[styTitlebarUrgent] = lipgloss.NewStyle().Background(urgent).Foreground(boardBg).Bold(true)
	p.cells[styDeco] = lipgloss.NewStyle().Background(dockBg).Foreground(textDim)
	p.cells[styAnchor] = lipgloss.NewStyle().Background(titlebarBg).Foreground(okCol).Bold(true)
	p.cells[styResizeBox] = lipgloss.NewStyle().Background(boardBg).Foreground(accent)
	p.cells[styPointer] = lipgloss.NewStyle().Reverse(true)

	p.header = lipgloss.NewStyle().Background(titlebarBg).Foreground(textPrimary).Bold(true)
	p.headerDim = lipgloss.NewStyle().Background(titlebarBg).Foreground(textMuted)
	p.statusKey = lipgloss.NewStyle().Foreground(accent).Bold(true)
	p.statusDesc = lipgloss.NewStyle().Foreground(textMuted)
	p.statusErr = lipgloss.NewStyle().Foreground(errCol).Bold(true)
	p.statusInfo = lipgloss.NewStyle().Foreground(okCol)
	p.logTitle = lipgloss.NewStyle().Foreground(textMuted).Bold(true)
	return p
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	switch m.state {
	case stateNewPanel:
		return m.headerView() + "\n" + m.formView()
	case stateJump:
		return m.headerView() + "\n" + m.jumpView()
	case statePicker:
		return m.headerView() + "\n" + m.picker.View()
	}

	var sb strings.Builder
	sb.WriteString(m.headerView())
	sb.WriteByte('\n')
	sb.WriteString(m.boardView())
	if m.showLog {
		sb.WriteByte('\n')
		sb.WriteString(m.logPaneView())
	}
	sb.WriteByte('\n')
	sb.WriteString(m.statusView())
	return sb.String()
}

func (m Model) headerView() string {
	left := fmt.Sprintf(" paneldeck sim · %s", m.sceneName)
	right := fmt.Sprintf("%d panels · %d×%dpx · %s ",
		m.mgr.NumPanels(),
		m.board.screen.Width(), m.board.screen.Height(),
		m.board.pointer)
	pad := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if pad < 1 {
		return m.pal.header.Render(runewidth.Truncate(left, m.width, "…"))
	}
	return m.pal.header.Render(left) +
		m.pal.headerDim.Render(strings.Repeat(" ", pad)+right)
}

// boardView paints the draw list bottom-to-top onto a cell grid, then
// overlays the pointer cell.
func (m Model) boardView() string {
	cols, rows := m.boardCols(), m.boardRows()
	runes := make([][]rune, rows)
	styles := make([][]styleID, rows)
	for y := 0; y < rows; y++ {
		runes[y] = make([]rune, cols)
		styles[y] = make([]styleID, cols)
		for x := 0; x < cols; x++ {
			runes[y][x] = ' '
		}
	}

	for _, it := range m.board.drawList() {
		m.paintItem(runes, styles, it)
	}

	px, py := m.board.pointer.X/m.scaleX, m.board.pointer.Y/m.scaleY
	if px >= 0 && px < cols && py >= 0 && py < rows {
		runes[py][px] = '+'
		styles[py][px] = styPointer
	}

	var sb strings.Builder
	for y := 0; y < rows; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		m.renderRow(&sb, runes[y], styles[y])
	}
	return sb.String()
}

// renderRow batches runs of equally styled cells into single Render
// calls.
func (m Model) renderRow(sb *strings.Builder, runes []rune, styles []styleID) {
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && styles[end] == styles[start] {
			end++
		}
		sb.WriteString(m.pal.cells[styles[start]].Render(string(runes[start:end])))
		start = end
	}
}

func (m Model) paintItem(runes [][]rune, styles [][]styleID, it drawItem) {
	// Hairline decorations (panel separators) are thinner than a cell;
	// skip them rather than fattening them to a full row.
	if it.deco && (it.bounds.Height < m.scaleY/2 || it.bounds.Width < m.scaleX/2) {
		return
	}
	x0, x1, y0, y1 := m.cellSpan(it.bounds)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	sty := styContent
	fill := ' '
	label := ""
	switch {
	case it.deco:
		sty, fill = decoFace(it.name)
	case it.kind == kindTitlebar:
		sty = styTitlebar
		if it.urgent {
			sty = styTitlebarUrgent
		}
		if it.focused {
			sty = styTitlebarFocus
		}
		label = strings.TrimSuffix(it.title, " titlebar")
	default:
		if it.focused {
			sty = styContentFocus
		}
	}
	if it.opacity < 1 {
		fill = '░'
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			runes[y][x] = fill
			styles[y][x] = sty
		}
	}
	if label != "" {
		writeLabel(runes[y0], x0+1, x1-1, label)
	}
}

func decoFace(name string) (styleID, rune) {
	switch {
	case strings.HasPrefix(name, "panel anchor"):
		return styAnchor, '▾'
	case strings.HasPrefix(name, "resize box"):
		return styResizeBox, '░'
	case strings.HasPrefix(name, "panel dock background shadow"):
		return styBg, ' '
	default:
		return styDeco, ' '
	}
}

// cellSpan converts a pixel rect to a clamped half-open cell range.
func (m Model) cellSpan(r geometry.Rect) (x0, x1, y0, y1 int) {
	cols, rows := m.boardCols(), m.boardRows()
	x0 = clampRange(r.X/m.scaleX, 0, cols)
	x1 = clampRange(ceilDiv(r.Right(), m.scaleX), 0, cols)
	y0 = clampRange(r.Y/m.scaleY, 0, rows)
	y1 = clampRange(ceilDiv(r.Bottom(), m.scaleY), 0, rows)
	return x0, x1, y0, y1
}

// writeLabel copies a truncated label into one grid row, honoring wide
// runes.
func writeLabel(row []rune, x0, x1 int, label string) {
	if x1 <= x0 {
		return
	}
	x := x0
	for _, r := range runewidth.Truncate(label, x1-x0, "…") {
		w := runewidth.RuneWidth(r)
		if w <= 0 || x+w > x1 {
			break
		}
		row[x] = r
		for i := 1; i < w; i++ {
			row[x+i] = ' '
		}
		x += w
	}
}

func (m Model) logPaneView() string {
	title := fmt.Sprintf(" log · %d entries", len(m.ring.Lines()))
	return m.pal.logTitle.Render(title) + "\n" + m.logView.View()
}

func (m Model) statusView() string {
	if m.status != "" {
		sty := m.pal.statusInfo
		if m.statusErr {
			sty = m.pal.statusErr
		}
		return " " + sty.Render(runewidth.Truncate(m.status, m.width-2, "…"))
	}
	parts := make([]string, 0, 12)
	for _, b := range m.keys.helpEntries() {
		h := b.Help()
		if h.Key == "s" && m.sceneDir == "" {
			continue
		}
		parts = append(parts,
			m.pal.statusKey.Render(h.Key)+" "+m.pal.statusDesc.Render(h.Desc))
	}
	return " " + strings.Join(parts, m.pal.statusDesc.Render(" · "))
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func clampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
