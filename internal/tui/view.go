package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"corkboard/internal/api"
	"corkboard/internal/canvas"
)

const (
	minWidth  = 60
	minHeight = 15
)

// View implements tea.Model. This renders the full TUI display.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf("Terminal too small (%dx%d). Need %dx%d minimum.",
			m.width, m.height, minWidth, minHeight)
	}

	if modal := m.renderModal(); modal != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	return m.renderBoardView()
}

// renderBoardView renders the normal board layout: header, node listing,
// footer, all inside the container border.
func (m model) renderBoardView() string {
	w := safeWidth(m.width - 4) // Account for container borders

	var sections []string
	sections = append(sections, m.renderHeader(w))
	sections = append(sections, m.renderDivider(w))
	sections = append(sections, m.renderNodes(w))
	sections = append(sections, m.renderDivider(w))
	sections = append(sections, m.renderFooter())

	content := strings.Join(sections, "\n")

	rendered := styles.Container.
		Width(safeWidth(m.width - 2)).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, rendered)
}

// renderHeader renders the board name with sync state, plus a counts line.
func (m model) renderHeader(w int) string {
	title := styles.Title.Render(m.board.Name)
	sync := m.renderSyncStatus()

	titleLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", max(1, w-lipgloss.Width(title)-lipgloss.Width(sync))),
		sync,
	)

	store := m.ctrl.Store()
	countsText := fmt.Sprintf("items: %d  groups: %d  edges: %d  selected: %d",
		len(store.Items()), len(store.Groups()), len(store.Edges()), m.ctrl.Selection().Len())
	refreshText := m.renderRefreshStatus()

	styledCounts := styles.Counts.Render(countsText)
	styledRefresh := styles.Counts.Render(refreshText)
	countsLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		styledCounts,
		strings.Repeat(" ", max(1, w-lipgloss.Width(styledCounts)-lipgloss.Width(styledRefresh))),
		styledRefresh,
	)

	return titleLine + "\n" + countsLine
}

// renderSyncStatus surfaces the most recent failed backend write, if any.
// Writes are fire and forget, so this is the only place outcomes show up.
func (m model) renderSyncStatus() string {
	res, ok := m.syncer.LastFailure()
	if !ok {
		return styles.SyncOK.Render("sync ok")
	}
	text := fmt.Sprintf("sync %s failed: %s", res.Op.Kind, truncate(res.Err.Error(), 40))
	return styles.SyncError.Render(text)
}

func (m model) renderRefreshStatus() string {
	if m.refreshErr != "" {
		return "refresh error: " + truncate(m.refreshErr, 40)
	}
	if m.lastRefresh.IsZero() {
		return "loading items..."
	}
	return "refreshed " + m.lastRefresh.Format("15:04:05")
}

// renderNodes renders groups in creation order with their members, then the
// ungrouped items. The cursor and selection are shown as line markers.
func (m model) renderNodes(w int) string {
	store := m.ctrl.Store()
	visible := max(1, m.height-9) // borders, header, dividers, footer

	var lines []string
	for _, g := range store.Groups() {
		lines = append(lines, m.renderGroupLine(g, w))
		if g.Template != "" {
			lines = append(lines, "     "+styles.Template.Render(truncate(firstLine(g.Template), w-5)))
		}
		for _, n := range store.Members(g.ID) {
			lines = append(lines, "   "+m.renderItemLine(n, g, w-3))
		}
	}
	for _, n := range store.Items() {
		if n.Grouped() {
			continue
		}
		lines = append(lines, m.renderItemLine(n, nil, w))
	}
	for _, e := range store.Edges() {
		lines = append(lines, "  "+styles.Edge.Render(truncate(m.edgeLabel(e), w-2)))
	}

	if len(lines) == 0 {
		padding := strings.Repeat("\n", visible/2)
		return padding + lipgloss.PlaceHorizontal(w, lipgloss.Center, "Board is empty.")
	}

	if len(lines) > visible {
		// Keep the cursor's line in view by trimming from the top.
		start := 0
		if cur := m.cursorLine(lines); cur >= visible {
			start = cur - visible + 1
		}
		lines = lines[start:min(start+visible, len(lines))]
	}
	for len(lines) < visible {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// cursorLine finds the rendered line carrying the cursor marker.
func (m model) cursorLine(lines []string) int {
	for i, l := range lines {
		if strings.Contains(l, cursorMarker) {
			return i
		}
	}
	return 0
}

const cursorMarker = "▸"

// renderGroupLine renders a group header line with origin coordinates.
func (m model) renderGroupLine(g *canvas.GroupNode, w int) string {
	marker := "  "
	if m.grabbedID == "" && m.cursorID() == g.ID {
		marker = cursorMarker + " "
	}

	pos := g.Bounds.Origin()
	style := styles.Group
	if strings.EqualFold(g.Name, m.ctrl.ActiveGroupName()) {
		style = styles.GroupActive
	}
	if m.ctrl.Selection().Contains(g.ID) {
		style = styles.Selected
	}

	name := g.Name
	suffix := ""
	if g.ID == m.grabbedID {
		style = styles.Grabbed
		pos = m.grabbedPos
		suffix = " [grabbed]"
	}

	coords := styles.Coords.Render(fmt.Sprintf("(%.0f, %.0f)", pos.X, pos.Y))
	return marker + style.Render("["+truncate(name, w-20)+"]"+suffix) + " " + coords
}

// renderItemLine renders one item with its board-absolute coordinates.
func (m model) renderItemLine(n *canvas.ItemNode, parent *canvas.GroupNode, w int) string {
	marker := "  "
	if m.grabbedID == "" && m.cursorID() == n.ID {
		marker = cursorMarker + " "
	}

	style := styles.Item
	if m.ctrl.Selection().Contains(n.ID) {
		style = styles.Selected
	}

	pos := n.AbsolutePos(parent)
	suffix := ""
	if n.ID == m.grabbedID {
		style = styles.Grabbed
		pos = m.grabbedPos
		suffix = " [grabbed]"
	}

	glyph := typeGlyph(n.Type)
	coords := styles.Coords.Render(fmt.Sprintf("(%.0f, %.0f)", pos.X, pos.Y))
	return marker + style.Render(glyph+" "+truncate(n.Label, w-18)+suffix) + " " + coords
}

func (m model) edgeLabel(e canvas.Edge) string {
	return "edge: " + m.nodeLabel(e.From) + " ─ " + m.nodeLabel(e.To)
}

func (m model) nodeLabel(id string) string {
	store := m.ctrl.Store()
	if n := store.Item(id); n != nil {
		return n.Label
	}
	if g := store.Group(id); g != nil {
		return "[" + g.Name + "]"
	}
	return id
}

// typeGlyph maps a backend item type to a short display tag.
func typeGlyph(t string) string {
	switch t {
	case api.ItemTypeYouTube:
		return "[yt]"
	case api.ItemTypeDocument:
		return "[doc]"
	case api.ItemTypeWebpage:
		return "[web]"
	case api.ItemTypeAudioVideo:
		return "[av]"
	default:
		return "[?]"
	}
}

// renderFooter renders keyboard shortcuts help text.
func (m model) renderFooter() string {
	var help string
	if m.grabbedID != "" {
		help = "arrows: move  enter: drop  esc: cancel"
	} else {
		help = "tab: next  space: select  enter: grab  g: group  t: template  " +
			"c: connect  u: ungroup  d: delete sel  x/D: delete  /: ask  r: refresh  q: quit"
	}
	return styles.Footer.Render(help)
}

func (m model) renderDivider(w int) string {
	return styles.Divider.Render(strings.Repeat("─", w))
}

// renderModal renders the overlay for the current input mode, or empty when
// the board is in normal interaction.
func (m model) renderModal() string {
	switch m.mode {
	case modeConfirm:
		return m.renderConfirmModal()
	case modeGroupName:
		return m.renderNameModal()
	case modeGroupTemplate:
		return m.renderTemplateModal()
	case modeChat:
		return m.renderChatModal()
	case modeAnswer:
		return m.renderAnswerModal()
	}
	return ""
}

func (m model) renderConfirmModal() string {
	content := m.confirmText + "\n\n" +
		styles.Footer.Render("[y] confirm  [n] cancel")
	return styles.ModalBorder.Render(content)
}

func (m model) renderNameModal() string {
	var b strings.Builder
	b.WriteString(styles.PromptLabel.Render("New group"))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	if m.promptErr != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.PromptError.Render(m.promptErr))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Footer.Render("[enter] next  [esc] cancel"))
	return styles.ModalBorder.Render(b.String())
}

func (m model) renderTemplateModal() string {
	label := "Template for \"" + m.pendingName + "\""
	if m.editingName != "" {
		label = "Edit template for \"" + m.editingName + "\""
	}

	var b strings.Builder
	b.WriteString(styles.PromptLabel.Render(label))
	b.WriteString("\n\n")
	b.WriteString(m.templateInput.View())
	if m.promptErr != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.PromptError.Render(m.promptErr))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Footer.Render("[ctrl+s] save  [esc] cancel"))
	return styles.ModalBorder.Render(b.String())
}

func (m model) renderChatModal() string {
	scope := "whole board"
	if n := len(m.ctrl.SelectedItemIDs()); n > 0 {
		scope = fmt.Sprintf("%d selected item(s)", n)
	}

	var b strings.Builder
	b.WriteString(styles.PromptLabel.Render("Ask " + m.board.Name))
	b.WriteString("\n")
	b.WriteString(styles.Context.Render("scope: " + scope))
	b.WriteString("\n\n")
	b.WriteString(m.chatInput.View())
	b.WriteString("\n\n")
	b.WriteString(styles.Footer.Render("[enter] ask  [esc] cancel"))
	return styles.ModalBorder.Render(b.String())
}

func (m model) renderAnswerModal() string {
	w := safeWidth(m.width * 70 / 100)

	var b strings.Builder
	if m.chatBusy {
		b.WriteString(m.chatSpinner.View())
		b.WriteString(" thinking...")
	} else if m.chatErr != "" {
		b.WriteString(styles.PromptError.Render("chat failed: " + m.chatErr))
	} else if m.chatAnswer != nil {
		b.WriteString(styles.Answer.Render(wrap(m.chatAnswer.Answer, w)))
		if len(m.chatAnswer.Contexts) > 0 {
			b.WriteString("\n\n")
			b.WriteString(styles.PromptLabel.Render(fmt.Sprintf("%d source(s)", len(m.chatAnswer.Contexts))))
			for i, c := range m.chatAnswer.Contexts {
				if i >= 3 {
					break
				}
				b.WriteString("\n")
				b.WriteString(styles.Context.Render("· " + truncate(firstLine(c.Text), w-2)))
			}
		}
	}
	b.WriteString("\n\n")
	if !m.chatBusy {
		b.WriteString(styles.Footer.Render("[esc] close"))
	}
	return styles.ModalBorder.Width(w).Render(b.String())
}

// safeWidth returns a width that is at least 1 to prevent negative values.
func safeWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}

// truncate shortens s to at most n display cells. Width-aware truncation
// never splits a multi-byte rune mid-sequence.
func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	return ansi.Truncate(s, n, "...")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// wrap performs naive word wrapping at the given width.
func wrap(s string, width int) string {
	if width < 10 {
		return s
	}
	var out strings.Builder
	for _, para := range strings.Split(s, "\n") {
		lineLen := 0
		for i, word := range strings.Fields(para) {
			if i > 0 {
				if lineLen+1+len(word) > width {
					out.WriteByte('\n')
					lineLen = 0
				} else {
					out.WriteByte(' ')
					lineLen++
				}
			}
			out.WriteString(word)
			lineLen += len(word)
		}
		out.WriteByte('\n')
	}
	return strings.TrimRight(out.String(), "\n")
}
