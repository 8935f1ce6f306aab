package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/api"
	"corkboard/internal/canvas"
)

// Init implements tea.Model: load the board and start the refresh ticker.
// Init cannot persist model state, so the initial fetch reuses the request
// id newModel seeded.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchItems(m.refreshReqID)}
	if m.cfg.Refresh.Interval > 0 {
		cmds = append(cmds, m.tickCmd())
	}
	return tea.Batch(cmds...)
}

// refreshCmd starts a new item list fetch, superseding any in flight.
func (m *model) refreshCmd() tea.Cmd {
	m.refreshReqID++
	return m.fetchItems(m.refreshReqID)
}

func (m model) fetchItems(reqID int) tea.Cmd {
	client := m.client
	boardID := m.board.ID
	return func() tea.Msg {
		items, err := client.ListItems(context.Background(), boardID)
		return itemsMsg{items: items, err: err, requestID: reqID}
	}
}

// tickCmd schedules the next periodic refresh.
func (m *model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.Refresh.Interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// syncCmd executes sync ops in the background. The local mutation has
// already been applied; the UI never waits on these calls.
func (m *model) syncCmd(ops []canvas.SyncOp) tea.Cmd {
	if len(ops) == 0 {
		return nil
	}
	refresh := false
	for _, op := range ops {
		if op.Kind == canvas.OpDeleteItem {
			refresh = true
			break
		}
	}
	syncer := m.syncer
	return func() tea.Msg {
		syncer.ExecuteAll(context.Background(), ops)
		return syncedMsg{refresh: refresh}
	}
}

// fetchTemplateCmd resolves a group's current template from the backend
// group list before opening the editor, so the edit never starts from a
// stale local copy.
func (m *model) fetchTemplateCmd(name string) tea.Cmd {
	client := m.client
	boardID := m.board.ID
	return func() tea.Msg {
		groups, err := client.ListGroups(context.Background(), boardID)
		return groupsMsg{groups: groups, err: err, name: name}
	}
}

// chatCmd sends a chat query scoped to the current selection.
func (m *model) chatCmd(query string) tea.Cmd {
	m.chatReqID++
	reqID := m.chatReqID
	client := m.client
	q := api.ChatQuery{
		BoardID: m.board.ID,
		ItemIDs: m.ctrl.SelectedItemIDs(),
		Query:   query,
		TopK:    m.cfg.Chat.TopK,
	}
	return func() tea.Msg {
		answer, err := client.Chat(context.Background(), q)
		return chatMsg{answer: answer, err: err, requestID: reqID}
	}
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case itemsMsg:
		if msg.requestID != m.refreshReqID {
			return m, nil
		}
		if msg.err != nil {
			m.refreshErr = msg.err.Error()
			return m, nil
		}
		m.refreshErr = ""
		m.lastRefresh = time.Now()
		m.ctrl.Refresh(itemSummaries(msg.items))
		return m, nil

	case refreshTickMsg:
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case syncedMsg:
		// Outcomes are read from the syncer's error surface at render time.
		// Item deletes additionally reconcile against the backend list.
		if msg.refresh {
			return m, m.refreshCmd()
		}
		return m, nil

	case groupsMsg:
		return m.handleGroups(msg)

	case chatMsg:
		if msg.requestID != m.chatReqID {
			return m, nil
		}
		m.chatBusy = false
		if msg.err != nil {
			m.chatErr = msg.err.Error()
			m.chatAnswer = nil
		} else {
			m.chatErr = ""
			m.chatAnswer = msg.answer
		}
		m.mode = modeAnswer
		return m, nil

	case spinner.TickMsg:
		if m.chatBusy {
			var cmd tea.Cmd
			m.chatSpinner, cmd = m.chatSpinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// handleGroups opens the template editor once the backend group list
// arrives.
func (m model) handleGroups(msg groupsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Fall back to the local copy rather than blocking the edit.
		if g := m.ctrl.Store().GroupByName(msg.name); g != nil {
			return m.openTemplateEditor(msg.name, g.Template), nil
		}
		return m, nil
	}
	template := ""
	for _, g := range msg.groups {
		if strings.EqualFold(g.Name, msg.name) {
			template = g.Template
			break
		}
	}
	return m.openTemplateEditor(msg.name, template), nil
}

func (m model) openTemplateEditor(name, template string) model {
	m.editingName = name
	m.templateInput.SetValue(template)
	m.templateInput.Focus()
	m.mode = modeGroupTemplate
	return m
}

// handleKey dispatches keyboard input by mode.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeGroupName:
		return m.handleNameKey(msg)
	case modeGroupTemplate:
		return m.handleTemplateKey(msg)
	case modeChat:
		return m.handleChatKey(msg)
	case modeAnswer:
		return m.handleAnswerKey(msg)
	default:
		return m.handleBoardKey(msg)
	}
}

// handleBoardKey processes keys in normal board interaction.
func (m model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.grabbedID != "" {
		return m.handleGrabKey(key)
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "tab", "right", "l":
		if n := len(m.nodeOrder()); n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
		return m, nil

	case "shift+tab", "left", "h":
		if n := len(m.nodeOrder()); n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
		return m, nil

	case " ":
		if id := m.cursorID(); id != "" {
			m.ctrl.Selection().Toggle(id)
		}
		return m, nil

	case "esc":
		m.ctrl.Selection().Clear()
		m.ctrl.ClearActiveGroup()
		return m, nil

	case "enter":
		return m.grabCursorNode(), nil

	case "g":
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		m.templateInput.SetValue("")
		m.promptErr = ""
		m.mode = modeGroupName
		return m, nil

	case "t":
		id := m.cursorID()
		if g := m.ctrl.Store().Group(id); g != nil {
			return m, m.fetchTemplateCmd(g.Name)
		}
		return m, nil

	case "c":
		if ids := m.ctrl.Selection().IDs(); len(ids) == 2 {
			m.ctrl.Store().Connect(ids[0], ids[1])
		}
		return m, nil

	case "d", "delete", "backspace":
		// Keyboard delete removes every selected item immediately; the
		// next refresh reconciles with whatever the backend accepted.
		ops, _ := m.ctrl.DeleteSelectedItems()
		return m, m.syncCmd(ops)

	case "u":
		id := m.cursorID()
		if n := m.ctrl.Store().Item(id); n != nil && n.Grouped() {
			groupName := ""
			if g := m.ctrl.Store().Group(n.ParentGroupID); g != nil {
				groupName = g.Name
			}
			m.confirm = confirmDetachItem
			m.confirmTarget = id
			m.confirmText = "Remove item \"" + n.Label + "\" from group \"" + groupName + "\"?"
			m.mode = modeConfirm
		}
		return m, nil

	case "x":
		id := m.cursorID()
		if n := m.ctrl.Store().Item(id); n != nil {
			m.confirm = confirmDeleteItem
			m.confirmTarget = id
			m.confirmText = "Delete item \"" + n.Label + "\"?"
			m.mode = modeConfirm
		}
		return m, nil

	case "D":
		id := m.cursorID()
		if g := m.ctrl.Store().Group(id); g != nil {
			m.confirm = confirmDeleteGroup
			m.confirmTarget = id
			m.confirmText = "Delete group \"" + g.Name + "\" and detach its items?"
			m.mode = modeConfirm
		}
		return m, nil

	case "r":
		return m, m.refreshCmd()

	case "/":
		m.chatInput.SetValue("")
		m.chatInput.Focus()
		m.mode = modeChat
		return m, nil
	}

	return m, nil
}

// handleGrabKey moves or drops the grabbed node.
func (m model) handleGrabKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		m.grabbedPos.Y -= moveStep
	case "down", "j":
		m.grabbedPos.Y += moveStep
	case "left", "h":
		m.grabbedPos.X -= moveStep
	case "right", "l":
		m.grabbedPos.X += moveStep

	case "enter":
		// Drop: containment resolves here, against the drop point.
		id := m.grabbedID
		pos := m.grabbedPos
		m.grabbedID = ""
		if m.ctrl.Store().Group(id) != nil {
			m.ctrl.MoveGroup(id, pos)
			return m, nil
		}
		ops := m.ctrl.DropItem(id, pos)
		return m, m.syncCmd(ops)

	case "esc":
		// Abort the grab; the node keeps its pre-grab position.
		m.grabbedID = ""
	}
	return m, nil
}

// grabCursorNode lifts the node under the cursor at its current
// board-absolute position.
func (m model) grabCursorNode() model {
	id := m.cursorID()
	if id == "" {
		return m
	}
	if g := m.ctrl.Store().Group(id); g != nil {
		m.grabbedID = id
		m.grabbedPos = g.Bounds.Origin()
		return m
	}
	if abs, ok := m.ctrl.ItemAbsolutePos(id); ok {
		m.grabbedID = id
		m.grabbedPos = abs
	}
	return m
}

// handleConfirmKey resolves a pending confirmation. Declining is a normal
// abort, not an error.
func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action, target := m.confirm, m.confirmTarget
		m.confirm = confirmNone
		m.confirmTarget = ""
		m.mode = modeBoard

		switch action {
		case confirmDeleteItem:
			ops := m.ctrl.DeleteItem(target)
			return m, m.syncCmd(ops)
		case confirmDeleteGroup:
			ops, err := m.ctrl.DeleteGroup(target)
			if err != nil {
				return m, nil
			}
			return m, m.syncCmd(ops)
		case confirmDetachItem:
			return m, m.syncCmd(m.ctrl.DetachItem(target))
		}
		return m, nil

	case "n", "N", "esc":
		m.confirm = confirmNone
		m.confirmTarget = ""
		m.mode = modeBoard
		return m, nil
	}
	return m, nil
}

// handleNameKey drives the new-group name prompt. A confirmed name flows
// straight into the template editor so the group never becomes visible
// without guidance text.
func (m model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.promptErr = "name must not be empty"
			return m, nil
		}
		if m.ctrl.Store().GroupByName(name) != nil {
			m.promptErr = "a group with that name already exists"
			return m, nil
		}
		m.pendingName = name
		m.promptErr = ""
		// Preserve any template typed before a failed save retry.
		return m.openTemplateEditor("", m.templateInput.Value()), nil

	case "esc":
		m.mode = modeBoard
		m.promptErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// handleTemplateKey drives the template editor for both create and edit.
func (m model) handleTemplateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s", "ctrl+d":
		template := m.templateInput.Value()

		if m.editingName != "" {
			name := m.editingName
			m.editingName = ""
			m.mode = modeBoard
			ops, err := m.ctrl.SetGroupTemplate(name, template)
			if err != nil {
				return m, nil
			}
			return m, m.syncCmd(ops)
		}

		name := m.pendingName
		_, ops, err := m.ctrl.CreateGroup(name, template)
		if err != nil {
			// Reopen the name prompt with the typed name so nothing is
			// lost; the template editor keeps its text for the retry.
			m.promptErr = err.Error()
			m.nameInput.SetValue(name)
			m.nameInput.Focus()
			m.mode = modeGroupName
			return m, nil
		}
		m.pendingName = ""
		m.mode = modeBoard
		return m, m.syncCmd(ops)

	case "esc":
		m.mode = modeBoard
		m.pendingName = ""
		m.editingName = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.templateInput, cmd = m.templateInput.Update(msg)
	return m, cmd
}

// handleChatKey drives the chat query prompt.
func (m model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.chatInput.Value())
		if query == "" {
			return m, nil
		}
		m.chatBusy = true
		m.chatErr = ""
		m.chatAnswer = nil
		m.mode = modeAnswer
		return m, tea.Batch(m.chatCmd(query), m.chatSpinner.Tick)

	case "esc":
		m.mode = modeBoard
		return m, nil
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

// handleAnswerKey dismisses the answer overlay.
func (m model) handleAnswerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		if !m.chatBusy {
			m.mode = modeBoard
			m.chatAnswer = nil
			m.chatErr = ""
		}
		return m, nil
	}
	return m, nil
}
