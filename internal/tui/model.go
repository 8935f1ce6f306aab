package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"corkboard/internal/api"
	"corkboard/internal/canvas"
	"corkboard/internal/config"
)

// inputMode represents what the keyboard is currently driving.
type inputMode int

const (
	// modeBoard is normal board interaction (default).
	modeBoard inputMode = iota
	// modeConfirm is a pending yes/no confirmation.
	modeConfirm
	// modeGroupName is the new-group name prompt.
	modeGroupName
	// modeGroupTemplate is the template editor (create or edit).
	modeGroupTemplate
	// modeChat is the chat query prompt.
	modeChat
	// modeAnswer is the chat answer overlay.
	modeAnswer
)

// moveStep is how far one key press moves a grabbed node, in board units.
const moveStep = 20.0

// confirmAction identifies what a confirmation, once accepted, performs.
type confirmAction int

const (
	confirmNone confirmAction = iota
	// confirmDeleteItem deletes the single item named in confirmTarget.
	confirmDeleteItem
	// confirmDeleteGroup cascade-deletes the group named in confirmTarget.
	confirmDeleteGroup
	// confirmDetachItem removes the item in confirmTarget from its group.
	confirmDetachItem
)

// model is the bubbletea model for the board TUI.
type model struct {
	client api.Client
	cfg    *config.Config
	board  api.Board

	ctrl   *canvas.Controller
	syncer *canvas.Syncer

	// UI state
	width  int
	height int
	mode   inputMode

	// Cursor walks the node order (groups first, then items).
	cursor int

	// Grab state: a lifted node tracked at a board-absolute position until
	// dropped. Containment resolves only at the drop.
	grabbedID  string
	grabbedPos canvas.Point

	// Prompt state
	nameInput     textinput.Model
	templateInput textarea.Model
	chatInput     textinput.Model
	pendingName   string // group name captured, awaiting its template
	editingName   string // group being template-edited, empty on create
	promptErr     string

	// Confirm state
	confirm       confirmAction
	confirmTarget string
	confirmText   string

	// Chat state
	chatSpinner spinner.Model
	chatBusy    bool
	chatAnswer  *api.ChatAnswer
	chatErr     string
	chatReqID   int

	// Refresh state
	refreshReqID int
	refreshErr   string
	lastRefresh  time.Time
}

// itemsMsg carries a finished item list refresh.
type itemsMsg struct {
	items     []api.Item
	err       error
	requestID int
}

// groupsMsg carries the backend group list fetched to pre-fill a
// template edit.
type groupsMsg struct {
	groups []api.Group
	err    error
	name   string // group whose template was requested
}

// syncedMsg signals that a batch of fire-and-forget sync ops has finished
// executing. Outcomes live in the syncer's error surface.
type syncedMsg struct {
	// refresh is set when the batch removed items, so the list must be
	// re-fetched to reconcile with whatever the backend accepted.
	refresh bool
}

// chatMsg carries a chat answer.
type chatMsg struct {
	answer    *api.ChatAnswer
	err       error
	requestID int
}

// refreshTickMsg triggers the periodic item list refresh.
type refreshTickMsg time.Time

// newModel creates the model for an open board.
func newModel(client api.Client, cfg *config.Config, board api.Board, syncer *canvas.Syncer) model {
	name := textinput.New()
	name.Placeholder = "group name"
	name.CharLimit = 80
	name.Width = 40

	tmpl := textarea.New()
	tmpl.Placeholder = "guidance for answers scoped to this group"
	tmpl.SetWidth(60)
	tmpl.SetHeight(5)

	chat := textinput.New()
	chat.Placeholder = "ask the board"
	chat.CharLimit = 400
	chat.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		client:        client,
		cfg:           cfg,
		board:         board,
		ctrl:          canvas.NewController(),
		syncer:        syncer,
		nameInput:     name,
		templateInput: tmpl,
		chatInput:     chat,
		chatSpinner:   sp,
		refreshReqID:  1,
	}
}

// nodeOrder returns the cursor traversal order: groups in creation order,
// then items in backend list order.
func (m *model) nodeOrder() []string {
	store := m.ctrl.Store()
	var ids []string
	for _, g := range store.Groups() {
		ids = append(ids, g.ID)
	}
	for _, n := range store.Items() {
		ids = append(ids, n.ID)
	}
	return ids
}

// cursorID returns the node id under the cursor, or empty when the board
// has no nodes.
func (m *model) cursorID() string {
	ids := m.nodeOrder()
	if len(ids) == 0 {
		return ""
	}
	if m.cursor >= len(ids) {
		m.cursor = len(ids) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return ids[m.cursor]
}

// itemSummaries converts backend items into the layout pass input.
func itemSummaries(items []api.Item) []canvas.ItemSummary {
	out := make([]canvas.ItemSummary, 0, len(items))
	for _, it := range items {
		out = append(out, canvas.ItemSummary{
			ID:        it.ID,
			Title:     it.Title,
			Type:      it.Type,
			GroupName: it.GroupName(),
		})
	}
	return out
}
