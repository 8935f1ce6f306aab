package tui

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard/internal/api"
	"corkboard/internal/canvas"
	"corkboard/internal/config"
)

// newTestModel builds a model wired to a recording mock client. The refresh
// ticker is disabled so pumped commands never sleep.
func newTestModel(t *testing.T) (model, *api.MockClient) {
	t.Helper()
	client := api.NewMockClient()
	cfg := config.Default()
	cfg.Refresh.Interval = 0
	board := api.Board{ID: "b1", Name: "research"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	syncer := canvas.NewSyncer(client, board.ID, logger)

	m := newModel(client, cfg, board, syncer)
	m.width = 100
	m.height = 30
	return m, client
}

// seedItems loads items into the model the way a finished refresh would.
func seedItems(t *testing.T, m model, items []api.Item) model {
	t.Helper()
	next, _ := m.Update(itemsMsg{items: items, requestID: m.refreshReqID})
	return next.(model)
}

// seedGroup creates a group directly on the controller, bypassing the
// prompt flow, and discards the implied sync op.
func seedGroup(t *testing.T, m model, name, template string) model {
	t.Helper()
	if _, _, err := m.ctrl.CreateGroup(name, template); err != nil {
		t.Fatalf("CreateGroup(%q) failed: %v", name, err)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press sends one key through Update and pumps the resulting commands.
func press(t *testing.T, m model, key string) model {
	t.Helper()
	next, cmd := m.Update(keyMsg(key))
	return pump(t, next.(model), cmd)
}

// typeText feeds text rune by rune, as a terminal would deliver it.
func typeText(t *testing.T, m model, text string) model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

// pump executes a command tree synchronously, feeding the asynchronous
// message kinds back into Update. Spinner and timer ticks are dropped so
// tests never wait on wall-clock time.
func pump(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = pump(t, m, c)
		}
	case itemsMsg, groupsMsg, syncedMsg, chatMsg:
		next, nextCmd := m.Update(msg)
		m = pump(t, next.(model), nextCmd)
	}
	return m
}

func boardItems() []api.Item {
	return []api.Item{
		{ID: "i1", BoardID: "b1", Type: api.ItemTypeYouTube, Title: "Intro talk"},
		{ID: "i2", BoardID: "b1", Type: api.ItemTypeDocument, Title: "Paper"},
		{ID: "i3", BoardID: "b1", Type: api.ItemTypeWebpage, Title: "Blog post"},
	}
}

func TestRefreshPopulatesStore(t *testing.T) {
	m, _ := newTestModel(t)
	m = seedItems(t, m, boardItems())

	items := m.ctrl.Store().Items()
	if len(items) != 3 {
		t.Fatalf("store has %d items, want 3", len(items))
	}
	if got := items[0].Pos; got.X != 80 || got.Y != 80 {
		t.Errorf("first grid position = (%v, %v), want (80, 80)", got.X, got.Y)
	}
}

func TestStaleRefreshDropped(t *testing.T) {
	m, _ := newTestModel(t)
	m = seedItems(t, m, boardItems())

	next, _ := m.Update(itemsMsg{items: nil, requestID: m.refreshReqID - 1})
	m = next.(model)

	if got := len(m.ctrl.Store().Items()); got != 3 {
		t.Errorf("stale refresh mutated the store: %d items, want 3", got)
	}
}

func TestRefreshErrorKeepsState(t *testing.T) {
	m, _ := newTestModel(t)
	m = seedItems(t, m, boardItems())

	next, _ := m.Update(itemsMsg{err: errors.New("boom"), requestID: m.refreshReqID})
	m = next.(model)

	if got := len(m.ctrl.Store().Items()); got != 3 {
		t.Errorf("failed refresh mutated the store: %d items, want 3", got)
	}
	if m.refreshErr == "" {
		t.Error("refresh error not surfaced")
	}
}

func TestSelectionToggleAndClear(t *testing.T) {
	m, _ := newTestModel(t)
	m = seedItems(t, m, boardItems())

	m = press(t, m, " ")
	if !m.ctrl.Selection().Contains("i1") {
		t.Fatal("space did not select the node under the cursor")
	}

	m = press(t, m, "tab")
	m = press(t, m, " ")
	if got := m.ctrl.Selection().Len(); got != 2 {
		t.Fatalf("selection size = %d, want 2", got)
	}

	m = press(t, m, "esc")
	if got := m.ctrl.Selection().Len(); got != 0 {
		t.Errorf("esc left %d nodes selected", got)
	}
}

func TestCreateGroupFlow(t *testing.T) {
	m, client := newTestModel(t)

	m = press(t, m, "g")
	if m.mode != modeGroupName {
		t.Fatalf("mode = %v after g, want name prompt", m.mode)
	}

	m = typeText(t, m, "References")
	m = press(t, m, "enter")
	if m.mode != modeGroupTemplate {
		t.Fatalf("mode = %v after name, want template editor", m.mode)
	}

	m = typeText(t, m, "Cite sources")
	m = press(t, m, "ctrl+s")

	if m.mode != modeBoard {
		t.Errorf("mode = %v after save, want board", m.mode)
	}
	g := m.ctrl.Store().GroupByName("References")
	if g == nil {
		t.Fatal("group not created locally")
	}
	if g.Template != "Cite sources" {
		t.Errorf("template = %q, want %q", g.Template, "Cite sources")
	}
	if m.ctrl.ActiveGroupName() != "References" {
		t.Errorf("active group = %q, want the new group", m.ctrl.ActiveGroupName())
	}

	if len(client.UpsertGroupCalls) != 1 {
		t.Fatalf("UpsertGroup called %d times, want 1", len(client.UpsertGroupCalls))
	}
	call := client.UpsertGroupCalls[0]
	if call.BoardID != "b1" || call.Name != "References" || call.Template != "Cite sources" {
		t.Errorf("UpsertGroup call = %+v", call)
	}
}

func TestCreateGroupRejectsDuplicateName(t *testing.T) {
	m, _ := newTestModel(t)
	m = seedGroup(t, m, "Refs", "")

	m = press(t, m, "g")
	m = typeText(t, m, "refs")
	m = press(t, m, "enter")

	if m.mode != modeGroupName {
		t.Errorf("mode = %v, want to stay in the name prompt", m.mode)
	}
	if m.promptErr == "" {
		t.Error("no error shown for duplicate name")
	}
}

func TestCreateGroupSaveConflictReturnsToPrompt(t *testing.T) {
	m, client := newTestModel(t)

	m = press(t, m, "g")
	m = typeText(t, m, "Refs")
	m = press(t, m, "enter")
	m = typeText(t, m, "Cite sources")

	// The name becomes taken between the prompt and the save.
	m = seedGroup(t, m, "refs", "")
	m = press(t, m, "ctrl+s")

	if m.mode != modeGroupName {
		t.Fatalf("mode = %v after conflicting save, want the name prompt", m.mode)
	}
	if m.promptErr == "" {
		t.Error("no error shown for the save conflict")
	}
	if got := m.nameInput.Value(); got != "Refs" {
		t.Errorf("nameInput = %q, want the typed name kept", got)
	}
	if got := m.templateInput.Value(); got != "Cite sources" {
		t.Errorf("templateInput = %q, want the typed template kept", got)
	}
	if len(client.UpsertGroupCalls) != 0 {
		t.Fatalf("UpsertGroup called on a failed create: %v", client.UpsertGroupCalls)
	}

	// Picking a fresh name retries with the template preserved.
	m = typeText(t, m, "2")
	m = press(t, m, "enter")
	m = press(t, m, "ctrl+s")

	if m.mode != modeBoard {
		t.Errorf("mode = %v after retry, want board", m.mode)
	}
	if len(client.UpsertGroupCalls) != 1 {
		t.Fatalf("UpsertGroup called %d times, want 1", len(client.UpsertGroupCalls))
	}
	call := client.UpsertGroupCalls[0]
	if call.Name != "Refs2" || call.Template != "Cite sources" {
		t.Errorf("UpsertGroup call = %+v", call)
	}
}

func TestGrabDropIntoGroupSyncsMembership(t *testing.T) {
	m, client := newTestModel(t)
	m = seedGroup(t, m, "Refs", "")
	m = seedItems(t, m, boardItems())

	// Cursor starts on the group; move to the first item. Its grid
	// position (80, 80) lies inside the group bounds at (40, 40).
	m = press(t, m, "tab")
	m = press(t, m, "enter") // grab
	if m.grabbedID != "i1" {
		t.Fatalf("grabbed %q, want i1", m.grabbedID)
	}
	m = press(t, m, "enter") // drop in place

	n := m.ctrl.Store().Item("i1")
	if !n.Grouped() {
		t.Fatal("drop inside group bounds did not reparent")
	}

	if len(client.SetItemGroupCalls) != 1 {
		t.Fatalf("SetItemGroup called %d times, want 1", len(client.SetItemGroupCalls))
	}
	call := client.SetItemGroupCalls[0]
	if len(call.ItemIDs) != 1 || call.ItemIDs[0] != "i1" || call.Group != "Refs" {
		t.Errorf("SetItemGroup call = %+v", call)
	}
}

func TestDropOutsideGroupClearsMembership(t *testing.T) {
	m, client := newTestModel(t)
	m = seedGroup(t, m, "Refs", "")
	m = seedItems(t, m, boardItems())

	m = press(t, m, "tab")
	m = press(t, m, "enter")
	m = press(t, m, "enter") // now a member of Refs

	m = press(t, m, "enter") // grab again
	for i := 0; i < 25; i++ {
		m = press(t, m, "right") // walk past the group's right edge
	}
	m = press(t, m, "enter")

	if m.ctrl.Store().Item("i1").Grouped() {
		t.Fatal("drop outside group bounds did not detach")
	}
	last := client.SetItemGroupCalls[len(client.SetItemGroupCalls)-1]
	if last.Group != "" {
		t.Errorf("detach synced group %q, want empty", last.Group)
	}
}

func TestGrabEscAbortsMove(t *testing.T) {
	m, _ := newTestModel(t)
	m = seedItems(t, m, boardItems())

	before := m.ctrl.Store().Item("i1").Pos
	m = press(t, m, "enter")
	m = press(t, m, "down")
	m = press(t, m, "down")
	m = press(t, m, "esc")

	if m.grabbedID != "" {
		t.Error("esc did not release the grab")
	}
	if got := m.ctrl.Store().Item("i1").Pos; got != before {
		t.Errorf("aborted grab moved the item to (%v, %v)", got.X, got.Y)
	}
}

func TestDeleteSelectedItems(t *testing.T) {
	m, client := newTestModel(t)
	m = seedItems(t, m, boardItems())
	client.ListItemsResponse = boardItems()[2:]

	m = press(t, m, " ")
	m = press(t, m, "tab")
	m = press(t, m, " ")
	m = press(t, m, "d")

	if got := len(m.ctrl.Store().Items()); got != 1 {
		t.Errorf("%d items remain, want 1", got)
	}
	if got := len(client.DeleteItemCalls); got != 2 {
		t.Fatalf("DeleteItem called %d times, want 2", got)
	}
	if client.DeleteItemCalls[0] != "i1" || client.DeleteItemCalls[1] != "i2" {
		t.Errorf("DeleteItem calls = %v", client.DeleteItemCalls)
	}
	// The completed delete batch reconciles against the backend list even
	// when no periodic refresh is running.
	if got := len(client.ListItemsCalls); got != 1 {
		t.Errorf("ListItems called %d times after delete, want 1 refresh", got)
	}
	if m.ctrl.Store().Item("i3") == nil {
		t.Error("surviving item missing after the post-delete refresh")
	}
}

func TestDeleteItemConfirmDecline(t *testing.T) {
	m, client := newTestModel(t)
	m = seedItems(t, m, boardItems())

	m = press(t, m, "x")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v after x, want confirm", m.mode)
	}
	m = press(t, m, "n")

	if m.mode != modeBoard {
		t.Errorf("mode = %v after decline, want board", m.mode)
	}
	if got := len(m.ctrl.Store().Items()); got != 3 {
		t.Errorf("decline deleted items: %d remain, want 3", got)
	}
	if len(client.DeleteItemCalls) != 0 {
		t.Errorf("decline synced a delete: %v", client.DeleteItemCalls)
	}
}

func TestDeleteGroupCascade(t *testing.T) {
	m, client := newTestModel(t)
	m = seedGroup(t, m, "Refs", "")
	m = seedItems(t, m, []api.Item{
		{ID: "i1", BoardID: "b1", Type: api.ItemTypeDocument, Title: "Paper",
			Meta: map[string]string{api.MetaGroup: "Refs"}},
	})

	m = press(t, m, "D") // cursor starts on the group
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v after D, want confirm", m.mode)
	}
	m = press(t, m, "y")

	if m.ctrl.Store().GroupByName("Refs") != nil {
		t.Error("group still present after cascade delete")
	}
	n := m.ctrl.Store().Item("i1")
	if n == nil || n.Grouped() {
		t.Error("member was not detached by the cascade")
	}

	if len(client.DeleteGroupCalls) != 1 {
		t.Fatalf("DeleteGroup called %d times, want 1", len(client.DeleteGroupCalls))
	}
	if got := client.DeleteGroupCalls[0]; got.BoardID != "b1" || got.Name != "Refs" {
		t.Errorf("DeleteGroup call = %+v", got)
	}
	if len(client.SetItemGroupCalls) != 1 || client.SetItemGroupCalls[0].Group != "" {
		t.Errorf("members not cleared before the delete: %+v", client.SetItemGroupCalls)
	}
}

func TestChatScopedToSelection(t *testing.T) {
	m, client := newTestModel(t)
	client.ChatResponse = &api.ChatAnswer{Answer: "42"}
	m = seedItems(t, m, boardItems())

	m = press(t, m, " ") // select i1
	m = press(t, m, "/")
	if m.mode != modeChat {
		t.Fatalf("mode = %v after /, want chat prompt", m.mode)
	}
	m = typeText(t, m, "what is this")
	m = press(t, m, "enter")

	if len(client.ChatCalls) != 1 {
		t.Fatalf("Chat called %d times, want 1", len(client.ChatCalls))
	}
	q := client.ChatCalls[0]
	if q.BoardID != "b1" || q.Query != "what is this" {
		t.Errorf("chat query = %+v", q)
	}
	if len(q.ItemIDs) != 1 || q.ItemIDs[0] != "i1" {
		t.Errorf("chat scope = %v, want [i1]", q.ItemIDs)
	}
	if q.TopK != m.cfg.Chat.TopK {
		t.Errorf("top_k = %d, want %d", q.TopK, m.cfg.Chat.TopK)
	}

	if m.mode != modeAnswer || m.chatAnswer == nil || m.chatAnswer.Answer != "42" {
		t.Errorf("answer overlay not showing the response: mode=%v answer=%+v", m.mode, m.chatAnswer)
	}
}

func TestTemplateEditPrefillsFromBackend(t *testing.T) {
	m, client := newTestModel(t)
	client.ListGroupsResponse = []api.Group{
		{BoardID: "b1", Name: "Refs", Template: "stored template"},
	}
	m = seedGroup(t, m, "Refs", "local template")

	m = press(t, m, "t") // cursor on the group
	if m.mode != modeGroupTemplate {
		t.Fatalf("mode = %v after t, want template editor", m.mode)
	}
	if got := m.templateInput.Value(); got != "stored template" {
		t.Errorf("editor pre-filled with %q, want the backend copy", got)
	}

	m = typeText(t, m, "!")
	m = press(t, m, "ctrl+s")

	if len(client.UpsertGroupCalls) != 1 {
		t.Fatalf("UpsertGroup called %d times, want 1", len(client.UpsertGroupCalls))
	}
	if got := client.UpsertGroupCalls[0].Template; got != "stored template!" {
		t.Errorf("saved template = %q", got)
	}
}

func TestSyncFailureSurfacesInHeader(t *testing.T) {
	m, client := newTestModel(t)
	client.DeleteItemError = errors.New("backend down")
	client.ListItemsResponse = boardItems()
	m = seedItems(t, m, boardItems())

	m = press(t, m, " ")
	m = press(t, m, "d")

	// The backend rejected the delete, so the follow-up refresh brings
	// the item back.
	if got := len(m.ctrl.Store().Items()); got != 3 {
		t.Errorf("%d items after reconcile, want 3", got)
	}
	res, ok := m.syncer.LastFailure()
	if !ok {
		t.Fatal("sync failure not recorded")
	}
	if res.Op.Kind != canvas.OpDeleteItem {
		t.Errorf("recorded failure kind = %v, want delete-item", res.Op.Kind)
	}
}

func TestConnectRequiresExactlyTwoSelected(t *testing.T) {
	m, _ := newTestModel(t)
	m = seedItems(t, m, boardItems())

	m = press(t, m, " ")
	m = press(t, m, "c")
	if got := len(m.ctrl.Store().Edges()); got != 0 {
		t.Fatalf("one selected node produced %d edges", got)
	}

	m = press(t, m, "tab")
	m = press(t, m, " ")
	m = press(t, m, "c")
	edges := m.ctrl.Store().Edges()
	if len(edges) != 1 {
		t.Fatalf("%d edges, want 1", len(edges))
	}
	if edges[0].From != "i1" || edges[0].To != "i2" {
		t.Errorf("edge = %+v", edges[0])
	}
}

func TestRemoveFromGroupConfirm(t *testing.T) {
	m, client := newTestModel(t)
	m = seedGroup(t, m, "Refs", "")
	m = seedItems(t, m, []api.Item{
		{ID: "i1", BoardID: "b1", Type: api.ItemTypeDocument, Title: "Paper",
			Meta: map[string]string{api.MetaGroup: "Refs"}},
	})

	m = press(t, m, "tab") // cursor from the group onto its member
	m = press(t, m, "u")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v after u, want confirm", m.mode)
	}
	m = press(t, m, "y")

	n := m.ctrl.Store().Item("i1")
	if n.ParentGroupID != "" {
		t.Errorf("ParentGroupID = %q after ungroup, want empty", n.ParentGroupID)
	}
	// Group at (40,40), member stacked at relative (20,40).
	if n.Pos != (canvas.Point{X: 60, Y: 80}) {
		t.Errorf("pos = %+v, want absolute (60,80)", n.Pos)
	}
	if len(client.SetItemGroupCalls) != 1 {
		t.Fatalf("SetItemGroup called %d times, want 1", len(client.SetItemGroupCalls))
	}
	call := client.SetItemGroupCalls[0]
	if call.Group != "" || len(call.ItemIDs) != 1 || call.ItemIDs[0] != "i1" {
		t.Errorf("SetItemGroup call = %+v", call)
	}
}

func TestRemoveFromGroupIgnoresUngroupedItem(t *testing.T) {
	m, client := newTestModel(t)
	m = seedItems(t, m, boardItems())

	m = press(t, m, "u")
	if m.mode != modeBoard {
		t.Errorf("mode = %v, want board when the item has no group", m.mode)
	}
	if len(client.SetItemGroupCalls) != 0 {
		t.Errorf("SetItemGroup called: %v", client.SetItemGroupCalls)
	}
}
