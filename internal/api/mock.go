package api

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of Client for testing. It records all
// calls and returns configured responses.
type MockClient struct {
	mu sync.Mutex

	// Configured responses
	ListBoardsResponse  []Board
	ListBoardsError     error
	CreateBoardResponse *Board
	CreateBoardError    error
	ListItemsResponse   []Item
	ListItemsError      error
	DeleteItemError     error
	SetItemGroupError   error
	ListGroupsResponse  []Group
	ListGroupsError     error
	UpsertGroupError    error
	DeleteGroupError    error
	ChatResponse        *ChatAnswer
	ChatError           error

	// Call tracking
	ListBoardsCalls   int
	CreateBoardCalls  []string
	ListItemsCalls    []string
	DeleteItemCalls   []string
	SetItemGroupCalls []SetItemGroupCall
	ListGroupsCalls   []string
	UpsertGroupCalls  []UpsertGroupCall
	DeleteGroupCalls  []DeleteGroupCall
	ChatCalls         []ChatQuery
}

// SetItemGroupCall records a SetItemGroup call.
type SetItemGroupCall struct {
	ItemIDs []string
	Group   string
}

// UpsertGroupCall records an UpsertGroup call.
type UpsertGroupCall struct {
	BoardID  string
	Name     string
	Template string
}

// DeleteGroupCall records a DeleteGroup call.
type DeleteGroupCall struct {
	BoardID string
	Name    string
}

// NewMockClient creates an empty MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// ListBoards returns the configured board list.
func (m *MockClient) ListBoards(_ context.Context) ([]Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListBoardsCalls++
	return m.ListBoardsResponse, m.ListBoardsError
}

// CreateBoard records the call and returns the configured board.
func (m *MockClient) CreateBoard(_ context.Context, name string) (*Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateBoardCalls = append(m.CreateBoardCalls, name)
	if m.CreateBoardError != nil {
		return nil, m.CreateBoardError
	}
	if m.CreateBoardResponse != nil {
		return m.CreateBoardResponse, nil
	}
	return &Board{ID: "board-" + name, Name: name}, nil
}

// ListItems returns the configured item list.
func (m *MockClient) ListItems(_ context.Context, boardID string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListItemsCalls = append(m.ListItemsCalls, boardID)
	return m.ListItemsResponse, m.ListItemsError
}

// DeleteItem records the call.
func (m *MockClient) DeleteItem(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteItemCalls = append(m.DeleteItemCalls, itemID)
	return m.DeleteItemError
}

// SetItemGroup records the call.
func (m *MockClient) SetItemGroup(_ context.Context, itemIDs []string, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(itemIDs))
	copy(ids, itemIDs)
	m.SetItemGroupCalls = append(m.SetItemGroupCalls, SetItemGroupCall{ItemIDs: ids, Group: group})
	return m.SetItemGroupError
}

// ListGroups returns the configured group list.
func (m *MockClient) ListGroups(_ context.Context, boardID string) ([]Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListGroupsCalls = append(m.ListGroupsCalls, boardID)
	return m.ListGroupsResponse, m.ListGroupsError
}

// UpsertGroup records the call.
func (m *MockClient) UpsertGroup(_ context.Context, boardID, name, template string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertGroupCalls = append(m.UpsertGroupCalls, UpsertGroupCall{BoardID: boardID, Name: name, Template: template})
	return m.UpsertGroupError
}

// DeleteGroup records the call.
func (m *MockClient) DeleteGroup(_ context.Context, boardID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteGroupCalls = append(m.DeleteGroupCalls, DeleteGroupCall{BoardID: boardID, Name: name})
	return m.DeleteGroupError
}

// Chat records the call and returns the configured answer.
func (m *MockClient) Chat(_ context.Context, q ChatQuery) (*ChatAnswer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = append(m.ChatCalls, q)
	if m.ChatError != nil {
		return nil, m.ChatError
	}
	if m.ChatResponse != nil {
		return m.ChatResponse, nil
	}
	return &ChatAnswer{Answer: "mock answer"}, nil
}
