package api

import "context"

// BoardReader provides board discovery and creation.
type BoardReader interface {
	// ListBoards retrieves all boards.
	ListBoards(ctx context.Context) ([]Board, error)

	// CreateBoard creates a board with the given name.
	CreateBoard(ctx context.Context, name string) (*Board, error)
}

// ItemReader provides read access to a board's items.
type ItemReader interface {
	// ListItems retrieves the items of a board. Item.Meta["group"] carries
	// the stored group-name attribute.
	ListItems(ctx context.Context, boardID string) ([]Item, error)
}

// ItemWriter provides item mutations. All callers treat these as
// best-effort: errors are logged, never retried.
type ItemWriter interface {
	// DeleteItem deletes an item and its derived data.
	DeleteItem(ctx context.Context, itemID string) error

	// SetItemGroup assigns the stored group-name attribute of the given
	// items. An empty group clears membership.
	SetItemGroup(ctx context.Context, itemIDs []string, group string) error
}

// GroupStore provides persisted group record operations, keyed by
// (board, name).
type GroupStore interface {
	// ListGroups retrieves the group records of a board.
	ListGroups(ctx context.Context, boardID string) ([]Group, error)

	// UpsertGroup creates or updates a group record by name.
	UpsertGroup(ctx context.Context, boardID, name, template string) error

	// DeleteGroup removes a group record by name.
	DeleteGroup(ctx context.Context, boardID, name string) error
}

// ChatService answers questions scoped by the current selection.
type ChatService interface {
	// Chat sends a query and returns the answer with its contexts.
	Chat(ctx context.Context, q ChatQuery) (*ChatAnswer, error)
}

// Client combines all backend operations.
type Client interface {
	BoardReader
	ItemReader
	ItemWriter
	GroupStore
	ChatService
}
