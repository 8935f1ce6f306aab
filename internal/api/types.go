// Package api provides a typed client for the corkboard backend service.
// It defines narrow interfaces per concern so consumers depend only on the
// operations they use, with a recording mock for tests.
package api

// Item types as stored by the backend.
const (
	ItemTypeYouTube    = "youtube"
	ItemTypeDocument   = "document"
	ItemTypeWebpage    = "webpage"
	ItemTypeAudioVideo = "audiovideo"
)

// MetaGroup is the item metadata key carrying the stored group name.
const MetaGroup = "group"

// Board is a top-level workspace containing items and groups.
type Board struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CreatedAt float64 `json:"created_at"`
	UpdatedAt float64 `json:"updated_at"`
}

// Item is an ingested content unit belonging to a board.
type Item struct {
	ID        string            `json:"id"`
	BoardID   string            `json:"board_id"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Source    string            `json:"source"`
	Meta      map[string]string `json:"meta"`
	CreatedAt float64           `json:"created_at"`
	UpdatedAt float64           `json:"updated_at"`
}

// GroupName returns the item's stored group-name attribute, empty when
// ungrouped.
func (i Item) GroupName() string {
	if i.Meta == nil {
		return ""
	}
	return i.Meta[MetaGroup]
}

// Group is a persisted (board, name, template) record. The name is the
// identity; ids are incidental.
type Group struct {
	ID        string  `json:"id"`
	BoardID   string  `json:"board_id"`
	Name      string  `json:"name"`
	Template  string  `json:"template"`
	CreatedAt float64 `json:"created_at"`
	UpdatedAt float64 `json:"updated_at"`
}

// ChatQuery scopes a question to a board and an optional item selection.
// An empty ItemIDs means whole-board scope.
type ChatQuery struct {
	BoardID string   `json:"board_id,omitempty"`
	ItemIDs []string `json:"item_ids,omitempty"`
	Query   string   `json:"query"`
	TopK    int      `json:"top_k,omitempty"`
}

// ChatContext is one retrieved context fragment backing an answer.
type ChatContext struct {
	Text   string   `json:"text"`
	ItemID string   `json:"item_id,omitempty"`
	StartS *float64 `json:"start_s,omitempty"`
	EndS   *float64 `json:"end_s,omitempty"`
}

// ChatAnswer is the answer service's response.
type ChatAnswer struct {
	Answer   string        `json:"answer"`
	Contexts []ChatContext `json:"contexts"`
}
