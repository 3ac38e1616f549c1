package storage

// Message is the persisted form of one conversation turn, matching the
// on-disk schema {role, parts:[text]}.
type Message struct {
	Role  string   `json:"role"`
	Parts []string `json:"parts"`
}

// Conversation pairs a registry key with its persisted messages. The
// slice order of conversations mirrors the file's key order.
type Conversation struct {
	ID       string
	Messages []Message
}

// Repository abstracts persistence of the full conversation registry.
// Load must tolerate a missing or malformed file by returning an empty
// registry. Save rewrites the whole registry.
// Implementations must be safe for concurrent use.
type Repository interface {
	Load() ([]Conversation, error)
	Save(convs []Conversation) error
}
