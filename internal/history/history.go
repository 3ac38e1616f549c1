package history

import (
	"sync"

	"github.com/google/uuid"

	"gemini-chatter/internal/llm"
)

// Conversation is one transcript with its registry key.
type Conversation struct {
	ID       string
	Messages []llm.Message
}

// NewID mints an unguessable conversation identifier.
func NewID() string {
	return uuid.NewString()
}

// Manager is the in-memory registry of all conversations. It tracks
// insertion order so summaries and persistence keep a stable ordering
// across restarts.
type Manager struct {
	mu            sync.RWMutex
	conversations map[string][]llm.Message
	order         []string
}

func NewManager() *Manager {
	return &Manager{conversations: make(map[string][]llm.Message)}
}

// Replace swaps the whole registry for the given conversations, keeping
// their order. Used once at startup to load persisted history.
func (m *Manager) Replace(convs []Conversation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations = make(map[string][]llm.Message, len(convs))
	m.order = make([]string, 0, len(convs))
	for _, c := range convs {
		if _, ok := m.conversations[c.ID]; ok {
			continue
		}
		m.conversations[c.ID] = append([]llm.Message(nil), c.Messages...)
		m.order = append(m.order, c.ID)
	}
}

// Create registers an empty conversation under id.
func (m *Manager) Create(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; ok {
		return
	}
	m.conversations[id] = nil
	m.order = append(m.order, id)
}

func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.conversations[id]
	return ok
}

// Append adds a message to the conversation, registering the id first if
// it is unknown.
func (m *Manager) Append(id string, msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; !ok {
		m.order = append(m.order, id)
	}
	m.conversations[id] = append(m.conversations[id], msg)
}

// RemoveLast drops the most recently appended message of the
// conversation, if any.
func (m *Manager) RemoveLast(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.conversations[id]
	if len(msgs) == 0 {
		return
	}
	m.conversations[id] = msgs[:len(msgs)-1]
}

// Get returns a copy of the conversation's messages.
func (m *Manager) Get(id string) ([]llm.Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs, ok := m.conversations[id]
	if !ok {
		return nil, false
	}
	return append([]llm.Message(nil), msgs...), true
}

// Delete removes the conversation. Reports whether it existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; !ok {
		return false
	}
	delete(m.conversations, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Conversations returns a copy of the whole registry in insertion order.
func (m *Manager) Conversations() []Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Conversation, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, Conversation{
			ID:       id,
			Messages: append([]llm.Message(nil), m.conversations[id]...),
		})
	}
	return out
}
