package chat

import (
	"context"
	"errors"
	"log"
	"time"

	"gemini-chatter/internal/history"
	"gemini-chatter/internal/llm"
	"gemini-chatter/internal/storage"
)

var (
	ErrNoMessage = errors.New("no message provided")
	ErrNotFound  = errors.New("chat session not found")
)

// ApologyReply is returned verbatim when the backend call fails. The
// failed user turn is rolled back, so this is the only trace of the call.
const ApologyReply = "I apologize, but I'm having trouble connecting to the AI right now. Please try again later."

const titleLimit = 40

// Summary describes one conversation for the history sidebar.
type Summary struct {
	ChatID       string `json:"chat_id"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
}

// DisplayMessage is one turn reformatted for the front end, which knows
// only the roles "user" and "bot".
type DisplayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service owns the conversation registry and coordinates every operation
// on it: submitting turns to the LLM, listing, fetching and deleting
// conversations. The full registry is flushed to the repository after
// every mutation.
type Service struct {
	registry *history.Manager
	repo     storage.Repository
	client   llm.Client
	timeout  time.Duration
}

func NewService(registry *history.Manager, repo storage.Repository, client llm.Client, timeout time.Duration) *Service {
	return &Service{
		registry: registry,
		repo:     repo,
		client:   client,
		timeout:  timeout,
	}
}

// LoadHistory fills the registry from the repository. Called once at
// startup before the server accepts requests.
func (s *Service) LoadHistory() error {
	convs, err := s.repo.Load()
	if err != nil {
		return err
	}
	s.registry.Replace(fromStored(convs))
	return nil
}

// Submit handles one user turn. boundID is the conversation the session
// is currently bound to, or empty; when it is empty or unknown a fresh
// conversation is created. The returned chat id is the conversation the
// turn landed in, which the caller must rebind the session to.
//
// A backend failure is not an error: the user turn is removed, the fixed
// apology becomes the assistant turn, and the apology is returned.
func (s *Service) Submit(ctx context.Context, boundID, text string) (reply, chatID string, err error) {
	if text == "" {
		return "", "", ErrNoMessage
	}

	chatID = boundID
	if chatID == "" || !s.registry.Exists(chatID) {
		chatID = history.NewID()
		s.registry.Create(chatID)
	}

	s.registry.Append(chatID, llm.Message{Role: llm.RoleUser, Content: text})
	messages, _ := s.registry.Get(chatID)

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, genErr := s.client.Generate(genCtx, messages)
	if genErr != nil {
		log.Printf("Error calling LLM backend: %v", genErr)
		s.registry.RemoveLast(chatID)
		reply = ApologyReply
	} else {
		reply = resp.Content
	}

	s.registry.Append(chatID, llm.Message{Role: llm.RoleAssistant, Content: reply})
	s.persist()
	return reply, chatID, nil
}

// Summaries lists all non-empty conversations, newest-created first.
func (s *Service) Summaries() []Summary {
	convs := s.registry.Conversations()
	summaries := make([]Summary, 0, len(convs))
	for _, c := range convs {
		if len(c.Messages) == 0 {
			continue
		}
		summaries = append(summaries, Summary{
			ChatID:       c.ID,
			Title:        summaryTitle(c.Messages),
			MessageCount: len(c.Messages),
		})
	}
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}
	return summaries
}

// Fetch returns the conversation's transcript in display form.
func (s *Service) Fetch(id string) ([]DisplayMessage, error) {
	messages, ok := s.registry.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]DisplayMessage, 0, len(messages))
	for _, m := range messages {
		role := "bot"
		if m.Role == llm.RoleUser {
			role = "user"
		}
		out = append(out, DisplayMessage{Role: role, Content: m.Content})
	}
	return out, nil
}

// Delete removes the conversation from the registry and persists.
func (s *Service) Delete(id string) error {
	if !s.registry.Delete(id) {
		return ErrNotFound
	}
	s.persist()
	return nil
}

func (s *Service) persist() {
	if err := s.repo.Save(toStored(s.registry.Conversations())); err != nil {
		log.Printf("failed to persist chat history: %v", err)
	}
}

func summaryTitle(messages []llm.Message) string {
	for _, m := range messages {
		if m.Role == llm.RoleUser && m.Content != "" {
			return truncate(m.Content, titleLimit)
		}
	}
	return "New Chat"
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func toStored(convs []history.Conversation) []storage.Conversation {
	out := make([]storage.Conversation, 0, len(convs))
	for _, c := range convs {
		msgs := make([]storage.Message, 0, len(c.Messages))
		for _, m := range c.Messages {
			msgs = append(msgs, storage.Message{Role: m.Role, Parts: []string{m.Content}})
		}
		out = append(out, storage.Conversation{ID: c.ID, Messages: msgs})
	}
	return out
}

func fromStored(convs []storage.Conversation) []history.Conversation {
	out := make([]history.Conversation, 0, len(convs))
	for _, c := range convs {
		msgs := make([]llm.Message, 0, len(c.Messages))
		for _, m := range c.Messages {
			var content string
			if len(m.Parts) > 0 {
				content = m.Parts[0]
			}
			msgs = append(msgs, llm.Message{Role: m.Role, Content: content})
		}
		out = append(out, history.Conversation{ID: c.ID, Messages: msgs})
	}
	return out
}
