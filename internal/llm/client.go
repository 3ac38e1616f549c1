package llm

import "context"

// Stored role vocabulary. Every message in a conversation carries exactly
// one of these; providers translate to their own vocabulary when needed.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content string
	Model   string
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
