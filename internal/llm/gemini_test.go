package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestToGeminiContents(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
		{Role: "system", Content: "ignored"},
		{Role: RoleUser, Content: "how are you?"},
	}

	contents := ToGeminiContents(msgs)
	if len(contents) != 3 {
		t.Fatalf("want 3 contents, got %d", len(contents))
	}
	if contents[0].Role != string(genai.RoleUser) {
		t.Fatalf("unexpected role for user turn: %s", contents[0].Role)
	}
	if contents[1].Role != string(genai.RoleModel) {
		t.Fatalf("assistant turn not translated to model: %s", contents[1].Role)
	}
	if contents[2].Role != string(genai.RoleUser) {
		t.Fatalf("unexpected role for second user turn: %s", contents[2].Role)
	}
	if got := contents[1].Parts[0].Text; got != "hi there" {
		t.Fatalf("content lost in translation: %q", got)
	}
}

func TestToGeminiContentsEmpty(t *testing.T) {
	if got := ToGeminiContents(nil); len(got) != 0 {
		t.Fatalf("want empty slice for nil input, got %d", len(got))
	}
}
