package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileRepository_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "chat_history.json")
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}

	convs := []Conversation{
		{ID: "b-second", Messages: []Message{
			{Role: "user", Parts: []string{"hello"}},
			{Role: "assistant", Parts: []string{"hi there"}},
		}},
		{ID: "a-first", Messages: []Message{
			{Role: "user", Parts: []string{"ping"}},
		}},
		{ID: "empty", Messages: []Message{}},
	}
	if err := repo.Save(convs); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3 conversations, got %d", len(got))
	}
	// File key order must survive the round trip, not become sorted
	if got[0].ID != "b-second" || got[1].ID != "a-first" || got[2].ID != "empty" {
		t.Fatalf("order not preserved: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
	if !reflect.DeepEqual(got[0].Messages, convs[0].Messages) {
		t.Fatalf("messages mismatch: got %+v want %+v", got[0].Messages, convs[0].Messages)
	}
	if len(got[2].Messages) != 0 {
		t.Fatalf("empty conversation grew messages: %+v", got[2].Messages)
	}
}

func TestFileRepository_LoadMissingFile(t *testing.T) {
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nope", "chat_history.json"))
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	convs, err := repo.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(convs) != 0 {
		t.Fatalf("want empty registry, got %d", len(convs))
	}
}

func TestFileRepository_LoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "chat_history.json")
	for _, payload := range []string{"", "not json at all", `["wrong", "shape"]`, `{"id": `} {
		if err := os.WriteFile(p, []byte(payload), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		repo, err := NewFileRepository(p)
		if err != nil {
			t.Fatalf("init repo: %v", err)
		}
		convs, err := repo.Load()
		if err != nil {
			t.Fatalf("load %q: %v", payload, err)
		}
		if len(convs) != 0 {
			t.Fatalf("malformed payload %q yielded %d conversations", payload, len(convs))
		}
	}
}

func TestFileRepository_SaveOverwrites(t *testing.T) {
	p := filepath.Join(t.TempDir(), "chat_history.json")
	repo, err := NewFileRepository(p)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	if err := repo.Save([]Conversation{{ID: "a", Messages: []Message{{Role: "user", Parts: []string{"x"}}}}}); err != nil {
		t.Fatalf("save1: %v", err)
	}
	if err := repo.Save(nil); err != nil {
		t.Fatalf("save2: %v", err)
	}
	convs, err := repo.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(convs) != 0 {
		t.Fatalf("second save did not overwrite: %+v", convs)
	}
}
