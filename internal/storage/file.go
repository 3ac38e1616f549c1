package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	return &FileRepository{path: path}, nil
}

// Load reads the whole registry from disk. A missing file yields an empty
// registry; malformed content is logged and also yields an empty registry
// so a corrupt file never blocks startup.
func (r *FileRepository) Load() ([]Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	convs, err := decodeRegistry(data)
	if err != nil {
		log.Printf("Warning: %s is empty or malformed, starting with empty history: %v", r.path, err)
		return nil, nil
	}
	return convs, nil
}

// Save overwrites the file with the full registry. Last writer wins; there
// is no atomic rename.
func (r *FileRepository) Save(convs []Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := encodeRegistry(convs)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// decodeRegistry parses the top-level JSON object one key at a time so the
// file's key order is preserved.
func decodeRegistry(data []byte) ([]Conversation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected top-level object, got %v", tok)
	}
	var convs []Conversation
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", tok)
		}
		var msgs []Message
		if err := dec.Decode(&msgs); err != nil {
			return nil, err
		}
		convs = append(convs, Conversation{ID: id, Messages: msgs})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return convs, nil
}

// encodeRegistry writes the registry as an indented JSON object with keys
// in conversation order. encoding/json alone cannot be used here since it
// sorts map keys.
func encodeRegistry(convs []Conversation) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range convs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    ")
		key, err := json.Marshal(c.ID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		msgs := c.Messages
		if msgs == nil {
			msgs = []Message{}
		}
		val, err := json.MarshalIndent(msgs, "    ", "    ")
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteString("\n}")
	return buf.Bytes(), nil
}
