package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"gemini-chatter/internal/chat"
)

//go:embed templates static
var assets embed.FS

const (
	sessionName      = "chat_session"
	sessionKeyChatID = "current_chat_id"
)

// Server is the HTTP surface of the chat service. The session cookie
// carries at most the current chat id; it is resolved here and passed
// into the chat service explicitly.
type Server struct {
	svc    *chat.Service
	store  *sessions.CookieStore
	index  *template.Template
	server *http.Server
	addr   string
}

func New(svc *chat.Service, sessionSecret, port string) *Server {
	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Server{
		svc:   svc,
		store: store,
		index: template.Must(template.ParseFS(assets, "templates/index.html")),
		addr:  ":" + port,
	}
}

// Handler builds the route table. Split from Start so tests can drive
// the handlers through httptest.
func (s *Server) Handler() http.Handler {
	static, _ := fs.Sub(assets, "static")

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("POST /new_chat", s.handleNewChat)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /get_chat_history_summary", s.handleHistorySummary)
	mux.HandleFunc("GET /get_chat_session/{chat_id}", s.handleGetSession)
	mux.HandleFunc("DELETE /delete_chat_session/{chat_id}", s.handleDeleteSession)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:        s.addr,
		Handler:     s.Handler(),
		ReadTimeout: 15 * time.Second,
		// The /chat handler blocks on the LLM call, so the write timeout
		// has to outlive the configured backend timeout.
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting chat web server on http://localhost%s", s.addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// session returns the client's session, falling back to a fresh one when
// the cookie fails to decode.
func (s *Server) session(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		log.Printf("failed to decode session cookie: %v", err)
	}
	return sess
}

func boundChatID(sess *sessions.Session) string {
	id, _ := sess.Values[sessionKeyChatID].(string)
	return id
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := s.index.Execute(w, nil); err != nil {
		log.Printf("failed to render index: %v", err)
	}
}

func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	delete(sess.Values, sessionKeyChatID)
	if err := sess.Save(r, w); err != nil {
		log.Printf("failed to save session: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "New chat started. Conversation cleared."})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	// A missing or malformed body is treated the same as an empty message
	_ = json.NewDecoder(r.Body).Decode(&req)

	sess := s.session(r)
	reply, chatID, err := s.svc.Submit(r.Context(), boundChatID(sess), req.Message)
	if errors.Is(err, chat.ErrNoMessage) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No message provided"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	sess.Values[sessionKeyChatID] = chatID
	if err := sess.Save(r, w); err != nil {
		log.Printf("failed to save session: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply, "chat_id": chatID})
}

func (s *Server) handleHistorySummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Summaries())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chat_id")
	messages, err := s.svc.Fetch(chatID)
	if errors.Is(err, chat.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Chat session not found"})
		return
	}

	// Opening a past conversation makes it the active one
	sess := s.session(r)
	sess.Values[sessionKeyChatID] = chatID
	if err := sess.Save(r, w); err != nil {
		log.Printf("failed to save session: %v", err)
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chat_id")
	if err := s.svc.Delete(chatID); errors.Is(err, chat.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Chat session not found"})
		return
	}

	sess := s.session(r)
	if boundChatID(sess) == chatID {
		delete(sess.Values, sessionKeyChatID)
		if err := sess.Save(r, w); err != nil {
			log.Printf("failed to save session: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Chat session %s deleted successfully.", chatID)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
