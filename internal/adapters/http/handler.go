package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmoretti/bookwise-agent/internal/app/conversation"
	"github.com/dmoretti/bookwise-agent/internal/app/interview"
	"github.com/dmoretti/bookwise-agent/internal/domain"
)

type Server struct {
	svc *conversation.Service
}

func NewServer(svc *conversation.Service) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /genres → the multi-select options the rendering layer offers
	mux.HandleFunc("/genres", s.handleGenres)

	// /sessions → create session (POST), list by user (GET)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}                  → GET: session + messages + awaiting flag
	// /sessions/{id}/messages         → POST: interview answer or free chat
	// /sessions/{id}/genres/toggle    → POST: toggle one genre option
	// /sessions/{id}/genres/continue  → POST: submit the genre selection
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	UserID string `json:"user_id"`
}

type createSessionResponse struct {
	Session  sessionResponse  `json:"session"`
	Greeting *messageResponse `json:"greeting,omitempty"`
}

type profileResponse struct {
	Name            string   `json:"name"`
	Genres          []string `json:"genres"`
	RecentBooks     []string `json:"recent_books"`
	FavoriteBooks   []string `json:"favorite_books"`
	FavoriteAuthors []string `json:"favorite_authors"`
	TrackingApp     string   `json:"tracking_app"`
}

type sessionResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	SetupComplete bool            `json:"setup_complete"`
	StepCursor    int             `json:"step_cursor"`
	Profile       profileResponse `json:"profile"`
	PendingGenres []string        `json:"pending_genres"`
	KnownTitles   []string        `json:"known_titles"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage messageResponse   `json:"user_message"`
	BotMessages []messageResponse `json:"bot_messages"`
}

type getSessionResponse struct {
	Session       sessionResponse   `json:"session"`
	Messages      []messageResponse `json:"messages"`
	AwaitingInput bool              `json:"awaiting_input"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type toggleGenreRequest struct {
	Genre string `json:"genre"`
}

type toggleGenreResponse struct {
	SelectedGenres []string `json:"selected_genres"`
}

type genresResponse struct {
	Options []string `json:"options"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, genresResponse{Options: interview.GenreOptions})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id}[/...]
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleGetSession(w, r, id)

	case len(parts) == 2 && parts[1] == "messages":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleSendMessage(w, r, id)

	case len(parts) == 3 && parts[1] == "genres" && parts[2] == "toggle":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleToggleGenre(w, r, id)

	case len(parts) == 3 && parts[1] == "genres" && parts[2] == "continue":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleContinueGenres(w, r, id)

	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		badRequest(w, "user_id is required")
		return
	}

	out, err := s.svc.StartSession(r.Context(), conversation.StartSessionInput{
		UserID: domain.UserID(req.UserID),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	var greeting *messageResponse
	if out.Greeting != nil {
		m := toMessageResponse(out.Greeting)
		greeting = &m
	}

	writeJSON(w, http.StatusCreated, createSessionResponse{
		Session:  toSessionResponse(out.Session),
		Greeting: greeting,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		badRequest(w, "user_id query parameter is required")
		return
	}

	sessions, err := s.svc.ListUserSessions(r.Context(), domain.UserID(userID), 0)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, msgs, awaiting, err := s.svc.GetSessionTimeline(r.Context(), id, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:       toSessionResponse(session),
		Messages:      toMessagesResponse(msgs),
		AwaitingInput: awaiting,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, sessionID domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID: sessionID,
		Text:      req.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage: toMessageResponse(out.UserMessage),
		BotMessages: toMessagesResponse(out.BotMessages),
	})
}

func (s *Server) handleToggleGenre(w http.ResponseWriter, r *http.Request, sessionID domain.SessionID) {
	var req toggleGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	selected, err := s.svc.ToggleGenre(r.Context(), conversation.ToggleGenreInput{
		SessionID: sessionID,
		Genre:     req.Genre,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleGenreResponse{SelectedGenres: selected})
}

func (s *Server) handleContinueGenres(w http.ResponseWriter, r *http.Request, sessionID domain.SessionID) {
	out, err := s.svc.ContinueGenres(r.Context(), conversation.ContinueGenresInput{
		SessionID: sessionID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage: toMessageResponse(out.UserMessage),
		BotMessages: toMessagesResponse(out.BotMessages),
	})
}

// ─────────────────────────────────────────────
// Mapping helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:            string(s.ID),
		UserID:        string(s.UserID),
		SetupComplete: s.SetupComplete,
		StepCursor:    s.StepCursor,
		Profile: profileResponse{
			Name:            s.Profile.Name,
			Genres:          s.Profile.Genres,
			RecentBooks:     s.Profile.RecentBooks,
			FavoriteBooks:   s.Profile.FavoriteBooks,
			FavoriteAuthors: s.Profile.FavoriteAuthors,
			TrackingApp:     s.Profile.TrackingApp,
		},
		PendingGenres: s.PendingGenres,
		KnownTitles:   s.KnownTitles,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Sender:    string(m.Sender),
		Text:      m.Text,
		Kind:      string(m.Kind),
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto status codes. Validation
// failures re-prompt (400), a busy session asks the client to wait (409),
// everything else is a 404 or 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionBusy):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
