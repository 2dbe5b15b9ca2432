package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/karthik449213/fitgym/internal/engine"
	"github.com/karthik449213/fitgym/internal/extractor"
	"github.com/karthik449213/fitgym/internal/store"
)

type Server struct {
	router   *chi.Mux
	port     int
	engine   *engine.Engine
	sessions *store.Sessions
	members  *store.Members
	sink     engine.Sink
	logger   *slog.Logger
}

func NewServer(port int, eng *engine.Engine, sessions *store.Sessions, members *store.Members, sink engine.Sink, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		engine:   eng,
		sessions: sessions,
		members:  members,
		sink:     sink,
		logger:   logger,
	}

	router.Get("/", s.health)
	router.Get("/health", s.health)
	router.Post("/chat", s.chat)
	router.Get("/session/{id}", s.session)
	router.Post("/members", s.createMember)
	router.Get("/members/{id}", s.getMember)
	router.Patch("/members/{id}", s.updateMember)
	router.Post("/n8n", s.relayLead)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "FitGym AI Lead Assistant Backend",
	})
}

type chatRequest struct {
	SessionID string           `json:"sessionId"`
	Messages  *json.RawMessage `json:"messages"`
}

type chatResponse struct {
	SessionID  string          `json:"sessionId"`
	AIReply    string          `json:"aiReply"`
	LeadData   *extractor.Lead `json:"leadData"`
	LeadSent   bool            `json:"leadSent"`
	ExpiryDate *string         `json:"expiryDate"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Messages == nil {
		writeError(w, http.StatusBadRequest, "invalid messages array")
		return
	}
	var turns []store.Turn
	if err := json.Unmarshal(*req.Messages, &turns); err != nil {
		writeError(w, http.StatusBadRequest, "invalid messages array")
		return
	}
	if len(turns) == 0 {
		writeError(w, http.StatusBadRequest, "empty messages array")
		return
	}
	for _, t := range turns {
		if t.Role != "user" && t.Role != "assistant" && t.Role != "system" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid role %q", t.Role))
			return
		}
	}

	res, err := s.engine.HandleTurn(r.Context(), req.SessionID, turns)
	if err != nil {
		s.logger.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var expiry *string
	if res.ExpiryDate != "" {
		expiry = &res.ExpiryDate
	}
	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:  res.SessionID,
		AIReply:    res.Reply,
		LeadData:   res.Lead,
		LeadSent:   res.Forwarded,
		ExpiryDate: expiry,
	})
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, ok := s.sessions.Snapshot(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": view.ID,
		"messages":  view.Turns,
		"metadata":  view.Meta,
	})
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var in store.MemberInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := s.members.Create(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	forwarded := s.sink.Forward(r.Context(), rec.Fields())
	s.logger.Info("member created", "member_id", rec.ID, "forwarded", forwarded)

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := s.members.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch store.MemberPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := s.members.Get(id); !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	rec, err := s.members.Update(id, patch)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	forwarded := s.sink.Forward(r.Context(), rec.Fields())
	s.logger.Info("member updated", "member_id", rec.ID, "forwarded", forwarded)

	writeJSON(w, http.StatusOK, rec)
}

// relayLead forwards an arbitrary flat record from the front end to the
// sink, decoupled from any session.
func (s *Server) relayLead(w http.ResponseWriter, r *http.Request) {
	var record map[string]string
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid lead record")
		return
	}

	forwarded := s.sink.Forward(r.Context(), record)
	writeJSON(w, http.StatusOK, map[string]bool{"forwarded": forwarded})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
