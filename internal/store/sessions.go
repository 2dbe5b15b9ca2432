// Package store owns the process-lifetime conversation state: per-session
// history and metadata, and the member registry. It is the only mutable
// shared state in the service.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/karthik449213/fitgym/internal/extractor"
)

// Turn is one message in a conversation, tagged with its speaker role
// (user, assistant or system).
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Metadata is the per-session accumulation of extracted fields plus the
// enrollment control flags. Fields are sticky: once populated they are only
// replaced by a newer non-empty extraction, never blanked.
type Metadata struct {
	Name          string `json:"name,omitempty"`
	Contact       string `json:"contact,omitempty"`
	Goal          string `json:"goal,omitempty"`
	Intent        string `json:"intent,omitempty"`
	PreferredTime string `json:"preferredTime,omitempty"`
	Plan          string `json:"membershipPlan,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	ExpiryDate    string `json:"expiryDate,omitempty"`

	PromptedForMembership bool `json:"promptedForMembership"`
	MembershipSent        bool `json:"membershipSent"`
}

// Merge folds an extracted lead into the metadata. Empty values never
// overwrite existing values.
func (m *Metadata) Merge(lead extractor.Lead) {
	setIfPresent(&m.Name, lead.Name)
	setIfPresent(&m.Contact, lead.Contact)
	setIfPresent(&m.Goal, lead.Goal)
	setIfPresent(&m.Intent, lead.Intent)
	setIfPresent(&m.PreferredTime, lead.Time)
	setIfPresent(&m.Plan, lead.Plan)
	setIfPresent(&m.StartDate, lead.StartDate)
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Session is one visitor's conversation record. Turns are append-only and
// chronological. The session's own mutex serializes whole turns for the
// same id; callers obtain it locked via Sessions.Acquire and must Release
// it when the turn is done.
type Session struct {
	mu sync.Mutex

	ID    string
	Turns []Turn
	Meta  Metadata
}

// Append adds turns to the history. Caller must hold the session.
func (s *Session) Append(turns ...Turn) {
	s.Turns = append(s.Turns, turns...)
}

// Release unlocks the session after a turn.
func (s *Session) Release() {
	s.mu.Unlock()
}

// SessionView is a point-in-time copy of a session, safe to use without
// holding any lock.
type SessionView struct {
	ID    string
	Turns []Turn
	Meta  Metadata
}

// Sessions is the shared session store. The store-level mutex guards only
// map lookup and insert; it is never held across a session's turn, so
// distinct sessions proceed without contention.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// Acquire returns the session for id locked for exclusive use, creating it
// first if needed. A blank id gets a freshly generated one.
func (s *Sessions) Acquire(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{ID: id}
		s.sessions[id] = sess
	}
	s.mu.Unlock()

	sess.mu.Lock()
	return sess
}

// Snapshot returns a copy of the session's history and metadata, or false
// if the id is unknown.
func (s *Sessions) Snapshot(id string) (SessionView, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return SessionView{}, false
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	view := SessionView{
		ID:    sess.ID,
		Turns: make([]Turn, len(sess.Turns)),
		Meta:  sess.Meta,
	}
	copy(view.Turns, sess.Turns)
	return view, true
}
