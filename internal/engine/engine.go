// Package engine orchestrates one conversation turn: history append,
// extraction, the enrollment state machine, and forwarding of finalized
// records.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karthik449213/fitgym/internal/events"
	"github.com/karthik449213/fitgym/internal/extractor"
	"github.com/karthik449213/fitgym/internal/groq"
	"github.com/karthik449213/fitgym/internal/store"
)

// Provider produces a reply for a conversation. Satisfied by *groq.Client.
type Provider interface {
	Complete(ctx context.Context, system string, messages []groq.Message) (string, error)
}

// Sink receives finalized records. Satisfied by *forwarder.Forwarder.
type Sink interface {
	Forward(ctx context.Context, record map[string]string) bool
}

// PlanPrompt is the fixed, provider-bypassing reply sent once name and
// contact are known but no plan has been chosen.
const PlanPrompt = "Great, I have your details! We offer four membership plans: " +
	"1 month, 3 months, 6 months, and 12 months. " +
	"Which plan would you like, and what start date works for you? " +
	"(for example 2025-03-01, or just say today)"

type Engine struct {
	sessions *store.Sessions
	members  *store.Members
	provider Provider
	sink     Sink
	events   *events.Publisher
	system   string
	logger   *slog.Logger
	now      func() time.Time
}

func New(sessions *store.Sessions, members *store.Members, provider Provider, sink Sink, ev *events.Publisher, systemPrompt string, logger *slog.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		members:  members,
		provider: provider,
		sink:     sink,
		events:   ev,
		system:   systemPrompt,
		logger:   logger,
		now:      time.Now,
	}
}

// TurnResult is what one handled turn reports back to the caller.
type TurnResult struct {
	SessionID  string
	Reply      string
	Lead       *extractor.Lead
	Forwarded  bool
	ExpiryDate string
}

// HandleTurn runs one inbound turn through the state machine. The session
// is held for the whole turn, so concurrent turns for the same id
// serialize; other sessions are unaffected. Short-circuit states answer
// without the generation provider; otherwise the provider takes the turn.
func (e *Engine) HandleTurn(ctx context.Context, sessionID string, turns []store.Turn) (*TurnResult, error) {
	sess := e.sessions.Acquire(sessionID)
	defer sess.Release()

	sess.Append(turns...)

	now := e.now()
	for _, t := range turns {
		if t.Role != "user" {
			continue
		}
		sess.Meta.Merge(extractor.ScanUtterance(t.Content, now))
	}

	meta := &sess.Meta
	identified := meta.Name != "" && meta.Contact != ""

	// AwaitingPlanSelection: identified, plan or date missing, prompt not
	// yet issued. Answer with the fixed prompt, no provider round trip.
	if identified && !meta.MembershipSent && !meta.PromptedForMembership &&
		(meta.Plan == "" || meta.StartDate == "") {
		meta.PromptedForMembership = true
		sess.Append(store.Turn{Role: "assistant", Content: PlanPrompt})
		return &TurnResult{SessionID: sess.ID, Reply: PlanPrompt}, nil
	}

	// PlanCollected: everything known, membership not yet sent.
	if identified && !meta.MembershipSent && meta.Plan != "" && meta.StartDate != "" {
		if res, ok := e.finalizeMembership(ctx, sess); ok {
			return res, nil
		}
		// Plan or date did not resolve to a duration; stay collecting and
		// let the provider take the turn.
	}

	reply, err := e.provider.Complete(ctx, e.systemContext(meta), toMessages(sess.Turns))
	if err != nil {
		return nil, fmt.Errorf("generation provider: %w", err)
	}
	sess.Append(store.Turn{Role: "assistant", Content: reply})

	res := &TurnResult{SessionID: sess.ID, Reply: reply}
	if lead := extractor.ParseBlock(reply); lead != nil {
		meta.Merge(*lead)
		res.Lead = lead
		// TODO: add a dedup guard; a provider that re-emits the block on a
		// later turn forwards the same lead again.
		res.Forwarded = e.sink.Forward(ctx, lead.Fields())
		e.logger.Info("qualified lead extracted",
			"session_id", sess.ID,
			"forwarded", res.Forwarded,
		)
		if e.events != nil {
			e.events.Publish(events.SubjectLeadCaptured, lead.Fields())
		}
	}
	return res, nil
}

// finalizeMembership derives the expiry, registers the member, forwards the
// record and synthesizes the confirmation reply. Returns false when the
// plan/date combination cannot be resolved, leaving the session untouched
// apart from history.
func (e *Engine) finalizeMembership(ctx context.Context, sess *store.Session) (*TurnResult, bool) {
	meta := &sess.Meta

	rec, err := e.members.Create(store.MemberInput{
		Name:      meta.Name,
		Contact:   meta.Contact,
		Plan:      meta.Plan,
		StartDate: meta.StartDate,
	})
	if err != nil {
		e.logger.Warn("membership not yet resolvable",
			"session_id", sess.ID,
			"plan", meta.Plan,
			"start_date", meta.StartDate,
			"error", err,
		)
		return nil, false
	}

	meta.Plan = rec.Plan
	meta.ExpiryDate = rec.ExpiryDate

	sent := e.sink.Forward(ctx, rec.Fields())
	meta.MembershipSent = sent
	if e.events != nil {
		e.events.Publish(events.SubjectMemberEnrolled, rec)
	}

	e.logger.Info("membership finalized",
		"session_id", sess.ID,
		"member_id", rec.ID,
		"plan", rec.Plan,
		"expiry", rec.ExpiryDate,
		"forwarded", sent,
	)

	reply := fmt.Sprintf(
		"You're all set, %s! Your %s membership starts on %s and is valid until %s. See you at the gym!",
		rec.Name, rec.Plan, rec.StartDate, rec.ExpiryDate,
	)
	sess.Append(store.Turn{Role: "assistant", Content: reply})

	return &TurnResult{
		SessionID:  sess.ID,
		Reply:      reply,
		Forwarded:  sent,
		ExpiryDate: rec.ExpiryDate,
	}, true
}

// systemContext builds the system instruction for a provider call,
// summarizing the currently-known fields so the provider never re-asks for
// them.
func (e *Engine) systemContext(meta *store.Metadata) string {
	known := ""
	for _, f := range []struct{ label, value string }{
		{"name", meta.Name},
		{"contact", meta.Contact},
		{"goal", meta.Goal},
		{"intent", meta.Intent},
		{"preferred time", meta.PreferredTime},
		{"membership plan", meta.Plan},
		{"start date", meta.StartDate},
	} {
		if f.value == "" {
			continue
		}
		if known != "" {
			known += ", "
		}
		known += f.label + ": " + f.value
	}
	if known == "" {
		return e.system
	}
	return e.system + "\n\nAlready known about this visitor (do not ask again): " + known
}

func toMessages(turns []store.Turn) []groq.Message {
	msgs := make([]groq.Message, len(turns))
	for i, t := range turns {
		msgs[i] = groq.Message{Role: t.Role, Content: t.Content}
	}
	return msgs
}
