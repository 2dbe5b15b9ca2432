package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/karthik449213/fitgym/internal/membership"
)

// MemberRecord is a finalized membership, independent of any conversation
// session. Expiry is always derived from start date and plan, never copied.
type MemberRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Plan       string `json:"membershipType"`
	StartDate  string `json:"startDate"`
	ExpiryDate string `json:"expiryDate"`
	Status     string `json:"status"`
}

// Fields returns the record as a flat map for the lead sink.
func (r MemberRecord) Fields() map[string]string {
	return map[string]string{
		"id":             r.ID,
		"name":           r.Name,
		"contact":        r.Contact,
		"membershipType": r.Plan,
		"startDate":      r.StartDate,
		"expiryDate":     r.ExpiryDate,
		"status":         r.Status,
	}
}

// MemberInput carries the mandatory fields for creating a member.
type MemberInput struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Plan      string `json:"membershipType"`
	StartDate string `json:"startDate"`
}

// MemberPatch is a partial update; empty fields are left untouched.
type MemberPatch struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Plan      string `json:"membershipType"`
	StartDate string `json:"startDate"`
}

// Members is the member registry. Records are created on enrollment or via
// the member endpoints and mutated only by Update; there is no delete.
type Members struct {
	mu      sync.RWMutex
	records map[string]*MemberRecord
}

func NewMembers() *Members {
	return &Members{records: make(map[string]*MemberRecord)}
}

// Create validates the input, derives the expiry and stores a new active
// record. All four input fields are mandatory.
func (m *Members) Create(in MemberInput) (MemberRecord, error) {
	switch {
	case in.Name == "":
		return MemberRecord{}, fmt.Errorf("name is required")
	case in.Contact == "":
		return MemberRecord{}, fmt.Errorf("contact is required")
	case in.Plan == "":
		return MemberRecord{}, fmt.Errorf("membershipType is required")
	case in.StartDate == "":
		return MemberRecord{}, fmt.Errorf("startDate is required")
	}

	months, ok := membership.ParsePlanMonths(in.Plan)
	if !ok {
		return MemberRecord{}, fmt.Errorf("unknown membership plan %q", in.Plan)
	}
	expiry, err := membership.Expiry(in.StartDate, months)
	if err != nil {
		return MemberRecord{}, err
	}

	rec := MemberRecord{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Contact:    in.Contact,
		Plan:       membership.PlanLabel(months),
		StartDate:  in.StartDate,
		ExpiryDate: expiry,
		Status:     membership.StatusActive,
	}

	m.mu.Lock()
	m.records[rec.ID] = &rec
	m.mu.Unlock()

	return rec, nil
}

// Get returns a copy of the record for id.
func (m *Members) Get(id string) (MemberRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return MemberRecord{}, false
	}
	return *rec, true
}

// Update applies the non-empty patch fields. Touching the start date or
// plan recomputes the expiry, and every update resets the status to active.
// A patch that cannot be resolved leaves the record unmodified.
func (m *Members) Update(id string, patch MemberPatch) (MemberRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[id]
	if !ok {
		return MemberRecord{}, fmt.Errorf("member %s not found", id)
	}

	next := *stored
	setIfPresent(&next.Name, patch.Name)
	setIfPresent(&next.Contact, patch.Contact)
	setIfPresent(&next.StartDate, patch.StartDate)
	if patch.Plan != "" {
		next.Plan = patch.Plan
	}

	if patch.Plan != "" || patch.StartDate != "" {
		months, ok := membership.ParsePlanMonths(next.Plan)
		if !ok {
			return MemberRecord{}, fmt.Errorf("unknown membership plan %q", next.Plan)
		}
		expiry, err := membership.Expiry(next.StartDate, months)
		if err != nil {
			return MemberRecord{}, err
		}
		next.Plan = membership.PlanLabel(months)
		next.ExpiryDate = expiry
	}
	next.Status = membership.StatusActive

	*stored = next
	return next, nil
}
