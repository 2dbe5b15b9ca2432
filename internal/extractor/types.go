package extractor

import "strings"

// Lead is a partial set of qualification fields pulled out of conversation
// text. Every field is independently optional; an empty string means the
// field was not found. Leads are never stored directly, only merged into
// session metadata.
type Lead struct {
	Name      string `json:"name,omitempty"`
	Contact   string `json:"contact,omitempty"`
	Goal      string `json:"goal,omitempty"`
	Intent    string `json:"intent,omitempty"`
	Time      string `json:"time,omitempty"`
	Plan      string `json:"membershipType,omitempty"`
	StartDate string `json:"startDate,omitempty"`
}

// IsEmpty reports whether no field was extracted.
func (l Lead) IsEmpty() bool {
	return l == Lead{}
}

// Fields returns the populated fields as a flat record suitable for
// forwarding to the lead sink.
func (l Lead) Fields() map[string]string {
	fields := map[string]string{}
	for label, value := range map[string]string{
		"name":           l.Name,
		"contact":        l.Contact,
		"goal":           l.Goal,
		"intent":         l.Intent,
		"time":           l.Time,
		"membershipType": l.Plan,
		"startDate":      l.StartDate,
	} {
		if value != "" {
			fields[label] = value
		}
	}
	return fields
}

// FormatBlock renders the lead in the LEAD_DATA block form the generation
// provider is instructed to emit. ParseBlock is its inverse.
func (l Lead) FormatBlock() string {
	var sb strings.Builder
	sb.WriteString("LEAD_DATA:\n")
	sb.WriteString("Name: " + l.Name + "\n")
	sb.WriteString("Contact: " + l.Contact + "\n")
	sb.WriteString("Goal: " + l.Goal + "\n")
	sb.WriteString("Intent: " + l.Intent + "\n")
	sb.WriteString("Time: " + l.Time + "\n")
	sb.WriteString("MembershipType: " + l.Plan + "\n")
	sb.WriteString("StartDate: " + l.StartDate + "\n")
	return sb.String()
}
