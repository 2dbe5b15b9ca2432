package extractor

import (
	"regexp"
	"strings"
)

// markerRE locates the structured-block tag the system prompt asks the
// provider to emit. Everything after it is treated as the block body.
var markerRE = regexp.MustCompile(`(?i)LEAD_DATA:?`)

// labelRE finds any known label in the block body. Labels may sit on their
// own lines or run together on a single line, which is the exact shape the
// default system prompt solicits.
var labelRE = regexp.MustCompile(`(?i)\b(Name|Contact|Goal|Intent|Time|MembershipType|StartDate)[ \t]*:`)

var strictDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseBlock extracts a lead from a provider reply containing a LEAD_DATA
// block. It returns nil when the marker is absent; with the marker present,
// the lead is returned as long as at least one labeled field carries a
// value. Label order and surrounding whitespace do not matter, and a value
// ends at the next label or at the end of its line, whichever comes first.
func ParseBlock(reply string) *Lead {
	loc := markerRE.FindStringIndex(reply)
	if loc == nil {
		return nil
	}
	body := reply[loc[1]:]

	var lead Lead
	matches := labelRE.FindAllStringSubmatchIndex(body, -1)
	for i, m := range matches {
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if nl := strings.IndexByte(body[m[1]:], '\n'); nl >= 0 && m[1]+nl < end {
			end = m[1] + nl
		}
		value := strings.TrimSpace(body[m[1]:end])
		setLeadField(&lead, strings.ToLower(body[m[2]:m[3]]), value)
	}

	if lead.StartDate != "" && !strictDateRE.MatchString(lead.StartDate) {
		lead.StartDate = ""
	}
	if lead.IsEmpty() {
		return nil
	}
	return &lead
}

// setLeadField assigns a labeled value; the first occurrence of a label
// wins.
func setLeadField(lead *Lead, label, value string) {
	if value == "" {
		return
	}
	switch label {
	case "name":
		if lead.Name == "" {
			lead.Name = value
		}
	case "contact":
		if lead.Contact == "" {
			lead.Contact = value
		}
	case "goal":
		if lead.Goal == "" {
			lead.Goal = value
		}
	case "intent":
		if lead.Intent == "" {
			lead.Intent = value
		}
	case "time":
		if lead.Time == "" {
			lead.Time = value
		}
	case "membershiptype":
		if lead.Plan == "" {
			lead.Plan = value
		}
	case "startdate":
		if lead.StartDate == "" {
			lead.StartDate = value
		}
	}
}
