package extractor

import "testing"

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  *Lead
	}{
		{
			name:  "no marker",
			reply: "Sure! What are your fitness goals?",
			want:  nil,
		},
		{
			name: "full block",
			reply: "Thanks for the details!\nLEAD_DATA:\nName: John Doe\nContact: john@example.com\n" +
				"Goal: lose weight\nIntent: join this month\nTime: evenings",
			want: &Lead{
				Name:    "John Doe",
				Contact: "john@example.com",
				Goal:    "lose weight",
				Intent:  "join this month",
				Time:    "evenings",
			},
		},
		{
			name:  "single field is enough",
			reply: "LEAD_DATA:\nName: Ann",
			want:  &Lead{Name: "Ann"},
		},
		{
			name:  "marker but all fields empty",
			reply: "LEAD_DATA:\nName:\nContact:\nGoal:",
			want:  nil,
		},
		{
			name:  "case-insensitive marker",
			reply: "lead_data:\nname is not a label here\nContact: 5551234567",
			want:  &Lead{Contact: "5551234567"},
		},
		{
			name: "labels in any order with extra whitespace",
			reply: "LEAD_DATA:\n   Time:   mornings  \n\nName:\tJane Roe\n  Goal: strength ",
			want: &Lead{
				Name: "Jane Roe",
				Goal: "strength",
				Time: "mornings",
			},
		},
		{
			name:  "membership fields",
			reply: "LEAD_DATA:\nName: Jane\nMembershipType: 3 months\nStartDate: 2024-05-01",
			want: &Lead{
				Name:      "Jane",
				Plan:      "3 months",
				StartDate: "2024-05-01",
			},
		},
		{
			name:  "start date not in strict form is dropped",
			reply: "LEAD_DATA:\nName: Jane\nStartDate: 5/1/2024",
			want:  &Lead{Name: "Jane"},
		},
		{
			name:  "marker inline with first label",
			reply: "LEAD_DATA: Name: Sam",
			want:  &Lead{Name: "Sam"},
		},
		{
			name:  "all labels on a single line",
			reply: "LEAD_DATA: Name: John Doe Contact: john@example.com Goal: lose weight Intent: high Time: evenings",
			want: &Lead{
				Name:    "John Doe",
				Contact: "john@example.com",
				Goal:    "lose weight",
				Intent:  "high",
				Time:    "evenings",
			},
		},
		{
			name:  "first occurrence of a label wins",
			reply: "LEAD_DATA:\nName: Ann\nName: Bob",
			want:  &Lead{Name: "Ann"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBlock(tt.reply)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("ParseBlock() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ParseBlock() = nil, want lead")
			}
			if *got != *tt.want {
				t.Errorf("ParseBlock() = %+v, want %+v", *got, *tt.want)
			}
		})
	}
}

// Re-extracting from the extractor's own rendering must reproduce the lead.
func TestParseBlock_RoundTrip(t *testing.T) {
	leads := []Lead{
		{Name: "John Doe", Contact: "john@example.com", Goal: "lose weight", Intent: "high", Time: "evenings"},
		{Name: "Ann"},
		{Name: "Jane Roe", Plan: "6 months", StartDate: "2024-09-15"},
		{Contact: "5551234567", Goal: "bulk up"},
	}

	for _, lead := range leads {
		got := ParseBlock(lead.FormatBlock())
		if got == nil {
			t.Fatalf("round trip of %+v yielded nil", lead)
		}
		if *got != lead {
			t.Errorf("round trip: got %+v, want %+v", *got, lead)
		}
	}
}

func TestLeadFields(t *testing.T) {
	lead := Lead{Name: "Ann", Contact: "ann@example.com"}
	fields := lead.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields["name"] != "Ann" || fields["contact"] != "ann@example.com" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if _, ok := fields["goal"]; ok {
		t.Error("empty fields must be omitted")
	}
}

func TestLeadIsEmpty(t *testing.T) {
	if !(Lead{}).IsEmpty() {
		t.Error("zero lead should be empty")
	}
	if (Lead{Time: "mornings"}).IsEmpty() {
		t.Error("lead with a field should not be empty")
	}
}
