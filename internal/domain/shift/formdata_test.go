package shift

import (
	"errors"
	"testing"
)

func TestParseFormSubmission(t *testing.T) {
	raw := []byte(`{
		"overview": {"name": "testEvent", "date": "2024-05-01"},
		"security": {
			"personnel": [{"name": "Anna", "start": "22:00", "end": "04:00", "wage": 18}],
			"scans": [{"document_id": 4, "scan_name": "Incident"}]
		},
		"sound_light": {"engineer1": {"enabled": true, "name": "Tom", "wage": "25,50"}},
		"other_staff": {"entries": [{"name": "Lea", "category": "cashier"}]},
		"cashier": {"scans": [{"path": "uploads/1/settle.pdf", "scan_name": "Settlements"}]},
		"client_only_field": {"kept": true}
	}`)

	form, err := ParseFormSubmission(raw)
	if err != nil {
		t.Fatalf("ParseFormSubmission() error = %v", err)
	}
	if form.Version != FormVersion {
		t.Fatalf("version = %d, want default %d", form.Version, FormVersion)
	}
	if got := form.Security.Personnel[0].Wage; got != "18" {
		t.Fatalf("numeric wage = %q, want 18", got)
	}
	if got := form.SoundLight.Engineer1; got == nil || !got.Enabled || got.Name != "Tom" || got.Wage != "25,50" {
		t.Fatalf("engineer1 = %#v", got)
	}
	if form.OtherStaff.Entries[0].Category != "cashier" {
		t.Fatalf("other staff category = %q", form.OtherStaff.Entries[0].Category)
	}
	if len(CollectScanRefs(form)) != 2 {
		t.Fatalf("scan refs = %d, want 2", len(CollectScanRefs(form)))
	}
}

func TestParseFormSubmissionRejectsBadInput(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want error
	}{
		{name: "array", raw: `[1,2]`, want: ErrInvalidFormData},
		{name: "wrong type", raw: `{"security": {"personnel": "Anna"}}`, want: ErrInvalidFormData},
		{name: "bad wage", raw: `{"security": {"personnel": [{"name": "A", "wage": true}]}}`, want: ErrInvalidFormData},
		{name: "future version", raw: `{"version": 2}`, want: ErrUnsupportedFormVersion},
		{name: "truncated", raw: `{"security": `, want: ErrInvalidFormData},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := ParseFormSubmission([]byte(testCase.raw)); !errors.Is(err, testCase.want) {
				t.Fatalf("ParseFormSubmission() error = %v, want %v", err, testCase.want)
			}
		})
	}
}

func TestParseFormSubmissionEmpty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		form, err := ParseFormSubmission([]byte(raw))
		if err != nil {
			t.Fatalf("ParseFormSubmission(%q) error = %v", raw, err)
		}
		if form.Security != nil || form.Version != FormVersion {
			t.Fatalf("ParseFormSubmission(%q) = %#v", raw, form)
		}
	}
}
