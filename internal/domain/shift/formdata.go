package shift

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FormVersion is the submission layout this engine understands. Submissions
// without a version are treated as version 1.
const FormVersion = 1

// FormSubmission is the close-out form filled in by venue staff. Every
// section is optional.
type FormSubmission struct {
	Version     int                `json:"version,omitempty" jsonschema:"enum=1"`
	Overview    *Overview          `json:"overview,omitempty"`
	Security    *SecuritySection   `json:"security,omitempty"`
	SoundLight  *SoundLightSection `json:"sound_light,omitempty"`
	OtherStaff  *OtherStaffSection `json:"other_staff,omitempty"`
	RiderExtras *ScanSection       `json:"rider_extras,omitempty"`
	Cashier     *ScanSection       `json:"cashier,omitempty"`
	Guests      *ScanSection       `json:"guests,omitempty"`
}

type Overview struct {
	Name      string `json:"name,omitempty"`
	Date      string `json:"date,omitempty"`
	DoorsTime string `json:"doors_time,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ScanRef points at an uploaded scan either by persisted document id or by
// a path inside the storage root.
type ScanRef struct {
	DocumentID uint64 `json:"document_id,omitempty"`
	Path       string `json:"path,omitempty"`
	ScanName   string `json:"scan_name,omitempty"`
}

// WorkShift is one person's working time as typed into the form.
type WorkShift struct {
	Name  string    `json:"name,omitempty"`
	Wage  WageValue `json:"wage,omitempty"`
	Start string    `json:"start,omitempty"`
	End   string    `json:"end,omitempty"`
}

type SecuritySection struct {
	Personnel []WorkShift `json:"personnel,omitempty"`
	Scans     []ScanRef   `json:"scans,omitempty"`
}

type EngineerSlot struct {
	Enabled bool `json:"enabled"`
	WorkShift
}

type SoundLightSection struct {
	Engineer1 *EngineerSlot `json:"engineer1,omitempty"`
	Engineer2 *EngineerSlot `json:"engineer2,omitempty"`
	Scans     []ScanRef     `json:"scans,omitempty"`
}

type OtherStaffEntry struct {
	WorkShift
	Category string `json:"category,omitempty"`
}

type OtherStaffSection struct {
	Entries []OtherStaffEntry `json:"entries,omitempty"`
}

type ScanSection struct {
	Scans []ScanRef `json:"scans,omitempty"`
}

// WageValue keeps the wage exactly as entered. Clients send it as a JSON
// string or number.
type WageValue string

func (w *WageValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*w = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*w = WageValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("wage must be a string or number: %w", err)
	}
	*w = WageValue(n.String())
	return nil
}

// ParseFormSubmission validates raw client JSON. Empty input is an empty
// submission.
func ParseFormSubmission(raw []byte) (FormSubmission, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return FormSubmission{Version: FormVersion}, nil
	}
	if trimmed[0] != '{' {
		return FormSubmission{}, fmt.Errorf("%w: submission must be a JSON object", ErrInvalidFormData)
	}

	var form FormSubmission
	if err := json.Unmarshal(trimmed, &form); err != nil {
		return FormSubmission{}, fmt.Errorf("%w: %v", ErrInvalidFormData, err)
	}
	if form.Version == 0 {
		form.Version = FormVersion
	}
	if form.Version != FormVersion {
		return FormSubmission{}, fmt.Errorf("%w: %d", ErrUnsupportedFormVersion, form.Version)
	}
	if err := form.validateScans(); err != nil {
		return FormSubmission{}, err
	}
	return form, nil
}

func (f FormSubmission) validateScans() error {
	for _, ref := range CollectScanRefs(f) {
		if strings.Contains(ref.Ref.Path, "\x00") {
			return fmt.Errorf("%w: %s scan path contains NUL", ErrInvalidFormData, ref.Source)
		}
	}
	return nil
}
