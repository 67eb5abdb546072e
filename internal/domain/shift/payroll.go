package shift

import (
	"math"
	"strconv"
	"strings"
)

// PayrollRow is one person found in the submission, wage still raw.
type PayrollRow struct {
	Role       string
	EventName  string
	EventDate  string
	PersonName string
	RawWage    string
	Start      string
	End        string
	Category   string
}

// ExtractPayrollRows walks the personnel sections in a fixed order:
// sound/light engineers, security, other staff. Rows without a name are
// dropped. The submission is not modified.
func ExtractPayrollRows(form FormSubmission, eventName string, eventDate string) []PayrollRow {
	rows := make([]PayrollRow, 0, 8)
	add := func(role string, shift WorkShift, category string) {
		name := strings.TrimSpace(shift.Name)
		if name == "" {
			return
		}
		rows = append(rows, PayrollRow{
			Role:       role,
			EventName:  eventName,
			EventDate:  eventDate,
			PersonName: name,
			RawWage:    strings.TrimSpace(string(shift.Wage)),
			Start:      strings.TrimSpace(shift.Start),
			End:        strings.TrimSpace(shift.End),
			Category:   strings.TrimSpace(category),
		})
	}

	if sl := form.SoundLight; sl != nil {
		for _, slot := range []*EngineerSlot{sl.Engineer1, sl.Engineer2} {
			if slot != nil && slot.Enabled {
				add(RoleSoundLight, slot.WorkShift, "")
			}
		}
	}
	if sec := form.Security; sec != nil {
		for _, person := range sec.Personnel {
			add(RoleSecurity, person, "")
		}
	}
	if other := form.OtherStaff; other != nil {
		for _, entry := range other.Entries {
			add(RoleOther, entry.WorkShift, entry.Category)
		}
	}

	return rows
}

// ParseWage reads a wage typed by staff: "18", "18.5", "18,50", "€ 18".
// Anything unreadable or negative is 0, which lets the resolver fall back.
func ParseWage(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "€"), "€")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}
	if strings.Count(cleaned, ",") == 1 && !strings.Contains(cleaned, ".") {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// BuildTimeEntries turns raw rows into resolved drafts: hours from the
// clock times, then wage and amount from the resolver.
func BuildTimeEntries(rows []PayrollRow, tables WageTables) []TimeEntryDraft {
	entries := make([]TimeEntryDraft, 0, len(rows))
	for _, row := range rows {
		draft := TimeEntryDraft{
			Role:       row.Role,
			EventName:  row.EventName,
			EventDate:  row.EventDate,
			PersonName: row.PersonName,
			Wage:       ParseWage(row.RawWage),
			Start:      row.Start,
			End:        row.End,
			Hours:      ComputeDuration(row.Start, row.End),
		}
		if row.Role == RoleOther {
			draft.Category = row.Category
		}
		entries = append(entries, ResolveWage(draft, tables))
	}
	return entries
}
