package shift

import (
	"strings"

	"golang.org/x/text/cases"
)

// Built-in roles emitted by the payroll extractor. Catalog roles may add
// more names; they resolve like RoleSecurity.
const (
	RoleSecurity   = "security"
	RoleSoundLight = "sound-light"
	// RoleOther has no meaningful single default wage: only a person
	// override can set it.
	RoleOther = "other"
)

// TimeEntryDraft is a time entry before it is persisted.
type TimeEntryDraft struct {
	Role       string
	EventName  string
	EventDate  string
	PersonName string
	Wage       float64
	Start      string
	End        string
	Hours      float64
	Amount     float64
	Category   string
}

// WageTables are the two lookups the resolver consults. PersonWages is
// keyed by NormalizePersonName.
type WageTables struct {
	RoleWages   map[string]float64
	PersonWages map[string]float64
}

// NormalizePersonName is the lookup key for person wage overrides.
func NormalizePersonName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// ResolveWage fills in the effective wage and recomputes the amount:
// explicit wage > person override > role default > zero. RoleOther skips
// the role default.
func ResolveWage(entry TimeEntryDraft, tables WageTables) TimeEntryDraft {
	if entry.Wage <= 0 {
		entry.Wage = 0
		personWage, hasPerson := tables.PersonWages[NormalizePersonName(entry.PersonName)]
		switch {
		case hasPerson && personWage > 0:
			entry.Wage = personWage
		case entry.Role == RoleOther:
			// no role fallback
		default:
			if roleWage, ok := tables.RoleWages[entry.Role]; ok && roleWage > 0 {
				entry.Wage = roleWage
			}
		}
	}

	entry.Amount = RoundCents(entry.Hours * entry.Wage)
	return entry
}
