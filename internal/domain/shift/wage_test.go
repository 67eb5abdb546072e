package shift

import "testing"

func TestResolveWage(t *testing.T) {
	tables := WageTables{
		RoleWages: map[string]float64{
			RoleSecurity:   20,
			RoleSoundLight: 25,
			RoleOther:      15,
		},
		PersonWages: map[string]float64{
			"anna":  30,
			"björn": 22,
		},
	}

	testCases := []struct {
		name       string
		entry      TimeEntryDraft
		wantWage   float64
		wantAmount float64
	}{
		{
			name:       "explicit wage wins over override",
			entry:      TimeEntryDraft{Role: RoleSecurity, PersonName: "Anna", Wage: 12, Hours: 2},
			wantWage:   12,
			wantAmount: 24,
		},
		{
			name:       "person override beats role default",
			entry:      TimeEntryDraft{Role: RoleSecurity, PersonName: "  ANNA ", Hours: 4},
			wantWage:   30,
			wantAmount: 120,
		},
		{
			name:       "role default without override",
			entry:      TimeEntryDraft{Role: RoleSecurity, PersonName: "Carl", Hours: 5.5},
			wantWage:   20,
			wantAmount: 110,
		},
		{
			name:       "other staff without override stays zero",
			entry:      TimeEntryDraft{Role: RoleOther, PersonName: "Carl", Hours: 3},
			wantWage:   0,
			wantAmount: 0,
		},
		{
			name:       "other staff with override",
			entry:      TimeEntryDraft{Role: RoleOther, PersonName: "Björn", Hours: 3},
			wantWage:   22,
			wantAmount: 66,
		},
		{
			name:       "unknown catalog role with no default",
			entry:      TimeEntryDraft{Role: "bar", PersonName: "Carl", Hours: 3},
			wantWage:   0,
			wantAmount: 0,
		},
		{
			name:       "person override follows the person across roles",
			entry:      TimeEntryDraft{Role: RoleSoundLight, PersonName: "anna", Hours: 1.25},
			wantWage:   30,
			wantAmount: 37.5,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := ResolveWage(testCase.entry, tables)
			if got.Wage != testCase.wantWage {
				t.Fatalf("wage = %v, want %v", got.Wage, testCase.wantWage)
			}
			if got.Amount != testCase.wantAmount {
				t.Fatalf("amount = %v, want %v", got.Amount, testCase.wantAmount)
			}
		})
	}
}

func TestNormalizePersonName(t *testing.T) {
	if got := NormalizePersonName("  Anna Maria "); got != "anna maria" {
		t.Fatalf("NormalizePersonName() = %q", got)
	}
	if NormalizePersonName("STRASSE") != NormalizePersonName("strasse") {
		t.Fatal("case folding must ignore case")
	}
}
