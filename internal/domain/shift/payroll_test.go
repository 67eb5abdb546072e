package shift

import (
	"reflect"
	"testing"
)

func samplePayrollForm() FormSubmission {
	return FormSubmission{
		Version: FormVersion,
		SoundLight: &SoundLightSection{
			Engineer1: &EngineerSlot{Enabled: true, WorkShift: WorkShift{Name: "Tom", Start: "20:00", End: "03:00"}},
			Engineer2: &EngineerSlot{Enabled: false, WorkShift: WorkShift{Name: "Disabled Dan", Start: "20:00", End: "03:00"}},
		},
		Security: &SecuritySection{
			Personnel: []WorkShift{
				{Name: " Anna ", Start: "22:00", End: "04:00"},
				{Name: "   ", Start: "22:00", End: "04:00"},
			},
		},
		OtherStaff: &OtherStaffSection{
			Entries: []OtherStaffEntry{
				{WorkShift: WorkShift{Name: "Lea", Wage: "12,50", Start: "21:00", End: "01:00"}, Category: "cashier"},
			},
		},
	}
}

func TestExtractPayrollRows(t *testing.T) {
	form := samplePayrollForm()
	before := samplePayrollForm()

	rows := ExtractPayrollRows(form, "testEvent", "2024-05-01")
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3: %#v", len(rows), rows)
	}

	want := []PayrollRow{
		{Role: RoleSoundLight, EventName: "testEvent", EventDate: "2024-05-01", PersonName: "Tom", Start: "20:00", End: "03:00"},
		{Role: RoleSecurity, EventName: "testEvent", EventDate: "2024-05-01", PersonName: "Anna", Start: "22:00", End: "04:00"},
		{Role: RoleOther, EventName: "testEvent", EventDate: "2024-05-01", PersonName: "Lea", RawWage: "12,50", Start: "21:00", End: "01:00", Category: "cashier"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("rows = %#v\nwant %#v", rows, want)
	}
	if !reflect.DeepEqual(form, before) {
		t.Fatal("ExtractPayrollRows() mutated the submission")
	}
}

func TestExtractPayrollRowsEmptyForm(t *testing.T) {
	if rows := ExtractPayrollRows(FormSubmission{}, "x", "2024-05-01"); len(rows) != 0 {
		t.Fatalf("rows = %#v, want none", rows)
	}
}

func TestParseWage(t *testing.T) {
	cases := map[string]float64{
		"18":     18,
		"18.5":   18.5,
		"18,50":  18.5,
		"€ 18":   18,
		"18€":    18,
		"":       0,
		"abc":    0,
		"-5":     0,
		"NaN":    0,
		"1,000.5": 0,
	}
	for in, want := range cases {
		if got := ParseWage(in); got != want {
			t.Fatalf("ParseWage(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildTimeEntriesEndToEnd(t *testing.T) {
	form := FormSubmission{
		Security: &SecuritySection{
			Personnel: []WorkShift{{Name: "Anna", Start: "22:00", End: "04:00"}},
		},
	}
	tables := WageTables{
		RoleWages:   map[string]float64{RoleSecurity: 20},
		PersonWages: map[string]float64{"anna": 18},
	}

	entries := BuildTimeEntries(ExtractPayrollRows(form, "testEvent", "2024-05-01"), tables)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	got := entries[0]
	if got.Hours != 6.0 || got.Wage != 18 || got.Amount != 108.00 {
		t.Fatalf("entry = %+v, want hours=6 wage=18 amount=108", got)
	}
	if got.Category != "" {
		t.Fatalf("category = %q, want empty for security", got.Category)
	}
}

func TestBuildTimeEntriesKeepsCategoryForOtherStaff(t *testing.T) {
	rows := []PayrollRow{{Role: RoleOther, PersonName: "Lea", RawWage: "12,50", Start: "21:00", End: "01:00", Category: "restroom"}}
	entries := BuildTimeEntries(rows, WageTables{})
	if entries[0].Category != "restroom" || entries[0].Wage != 12.5 || entries[0].Amount != 50 {
		t.Fatalf("entry = %+v", entries[0])
	}
}
