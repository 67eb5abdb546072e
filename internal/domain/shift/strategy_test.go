package shift

import (
	"errors"
	"testing"
)

func TestParseCloseStrategy(t *testing.T) {
	testCases := []struct {
		raw  string
		want CloseStrategy
	}{
		{raw: "finish", want: StrategyFinish},
		{raw: " Export ", want: StrategyExport},
		{raw: "legacy-close", want: StrategyLegacyClose},
		{raw: "close", want: StrategyLegacyClose},
	}
	for _, testCase := range testCases {
		got, err := ParseCloseStrategy(testCase.raw)
		if err != nil || got != testCase.want {
			t.Fatalf("ParseCloseStrategy(%q) = %q, %v", testCase.raw, got, err)
		}
	}
	if _, err := ParseCloseStrategy("archive"); !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("ParseCloseStrategy(archive) error = %v", err)
	}
}

func TestCloseStrategySteps(t *testing.T) {
	if StrategyFinish.RunsExport() || !StrategyFinish.RunsPayroll() {
		t.Fatal("finish books payroll only")
	}
	if !StrategyExport.RunsExport() || StrategyExport.RunsPayroll() {
		t.Fatal("export builds artifacts only")
	}
	if !StrategyLegacyClose.RunsExport() || !StrategyLegacyClose.RunsPayroll() {
		t.Fatal("legacy close runs both steps")
	}
}

func TestCheckPreconditions(t *testing.T) {
	testCases := []struct {
		name     string
		strategy CloseStrategy
		status   Status
		want     error
	}{
		{name: "finish checked", strategy: StrategyFinish, status: StatusChecked},
		{name: "finish closed", strategy: StrategyFinish, status: StatusClosed, want: ErrWrongStatus},
		{name: "finish open", strategy: StrategyFinish, status: StatusOpen, want: ErrWrongStatus},
		{name: "finish finished", strategy: StrategyFinish, status: StatusFinished, want: ErrAlreadyFinished},
		{name: "finish archived", strategy: StrategyFinish, status: StatusArchived, want: ErrAlreadyFinished},
		{name: "export open", strategy: StrategyExport, status: StatusOpen},
		{name: "export finished", strategy: StrategyExport, status: StatusFinished},
		{name: "legacy closed", strategy: StrategyLegacyClose, status: StatusClosed},
		{name: "legacy checked", strategy: StrategyLegacyClose, status: StatusChecked},
		{name: "legacy open", strategy: StrategyLegacyClose, status: StatusOpen, want: ErrWrongStatus},
		{name: "unknown", strategy: CloseStrategy("nope"), status: StatusChecked, want: ErrUnknownStrategy},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.strategy.CheckPreconditions(testCase.status)
			if testCase.want == nil {
				if err != nil {
					t.Fatalf("CheckPreconditions() error = %v", err)
				}
				return
			}
			if !errors.Is(err, testCase.want) {
				t.Fatalf("CheckPreconditions() error = %v, want %v", err, testCase.want)
			}
			if testCase.want != ErrUnknownStrategy && !errors.Is(err, ErrInvalidState) {
				t.Fatalf("status errors must be InvalidState, got %v", err)
			}
		})
	}
}
