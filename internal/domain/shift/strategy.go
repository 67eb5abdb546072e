package shift

import (
	"fmt"
	"strings"
)

// CloseStrategy selects which closing steps a call runs.
type CloseStrategy string

const (
	// StrategyFinish books payroll and moves checked -> finished.
	StrategyFinish CloseStrategy = "finish"
	// StrategyExport only builds the section PDFs; no status change.
	StrategyExport CloseStrategy = "export"
	// StrategyLegacyClose exports and then finishes, from closed or checked.
	StrategyLegacyClose CloseStrategy = "legacy-close"
)

func ParseCloseStrategy(raw string) (CloseStrategy, error) {
	switch CloseStrategy(strings.ToLower(strings.TrimSpace(raw))) {
	case StrategyFinish:
		return StrategyFinish, nil
	case StrategyExport:
		return StrategyExport, nil
	case StrategyLegacyClose, "close":
		return StrategyLegacyClose, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
}

func (s CloseStrategy) RunsExport() bool {
	return s == StrategyExport || s == StrategyLegacyClose
}

func (s CloseStrategy) RunsPayroll() bool {
	return s == StrategyFinish || s == StrategyLegacyClose
}

// CheckPreconditions reports whether an event in status may be closed with s.
func (s CloseStrategy) CheckPreconditions(status Status) error {
	switch s {
	case StrategyExport:
		return nil
	case StrategyFinish:
		if status == StatusChecked {
			return nil
		}
	case StrategyLegacyClose:
		if status == StatusClosed || status == StatusChecked {
			return nil
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}

	if status.IsTerminal() {
		return fmt.Errorf("%w (status %s)", ErrAlreadyFinished, status)
	}
	return fmt.Errorf("%w: %s requires %s, got %s", ErrWrongStatus, s, s.requiredStatuses(), status)
}

func (s CloseStrategy) requiredStatuses() string {
	if s == StrategyLegacyClose {
		return "closed or checked"
	}
	return string(StatusChecked)
}
