package shift

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusChecked  Status = "checked"
	StatusFinished Status = "finished"
	StatusArchived Status = "archived"
)

// PhaseClosed is the phase label written when payroll is booked.
const PhaseClosed = "closed"

// PhasePlanned is the phase label of a freshly created event.
const PhasePlanned = "planned"

var statusSequence = []Status{StatusOpen, StatusClosed, StatusChecked, StatusFinished, StatusArchived}

func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, status := range statusSequence {
		if status == candidate {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func (s Status) String() string { return string(s) }

func (s Status) rank() int {
	for i, status := range statusSequence {
		if status == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports finished and archived events. Every other status marks
// the event as the venue's current one.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusArchived
}

// Next returns the status that follows s in the lifecycle.
func (s Status) Next() (Status, bool) {
	idx := s.rank()
	if idx < 0 || idx+1 >= len(statusSequence) {
		return "", false
	}
	return statusSequence[idx+1], true
}

// TerminalStatuses lists statuses that no longer count as current.
func TerminalStatuses() []Status {
	return []Status{StatusFinished, StatusArchived}
}

// ValidateAdvance checks a manual single step forward. checked -> finished
// is excluded: it is only reachable through a close strategy that books
// payroll.
func ValidateAdvance(from Status, to Status) error {
	next, ok := from.Next()
	if !ok || next != to {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrWrongStatus, from, to)
	}
	if to == StatusFinished {
		return fmt.Errorf("%w: finishing requires the finish operation", ErrWrongStatus)
	}
	return nil
}
