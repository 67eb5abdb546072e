package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shiftclose/internal/ports"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	flushes  int
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakePublisher) FlushWithContext(context.Context) error {
	f.flushes++
	return nil
}

func TestNATSNotifierPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	notifier := newNotifierWithPublisher(pub, " shiftclose. ")

	err := notifier.Publish(context.Background(), ports.ShiftNotice{
		Kind:        ports.NoticeShiftFinished,
		EventID:     7,
		EventName:   "Gig",
		Status:      "finished",
		TimeEntries: 2,
		RunID:       "run-1",
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(pub.subjects) != 1 || pub.subjects[0] != "shiftclose.shift.finished" {
		t.Fatalf("subjects = %v", pub.subjects)
	}
	if pub.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", pub.flushes)
	}

	var decoded ports.ShiftNotice
	if err := json.Unmarshal(pub.payloads[0], &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.EventID != 7 || decoded.TimeEntries != 2 || decoded.RunID != "run-1" {
		t.Fatalf("decoded notice = %+v", decoded)
	}
}

func TestNATSNotifierRequiresKind(t *testing.T) {
	notifier := newNotifierWithPublisher(&fakePublisher{}, "shiftclose")
	if err := notifier.Publish(context.Background(), ports.ShiftNotice{}); err == nil {
		t.Fatalf("Publish() expected error for empty kind")
	}
}

func TestNATSNotifierWrapsPublishError(t *testing.T) {
	sentinel := errors.New("boom")
	notifier := newNotifierWithPublisher(&fakePublisher{err: sentinel}, "")

	err := notifier.Publish(context.Background(), ports.ShiftNotice{Kind: ports.NoticeShiftExported})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Publish() error = %v, want wrapped sentinel", err)
	}
	if got := notifier.Subject(ports.NoticeShiftExported); got != "shift.exported" {
		t.Fatalf("Subject() = %q", got)
	}
}

func TestNewNATSNotifierRequiresURL(t *testing.T) {
	if _, err := NewNATSNotifier(" ", "shiftclose"); err == nil {
		t.Fatalf("NewNATSNotifier() expected error for empty url")
	}
}

func TestNoopNotifier(t *testing.T) {
	if err := (NoopNotifier{}).Publish(context.Background(), ports.ShiftNotice{Kind: "x"}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}
