package console

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/usecase/shift"
)

type stubService struct {
	events   []shift.EventDetail
	entries  map[uint64][]shift.TimeEntryItem
	advanced []shift.AdvanceStatusInput
	closed   []shift.CloseInput
	closeErr error
}

func (s *stubService) ListEvents(context.Context, shift.ListEventsInput) ([]shift.EventDetail, error) {
	return s.events, nil
}

func (s *stubService) GetEvent(_ context.Context, eventID uint64) (shift.EventDetail, error) {
	for _, event := range s.events {
		if event.EventID == eventID {
			return event, nil
		}
	}
	return shift.EventDetail{}, domainshift.ErrEventNotFound
}

func (s *stubService) ListTimeEntries(_ context.Context, eventID uint64) ([]shift.TimeEntryItem, error) {
	return s.entries[eventID], nil
}

func (s *stubService) AdvanceStatus(_ context.Context, input shift.AdvanceStatusInput) (shift.EventDetail, error) {
	s.advanced = append(s.advanced, input)
	return shift.EventDetail{EventID: input.EventID, Status: input.Target}, nil
}

func (s *stubService) Close(_ context.Context, input shift.CloseInput) (shift.CloseResult, error) {
	s.closed = append(s.closed, input)
	if s.closeErr != nil {
		return shift.CloseResult{}, s.closeErr
	}
	return shift.CloseResult{
		EventID:     input.EventID,
		Strategy:    string(input.Strategy),
		Status:      string(domainshift.StatusFinished),
		TimeEntries: 2,
	}, nil
}

func newTestModel(service *stubService) *shiftModel {
	return NewShiftModel(context.Background(), service, Options{}).(*shiftModel)
}

func TestEventsLoadedClampsSelection(t *testing.T) {
	model := newTestModel(&stubService{})
	model.selectedIndex = 5

	next, cmd := model.Update(eventsLoadedMsg{items: []shift.EventDetail{
		{EventID: 1, Name: "A", Status: "open"},
		{EventID: 2, Name: "B", Status: "checked"},
	}})
	got := next.(*shiftModel)
	if got.selectedIndex != 1 {
		t.Fatalf("selectedIndex = %d, want 1", got.selectedIndex)
	}
	if cmd == nil {
		t.Fatalf("expected detail load command")
	}
}

func TestEventDetailLoadedIgnoresStaleSelection(t *testing.T) {
	model := newTestModel(&stubService{})
	model.events = []shift.EventDetail{{EventID: 1}, {EventID: 2}}
	model.selectedIndex = 1

	next, _ := model.Update(eventDetailLoadedMsg{eventID: 1, detail: shift.EventDetail{EventID: 1, Name: "stale"}})
	if next.(*shiftModel).hasDetail {
		t.Fatalf("stale detail must be ignored")
	}

	next, _ = model.Update(eventDetailLoadedMsg{eventID: 2, detail: shift.EventDetail{EventID: 2, Name: "fresh"}})
	if got := next.(*shiftModel); !got.hasDetail || got.detail.Name != "fresh" {
		t.Fatalf("detail = %+v, want fresh", got.detail)
	}
}

func TestLoadSelectedDetailCmdFetchesEntries(t *testing.T) {
	service := &stubService{
		events: []shift.EventDetail{{EventID: 7, Name: "Gig", Status: "checked"}},
		entries: map[uint64][]shift.TimeEntryItem{
			7: {{PersonName: "Anna", Role: "Bar", Hours: 6, Wage: 18, Amount: 108}},
		},
	}
	model := newTestModel(service)
	model.events = service.events

	msg := model.loadSelectedDetailCmd()().(eventDetailLoadedMsg)
	if msg.err != nil {
		t.Fatalf("load detail: %v", msg.err)
	}
	model.Update(msg)

	view := model.View()
	if !strings.Contains(view, "Anna Bar 6.00h x 18.00 = 108.00") {
		t.Fatalf("view missing entry line:\n%s", view)
	}
	if !strings.Contains(view, "Total: 108.00") {
		t.Fatalf("view missing total:\n%s", view)
	}
}

func TestAdvanceCmdRequestsNextStatus(t *testing.T) {
	service := &stubService{events: []shift.EventDetail{{EventID: 3, Status: "closed"}}}
	model := newTestModel(service)
	model.events = service.events

	msg := model.advanceCmd()().(actionDoneMsg)
	if msg.err != nil {
		t.Fatalf("advance: %v", msg.err)
	}
	if len(service.advanced) != 1 || service.advanced[0].Target != "checked" {
		t.Fatalf("advanced = %+v, want target checked", service.advanced)
	}
}

func TestAdvanceCmdStopsAtLastStatus(t *testing.T) {
	service := &stubService{events: []shift.EventDetail{{EventID: 3, Status: "archived"}}}
	model := newTestModel(service)
	model.events = service.events

	msg := model.advanceCmd()().(actionDoneMsg)
	if !errors.Is(msg.err, domainshift.ErrWrongStatus) {
		t.Fatalf("err = %v, want ErrWrongStatus", msg.err)
	}
	if len(service.advanced) != 0 {
		t.Fatalf("service must not be called")
	}
}

func TestFinishKeyClosesSelectedEvent(t *testing.T) {
	service := &stubService{events: []shift.EventDetail{{EventID: 9, Status: "checked"}}}
	model := newTestModel(service)
	model.events = service.events

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if cmd == nil {
		t.Fatalf("expected action command")
	}
	msg := cmd().(actionDoneMsg)
	if len(service.closed) != 1 || service.closed[0].Strategy != domainshift.StrategyFinish {
		t.Fatalf("closed = %+v, want one finish", service.closed)
	}
	if msg.result != "status=finished entries=2" {
		t.Fatalf("result = %q", msg.result)
	}

	model.Update(msg)
	if len(model.auditLogs) != 1 || !strings.Contains(model.auditLogs[0], "action=finish") {
		t.Fatalf("auditLogs = %v", model.auditLogs)
	}
}

func TestActionFailureIsReported(t *testing.T) {
	service := &stubService{
		events:   []shift.EventDetail{{EventID: 9, Status: "open"}},
		closeErr: domainshift.ErrWrongStatus,
	}
	model := newTestModel(service)
	model.events = service.events

	msg := model.closeCmd(domainshift.StrategyFinish)().(actionDoneMsg)
	model.Update(msg)
	if !strings.HasPrefix(model.status, "finish failed") {
		t.Fatalf("status = %q", model.status)
	}
	if !strings.Contains(model.auditLogs[0], "result=error:") {
		t.Fatalf("audit = %q", model.auditLogs[0])
	}
}

func TestActionWithoutSelection(t *testing.T) {
	model := newTestModel(&stubService{})
	if cmd := model.closeCmd(domainshift.StrategyExport); cmd != nil {
		t.Fatalf("expected nil command without events")
	}
	if model.status != "no event selected" {
		t.Fatalf("status = %q", model.status)
	}
}

func TestSummarizeClose(t *testing.T) {
	got := summarizeClose(shift.CloseResult{
		Strategy:  "export",
		Status:    "checked",
		Artifacts: []shift.Artifact{{}, {}},
		Skipped:   []shift.SkippedGroup{{}},
	})
	if got != "status=checked artifacts=2 skipped=1" {
		t.Fatalf("summarizeClose() = %q", got)
	}
}

func TestQuitKeys(t *testing.T) {
	model := newTestModel(&stubService{})
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
