package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shiftclose/internal/bootstrap/logging"
	domainshift "shiftclose/internal/domain/shift"
	"shiftclose/internal/usecase/shift"
)

const maxShownEntries = 6
const maxAuditLines = 8

// ShiftService is the slice of the shift use cases the console drives.
type ShiftService interface {
	ListEvents(ctx context.Context, input shift.ListEventsInput) ([]shift.EventDetail, error)
	GetEvent(ctx context.Context, eventID uint64) (shift.EventDetail, error)
	ListTimeEntries(ctx context.Context, eventID uint64) ([]shift.TimeEntryItem, error)
	AdvanceStatus(ctx context.Context, input shift.AdvanceStatusInput) (shift.EventDetail, error)
	Close(ctx context.Context, input shift.CloseInput) (shift.CloseResult, error)
}

type Options struct {
	IncludeFinished bool
	RefreshInterval time.Duration
}

type shiftModel struct {
	ctx             context.Context
	service         ShiftService
	includeFinished bool
	refreshInterval time.Duration

	events        []shift.EventDetail
	selectedIndex int
	detail        shift.EventDetail
	entries       []shift.TimeEntryItem
	hasDetail     bool
	status        string
	auditLogs     []string
}

type eventsLoadedMsg struct {
	items []shift.EventDetail
	err   error
}

type eventDetailLoadedMsg struct {
	eventID uint64
	detail  shift.EventDetail
	entries []shift.TimeEntryItem
	err     error
}

type tickMsg struct{}

type actionDoneMsg struct {
	action  string
	eventID uint64
	result  string
	err     error
}

func NewShiftModel(ctx context.Context, service ShiftService, options Options) tea.Model {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &shiftModel{
		ctx:             ctx,
		service:         service,
		includeFinished: options.IncludeFinished,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *shiftModel) Init() tea.Cmd {
	return tea.Batch(m.loadEventsCmd(), m.tickCmd())
}

func (m *shiftModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadEventsCmd(), m.tickCmd())
	case eventsLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.events = msg.items
		if len(m.events) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.entries = nil
			m.status = "no events"
			return m, nil
		}
		if m.selectedIndex < 0 {
			m.selectedIndex = 0
		}
		if m.selectedIndex >= len(m.events) {
			m.selectedIndex = len(m.events) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d events", len(m.events))
		return m, m.loadSelectedDetailCmd()
	case eventDetailLoadedMsg:
		if !m.isCurrentSelection(msg.eventID) {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.entries = nil
			m.status = "detail failed: " + msg.err.Error()
			return m, nil
		}
		m.hasDetail = true
		m.detail = msg.detail
		m.entries = msg.entries
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			m.appendAuditLog(msg.action, msg.eventID, "", msg.err)
		} else {
			m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
			m.appendAuditLog(msg.action, msg.eventID, msg.result, nil)
		}
		return m, m.loadEventsCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadEventsCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.events)-1 {
				m.selectedIndex++
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "a":
			return m, m.advanceCmd()
		case "e":
			return m, m.closeCmd(domainshift.StrategyExport)
		case "f":
			return m, m.closeCmd(domainshift.StrategyFinish)
		case "x":
			return m, m.closeCmd(domainshift.StrategyLegacyClose)
		}
	}
	return m, nil
}

func (m *shiftModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Shift Console"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf("finished=%t refresh=%s", m.includeFinished, m.refreshInterval)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Events"))
	builder.WriteString("\n")
	if len(m.events) == 0 {
		builder.WriteString(dimStyle.Render("- no events"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range m.events {
			line := fmt.Sprintf("#%d %s [%s] %s", item.EventID, item.Date, item.Status, item.Name)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + line)
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if !m.hasDetail {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		builder.WriteString(fmt.Sprintf("Event: #%d %s\n", m.detail.EventID, m.detail.Name))
		builder.WriteString(fmt.Sprintf("Date: %s doors=%s\n", m.detail.Date, firstNonEmpty(m.detail.DoorsTime, "-")))
		builder.WriteString(fmt.Sprintf("Status: %s phase=%s\n", m.detail.Status, firstNonEmpty(m.detail.Phase, "-")))
		builder.WriteString(fmt.Sprintf("Finished: %s\n", firstNonEmpty(m.detail.FinishedAt, "-")))
		builder.WriteString("\nTime Entries:\n")
		if len(m.entries) == 0 {
			builder.WriteString("- none\n")
		} else {
			var total float64
			for _, entry := range m.entries {
				total += entry.Amount
			}
			shown := m.entries
			if len(shown) > maxShownEntries {
				shown = shown[:maxShownEntries]
			}
			for _, entry := range shown {
				builder.WriteString(fmt.Sprintf("- %s %s %.2fh x %.2f = %.2f\n", entry.PersonName, entry.Role, entry.Hours, entry.Wage, entry.Amount))
			}
			if hidden := len(m.entries) - len(shown); hidden > 0 {
				builder.WriteString(fmt.Sprintf("- ... %d more\n", hidden))
			}
			builder.WriteString(fmt.Sprintf("Total: %.2f\n", total))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("Actions"))
	builder.WriteString("\n")
	builder.WriteString("- a advance status\n")
	builder.WriteString("- e export section PDFs\n")
	builder.WriteString("- f finish (book payroll)\n")
	builder.WriteString("- x export and finish\n")
	builder.WriteString("\n")

	builder.WriteString(sectionStyle.Render("Audit Log"))
	builder.WriteString("\n")
	if len(m.auditLogs) == 0 {
		builder.WriteString(dimStyle.Render("- no actions"))
		builder.WriteString("\n\n")
	} else {
		for _, line := range m.auditLogs {
			builder.WriteString("- " + line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Keys: up/k down/j move  g refresh  a/e/f/x actions  q quit"))
	return builder.String()
}

func (m *shiftModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *shiftModel) loadEventsCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.service.ListEvents(m.ctx, shift.ListEventsInput{IncludeFinished: m.includeFinished})
		if err != nil {
			return eventsLoadedMsg{err: err}
		}
		return eventsLoadedMsg{items: items}
	}
}

func (m *shiftModel) loadSelectedDetailCmd() tea.Cmd {
	selected, ok := m.selectedEvent()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		detail, err := m.service.GetEvent(m.ctx, selected.EventID)
		if err != nil {
			return eventDetailLoadedMsg{eventID: selected.EventID, err: err}
		}
		entries, err := m.service.ListTimeEntries(m.ctx, selected.EventID)
		if err != nil {
			return eventDetailLoadedMsg{eventID: selected.EventID, err: err}
		}
		return eventDetailLoadedMsg{eventID: selected.EventID, detail: detail, entries: entries}
	}
}

func (m *shiftModel) advanceCmd() tea.Cmd {
	selected, ok := m.selectedEvent()
	if !ok {
		m.status = "no event selected"
		return nil
	}

	return func() tea.Msg {
		current, err := domainshift.ParseStatus(selected.Status)
		if err != nil {
			return actionDoneMsg{action: "advance", eventID: selected.EventID, err: err}
		}
		next, ok := current.Next()
		if !ok {
			return actionDoneMsg{
				action:  "advance",
				eventID: selected.EventID,
				err:     fmt.Errorf("%w: %s is the last status", domainshift.ErrWrongStatus, current),
			}
		}
		detail, err := m.service.AdvanceStatus(m.ctx, shift.AdvanceStatusInput{EventID: selected.EventID, Target: next.String()})
		if err != nil {
			return actionDoneMsg{action: "advance", eventID: selected.EventID, err: err}
		}
		return actionDoneMsg{action: "advance", eventID: selected.EventID, result: "status=" + detail.Status}
	}
}

func (m *shiftModel) closeCmd(strategy domainshift.CloseStrategy) tea.Cmd {
	selected, ok := m.selectedEvent()
	if !ok {
		m.status = "no event selected"
		return nil
	}

	action := string(strategy)
	return func() tea.Msg {
		result, err := m.service.Close(m.ctx, shift.CloseInput{EventID: selected.EventID, Strategy: strategy})
		if err != nil {
			return actionDoneMsg{action: action, eventID: selected.EventID, err: err}
		}
		return actionDoneMsg{action: action, eventID: selected.EventID, result: summarizeClose(result)}
	}
}

func (m *shiftModel) selectedEvent() (shift.EventDetail, bool) {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.events) {
		return shift.EventDetail{}, false
	}
	return m.events[m.selectedIndex], true
}

func (m *shiftModel) isCurrentSelection(eventID uint64) bool {
	selected, ok := m.selectedEvent()
	return ok && selected.EventID == eventID
}

func (m *shiftModel) appendAuditLog(action string, eventID uint64, result string, opErr error) {
	outcome := strings.TrimSpace(result)
	if opErr != nil {
		outcome = "error: " + opErr.Error()
	}
	if outcome == "" {
		outcome = "ok"
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("%s event=%d action=%s result=%s", timestamp, eventID, action, outcome)
	m.auditLogs = append([]string{line}, m.auditLogs...)
	if len(m.auditLogs) > maxAuditLines {
		m.auditLogs = m.auditLogs[:maxAuditLines]
	}

	logging.Info(m.ctx, "shift console action",
		slog.Uint64("event_id", eventID),
		slog.String("action", action),
		slog.String("result", outcome),
	)
}

func summarizeClose(result shift.CloseResult) string {
	parts := []string{"status=" + result.Status}
	if result.Strategy != string(domainshift.StrategyFinish) {
		parts = append(parts, fmt.Sprintf("artifacts=%d skipped=%d", len(result.Artifacts), len(result.Skipped)))
	}
	if result.Strategy != string(domainshift.StrategyExport) {
		parts = append(parts, fmt.Sprintf("entries=%d", result.TimeEntries))
	}
	return strings.Join(parts, " ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
