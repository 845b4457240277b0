package orchestrators

import (
	"context"
	"strings"
	"testing"
	"time"

	"attendseed/internal/adapters/email"
)

type captureSender struct {
	req email.SendRequest
}

func (s *captureSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	s.req = req
	return email.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

func testSummary() Summary {
	return Summary{
		RunID:          "run-abc",
		Driver:         "mongo",
		Branches:       1,
		Shifts:         3,
		Users:          20,
		AttendanceDocs: 240,
		Days:           7,
		Model:          "simple",
		Duration:       1234 * time.Millisecond,
	}
}

// TestSummaryMarkdown verifies the report carries every run figure.
func TestSummaryMarkdown(t *testing.T) {
	md := testSummary().Markdown()
	for _, want := range []string{
		"# Seed run run-abc",
		"Store driver: mongo",
		"Branches: 1",
		"Shifts: 3",
		"Users created/normalized: 20",
		"240 over 7 day(s) (simple model)",
		"Duration: 1.234s",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

// TestSendReport verifies rendering and delivery through the sender.
func TestSendReport(t *testing.T) {
	sender := &captureSender{}
	s := testSummary()

	err := ExecuteSendReport(context.Background(), ReportDeps{Sender: sender},
		"ops@example.com", "Attendance Seeder <noreply@example.com>", s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.req.To) != 1 || sender.req.To[0] != "ops@example.com" {
		t.Errorf("recipient wrong: %v", sender.req.To)
	}
	if !strings.Contains(sender.req.Subject, "run-abc") || !strings.Contains(sender.req.Subject, "20 users") {
		t.Errorf("subject wrong: %q", sender.req.Subject)
	}
	if !strings.Contains(sender.req.HTML, "<h1>") || !strings.Contains(sender.req.HTML, "run-abc") {
		t.Errorf("body not rendered to HTML: %q", sender.req.HTML)
	}
}

// TestSendReport_EscapesRawHTML verifies the renderer does not pass raw HTML
// through from summary fields.
func TestSendReport_EscapesRawHTML(t *testing.T) {
	sender := &captureSender{}
	s := testSummary()
	s.RunID = `<script>alert(1)</script>`

	if err := ExecuteSendReport(context.Background(), ReportDeps{Sender: sender},
		"ops@example.com", "noreply@example.com", s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(sender.req.HTML, "<script>") {
		t.Errorf("raw HTML passed through: %q", sender.req.HTML)
	}
}
