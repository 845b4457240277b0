package orchestrators

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"attendseed/internal/adapters/email"
)

// mdRenderer renders the report markdown to HTML. Raw HTML in the input is
// escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// ReportDeps holds the sender used for report delivery.
type ReportDeps struct {
	Sender email.Sender
}

// Summary describes one completed seeding run.
type Summary struct {
	RunID          string
	Driver         string
	Branches       int
	Shifts         int
	Users          int
	AttendanceDocs int
	Days           int
	Model          string
	Duration       time.Duration
}

// Markdown renders the summary as a markdown report.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Seed run %s\n\n", s.RunID)
	fmt.Fprintf(&b, "- Store driver: %s\n", s.Driver)
	fmt.Fprintf(&b, "- Branches: %d\n", s.Branches)
	fmt.Fprintf(&b, "- Shifts: %d\n", s.Shifts)
	fmt.Fprintf(&b, "- Users created/normalized: %d\n", s.Users)
	fmt.Fprintf(&b, "- Attendance documents: %d over %d day(s) (%s model)\n", s.AttendanceDocs, s.Days, s.Model)
	fmt.Fprintf(&b, "- Duration: %s\n", s.Duration.Round(time.Millisecond))
	return b.String()
}

// ExecuteSendReport renders the run summary to HTML and emails it.
// PRE: to is a valid recipient address
// POST: Report email is queued with the configured sender
func ExecuteSendReport(ctx context.Context, deps ReportDeps, to, from string, s Summary) error {
	var html bytes.Buffer
	if err := mdRenderer.Convert([]byte(s.Markdown()), &html); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{to},
		From:    from,
		Subject: fmt.Sprintf("Attendance seed run %s: %d users, %d attendance docs", s.RunID, s.Users, s.AttendanceDocs),
		HTML:    html.String(),
	})
	if err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}
