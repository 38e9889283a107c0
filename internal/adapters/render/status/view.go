package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mediloop/chatline/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

// Report bundles everything the status view shows for one account.
type Report struct {
	Session  domain.Session
	Record   domain.SessionRecord
	Attempts int
}

func renderView(report Report, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Chatline Session Status"),
		s.header.Render(fmt.Sprintf("account: %s", accountLabel(report))),
		stateLine(report, s),
	}

	for _, line := range detailLines(report, opts, s) {
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func accountLabel(report Report) string {
	if report.Record.Label != "" {
		return fmt.Sprintf("%s (%s)", report.Record.Label, report.Session.AccountID)
	}

	return report.Session.AccountID
}

func stateLine(report Report, s styles) string {
	badge := stateStyle(report.Session.State, s).Render(string(report.Session.State))
	return lipgloss.JoinHorizontal(lipgloss.Top, s.header.Render("state: "), badge)
}

func stateStyle(state domain.ConnState, s styles) lipgloss.Style {
	switch state {
	case domain.StateReady:
		return s.stateReady
	case domain.StateConnecting, domain.StatePairing, domain.StateReconnecting:
		return s.stateWait
	case domain.StateFailed:
		return s.stateDead
	default:
		return s.stateDown
	}
}

func detailLines(report Report, opts RenderOptions, s styles) []string {
	lines := make([]string, 0, 4)

	switch report.Session.State {
	case domain.StateReady:
		lines = append(lines, s.detail.Render(readyLine(report.Session.ReadySince, opts.Now)))
	case domain.StatePairing:
		if report.Session.LastPairingCode != "" {
			lines = append(lines, s.pairing.Render(fmt.Sprintf("pairing code: %s", report.Session.LastPairingCode)))
		}
	case domain.StateReconnecting:
		lines = append(lines, s.warning.Render(fmt.Sprintf("reconnect attempts: %d", report.Attempts)))
	case domain.StateFailed:
		lines = append(lines, s.warning.Render("session failed, run 'chatline reset' then 'chatline link'"))
	}

	lines = append(lines, historyLines(report.Record, opts, s)...)

	if len(lines) == 0 {
		return []string{s.empty.Render("no session activity recorded")}
	}

	return lines
}

func readyLine(readySince, now time.Time) string {
	if readySince.IsZero() {
		return "ready"
	}

	if now.IsZero() {
		now = time.Now()
	}

	return fmt.Sprintf("ready for %s", formatDuration(now.Sub(readySince)))
}

func historyLines(record domain.SessionRecord, opts RenderOptions, s styles) []string {
	lines := make([]string, 0, 2)
	if !record.LastPairedAt.IsZero() {
		lines = append(lines, s.detail.Render(fmt.Sprintf("last paired: %s", formatRelative(record.LastPairedAt, opts.Now))))
	}

	if !record.LastReadyAt.IsZero() {
		lines = append(lines, s.detail.Render(fmt.Sprintf("last ready: %s", formatRelative(record.LastReadyAt, opts.Now))))
	}

	return lines
}

func formatRelative(at, now time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}

	elapsed := now.Sub(at)
	if elapsed < 0 {
		return at.Format(time.RFC3339)
	}

	return fmt.Sprintf("%s ago", formatDuration(elapsed))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd%dh", int(d.Hours())/24, int(d.Hours())%24)
	}
}
