package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/depsync/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(report domain.SessionReport, s styles) string {
	lines := []string{
		s.title.Render("Dependency plan"),
		s.header.Render(fmt.Sprintf("source: %s  envs: %s", report.Source, strings.Join(report.Environments, ", "))),
	}

	if report.Conflict != "" {
		lines = append(lines,
			s.section.Render(s.warning.Render("conflict was found")),
			s.conflict.Render(report.Conflict),
		)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if report.Plan.Empty() {
		lines = append(lines, s.section.Render(s.empty.Render("Environment is up to date.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	updated := make(map[string]struct{}, len(report.Plan.ToRemove))
	for _, record := range report.Plan.Updates() {
		updated[record.Key()] = struct{}{}
	}

	if len(report.Plan.ToRemove) > 0 {
		lines = append(lines, s.section.Render(s.heading.Render(fmt.Sprintf("remove (%d)", len(report.Plan.ToRemove)))))
		for _, record := range report.Plan.ToRemove {
			lines = append(lines, s.remove.Render("- "+record.Name))
		}
	}

	lines = append(lines, s.section.Render(s.heading.Render(fmt.Sprintf("install (%d)", len(report.Plan.ToInstall)))))
	for _, record := range report.Plan.ToInstall {
		if _, ok := updated[record.Key()]; ok {
			lines = append(lines, s.update.Render("~ "+record.String()))
			continue
		}
		lines = append(lines, s.install.Render("+ "+record.String()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHistory(summaries []domain.SessionSummary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Install sessions"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(summaries))),
	}

	if len(summaries) == 0 {
		lines = append(lines, s.empty.Render("No sessions recorded."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, summary := range summaries {
		lines = append(lines, s.section.Render(renderSummary(summary, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSummary(summary domain.SessionSummary, opts RenderOptions, s styles) string {
	outcome := s.success.Render(string(summary.Outcome))
	if summary.Outcome != domain.OutcomeSuccess {
		outcome = s.warning.Render(string(summary.Outcome))
	}

	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, s.heading.Render(summary.ID), " ", outcome),
		s.detail.Render(fmt.Sprintf("source: %s  envs: %s", summary.Source, strings.Join(summary.Environments, ", "))),
		s.detail.Render(fmt.Sprintf("install: %d  remove: %d  took: %s  %s",
			summary.ToInstall, summary.ToRemove, summary.Duration().Round(time.Millisecond), formatAgo(summary.StartedAt, opts.Now))),
	}
	if summary.Error != "" {
		parts = append(parts, s.warning.Render(fmt.Sprintf("failed in %s: %s", summary.FailedIn, summary.Error)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func formatAgo(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	if now.IsZero() || now.Before(at) {
		return at.Format(time.RFC3339)
	}

	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
