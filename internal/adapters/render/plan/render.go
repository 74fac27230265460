// Package plan renders session plans and journal history for terminals.
package plan

import "github.com/bnema/depsync/internal/domain"

func Render(report domain.SessionReport) (string, error) {
	return run(func(s styles) string {
		return renderView(report, s)
	})
}

func RenderHistory(summaries []domain.SessionSummary, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderHistory(summaries, opts, s)
	})
}
