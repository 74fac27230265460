package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/depsync/internal/application"
	"github.com/bnema/depsync/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type planOutput struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	Environments []string        `json:"environments"`
	Outcome      domain.Outcome  `json:"outcome"`
	Conflict     string          `json:"conflict,omitempty"`
	ToRemove     []packageOutput `json:"to_remove"`
	ToInstall    []packageOutput `json:"to_install"`
}

type packageOutput struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Environments []string `json:"environments"`
}

func newPlanCmd(app *app, cfg *viper.Viper) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what install would remove and install, without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, app, cfg, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runPlan(cmd *cobra.Command, app *app, cfg *viper.Viper, asJSON bool) error {
	rt, err := loadRuntime(cmd, cfg)
	if err != nil {
		return err
	}
	if err := rt.config.Validate(); err != nil {
		return err
	}

	logger := rt.logger
	if !asJSON && logger.GetLevel() < zerolog.WarnLevel {
		logger = logger.Level(zerolog.WarnLevel)
	}

	session := app.newSession(io.Discard, io.Discard, logger, nil)
	sc := application.SessionContext{
		Logger:  logger,
		Request: sessionRequest(rt.config, true),
	}

	var report domain.SessionReport
	if asJSON {
		report, err = session.Run(cmd.Context(), sc)
	} else {
		report, err = runPlanWithProgress(cmd.Context(), cmd.ErrOrStderr(), session, sc)
	}
	if err != nil && report.Conflict == "" {
		return err
	}

	if writeErr := writePlanOutput(cmd, app, report, asJSON); writeErr != nil {
		return writeErr
	}
	return err
}

func writePlanOutput(cmd *cobra.Command, app *app, report domain.SessionReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toPlanOutput(report))
	}

	rendered, err := app.planRenderer(report)
	if err != nil {
		return fmt.Errorf("render plan: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func toPlanOutput(report domain.SessionReport) planOutput {
	return planOutput{
		ID:           report.ID,
		Source:       report.Source,
		Environments: report.Environments,
		Outcome:      report.Outcome,
		Conflict:     report.Conflict,
		ToRemove:     toPackageOutputs(report.Plan.ToRemove),
		ToInstall:    toPackageOutputs(report.Plan.ToInstall),
	}
}

func toPackageOutputs(records []domain.PackageRecord) []packageOutput {
	out := make([]packageOutput, 0, len(records))
	for _, record := range records {
		out = append(out, packageOutput{
			Name:         record.Name,
			Version:      record.NormalizedVersion(),
			Environments: record.Environments,
		})
	}
	return out
}

type planFinishedMsg struct {
	report domain.SessionReport
	err    error
}

// planProgress animates while a dry-run session resolves and keeps its
// report once the session returns.
type planProgress struct {
	spinner spinner.Model
	label   lipgloss.Style
	source  string
	envs    string
	session tea.Cmd
	result  planFinishedMsg
	done    bool
}

func newPlanProgress(request application.Request, session tea.Cmd) planProgress {
	return planProgress{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("39"))),
		),
		label:   lipgloss.NewStyle().Faint(true),
		source:  request.Source.String(),
		envs:    strings.Join(request.Environments, ", "),
		session: session,
	}
}

func (m planProgress) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.session)
}

func (m planProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case planFinishedMsg:
		m.result = msg
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m planProgress) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " planning " + m.source + m.label.Render(" ["+m.envs+"]")
}

func runPlanWithProgress(ctx context.Context, output io.Writer, session *application.InstallSession, sc application.SessionContext) (domain.SessionReport, error) {
	run := func() tea.Msg {
		report, err := session.Run(ctx, sc)
		return planFinishedMsg{report: report, err: err}
	}

	finalModel, err := tea.NewProgram(
		newPlanProgress(sc.Request, run),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return domain.SessionReport{}, fmt.Errorf("plan progress: %w", err)
	}

	progress, ok := finalModel.(planProgress)
	if !ok {
		return domain.SessionReport{}, fmt.Errorf("unexpected final progress model type %T", finalModel)
	}
	return progress.result.report, progress.result.err
}
