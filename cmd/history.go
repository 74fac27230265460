package cmd

import (
	"encoding/json"
	"fmt"

	planrender "github.com/bnema/depsync/internal/adapters/render/plan"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultHistoryLimit = 20

func newHistoryCmd(app *app, cfg *viper.Viper) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded install sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, cfg)
			if err != nil {
				return err
			}

			journal, err := app.journalFor(cmd, rt.config.JournalPath)
			if err != nil {
				return err
			}
			if journal == nil {
				return errJournalDisabled
			}
			defer func() {
				_ = journal.Close()
			}()

			summaries, err := journal.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			rendered, err := app.historyRenderer(summaries, planrender.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render history: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", defaultHistoryLimit, "Maximum number of sessions to list (0 lists all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}
