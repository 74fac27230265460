package cmd

import (
	"fmt"

	"github.com/bnema/depsync/internal/application"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newInstallCmd(app *app, cfg *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install the pinned dependencies into the target environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, cfg)
			if err != nil {
				return err
			}
			if err := rt.config.Validate(); err != nil {
				return err
			}

			journal, err := app.journalFor(cmd, rt.config.JournalPath)
			if err != nil {
				return err
			}
			if journal != nil {
				defer func() {
					_ = journal.Close()
				}()
			}

			session := app.newSession(cmd.OutOrStdout(), cmd.ErrOrStderr(), rt.logger, journal)
			report, err := session.Run(cmd.Context(), application.SessionContext{
				Logger:  rt.logger,
				Request: sessionRequest(rt.config, false),
			})
			if report.Conflict != "" {
				if _, writeErr := fmt.Fprintln(cmd.OutOrStdout(), report.Conflict); writeErr != nil {
					return writeErr
				}
			}

			return err
		},
	}
}
