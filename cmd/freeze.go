package cmd

import (
	"fmt"

	"github.com/bnema/depsync/internal/adapters/converter/lockfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newFreezeCmd(app *app, cfg *viper.Viper) *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "freeze",
		Short: "Write the packages installed in the target environment to a lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, cfg)
			if err != nil {
				return err
			}

			writer, err := app.lockfileWriter(format, rt.logger)
			if err != nil {
				return err
			}

			env, err := app.locator(rt.logger).Locate(cmd.Context(), environmentConfig(rt.config))
			if err != nil {
				return fmt.Errorf("locate environment: %w", err)
			}

			deps, err := app.installed(rt.logger).Load(cmd.Context(), env.LibPath)
			if err != nil {
				return fmt.Errorf("load installed packages: %w", err)
			}

			if err := writer.Dump(cmd.Context(), output, deps); err != nil {
				return fmt.Errorf("write lockfile: %w", err)
			}

			rt.logger.Info().Str("path", output).Int("packages", len(deps)).Msg("lockfile written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "depsync.lock", "Lockfile path to write")
	cmd.Flags().StringVar(&format, "format", lockfile.FormatTOML, "Lockfile format (lockfile, lockfile-yaml)")

	return cmd
}
