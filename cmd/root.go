package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/bnema/depsync/internal/application"
	"github.com/bnema/depsync/internal/config"
	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/observability"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errJournalDisabled = errors.New("session journal is disabled: set journal.path or pass --journal")

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(wireApp())
}

func newRootCmdWith(app *app) *cobra.Command {
	cfg := viper.New()
	config.Setup(cfg)

	rootCmd := &cobra.Command{
		Use:           "depsync",
		Short:         "depsync: converge a Python environment onto a lockfile",
		Long:          "depsync reads a dependency file, resolves it, and removes or installs packages until the target environment matches the pinned versions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	var configFile string
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: ./depsync.toml or ~/.config/depsync/depsync.toml)")
	flags.String("from-format", "", "Dependency file format (lockfile, lockfile-yaml, pipfilelock, installed)")
	flags.String("from", "", "Dependency file path")
	flags.String("to-format", "", "Format of the \"to\" dependency file; takes precedence over --from-format")
	flags.String("to", "", "Path of the \"to\" dependency file; takes precedence over --from")
	flags.StringArray("and", nil, "Extra dependency source as format:path, merged before resolving (repeatable)")
	flags.StringSlice("env", nil, "Environments to install (repeatable, default main)")
	flags.Bool("silent", false, "Suppress resolver output")
	flags.String("python", "", "Python interpreter of the target environment")
	flags.String("venv", "", "Virtualenv directory of the target environment")
	flags.String("journal", "", "Session journal database path (empty disables the journal)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("log-json", false, "Write logs as JSON")

	bindings := map[string]string{
		config.KeyFromFormat:  "from-format",
		config.KeyFromPath:    "from",
		config.KeyToFormat:    "to-format",
		config.KeyToPath:      "to",
		config.KeyEnvs:        "env",
		config.KeySilent:      "silent",
		config.KeyPython:      "python",
		config.KeyVenv:        "venv",
		config.KeyJournalPath: "journal",
		config.KeyLogLevel:    "log-level",
		config.KeyLogJSON:     "log-json",
	}
	for key, name := range bindings {
		if err := cfg.BindPFlag(key, flags.Lookup(name)); err != nil {
			rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
			return rootCmd
		}
	}

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if configFile != "" {
			cfg.SetConfigFile(configFile)
		}
		return nil
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newInstallCmd(app, cfg),
		newPlanCmd(app, cfg),
		newHistoryCmd(app, cfg),
		newFreezeCmd(app, cfg),
	)

	return rootCmd
}

type commandRuntime struct {
	config config.Config
	logger zerolog.Logger
}

func loadRuntime(cmd *cobra.Command, cfg *viper.Viper) (commandRuntime, error) {
	conf, err := config.Load(cfg)
	if err != nil {
		return commandRuntime{}, err
	}

	extra, err := cmd.Flags().GetStringArray("and")
	if err != nil {
		return commandRuntime{}, err
	}
	for _, raw := range extra {
		source, err := config.ParseSource(raw)
		if err != nil {
			return commandRuntime{}, err
		}
		conf.And = append(conf.And, source)
	}

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), conf.LogLevel, conf.LogJSON)
	if err != nil {
		return commandRuntime{}, err
	}

	return commandRuntime{config: conf, logger: logger}, nil
}

func sessionRequest(conf config.Config, dryRun bool) application.Request {
	source := conf.Source()
	attach := make([]application.Source, 0, len(conf.And))
	for _, extra := range conf.And {
		attach = append(attach, application.Source{Format: extra.Format, Path: extra.Path})
	}

	return application.Request{
		Source:       application.Source{Format: source.Format, Path: source.Path},
		Attach:       attach,
		Environments: conf.Envs,
		Silent:       conf.Silent,
		Environment:  environmentConfig(conf),
		DryRun:       dryRun,
	}
}

func environmentConfig(conf config.Config) domain.EnvironmentConfig {
	return domain.EnvironmentConfig{Python: conf.Python, Venv: conf.Venv}
}

// journalFor returns a nil journal when path is empty.
func (a *app) journalFor(cmd *cobra.Command, path string) (sessionJournal, error) {
	if path == "" {
		return nil, nil
	}

	journal, err := a.openJournal(cmd.Context(), path)
	if err != nil {
		return nil, fmt.Errorf("open session journal: %w", err)
	}
	return journal, nil
}
