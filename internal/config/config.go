package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName = "depsync"
	configType = "toml"
	envPrefix  = "DEPSYNC"

	KeyFromFormat  = "from.format"
	KeyFromPath    = "from.path"
	KeyToFormat    = "to.format"
	KeyToPath      = "to.path"
	KeyAnd         = "and"
	KeyEnvs        = "envs"
	KeySilent      = "silent"
	KeyPython      = "python"
	KeyVenv        = "venv"
	KeyJournalPath = "journal.path"
	KeyLogLevel    = "log.level"
	KeyLogJSON     = "log.json"

	defaultFromFormat = "lockfile"
	defaultFromPath   = "depsync.lock"
	defaultLogLevel   = "info"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Source struct {
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// ParseSource reads a "format:path" pair. Only the first colon separates,
// so Windows paths keep their drive letter.
func ParseSource(raw string) (Source, error) {
	format, path, ok := strings.Cut(strings.TrimSpace(raw), ":")
	source := Source{Format: strings.TrimSpace(format), Path: strings.TrimSpace(path)}
	if !ok || source.Format == "" || source.Path == "" {
		return Source{}, fmt.Errorf("%w: dependency source %q must be format:path", ErrInvalidConfig, raw)
	}
	return source, nil
}

type Config struct {
	From        Source
	To          Source
	And         []Source
	Envs        []string
	Silent      bool
	Python      string
	Venv        string
	JournalPath string
	LogLevel    string
	LogJSON     bool
}

// Setup registers defaults, the config file search path and the environment
// prefix on cfg. Flags are bound by the caller.
func Setup(cfg *viper.Viper) {
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, ".config", configName))
	}

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyFromFormat, defaultFromFormat)
	cfg.SetDefault(KeyFromPath, defaultFromPath)
	cfg.SetDefault(KeyEnvs, []string{"main"})
	cfg.SetDefault(KeyLogLevel, defaultLogLevel)
}

// Load reads the config file, when there is one, and merges it under env
// vars and bound flags.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
		Setup(cfg)
	}

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var attached []Source
	if err := cfg.UnmarshalKey(KeyAnd, &attached); err != nil {
		return Config{}, fmt.Errorf("decode %s sources: %w", KeyAnd, err)
	}
	for i := range attached {
		attached[i].Format = strings.TrimSpace(attached[i].Format)
		attached[i].Path = strings.TrimSpace(attached[i].Path)
	}

	return Config{
		From: Source{
			Format: strings.TrimSpace(cfg.GetString(KeyFromFormat)),
			Path:   strings.TrimSpace(cfg.GetString(KeyFromPath)),
		},
		To: Source{
			Format: strings.TrimSpace(cfg.GetString(KeyToFormat)),
			Path:   strings.TrimSpace(cfg.GetString(KeyToPath)),
		},
		And:         attached,
		Envs:        normalizeEnvs(cfg.GetStringSlice(KeyEnvs)),
		Silent:      cfg.GetBool(KeySilent),
		Python:      strings.TrimSpace(cfg.GetString(KeyPython)),
		Venv:        strings.TrimSpace(cfg.GetString(KeyVenv)),
		JournalPath: strings.TrimSpace(cfg.GetString(KeyJournalPath)),
		LogLevel:    strings.TrimSpace(cfg.GetString(KeyLogLevel)),
		LogJSON:     cfg.GetBool(KeyLogJSON),
	}, nil
}

// Source picks the "to" side when it is configured, else "from".
func (c Config) Source() Source {
	if c.To.Path != "" {
		format := c.To.Format
		if format == "" {
			format = c.From.Format
		}
		return Source{Format: format, Path: c.To.Path}
	}
	return c.From
}

func (c Config) Validate() error {
	source := c.Source()
	if source.Format == "" {
		return fmt.Errorf("%w: dependency file format is required", ErrInvalidConfig)
	}
	if source.Path == "" {
		return fmt.Errorf("%w: dependency file path is required", ErrInvalidConfig)
	}
	for i, attached := range c.And {
		if attached.Format == "" || attached.Path == "" {
			return fmt.Errorf("%w: %s source #%d needs both format and path", ErrInvalidConfig, KeyAnd, i+1)
		}
	}
	if len(c.Envs) == 0 {
		return fmt.Errorf("%w: at least one environment is required", ErrInvalidConfig)
	}
	return nil
}

func normalizeEnvs(raw []string) []string {
	envs := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		for _, env := range strings.Split(value, ",") {
			env = strings.TrimSpace(env)
			if env == "" {
				continue
			}
			if _, ok := seen[env]; ok {
				continue
			}
			seen[env] = struct{}{}
			envs = append(envs, env)
		}
	}
	return envs
}
