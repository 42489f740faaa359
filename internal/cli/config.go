package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/moodlog/internal/events"
	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/internal/paths"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "MOODLOG"
	envFileName    = ".env"

	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyLogLevel     = "log.level"
	cfgKeyLogFormat    = "log.format"
	cfgKeyAMQPURL      = "amqp.url"
	cfgKeyAMQPExchange = "amqp.exchange"
	cfgKeyServeAddr    = "serve.addr"

	defaultBackend   = types.BackendJSON
	defaultServeAddr = ":8000"
)

// settings is the resolved configuration for one command run.
type settings struct {
	ConfigDir    string
	Store        types.Config
	LogLevel     string
	LogFormat    string
	AMQPURL      string
	AMQPExchange string
	ServeAddr    string
}

// loadSettings resolves directories, loads .env files and reads config.yaml.
// Precedence for every key: flag > MOODLOG_* env > config.yaml > default.
// A missing config.yaml is not an error.
func loadSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}

	if err := loadEnvFiles(envFileName, filepath.Join(configDir, envFileName)); err != nil {
		return settings{}, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, log.FormatText)
	v.SetDefault(cfgKeyAMQPExchange, events.DefaultExchange)
	v.SetDefault(cfgKeyServeAddr, defaultServeAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	s := settings{
		ConfigDir:    configDir,
		LogLevel:     v.GetString(cfgKeyLogLevel),
		LogFormat:    v.GetString(cfgKeyLogFormat),
		AMQPURL:      v.GetString(cfgKeyAMQPURL),
		AMQPExchange: v.GetString(cfgKeyAMQPExchange),
		ServeAddr:    v.GetString(cfgKeyServeAddr),
	}
	s.Store.Backend = v.GetString(cfgKeyBackend)
	if flags.backend != "" {
		s.Store.Backend = flags.backend
	}
	if flags.logLevel != "" {
		s.LogLevel = flags.logLevel
	}

	if s.Store.Backend != types.BackendMemory {
		dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
		if err != nil {
			return settings{}, fmt.Errorf("resolve data dir: %w", err)
		}
		s.Store.DataDir = dataDir
	}

	return s, nil
}

// loadEnvFiles loads each file that exists. Variables already set in the
// environment keep their values.
func loadEnvFiles(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// newLogger builds the CLI logger. Logs go to w so command output on
// stdout stays machine-readable.
func (s settings) newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, usageError{err}
	}
	return log.New(log.Config{
		Level:     level,
		Format:    s.LogFormat,
		Component: log.ComponentCLI,
		Output:    w,
	}), nil
}
