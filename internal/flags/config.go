package flags

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile  = "DEVSTRAP_CONFIG_FILE"
	EnvVarSecretsFile = "DEVSTRAP_SECRETS_FILE"
	EnvVarLogPath     = "DEVSTRAP_LOG_PATH"
	EnvVarLogLevel    = "DEVSTRAP_LOG_LEVEL"

	// Defaults
	DefaultConfigFile = ".devstrap.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"

	// Flag names
	FlagNameConfigFile  = "config-file"
	FlagNameSecretsFile = "secrets-file"
	FlagNameLogPath     = "log-path"
	FlagNameLogLevel    = "log-level"
)

var (
	ConfigFile string

	// SecretsFile is the path to the secrets store.
	// An empty value means "resolve the XDG default at point of use".
	SecretsFile string

	LogPath  string
	LogLevel string
)

func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initSecretsFile(fs)
	initLogger(fs)
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarConfigFile)); env != "" {
			ConfigFile = env
		} else {
			ConfigFile = DefaultConfigFile
		}
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to the devstrap project config file")
}

func initSecretsFile(fs *pflag.FlagSet) {
	if SecretsFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarSecretsFile)); env != "" {
			SecretsFile = env
		}
	}
	fs.StringVar(
		&SecretsFile,
		FlagNameSecretsFile,
		SecretsFile,
		"path to the secrets store file (defaults to the XDG config dir, e.g. ~/.config/devstrap/secrets.toml)",
	)
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to generated log file")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(&LogLevel, FlagNameLogLevel, LogLevel, "log level for devstrap logs")
}
