// Package config wraps a process-wide viper instance holding abrt settings.
//
// Precedence, highest first: values Set by the CLI from explicit flags,
// ABRT_* environment variables, the config file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	v        *viper.Viper
	fileUsed string
)

// Config keys.
const (
	KeyDumpLocation     = "dump-location"
	KeyListPretty       = "list.pretty"
	KeyInfoPretty       = "info.pretty"
	KeyGDBCommand       = "gdb.command"
	KeyDebuginfoPath    = "gdb.debuginfo-path"
	KeyDebuginfoCommand = "debuginfo.command"
	KeyLibexecDir       = "libexec-dir"
	KeyEventsFile       = "events.file"
	KeyReportCommand    = "report.command"
	KeyLockTimeout      = "lock.timeout"
	KeyLoadConcurrency  = "load.concurrency"
	KeyWatchDebounce    = "watch.debounce"
	KeyCompletionLimit  = "completion.limit"
	KeyOutput           = "output"
)

// Initialize builds a fresh viper instance with defaults, the config file
// (if any) and environment bindings. It may be called again to reset state.
func Initialize() error {
	v = viper.New()
	fileUsed = ""
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("ABRT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := ConfigPath()
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) || isConfigNotFound(err) {
			return nil
		}
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	fileUsed = path
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDumpLocation, "/var/spool/abrt")
	v.SetDefault(KeyListPretty, "medium")
	v.SetDefault(KeyInfoPretty, "full")
	v.SetDefault(KeyGDBCommand, "")
	v.SetDefault(KeyDebuginfoPath, "/var/cache/abrt-di/usr/lib/debug")
	v.SetDefault(KeyDebuginfoCommand, "")
	v.SetDefault(KeyLibexecDir, "/usr/libexec/")
	v.SetDefault(KeyEventsFile, "")
	v.SetDefault(KeyReportCommand, "")
	v.SetDefault(KeyLockTimeout, 5*time.Second)
	v.SetDefault(KeyLoadConcurrency, 8)
	v.SetDefault(KeyWatchDebounce, 500*time.Millisecond)
	v.SetDefault(KeyCompletionLimit, 200)
	v.SetDefault(KeyOutput, "text")
}

// ConfigPath returns the config file location: $ABRT_CONFIG, else
// $XDG_CONFIG_HOME/abrt/config.yaml, else ~/.config/abrt/config.yaml.
// It returns "" when no home directory can be determined.
func ConfigPath() string {
	if p := os.Getenv("ABRT_CONFIG"); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "abrt", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "abrt", "config.yaml")
}

// ConfigFileUsed returns the config file that was read, or "".
func ConfigFileUsed() string {
	return fileUsed
}

func isConfigNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// GetStringSlice retrieves a string slice configuration value
func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	return v.GetStringSlice(key)
}

// Set sets a configuration value, overriding every other source.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
