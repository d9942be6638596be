// Package config loads runtime settings from the environment and an
// optional likegrab.yaml file in the working directory. CLI arguments are
// applied on top and always win.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Settings keys
const (
	KeyDownloadDir  = "download_directory"
	KeyMaxParallel  = "max_parallel_downloads"
	KeyMaxAttempts  = "max_attempts"
	KeySkipExisting = "skip_existing"
)

// Default values
const (
	DefaultDownloadDir  = "downloads"
	DefaultMaxParallel  = 1
	DefaultMaxAttempts  = 3
	DefaultSkipExisting = true
	MaxParallelLimit    = 10
)

const (
	envPrefix  = "LIKEGRAB"
	configName = "likegrab"
	configType = "yaml"
)

// Settings manages application configuration
type Settings struct {
	v *viper.Viper
}

// NewSettings creates a settings manager with defaults applied, environment
// overrides bound, and the optional config file read when present.
func NewSettings() *Settings {
	v := viper.New()
	v.SetDefault(KeyDownloadDir, DefaultDownloadDir)
	v.SetDefault(KeyMaxParallel, DefaultMaxParallel)
	v.SetDefault(KeyMaxAttempts, DefaultMaxAttempts)
	v.SetDefault(KeySkipExisting, DefaultSkipExisting)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // the file is optional

	return &Settings{v: v}
}

// DownloadDir returns the configured destination directory.
func (s *Settings) DownloadDir() string {
	dir := s.v.GetString(KeyDownloadDir)
	if dir == "" {
		return DefaultDownloadDir
	}
	return dir
}

// SetDownloadDir overrides the destination directory.
func (s *Settings) SetDownloadDir(dir string) {
	if dir != "" {
		s.v.Set(KeyDownloadDir, dir)
	}
}

// MaxParallel returns the worker pool size, clamped to [1, MaxParallelLimit].
func (s *Settings) MaxParallel() int {
	count := s.v.GetInt(KeyMaxParallel)
	if count < 1 {
		return DefaultMaxParallel
	}
	if count > MaxParallelLimit {
		return MaxParallelLimit
	}
	return count
}

// SetMaxParallel overrides the worker pool size.
func (s *Settings) SetMaxParallel(count int) {
	if count > 0 {
		s.v.Set(KeyMaxParallel, count)
	}
}

// MaxAttempts returns the per-track attempt budget.
func (s *Settings) MaxAttempts() int {
	attempts := s.v.GetInt(KeyMaxAttempts)
	if attempts < 1 {
		return DefaultMaxAttempts
	}
	return attempts
}

// SkipExisting reports whether already-present tracks are skipped.
func (s *Settings) SkipExisting() bool {
	return s.v.GetBool(KeySkipExisting)
}
