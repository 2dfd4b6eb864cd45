package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ytget/yt1080/internal/model"
)

// Backend selects the media fetcher implementation
type Backend string

const (
	BackendYTDLP  Backend = "yt-dlp"
	BackendNative Backend = "native"
)

// ProgressStyle selects how transfer progress is rendered
type ProgressStyle string

const (
	ProgressLine ProgressStyle = "line"
	ProgressBar  ProgressStyle = "bar"
)

// Settings keys
const (
	KeyDownloadDir       = "download_directory"
	KeyTargetHeight      = "target_height"
	KeyContainer         = "container"
	KeyFormat            = "format"
	KeyFilenameTemplate  = "filename_template"
	KeyBackend           = "backend"
	KeyProgressStyle     = "progress_style"
	KeyRestrictFilenames = "restrict_filenames"
	KeyProxy             = "proxy"
	KeyAutoInstall       = "auto_install"
	KeyLogLevel          = "logging.level"
	KeyLogFormat         = "logging.format"
	KeyLogFile           = "logging.file"
)

// Default values
const (
	DefaultTargetHeight     = model.DefaultTargetHeight
	DefaultContainer        = model.DefaultContainer
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	DefaultBackend          = BackendYTDLP
	DefaultProgressStyle    = ProgressLine
	DefaultLogLevel         = "warn"
	DefaultLogFormat        = "console"
)

// Environment and file lookup
const (
	EnvPrefix      = "YT1080"
	EnvConfigPath  = "YT1080_CONFIG"
	ConfigDirName  = "yt1080"
	ConfigFileName = "config"
	ConfigFileType = "yaml"
)

// Settings manages application configuration
type Settings struct {
	v *viper.Viper
}

// NewSettings creates a settings manager over v with defaults registered
func NewSettings(v *viper.Viper) *Settings {
	setDefaults(v)
	return &Settings{v: v}
}

// Load reads settings from the optional config file and YT1080_* environment
// variables. A missing config file is not an error.
func Load() (*Settings, error) {
	v := viper.New()
	s := NewSettings(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v); err != nil {
		return s, err
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDownloadDir, "")
	v.SetDefault(KeyTargetHeight, DefaultTargetHeight)
	v.SetDefault(KeyContainer, DefaultContainer)
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyFilenameTemplate, DefaultFilenameTemplate)
	v.SetDefault(KeyBackend, string(DefaultBackend))
	v.SetDefault(KeyProgressStyle, string(DefaultProgressStyle))
	v.SetDefault(KeyRestrictFilenames, false)
	v.SetDefault(KeyProxy, "")
	v.SetDefault(KeyAutoInstall, false)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyLogFile, "")
}

func readConfigFile(v *viper.Viper) error {
	if path := os.Getenv(EnvConfigPath); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, ConfigDirName))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// ConfigFileUsed returns the path of the config file that was read, if any
func (s *Settings) ConfigFileUsed() string {
	return s.v.ConfigFileUsed()
}

// GetDownloadDirectory returns the directory used when none is entered
func (s *Settings) GetDownloadDirectory() string {
	return strings.TrimSpace(s.v.GetString(KeyDownloadDir))
}

// GetTargetHeight returns the preferred vertical resolution
func (s *Settings) GetTargetHeight() int {
	height := s.v.GetInt(KeyTargetHeight)
	if height <= 0 {
		return DefaultTargetHeight
	}
	return height
}

// GetContainer returns the preferred container, also used for merging
func (s *Settings) GetContainer() string {
	container := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s.v.GetString(KeyContainer))), ".")
	if container == "" {
		return DefaultContainer
	}
	return container
}

// GetFormatOverride returns the raw selector override, empty when unset
func (s *Settings) GetFormatOverride() string {
	return strings.TrimSpace(s.v.GetString(KeyFormat))
}

// FormatPreference returns the selector chain to request
func (s *Settings) FormatPreference() model.FormatPreference {
	if raw := s.GetFormatOverride(); raw != "" {
		return model.OverrideFormatPreference(raw, s.GetTargetHeight(), s.GetContainer())
	}
	return model.NewFormatPreference(s.GetTargetHeight(), s.GetContainer())
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	template := strings.TrimSpace(s.v.GetString(KeyFilenameTemplate))
	if template == "" {
		return DefaultFilenameTemplate
	}
	return template
}

// GetBackend returns the configured media fetcher
func (s *Settings) GetBackend() Backend {
	switch Backend(strings.ToLower(strings.TrimSpace(s.v.GetString(KeyBackend)))) {
	case BackendNative:
		return BackendNative
	default:
		return DefaultBackend
	}
}

// GetProgressStyle returns the configured progress renderer
func (s *Settings) GetProgressStyle() ProgressStyle {
	switch ProgressStyle(strings.ToLower(strings.TrimSpace(s.v.GetString(KeyProgressStyle)))) {
	case ProgressBar:
		return ProgressBar
	default:
		return DefaultProgressStyle
	}
}

// GetRestrictFilenames returns whether file names are limited to ASCII
func (s *Settings) GetRestrictFilenames() bool {
	return s.v.GetBool(KeyRestrictFilenames)
}

// GetProxy returns the proxy URL handed to the fetcher
func (s *Settings) GetProxy() string {
	return strings.TrimSpace(s.v.GetString(KeyProxy))
}

// GetAutoInstall returns whether yt-dlp is installed or updated on startup
func (s *Settings) GetAutoInstall() bool {
	return s.v.GetBool(KeyAutoInstall)
}

// GetLogLevel returns the log level name
func (s *Settings) GetLogLevel() string {
	return strings.ToLower(strings.TrimSpace(s.v.GetString(KeyLogLevel)))
}

// GetLogFormat returns the log encoding, "console" or "json"
func (s *Settings) GetLogFormat() string {
	return strings.ToLower(strings.TrimSpace(s.v.GetString(KeyLogFormat)))
}

// GetLogFile returns the log output path, empty for stderr
func (s *Settings) GetLogFile() string {
	return strings.TrimSpace(s.v.GetString(KeyLogFile))
}
