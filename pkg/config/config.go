package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ghodss/yaml"
	goversion "github.com/hashicorp/go-version"
	homedir "github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/masa604/Task---Folder-Sync/pkg/errors"
)

const (
	// DefaultMaxRounds is the number of sync rounds run before the process
	// exits on its own.
	DefaultMaxRounds = 10

	// DefaultMonitorInterval is how often the change monitor polls the
	// directories.
	DefaultMonitorInterval = time.Second

	// InitialFileVersion is assumed for config files that don't specify a
	// version.
	InitialFileVersion = "1.0"

	// SupportedFileVersions is the range of config file versions understood
	// by this binary.
	SupportedFileVersions = ">= 1.0, < 2.0"
)

// parseConfigErrTemplate is used when the config file isn't valid, or
// doesn't match the expected schema. The parser's message is passed on as is.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the config file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// MonitorMode selects what wakes up the change monitor.
type MonitorMode string

const (
	// ModePoll polls the directories every monitor interval.
	ModePoll MonitorMode = "poll"

	// ModeNotify polls every monitor interval, and also as soon as the
	// operating system reports a change.
	ModeNotify MonitorMode = "notify"
)

// File is the optional configuration file. It's parsed as TOML if its name
// ends with ".toml", and as YAML otherwise. Fields that aren't set keep
// their default values.
type File struct {
	Version         string      `json:"version,omitempty" toml:"version,omitempty"`
	MaxRounds       int         `json:"maxRounds,omitempty" toml:"maxRounds,omitempty"`
	MonitorInterval Duration    `json:"monitorInterval,omitempty" toml:"monitorInterval,omitempty"`
	MonitorMode     MonitorMode `json:"monitorMode,omitempty" toml:"monitorMode,omitempty"`
	Exclude         []string    `json:"exclude,omitempty" toml:"exclude,omitempty"`
	Verbose         bool        `json:"verbose,omitempty" toml:"verbose,omitempty"`
}

// Config is the resolved configuration of a sync run.
type Config struct {
	Source  string
	Replica string
	Period  time.Duration
	LogPath string

	MaxRounds       int
	MonitorInterval time.Duration
	MonitorMode     MonitorMode
	Exclude         []string
	Verbose         bool
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		MaxRounds:       DefaultMaxRounds,
		MonitorInterval: DefaultMonitorInterval,
		MonitorMode:     ModePoll,
	}
}

// WithFile returns a copy of `cfg` with the fields set in `f` applied.
func (cfg Config) WithFile(f File) Config {
	if f.MaxRounds != 0 {
		cfg.MaxRounds = f.MaxRounds
	}
	if f.MonitorInterval != 0 {
		cfg.MonitorInterval = time.Duration(f.MonitorInterval)
	}
	if f.MonitorMode != "" {
		cfg.MonitorMode = f.MonitorMode
	}
	if len(f.Exclude) != 0 {
		cfg.Exclude = append([]string(nil), f.Exclude...)
	}
	cfg.Verbose = cfg.Verbose || f.Verbose
	return cfg
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The configuration file %q is incompatible "+
		"with this version of foldersync.\n"+
		"Expected a version matching %q, but got %q.", err.path, err.exp, err.actual)
}

type decoder struct {
	unmarshal func([]byte, interface{}) error

	// unmarshalStrict fails on fields that aren't part of File.
	unmarshalStrict func([]byte, interface{}) error
}

var yamlDecoder = decoder{
	unmarshal: func(b []byte, v interface{}) error {
		return yaml.Unmarshal(b, v)
	},
	unmarshalStrict: func(b []byte, v interface{}) error {
		return yaml.UnmarshalStrict(b, v, yaml.DisallowUnknownFields)
	},
}

var tomlDecoder = decoder{
	unmarshal: toml.Unmarshal,
	unmarshalStrict: func(b []byte, v interface{}) error {
		return toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields().Decode(v)
	},
}

// ParseFile reads the config file at `path`.
func ParseFile(path string) (File, error) {
	path, err := homedirExpand(path)
	if err != nil {
		return File{}, errors.WithContext(err, "expand config path")
	}

	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.NewFriendlyError(
				"The configuration file %q doesn't exist.", path)
		}
		return File{}, errors.WithContext(err, "read file")
	}

	dec := yamlDecoder
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec = tomlDecoder
	}

	config := File{Version: InitialFileVersion}
	if err := dec.unmarshal(configBytes, &config); err != nil {
		return File{}, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	if !isSupportedVersion(config.Version) {
		return File{}, incompatibleVersionError{path, SupportedFileVersions, config.Version}
	}

	// Do a strict unmarshal to check for any extra fields. We do a non-strict
	// unmarshal first so that we can catch version errors before erroring on
	// extra fields.
	if err := dec.unmarshalStrict(configBytes, &config); err != nil {
		return File{}, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}
	return config, nil
}

func isSupportedVersion(versionStr string) bool {
	version, err := goversion.NewVersion(versionStr)
	if err != nil {
		return false
	}

	constraints, err := goversion.NewConstraint(SupportedFileVersions)
	if err != nil {
		panic(err)
	}
	return constraints.Check(version)
}

// ParsePeriod parses the number of seconds to wait between sync rounds.
func ParsePeriod(arg string) (time.Duration, error) {
	seconds, err := strconv.Atoi(arg)
	if err != nil || seconds <= 0 {
		return 0, errors.NewFriendlyError(
			"The sync period must be a positive number of seconds, got %q.", arg)
	}
	return time.Duration(seconds) * time.Second, nil
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ExpandPaths replaces a leading `~` in the directory and log paths with the
// user's home directory.
func (cfg *Config) ExpandPaths() error {
	for _, path := range []*string{&cfg.Source, &cfg.Replica, &cfg.LogPath} {
		expanded, err := homedirExpand(*path)
		if err != nil {
			return errors.WithContext(err, fmt.Sprintf("expand %q", *path))
		}
		*path = expanded
	}
	return nil
}

// Validate checks that the configuration can be used for a sync run. The
// directories themselves are checked at the start of every round instead.
func (cfg Config) Validate() error {
	if cfg.Source == "" || cfg.Replica == "" {
		return errors.NewFriendlyError("Both a source and a replica directory are required.")
	}

	if filepath.Clean(cfg.Source) == filepath.Clean(cfg.Replica) {
		return errors.NewFriendlyError(
			"The source and replica must be different directories, got %q for both.",
			cfg.Source)
	}

	if cfg.LogPath == "" {
		return errors.NewFriendlyError("A log file path is required.")
	}

	if cfg.Period <= 0 {
		return errors.NewFriendlyError(
			"The sync period must be positive, got %s.", cfg.Period)
	}

	if cfg.MaxRounds <= 0 {
		return errors.NewFriendlyError(
			"The maximum number of rounds must be positive, got %d.", cfg.MaxRounds)
	}

	if cfg.MonitorInterval <= 0 {
		return errors.NewFriendlyError(
			"The monitor interval must be positive, got %s.", cfg.MonitorInterval)
	}

	switch cfg.MonitorMode {
	case ModePoll, ModeNotify:
	default:
		return errors.NewFriendlyError(
			"Unknown monitor mode %q. It must be either %q or %q.",
			cfg.MonitorMode, ModePoll, ModeNotify)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.NewFriendlyError("Invalid exclude pattern %q.", pattern)
		}
	}
	return nil
}
