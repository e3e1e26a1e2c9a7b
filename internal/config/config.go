package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/bethropolis/code-combiner/internal/ignore"
	"github.com/bethropolis/code-combiner/internal/printer"
)

// Setting keys. Flags, env vars and config file entries share them.
const (
	KeyRules       = "rules"
	KeyOutput      = "output"
	KeyFormat      = "format"
	KeyMaxSize     = "max-size"
	KeyExt         = "ext"
	KeyShowSkipped = "show-skipped"
	KeyProgress    = "progress"
	KeyClipboard   = "clipboard"
	KeyTimeout     = "timeout"
	KeyVerbose     = "verbose"
	KeyQuiet       = "quiet"
	KeyLogLevel    = "log-level"
	KeyNoColor     = "no-color"
	KeyConfig      = "config"
)

// EnvPrefix namespaces environment overrides, e.g. CODECOMBINER_MAX_SIZE
const EnvPrefix = "CODECOMBINER"

const (
	// DefaultOutputFile is written in the working directory
	DefaultOutputFile = "combined_code.txt"
	// StdoutMarker as output path streams the artifact to stdout
	StdoutMarker = "-"
)

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir   string
	RulesFile string

	// Logging settings
	Verbose     bool
	Quiet       bool
	LogLevel    string
	NoColor     bool
	UseColors   bool // colored logs on stderr
	ColorOutput bool // colored artifact, only when streaming to a terminal
	ShowSkipped bool

	// Processing settings
	MaxFileSizeMB int64
	Extensions    []string
	ShowProgress  bool
	Timeout       time.Duration

	// Output settings
	OutputFile string
	Format     printer.Format
	Clipboard  bool

	// ConfigFile is the settings file that was read, if any
	ConfigFile string
}

// isTerminal is replaced in tests
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewViper returns a viper instance with defaults and env binding set up
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every setting
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRules, "")
	v.SetDefault(KeyOutput, DefaultOutputFile)
	v.SetDefault(KeyFormat, string(printer.FormatPlain))
	v.SetDefault(KeyMaxSize, 0)
	v.SetDefault(KeyExt, "")
	v.SetDefault(KeyShowSkipped, false)
	v.SetDefault(KeyProgress, false)
	v.SetDefault(KeyClipboard, false)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyConfig, "")
}

// Load reads the settings for a scan of rootDir from v.
// When KeyConfig names a file it is read first; flags and env still win.
func Load(v *viper.Viper, rootDir string) (*Config, error) {
	configFile := v.GetString(KeyConfig)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read configuration from %s: %w", configFile, err)
		}
	}

	if rootDir == "" {
		rootDir = "."
	}

	format, err := printer.ParseFormat(v.GetString(KeyFormat))
	if err != nil {
		return nil, err
	}

	c := &Config{
		RootDir:       rootDir,
		RulesFile:     v.GetString(KeyRules),
		Verbose:       v.GetBool(KeyVerbose),
		Quiet:         v.GetBool(KeyQuiet),
		LogLevel:      v.GetString(KeyLogLevel),
		NoColor:       v.GetBool(KeyNoColor),
		ShowSkipped:   v.GetBool(KeyShowSkipped),
		MaxFileSizeMB: v.GetInt64(KeyMaxSize),
		Extensions:    splitList(v.Get(KeyExt)),
		ShowProgress:  v.GetBool(KeyProgress),
		Timeout:       v.GetDuration(KeyTimeout),
		OutputFile:    v.GetString(KeyOutput),
		Format:        format,
		Clipboard:     v.GetBool(KeyClipboard),
		ConfigFile:    configFile,
	}
	if c.OutputFile == "" {
		c.OutputFile = DefaultOutputFile
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	// Determine if colors should be used
	c.UseColors = !c.NoColor && isTerminal(os.Stderr.Fd())
	c.ColorOutput = !c.NoColor && c.WritesToStdout() &&
		c.Format == printer.FormatPlain && isTerminal(os.Stdout.Fd())

	return c, nil
}

// Validate rejects settings that cannot produce a run
func (c *Config) Validate() error {
	var errs []error
	if c.RootDir == "" {
		errs = append(errs, errors.New("root directory must not be empty"))
	}
	if c.MaxFileSizeMB < 0 {
		errs = append(errs, fmt.Errorf("max-size must not be negative, got %d", c.MaxFileSizeMB))
	}
	if c.MaxFileSizeMB > MaxFileSizeLimitMB {
		errs = append(errs, fmt.Errorf("max-size must not exceed %d MB, got %d", MaxFileSizeLimitMB, c.MaxFileSizeMB))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %v", c.Timeout))
	}
	if _, err := printer.ParseFormat(string(c.Format)); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ResolvedRulesFile returns the rules file to load, defaulting to
// .codeignore inside the scan root
func (c *Config) ResolvedRulesFile() string {
	if c.RulesFile != "" {
		return c.RulesFile
	}
	return filepath.Join(c.RootDir, ignore.DefaultRulesFileName)
}

// WritesToStdout reports whether the artifact goes to stdout
func (c *Config) WritesToStdout() bool {
	return c.OutputFile == StdoutMarker
}

// BytesPerMB is the unit of the max-size setting
const BytesPerMB = 1024 * 1024

// MaxFileSizeLimitMB is the largest max-size whose byte count fits in an int64
const MaxFileSizeLimitMB = math.MaxInt64 / BytesPerMB

// MaxFileSizeBytes converts the MB limit, 0 meaning no limit
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * BytesPerMB
}

// splitList accepts "go, md" from flags or env and a list from config files
func splitList(raw interface{}) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []interface{}:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
