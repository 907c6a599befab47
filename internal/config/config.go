package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"struktur/internal/tree"
)

const (
	DefaultConfigFile = ".struktur.toml"
	DefaultOutputPath = "output.txt"
)

// Format is the on-disk encoding of a config file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension. Anything that is not
// .yaml or .yml is treated as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Config is the effective run configuration after all sources are merged.
type Config struct {
	// RootDir is the folder to walk. Empty means the user is prompted.
	RootDir string
	// OutputPath is the file the rendering is written to, truncated each run.
	OutputPath string
	// InlineContent selects structure+content mode. Nil means the user is
	// prompted, or true when prompting is disabled.
	InlineContent *bool
	PathStyle     string
	PathExcludes  []string
	Verbose       bool
}

// fileConfig uses pointers so keys missing from the file keep their defaults.
type fileConfig struct {
	RootDir       *string  `toml:"root_dir" yaml:"root_dir"`
	OutputPath    *string  `toml:"output" yaml:"output"`
	InlineContent *bool    `toml:"inline_content" yaml:"inline_content"`
	PathStyle     *string  `toml:"path_style" yaml:"path_style"`
	PathExcludes  []string `toml:"path_excludes" yaml:"path_excludes"`
	Verbose       *bool    `toml:"verbose" yaml:"verbose"`
}

type persistedConfig struct {
	RootDir       string   `toml:"root_dir,omitempty" yaml:"root_dir,omitempty"`
	OutputPath    string   `toml:"output" yaml:"output"`
	InlineContent *bool    `toml:"inline_content,omitempty" yaml:"inline_content,omitempty"`
	PathStyle     string   `toml:"path_style" yaml:"path_style"`
	PathExcludes  []string `toml:"path_excludes" yaml:"path_excludes"`
	Verbose       bool     `toml:"verbose" yaml:"verbose"`
}

// Default returns the built-in configuration used before any source is applied.
func Default() Config {
	return Config{
		OutputPath:   DefaultOutputPath,
		PathStyle:    string(tree.PathRelative),
		PathExcludes: []string{},
	}
}

// Options for loading config.
type Options struct {
	// ConfigPath is the config file to read. Empty means DefaultConfigFile.
	// A missing file is not an error.
	ConfigPath string
	// EnvDir holds the optional .env and .env.local files. Empty means the
	// working directory.
	EnvDir string
	// SkipValidate leaves validation to the caller (config print).
	SkipValidate bool
	// Overrides apply last. Nil means no CLI overrides.
	Overrides *Overrides
}

// Overrides holds CLI flag values that take precedence over env, dotenv,
// file and defaults. Only non-nil fields are applied.
type Overrides struct {
	RootDir       *string
	OutputPath    *string
	InlineContent *bool
	PathStyle     *string
	PathExcludes  []string
	Verbose       *bool
}

// Load builds config with precedence: defaults → config file → .env →
// .env.local → process env → Overrides. Errors carry the CONFIG_INVALID prefix.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path := opts.ConfigPath
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigFile
	}
	if err := applyFileOverrides(&cfg, path); err != nil {
		return Config{}, err
	}

	env, err := newEnvLookup(opts.EnvDir)
	if err != nil {
		return Config{}, fmt.Errorf("CONFIG_INVALID: failed loading dotenv files: %w", err)
	}
	if err := applyEnvOverrides(&cfg, env); err != nil {
		return Config{}, err
	}

	if opts.Overrides != nil {
		applyOverrides(&cfg, opts.Overrides)
	}

	if !opts.SkipValidate {
		if err := Validate(&cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

func applyFileOverrides(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("CONFIG_INVALID: cannot read config file %s: %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var fileCfg fileConfig
	switch FormatFor(path) {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return fmt.Errorf("CONFIG_INVALID: malformed YAML in %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(raw), &fileCfg); err != nil {
			return fmt.Errorf("CONFIG_INVALID: malformed TOML in %s: %w", path, err)
		}
	}

	if fileCfg.RootDir != nil {
		cfg.RootDir = strings.TrimSpace(*fileCfg.RootDir)
	}
	if fileCfg.OutputPath != nil {
		cfg.OutputPath = strings.TrimSpace(*fileCfg.OutputPath)
	}
	if fileCfg.InlineContent != nil {
		v := *fileCfg.InlineContent
		cfg.InlineContent = &v
	}
	if fileCfg.PathStyle != nil {
		cfg.PathStyle = strings.TrimSpace(*fileCfg.PathStyle)
	}
	if fileCfg.PathExcludes != nil {
		cfg.PathExcludes = normalizeStringSlice(fileCfg.PathExcludes)
	}
	if fileCfg.Verbose != nil {
		cfg.Verbose = *fileCfg.Verbose
	}
	return nil
}

func applyEnvOverrides(cfg *Config, env envLookup) error {
	if v, ok := env.get("STRUKTUR_ROOT"); ok {
		cfg.RootDir = v
	}
	if v, ok := env.get("STRUKTUR_OUTPUT"); ok {
		cfg.OutputPath = v
	}
	if v, ok := env.get("STRUKTUR_INLINE_CONTENT"); ok {
		b, err := ParseBool(v)
		if err != nil {
			return fmt.Errorf("CONFIG_INVALID: STRUKTUR_INLINE_CONTENT=%q: %w", v, err)
		}
		cfg.InlineContent = &b
	}
	if v, ok := env.get("STRUKTUR_PATH_STYLE"); ok {
		cfg.PathStyle = v
	}
	if v, ok := env.get("STRUKTUR_EXCLUDES"); ok {
		cfg.PathExcludes = normalizeStringSlice(strings.Split(v, ","))
	}
	if v, ok := env.get("STRUKTUR_VERBOSE"); ok {
		b, err := ParseBool(v)
		if err != nil {
			return fmt.Errorf("CONFIG_INVALID: STRUKTUR_VERBOSE=%q: %w", v, err)
		}
		cfg.Verbose = b
	}
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o.RootDir != nil {
		cfg.RootDir = *o.RootDir
	}
	if o.OutputPath != nil {
		cfg.OutputPath = *o.OutputPath
	}
	if o.InlineContent != nil {
		v := *o.InlineContent
		cfg.InlineContent = &v
	}
	if o.PathStyle != nil {
		cfg.PathStyle = *o.PathStyle
	}
	if o.PathExcludes != nil {
		cfg.PathExcludes = normalizeStringSlice(o.PathExcludes)
	}
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}
}

// ParseBool accepts the usual yes/no spellings in addition to strconv's.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", raw)
}

// Encode writes cfg in the given format.
func Encode(w io.Writer, cfg Config, format Format) error {
	serializable := persistedConfig{
		RootDir:       cfg.RootDir,
		OutputPath:    cfg.OutputPath,
		InlineContent: cfg.InlineContent,
		PathStyle:     cfg.PathStyle,
		PathExcludes:  append([]string{}, cfg.PathExcludes...),
		Verbose:       cfg.Verbose,
	}
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(serializable); err != nil {
			return fmt.Errorf("encode config yaml: %w", err)
		}
		return enc.Close()
	default:
		if err := toml.NewEncoder(w).Encode(serializable); err != nil {
			return fmt.Errorf("encode config toml: %w", err)
		}
		return nil
	}
}

// WriteTemplate creates a starter config file at path. An existing file is
// only replaced when force is set.
func WriteTemplate(path string, force bool) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is required")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file %s: %w", path, err)
		}
	}

	content := DefaultTOML
	if FormatFor(path) == FormatYAML {
		content = DefaultYAML
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}

func normalizeStringSlice(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
