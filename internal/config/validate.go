package config

import (
	"fmt"
	"os"
	"path"
	"strings"

	"struktur/internal/tree"
)

// Validate checks enum fields, the output path and exclude globs. Errors
// carry the CONFIG_INVALID prefix and say how to fix the value.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("CONFIG_INVALID: nil config")
	}
	if !stringIn(cfg.PathStyle, tree.PathStyles) {
		return fmt.Errorf("CONFIG_INVALID: path_style=%q; allowed: %s", cfg.PathStyle, strings.Join(tree.PathStyles, ", "))
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return fmt.Errorf("CONFIG_INVALID: output path is empty\nSet env: STRUKTUR_OUTPUT=output.txt\nOr pass: --output output.txt")
	}
	if info, err := os.Stat(cfg.OutputPath); err == nil && info.IsDir() {
		return fmt.Errorf("CONFIG_INVALID: output %q is a directory", cfg.OutputPath)
	}
	for _, glob := range cfg.PathExcludes {
		if err := validateGlob(glob); err != nil {
			return fmt.Errorf("CONFIG_INVALID: path_excludes entry %q: %w", glob, err)
		}
	}
	return nil
}

func validateGlob(glob string) error {
	for _, segment := range strings.Split(strings.Trim(glob, "/"), "/") {
		if segment == "**" {
			continue
		}
		if _, err := path.Match(segment, ""); err != nil {
			return err
		}
	}
	return nil
}

func stringIn(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
