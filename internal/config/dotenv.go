package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// envLookup resolves variables from the process env first, then from values
// read out of dotenv files. The process env is never modified.
type envLookup struct {
	dotenv map[string]string
}

// newEnvLookup reads .env.local and .env from dir. Keys in .env.local win
// over the same keys in .env. Missing files are skipped.
func newEnvLookup(dir string) (envLookup, error) {
	if dir == "" {
		dir = "."
	}
	values := map[string]string{}
	for _, name := range []string{".env.local", ".env"} {
		fileValues, err := godotenv.Read(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return envLookup{}, err
		}
		for k, v := range fileValues {
			if _, exists := values[k]; !exists {
				values[k] = v
			}
		}
	}
	return envLookup{dotenv: values}, nil
}

// get returns the trimmed value of key. Blank values count as unset.
func (e envLookup) get(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if v, ok := e.dotenv[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	return "", false
}
