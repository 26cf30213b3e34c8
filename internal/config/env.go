package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Environment variable names for GitHub credentials. CI provides them as
// secrets; local runs fall back to .env files.
const (
	EnvOwner = "SECRET_GITHUB_OWNER"
	EnvToken = "SECRET_GITHUB_TOKEN"
)

// Credentials resolves the GitHub owner and token from the process
// environment first, then from .env files in priority order. A missing
// value is an error naming the key so the operator knows what to set.
func Credentials() (owner, token string, err error) {
	owner, err = LookupSecret(EnvOwner)
	if err != nil {
		return "", "", err
	}
	token, err = LookupSecret(EnvToken)
	if err != nil {
		return "", "", err
	}
	return owner, token, nil
}

// LookupSecret returns the value for key from the environment or the first
// .env file that defines it.
func LookupSecret(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	for _, path := range candidateEnvFiles() {
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			continue
		}
		if value := v.GetString(key); value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf("missing required configuration: %s", key)
}

// candidateEnvFiles returns existing .env files to inspect, in priority
// order: the working directory first, then the user config directory. The
// tool is run from varying directories, so both local and CI invocations
// share the same fallback.
func candidateEnvFiles() []string {
	candidates := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".ghkeep", ".env"))
	}

	seen := make(map[string]struct{}, len(candidates))
	var existing []string
	for _, candidate := range candidates {
		resolved, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, ok := seen[resolved]; ok {
			continue
		}
		seen[resolved] = struct{}{}
		if info, err := os.Stat(resolved); err == nil && !info.IsDir() {
			existing = append(existing, resolved)
		}
	}
	return existing
}
