// ABOUTME: Client-side token storage: CATALOG_TOKEN env var or the XDG token file
// ABOUTME: Used by catalog-admin and catalog-tui to find the bearer token

package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenEnv is the environment variable checked first for a token.
const TokenEnv = "CATALOG_TOKEN"

// TokenPath returns the token file location inside configDir.
func TokenPath(configDir string) string {
	return filepath.Join(configDir, "token")
}

// LoadToken returns the token from CATALOG_TOKEN, or from the token file in
// configDir. A missing token is "" with no error.
func LoadToken(configDir string) (string, error) {
	// Check env var first
	if token := os.Getenv(TokenEnv); token != "" {
		return token, nil
	}

	data, err := os.ReadFile(TokenPath(configDir))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// SaveToken writes token to the token file in configDir, readable only by
// the current user.
func SaveToken(configDir, token string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(TokenPath(configDir), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}
