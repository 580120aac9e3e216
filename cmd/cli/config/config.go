package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultAPIURL = "http://localhost:5000"

const tokenFileName = ".recipeshare_token"

// APIURL returns the base URL for the RecipeShare API.
// It can be overridden with the RECIPESHARE_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("RECIPESHARE_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, tokenFileName), nil
}

// SaveToken stores the JWT token for subsequent CLI commands.
func SaveToken(token string) error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// ReadToken returns the locally stored JWT token.
func ReadToken() (string, error) {
	p, err := tokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// DeleteToken removes the locally stored JWT token.
func DeleteToken() error {
	p, err := tokenPath()
	if err != nil {
		return err
	}
	err = os.Remove(p)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
