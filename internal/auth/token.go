package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "deepdoc-cli"
	keyringUser    = "api-token"
)

var (
	// fallbackMode indicates file-based storage on headless systems
	// where no keyring daemon is reachable.
	fallbackMode    bool
	fallbackModeMu  sync.RWMutex
	fallbackChecked bool
)

// checkKeyringAvailable tests if the system keyring is usable.
func checkKeyringAvailable() bool {
	fallbackModeMu.Lock()
	defer fallbackModeMu.Unlock()

	if fallbackChecked {
		return !fallbackMode
	}

	testKey := "deepdoc-keyring-test"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		fallbackMode = true
		fallbackChecked = true
		return false
	}
	_ = keyring.Delete(keyringService, testKey)
	fallbackChecked = true
	return true
}

func isFallbackMode() bool {
	fallbackModeMu.RLock()
	defer fallbackModeMu.RUnlock()
	return fallbackMode
}

func getFallbackPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".deepdoc", ".session"), nil
}

// StoreToken stores the bearer token in the system keyring, or in a
// permission-restricted file when no keyring is available.
func StoreToken(token string) error {
	if checkKeyringAvailable() {
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		return nil
	}

	path, err := getFallbackPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write fallback token: %w", err)
	}
	return nil
}

// RetrieveToken returns the stored bearer token, or "" when the user has
// never logged in.
func RetrieveToken() (string, error) {
	if !isFallbackMode() && checkKeyringAvailable() {
		token, err := keyring.Get(keyringService, keyringUser)
		if err == nil {
			return token, nil
		}
		if err != keyring.ErrNotFound {
			return "", fmt.Errorf("failed to read token from keyring: %w", err)
		}
	}

	path, err := getFallbackPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// DeleteToken removes the stored token from the keyring and the fallback
// file.
func DeleteToken() error {
	var keyringErr, fallbackErr error

	if !isFallbackMode() {
		keyringErr = keyring.Delete(keyringService, keyringUser)
		if keyringErr == keyring.ErrNotFound {
			keyringErr = nil
		}
	}

	if path, err := getFallbackPath(); err == nil {
		fallbackErr = os.Remove(path)
		if fallbackErr != nil && os.IsNotExist(fallbackErr) {
			fallbackErr = nil
		}
	}

	if keyringErr != nil && fallbackErr != nil {
		return fmt.Errorf("failed to delete stored token")
	}
	return nil
}
