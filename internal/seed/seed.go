// Package seed provides the accounts the ledger starts with.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed accounts.yaml
var embeddedAccounts []byte

// Account is one seed entry. The pin is plain here and hashed on load.
type Account struct {
	Owner        string    `yaml:"owner"`
	Movements    []float64 `yaml:"movements"`
	InterestRate float64   `yaml:"interest_rate"`
	Pin          int       `yaml:"pin"`
}

// Default returns the built-in demo accounts.
func Default() ([]Account, error) {
	return Parse(embeddedAccounts)
}

// LoadFile reads seed accounts from a YAML file.
func LoadFile(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Load returns the accounts from path, or the defaults when path is empty.
func Load(path string) ([]Account, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

func Parse(data []byte) ([]Account, error) {
	var accounts []Account
	if err := yaml.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse seed accounts: %w", err)
	}

	for i, a := range accounts {
		if strings.TrimSpace(a.Owner) == "" {
			return nil, fmt.Errorf("seed account %d: owner is required", i)
		}
	}
	return accounts, nil
}
