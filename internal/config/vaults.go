package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mtlprog/vaultstat/internal/domain"
)

type vaultRegistry struct {
	Vaults []domain.VaultConfig `yaml:"vaults" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadVaults reads and validates the vault registry file.
func LoadVaults(path string) ([]domain.VaultConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vault registry: %w", err)
	}
	return ParseVaults(data)
}

// ParseVaults decodes a YAML vault registry. Every vault needs an id, name, vault address
// and leader address; ids must be unique. Unknown keys are rejected.
func ParseVaults(data []byte) ([]domain.VaultConfig, error) {
	var reg vaultRegistry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&reg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding vault registry: %w", err)
	}

	if err := validate.Struct(reg); err != nil {
		return nil, fmt.Errorf("validating vault registry: %w", err)
	}

	seen := make(map[string]bool, len(reg.Vaults))
	for _, v := range reg.Vaults {
		if seen[v.ID] {
			return nil, fmt.Errorf("validating vault registry: duplicate vault id %q", v.ID)
		}
		seen[v.ID] = true
	}

	if reg.Vaults == nil {
		return []domain.VaultConfig{}, nil
	}
	return reg.Vaults, nil
}
