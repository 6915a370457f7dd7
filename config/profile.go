package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Profile bundles every config section so a deployment can be described in a
// single YAML file.
type Profile struct {
	Model  ModelConfig  `yaml:"model"`
	Memory MemoryConfig `yaml:"memory"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
}

func NewProfile() *Profile {
	return &Profile{
		Model:  *NewModelConfig(),
		Memory: *NewMemoryConfig(),
		Store:  *NewStoreConfig(),
		Log:    *NewLogConfig(),
	}
}

// LoadProfileFromFile reads a YAML profile, layered over the defaults and the
// environment.
func LoadProfileFromFile(file string) (*Profile, error) {
	profile := NewProfile()

	yamlBytes, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", file)
	}

	if err := yaml.Unmarshal(yamlBytes, profile); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal file %s", file)
	}

	return profile, nil
}
