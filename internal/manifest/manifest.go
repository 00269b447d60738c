// Package manifest loads the deploy manifest: which files go to which
// administration account.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ninebynine/netconfig/pkg/models"
)

// DefaultPath is where deploy looks for a manifest when none is given.
const DefaultPath = "deploy.yaml"

// Built-in destination, matching the original deploy script.
const (
	DefaultHost    = "luggage.atuin.ninebynine.org"
	DefaultPort    = 22
	DefaultUser    = "gk-admin"
	DefaultKeyFile = "~/.ssh/id_rsa_luggage_gk-admin"
)

// Default returns the built-in manifest: the generated DHCP and zone files,
// pushed in that order to the administration account's home directory.
func Default() *models.Manifest {
	m := &models.Manifest{
		Files: []models.TransferJob{
			{LocalPath: "atuin.ninebynine.org.dhcpd.conf"},
			{LocalPath: "atuin.ninebynine.org.zone.hosts"},
		},
	}
	applyDefaults(m)
	return m
}

// Load reads a YAML manifest and fills in defaults for anything omitted.
func Load(path string) (*models.Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %v", err)
	}
	var m models.Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %v", path, err)
	}
	applyDefaults(&m)
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("manifest %s lists no files", path)
	}
	for i, job := range m.Files {
		if job.LocalPath == "" {
			return nil, fmt.Errorf("manifest %s: file %d has no local path", path, i+1)
		}
	}
	return &m, nil
}

// LoadOrDefault loads path if it exists and falls back to the built-in
// manifest otherwise. An unreadable or invalid manifest is still an error.
func LoadOrDefault(path string) (*models.Manifest, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func applyDefaults(m *models.Manifest) {
	if m.Remote.Host == "" {
		m.Remote.Host = DefaultHost
	}
	if m.Remote.Port == 0 {
		m.Remote.Port = DefaultPort
	}
	if m.Remote.User == "" {
		m.Remote.User = DefaultUser
	}
	if m.Remote.KeyFile == "" {
		m.Remote.KeyFile = DefaultKeyFile
	}
}
