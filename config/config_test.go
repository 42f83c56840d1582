// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffeo/go-strata/strata"
)

const sampleYAML = `
base_url: https://example.org/strata
provider:
  name: Example provider
  prefix: exmpl
entry_types:
  structures:
    aliases:
      elements: custom_elements_field
    provider_fields:
      - hull_distance
    length_aliases:
      elements: nelements
`

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "strata.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(text), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.PageLimit)
	assert.Equal(t, 500, cfg.MaxPageLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.CacheSize)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/strata", cfg.BaseURL)
	assert.Equal(t, "exmpl", cfg.Provider.Prefix)
	// Settings the file does not mention keep their defaults.
	assert.Equal(t, 20, cfg.PageLimit)

	dep := cfg.Deployment(strata.StructuresType)
	assert.Equal(t, "exmpl", dep.Prefix)
	assert.Equal(t, []string{"hull_distance"}, dep.ProviderFields)
	assert.Equal(t, "custom_elements_field", dep.Aliases["elements"])
}

func TestEnvOverrides(t *testing.T) {
	os.Setenv("STRATA_PAGE_LIMIT", "50")
	os.Setenv("STRATA_PROVIDER_PREFIX", "other")
	defer os.Unsetenv("STRATA_PAGE_LIMIT")
	defer os.Unsetenv("STRATA_PROVIDER_PREFIX")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.PageLimit)
	assert.Equal(t, "other", cfg.Provider.Prefix)
}

func TestBadEnvValue(t *testing.T) {
	os.Setenv("STRATA_PAGE_LIMIT", "lots")
	defer os.Unsetenv("STRATA_PAGE_LIMIT")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config { return Default() }

	cfg := base()
	cfg.Provider.Prefix = "not_ok"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.ExtraPrefixes = []string{"ok", "NOT OK"}
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.MaxPageLimit = 5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.EntryTypes = map[string]EntryType{"bogus": {}}
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.EntryTypes = map[string]EntryType{
		strata.StructuresType: {ProviderFields: []string{"hull_distance"}},
	}
	assert.Error(t, cfg.Validate(), "provider fields without a prefix")
	cfg.Provider.Prefix = "exmpl"
	assert.NoError(t, cfg.Validate())
}

func TestMappers(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	mappers, err := cfg.Mappers()
	require.NoError(t, err)
	require.Contains(t, mappers, strata.StructuresType)

	m := mappers[strata.StructuresType]
	assert.Equal(t, "hull_distance", m.BackendField("_exmpl_hull_distance"))
	assert.Equal(t, "custom_elements_field", m.BackendField("elements"))
}
