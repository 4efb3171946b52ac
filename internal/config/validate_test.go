package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.Polling.IntervalSeconds = 3600
	cfg.Sources.Internshala.Enabled = true
	cfg.Store.Backend = "sqlite"
	return cfg
}

func TestNormalizeAndValidate_AcceptsValidConfig(t *testing.T) {
	_, res := NormalizeAndValidate(validConfig())
	assert.True(t, res.OK())
	assert.Empty(t, res.Errors)
}

func TestNormalizeAndValidate_RejectsBadPortAndInterval(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = 0
	cfg.Polling.IntervalSeconds = -1

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
	assert.Len(t, res.Errors, 2)
}

func TestNormalizeAndValidate_RejectsUnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "Postgres"

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestNormalizeAndValidate_NormalizesLists(t *testing.T) {
	cfg := validConfig()
	cfg.Email.FromAny = []string{" linkedin.com ", "", "LINKEDIN.COM", "glassdoor.com"}

	out, res := NormalizeAndValidate(cfg)
	require.True(t, res.OK())
	assert.Equal(t, []string{"linkedin.com", "glassdoor.com"}, out.Email.FromAny)
}

func TestNormalizeAndValidate_WarnsWhenNoSources(t *testing.T) {
	cfg := validConfig()
	cfg.Sources.Internshala.Enabled = false

	_, res := NormalizeAndValidate(cfg)
	assert.True(t, res.OK())
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalizeAndValidate_RequiresEmailFields(t *testing.T) {
	cfg := validConfig()
	cfg.Email.Enabled = true

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestNormalizeAndValidate_RequiresCareersCompanyURL(t *testing.T) {
	cfg := validConfig()
	cfg.Sources.Careers.Enabled = true
	cfg.Sources.Careers.Companies = []Company{{Name: "Acme"}}

	_, res := NormalizeAndValidate(cfg)
	assert.False(t, res.OK())
}

func TestSaveAtomicAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := validConfig()
	cfg.Search.Query = "  backend intern  "

	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "backend intern", loaded.Search.Query)
	assert.Equal(t, 38471, loaded.App.Port)

	// Second save keeps a .bak of the previous version.
	cfg.Search.Query = "data intern"
	require.NoError(t, SaveAtomic(path, cfg))
	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "backend intern", bak.Search.Query)
}

func TestSaveAtomic_RefusesInvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.App.Port = -5
	err := SaveAtomic(filepath.Join(t.TempDir(), "config.yml"), cfg)
	require.Error(t, err)
}
