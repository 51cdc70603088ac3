package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewFromFile(t *testing.T) {
	t.Run("file overrides defaults", func(t *testing.T) {
		viper.Reset()
		path := writeConfig(t, `
output:
  pretty: true
api:
  port: 7000
  timeout: 5s
cleaner:
  corrections:
    - from: Blvd
      to: Boulevard
  region:
    name: Beijing
    city_names: [Beijing, 北京]
  phone_digits: 8
`)
		cfg, err := NewFromFile(path)
		require.NoError(t, err)

		assert.True(t, cfg.Output.Pretty)
		assert.Equal(t, 1000, cfg.Output.BatchSize)
		assert.Equal(t, 7000, cfg.API.Port)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, 3, cfg.TopN)

		assert.Equal(t, cleaner.CorrectionTable{{From: "Blvd", To: "Boulevard"}}, cfg.Cleaner.Corrections)
		assert.Equal(t, "not_in_Beijing", cfg.Cleaner.Region.FlagKey())
		assert.Equal(t, []string{"Beijing", "北京"}, cfg.Cleaner.Region.CityNames)
		assert.Equal(t, 8, cfg.Cleaner.PhoneDigits)

		def := cleaner.DefaultConfig()
		assert.Equal(t, def.ExpectedSuffixes, cfg.Cleaner.ExpectedSuffixes)
		assert.Equal(t, def.PostcodeDigits, cfg.Cleaner.PostcodeDigits)
		assert.Equal(t, def.PhoneKey, cfg.Cleaner.PhoneKey)
	})

	t.Run("mixed case correction keys survive", func(t *testing.T) {
		viper.Reset()
		path := writeConfig(t, `
cleaner:
  corrections:
    - from: St
      to: Street
    - from: st
      to: street
`)
		cfg, err := NewFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, cleaner.CorrectionTable{{From: "St", To: "Street"}, {From: "st", To: "street"}}, cfg.Cleaner.Corrections)
	})

	t.Run("invalid cleaner config", func(t *testing.T) {
		viper.Reset()
		path := writeConfig(t, "cleaner:\n  separator: \"::\"\n")
		_, err := NewFromFile(path)
		assert.ErrorIs(t, err, cleaner.ErrInvalidConfig)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		viper.Reset()
		_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("environment wins over defaults", func(t *testing.T) {
		viper.Reset()
		t.Setenv("API_PORT", "7070")
		t.Setenv("MONGO_COLLECTION", "beijing")
		path := writeConfig(t, "input:\n  decoder: osm\n")
		cfg, err := NewFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.API.Port)
		assert.Equal(t, "beijing", cfg.Mongo.Collection)
		assert.Equal(t, "osm", cfg.Input.Decoder)
	})
}

func TestNewWithoutConfigFile(t *testing.T) {
	viper.Reset()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, cleaner.DefaultConfig(), cfg.Cleaner)
	assert.Equal(t, "raw", cfg.Input.Decoder)
	assert.Equal(t, 6060, cfg.API.Port)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}

func TestMergeCleaner(t *testing.T) {
	def := cleaner.DefaultConfig()
	assert.Equal(t, def, MergeCleaner(def, cleaner.Config{}))

	merged := MergeCleaner(def, cleaner.Config{BookkeepingKeys: []string{}, NameKey: "name:zh"})
	assert.Equal(t, []string{}, merged.BookkeepingKeys)
	assert.Equal(t, "name:zh", merged.NameKey)
	assert.Equal(t, def.EnglishNameKey, merged.EnglishNameKey)
}
