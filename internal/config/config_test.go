package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/shelter-booking/internal/domain"
)

const testConfig = `
[server]
http_port = 9090

[database]
host = "db"
user = "app"
password = "from-file"
dbname = "shelter"

[scheduling]
timezone = "UTC"
min_booking_notice_minutes = 15

[[categories]]
id = "medical"
name = "Medical"
advance_booking_days = 7

[[fallback_services]]
id = 1
category_id = "medical"
shelter_id = 2
name = "Checkup"
duration_minutes = 30
capacity = 1

  [[fallback_services.schedule]]
  day_of_week = 1
  start_time = "09:00"
  end_time = "10:00"
  break_start = "09:30"
  break_end = "09:45"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout, "default kept")
	assert.Equal(t, "from-file", cfg.Database.Password)
	assert.Equal(t, 15, cfg.Scheduling.MinBookingNoticeMinutes)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)

	cats := cfg.DomainCategories()
	require.Len(t, cats, 1)
	assert.Equal(t, 7, cats[0].AdvanceBookingDays)

	services, err := cfg.DomainFallbackServices()
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, domain.OriginFallback, services[0].Origin)
	assert.True(t, services[0].Active)
	require.NotNil(t, services[0].Schedule[0].Break)
	assert.Equal(t, "09:30", services[0].Schedule[0].Break.Start.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHELTER_DATABASE_PASSWORD", "secret")
	t.Setenv("SHELTER_HTTP_PORT", "7070")

	cfg, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "db", cfg.Database.Host)
}

func TestLoad_Invalid(t *testing.T) {
	const db = `
[database]
host = "db"
user = "app"
dbname = "shelter"
`
	tests := []struct {
		name string
		body string
	}{
		{name: "missing database", body: "[server]\nhttp_port = 8080\n"},
		{name: "bad timezone", body: db + "[scheduling]\ntimezone = \"Mars/Olympus\"\n"},
		{name: "duplicate category", body: db + "[[categories]]\nid = \"a\"\n[[categories]]\nid = \"a\"\n"},
		{name: "zero retry attempts", body: db + "[retry]\nmax_attempts = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestDomainFallbackServices_Invalid(t *testing.T) {
	cfg := Default()
	cfg.FallbackServices = []FallbackServiceConfig{{ID: 1, DurationMinutes: 0, Capacity: 1}}

	_, err := cfg.DomainFallbackServices()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
