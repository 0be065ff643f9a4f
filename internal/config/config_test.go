package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Ahorros", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "MXN", cfg.App.Currency)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "ahorros_app_v1", cfg.Store.Key)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)

	_, ok := cfg.ImportDelimiter()
	assert.False(t, ok, "delimiter is detected by default")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "postgres://postgres:secret@db:5432/ahorros?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ImportDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    rune
		wantErr bool
	}{
		{name: "Semicolon", value: ";", want: ';'},
		{name: "Pipe", value: "|", want: '|'},
		{name: "Tab", value: "tab", want: '\t'},
		{name: "Unsupported", value: "::", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("IMPORT_DELIMITER", tt.value)

			cfg, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			got, ok := cfg.ImportDelimiter()
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
