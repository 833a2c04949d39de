package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@x.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, "public/SavedSignatures", cfg.SignaturesDir)
	assert.Equal(t, "public/employees.json", cfg.EmployeesFile)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.True(t, cfg.Mail.VerifyCertificates)
	assert.Equal(t, 30*time.Second, cfg.Mail.Timeout)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@x.com")
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", " SQLite ")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TLS_REJECT_UNAUTHORIZED", "false")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.False(t, cfg.Mail.VerifyCertificates)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	base := Config{Port: 3001, StoreDriver: DriverFile, AdminEmail: "admin@x.com", SaveRateLimit: 10}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing admin", func(c *Config) { c.AdminEmail = " " }, "ADMIN_EMAIL"},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }, "unknown STORE_DRIVER"},
		{"postgres without dsn", func(c *Config) { c.StoreDriver = DriverPostgres }, "DATABASE_URL"},
		{"postgres with dsn", func(c *Config) {
			c.StoreDriver = DriverPostgres
			c.DatabaseURL = "postgres://localhost/db"
		}, ""},
		{"bad port", func(c *Config) { c.Port = 0 }, "PORT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
