package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AUTH_GUARD", "")
	t.Setenv("AUDIT_UNKNOWN_SUBJECT", "")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "api", cfg.AuthGuard)
	assert.False(t, cfg.AuditUnknownSubject)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUDIT_UNKNOWN_SUBJECT", "true")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.AuditUnknownSubject)
}

func TestGetBoolIgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, getBool("SOME_FLAG", true))
}
