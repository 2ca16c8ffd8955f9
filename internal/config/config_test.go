package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "REDIS_HOST", "JWT_TTL", "CORS_ORIGINS", "EVENT_BUFFER"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 1024, cfg.EventBuffer)
	assert.Empty(t, cfg.RedisAddr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("EVENT_BUFFER", "-3")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.DSN())
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 1024, cfg.EventBuffer)
}

func TestDSNFromMySQLParts(t *testing.T) {
	cfg := &Config{MySQLUser: "shop", MySQLPassword: "pw", MySQLHost: "db", MySQLPort: "3306", MySQLDatabase: "store"}

	assert.Equal(t, "shop:pw@tcp(db:3306)/store?charset=utf8mb4&parseTime=True&loc=Local", cfg.DSN())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok mysql", Config{JWTSecret: "s", DBDriver: "mysql"}, false},
		{"ok postgres", Config{JWTSecret: "s", DBDriver: "postgres", DatabaseURL: "postgres://x"}, false},
		{"missing secret", Config{DBDriver: "mysql"}, true},
		{"unknown driver", Config{JWTSecret: "s", DBDriver: "oracle"}, true},
		{"postgres without url", Config{JWTSecret: "s", DBDriver: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
