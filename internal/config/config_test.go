package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestFromViper_RequiresJWTSecret(t *testing.T) {
	t.Setenv("SUBLEASE_JWT_SECRET", "")

	_, err := fromViper(viper.New())
	require.Error(t, err)
	require.Contains(t, err.Error(), "jwt.secret is required")
}

func TestFromViper_Defaults(t *testing.T) {
	t.Setenv("SUBLEASE_JWT_SECRET", "test-secret")

	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.App.Port)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	require.Equal(t, int64(5<<20), cfg.Upload.MaxPropertyImageBytes)
	require.Equal(t, 10, cfg.Upload.MaxPropertyImages)
	require.Equal(t, int64(2<<20), cfg.Upload.MaxProfileImageBytes)
	require.Equal(t, "local", cfg.Storage.Driver)
}

func TestFromViper_EnvOverrides(t *testing.T) {
	t.Setenv("SUBLEASE_JWT_SECRET", "test-secret")
	t.Setenv("SUBLEASE_DATABASE_DRIVER", "sqlite")
	t.Setenv("SUBLEASE_APP_PORT", "9090")

	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "9090", cfg.App.Port)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{JWT: JWTConfig{Secret: "secret"}}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid_defaults", mutate: func(c *Config) {}},
		{name: "unknown_driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "database.driver"},
		{name: "s3_without_bucket", mutate: func(c *Config) { c.Storage.Driver = "s3" }, wantErr: "storage.bucket"},
		{name: "idle_exceeds_open", mutate: func(c *Config) { c.Database.MaxIdleConns = 100 }, wantErr: "max_idle_conns"},
		{
			name: "short_secret_in_production",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.Database.SSLMode = "require"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "wildcard_cors_in_production",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.Database.SSLMode = "require"
				c.JWT.Secret = "0123456789abcdef0123456789abcdef"
				c.HTTP.CORSAllowOrigins = []string{"*"}
			},
			wantErr: "cors_allow_origins",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "sublease", SSLMode: "disable"}
	require.Equal(t, "postgres://app:p%40ss@db:5432/sublease?sslmode=disable", d.DSN())
}
