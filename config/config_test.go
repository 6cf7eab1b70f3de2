package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(content), 0o600))

	return dir
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: from-file
  algorithm: HS256
  accessTokenExpireMinutes: 30
storage:
  driver: memory
`)
	t.Chdir(dir)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("JWT_ACCESSTOKENEXPIREMINUTES", "90")

	cfg, err := LoadWithEnv[Config]("test")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 90, cfg.JWT.AccessTokenExpireMinutes)
	assert.Equal(t, 90*time.Minute, cfg.JWT.AccessTokenTTL())
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "HS256", cfg.JWT.Algorithm)
	assert.Equal(t, 1440, cfg.JWT.AccessTokenExpireMinutes)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL())
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORS.AllowOrigins)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
}

func TestApplyDefaults_Mongo(t *testing.T) {
	cfg := &Config{Mongo: &MongoConfig{URI: "mongodb://localhost:27017"}}
	cfg.ApplyDefaults()

	assert.Equal(t, "cybersecurity_game", cfg.Mongo.Database)
	assert.Equal(t, "users", cfg.Mongo.Collection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.JWT.Secret = "s3cr3t"
		cfg.ApplyDefaults()

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = " " }, wantErr: "jwt.secret is required"},
		{name: "asymmetric algorithm", mutate: func(c *Config) { c.JWT.Algorithm = "RS256" }, wantErr: "not supported"},
		{name: "negative lifetime", mutate: func(c *Config) { c.JWT.AccessTokenExpireMinutes = -5 }, wantErr: "must be positive"},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 2 }, wantErr: "auth.bcryptCost"},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }, wantErr: "unknown storage.driver"},
		{name: "postgres without section", mutate: func(c *Config) { c.Storage.Driver = StorageDriverPostgres }, wantErr: "postgres section is missing"},
		{name: "mongo without uri", mutate: func(c *Config) { c.Storage.Driver = StorageDriverMongo }, wantErr: "mongo.uri is empty"},
		{name: "mongo with uri", mutate: func(c *Config) {
			c.Storage.Driver = StorageDriverMongo
			c.Mongo = &MongoConfig{URI: "mongodb://localhost:27017"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

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
