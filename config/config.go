package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPath                     = "."
	defaultMaxRequestBodySize       = "100KB"
	defaultJWTAlgorithm             = "HS256"
	defaultAccessTokenExpireMinutes = 1440
	defaultMongoDatabase            = "cybersecurity_game"
	defaultMongoCollection          = "users"
	defaultMongoConnectTimeout      = 10 * time.Second
)

// Storage drivers selectable through storage.driver.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverMongo    = "mongo"
)

// SupportedJWTAlgorithms lists the HMAC algorithms accepted for jwt.algorithm.
var SupportedJWTAlgorithms = []string{"HS256", "HS384", "HS512"}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP HTTPConfig `json:"http" yaml:"http"`

	JWT JWTConfig `json:"jwt" yaml:"jwt"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Storage StorageConfig `json:"storage" yaml:"storage"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Mongo *MongoConfig `json:"mongo" yaml:"mongo"`
}

// HTTPConfig defines the HTTP listener settings.
type HTTPConfig struct {
	Port               int    `json:"port" yaml:"port"`
	MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
	Timeouts           struct {
		ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
		ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
		WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
		IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
	} `json:"timeouts" yaml:"timeouts"`
	CORS struct {
		AllowOrigins []string `json:"allowOrigins" yaml:"allowOrigins"`
	} `json:"cors" yaml:"cors"`
}

// JWTConfig defines how bearer tokens are signed.
// Secret has no default: the service refuses to start without it.
type JWTConfig struct {
	Secret                   string `json:"secret" yaml:"secret"`
	Algorithm                string `json:"algorithm" yaml:"algorithm"`
	AccessTokenExpireMinutes int    `json:"accessTokenExpireMinutes" yaml:"accessTokenExpireMinutes"`
}

// AccessTokenTTL returns the token lifetime as a duration.
func (c JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
}

// StorageConfig selects the user store backend.
type StorageConfig struct {
	Driver      string `json:"driver" yaml:"driver"`
	AutoMigrate bool   `json:"autoMigrate" yaml:"autoMigrate"`
}

// MongoConfig defines the MongoDB connection used by the mongo storage driver.
type MongoConfig struct {
	URI            string        `json:"uri" yaml:"uri"`
	Database       string        `json:"database" yaml:"database"`
	Collection     string        `json:"collection" yaml:"collection"`
	ConnectTimeout time.Duration `json:"connectTimeout" yaml:"connectTimeout"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Environment variables override the file. JWT_SECRET -> jwt.secret, MONGO_URI -> mongo.uri.
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if cfg.Postgres != nil {
		// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills every optional setting left empty by the file and environment.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if len(c.HTTP.CORS.AllowOrigins) == 0 {
		c.HTTP.CORS.AllowOrigins = []string{"*"}
	}

	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = defaultJWTAlgorithm
	}
	c.JWT.Algorithm = strings.ToUpper(c.JWT.Algorithm)
	if c.JWT.AccessTokenExpireMinutes == 0 {
		c.JWT.AccessTokenExpireMinutes = defaultAccessTokenExpireMinutes
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = bcrypt.DefaultCost
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverMemory
	}
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)

	if c.Mongo != nil {
		if c.Mongo.Database == "" {
			c.Mongo.Database = defaultMongoDatabase
		}
		if c.Mongo.Collection == "" {
			c.Mongo.Collection = defaultMongoCollection
		}
		if c.Mongo.ConnectTimeout == 0 {
			c.Mongo.ConnectTimeout = defaultMongoConnectTimeout
		}
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt.secret is required (set JWT_SECRET)")
	}
	if !slices.Contains(SupportedJWTAlgorithms, c.JWT.Algorithm) {
		return errors.Errorf("jwt.algorithm %q is not supported, use one of %v", c.JWT.Algorithm, SupportedJWTAlgorithms)
	}
	if c.JWT.AccessTokenExpireMinutes < 0 {
		return errors.Errorf("jwt.accessTokenExpireMinutes must be positive, got %d", c.JWT.AccessTokenExpireMinutes)
	}
	if c.Auth != nil && (c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost) {
		return errors.Errorf("auth.bcryptCost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.Postgres == nil {
			return errors.New("storage.driver is postgres but the postgres section is missing")
		}
	case StorageDriverMongo:
		if c.Mongo == nil || c.Mongo.URI == "" {
			return errors.New("storage.driver is mongo but mongo.uri is empty")
		}
	default:
		return errors.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		})
	}

	return replicas
}
