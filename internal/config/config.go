package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the bridge services.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	MongoURL           string
	MongoDatabase      string
	RedisURL           string
	NATSURL            string
	NATSSubject        string
	SubmissionCacheTTL time.Duration

	GithubUseAuth          bool
	GithubAppID            int64
	GithubInstallationID   int64
	GithubPrivateKeyBase64 string

	AdminPort       string
	AdminAPIBaseURL string
}

// HTTPAddress returns the address the API server should listen on.
func (c Config) HTTPAddress() string {
	return listenAddress(c.AppPort)
}

// AdminHTTPAddress returns the address the admin UI should listen on.
func (c Config) AdminHTTPAddress() string {
	return listenAddress(c.AdminPort)
}

func listenAddress(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// Load reads configuration values from environment variables and an optional
// .env file, and enforces the settings the API server needs.
func Load() (Config, error) {
	cfg, err := load()
	if err != nil {
		return Config{}, err
	}

	if cfg.MongoURL == "" {
		return Config{}, fmt.Errorf("mongo url must be provided")
	}

	if cfg.GithubUseAuth {
		if cfg.GithubAppID == 0 || cfg.GithubInstallationID == 0 || cfg.GithubPrivateKeyBase64 == "" {
			return Config{}, fmt.Errorf("github app credentials must be provided when github auth is enabled")
		}
	}

	return cfg, nil
}

// LoadAdmin reads configuration for the admin UI, which talks to the API over
// HTTP and needs no datastore settings.
func LoadAdmin() (Config, error) {
	return load()
}

func load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BRIDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Moodle CS50 Bridge")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("mongo.database", "bridge")
	v.SetDefault("nats.subject", "bridge.imports")
	v.SetDefault("submission.cache_ttl", "5m")
	v.SetDefault("admin.port", "8090")
	v.SetDefault("admin.api_base_url", "http://localhost:8080")

	ttlString := v.GetString("submission.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid submission cache ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		MongoURL:           v.GetString("mongo.url"),
		MongoDatabase:      v.GetString("mongo.database"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		NATSSubject:        v.GetString("nats.subject"),
		SubmissionCacheTTL: ttl,

		GithubUseAuth:          v.GetBool("github.use_auth"),
		GithubAppID:            v.GetInt64("github.app_id"),
		GithubInstallationID:   v.GetInt64("github.installation_id"),
		GithubPrivateKeyBase64: v.GetString("github.private_key_base64"),

		AdminPort:       v.GetString("admin.port"),
		AdminAPIBaseURL: v.GetString("admin.api_base_url"),
	}

	return cfg, nil
}
