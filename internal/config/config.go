package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config interface {
	GetAppName() string
	GetDatabasePath() string
	GetSessionTokenSecret() string
	GetOIDCIssuer() string
	GetOIDCClientID() string
	GetOIDCClientSecret() string
	GetEnv() string
}

const (
	appNameVar  = "APP_NAME"
	dbPathVar   = "DATABASE_PATH"
	tokenSecret = "SESSION_TOKEN_SECRET"
)

type EnvVars struct{}

var _ Config = EnvVars{}

// New loads the .env file if one exists and returns the env-backed config.
func New() Config {
	_ = godotenv.Load()
	return EnvVars{}
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "NotAgain")
}

func (EnvVars) GetDatabasePath() string {
	return GetEnv(dbPathVar, "./notagain.db")
}

func (EnvVars) GetSessionTokenSecret() string {
	return GetEnv(tokenSecret, "dev-only-secret")
}

func (EnvVars) GetOIDCIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (EnvVars) GetOIDCClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (EnvVars) GetOIDCClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
