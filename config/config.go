package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// insecure fallback for local development only, never valid in production
const devSecretKey = "default_secret_key"

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
	Issuer         string        `mapstructure:"issuer"`
}

type GoogleOAuthConfig struct {
	ClientID      string `mapstructure:"clientID"`
	ClientSecret  string `mapstructure:"clientSecret"`
	CallbackURL   string `mapstructure:"callbackURL"`
	SessionSecret string `mapstructure:"sessionSecret"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT   JWTConfig `mapstructure:"jwt"`
	OAuth struct {
		Google GoogleOAuthConfig `mapstructure:"google"`
	} `mapstructure:"oauth"`
}

// InitConfig loads configuration from file (or the embedded fallback) with
// environment variable overrides, e.g. WEFIT_JWT_SECRETKEY.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("WEFIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if config.JWT.SecretKey == "" {
		config.JWT.SecretKey = devSecretKey
	}
	if config.JWT.AccessTokenTTL == 0 {
		config.JWT.AccessTokenTTL = time.Hour
	}

	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate rejects insecure fallbacks when running in production mode.
func (c *Config) Validate() error {
	if c.Mode != ModeProduction {
		return nil
	}
	if c.JWT.SecretKey == "" || c.JWT.SecretKey == devSecretKey {
		return fmt.Errorf("jwt.secretKey must be set explicitly in %s mode", ModeProduction)
	}
	if c.OAuth.Google.ClientID == "" || c.OAuth.Google.ClientSecret == "" {
		return fmt.Errorf("oauth.google credentials must be set in %s mode", ModeProduction)
	}
	return nil
}
