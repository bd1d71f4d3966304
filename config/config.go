package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Mode   string `mapstructure:"mode"`
	Dotenv string `mapstructure:"dotenv"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout    time.Duration `mapstructure:"readTimeout"`
		WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
		IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	Repositories struct {
		Driver   string `mapstructure:"driver"`
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT       JWTConfig `mapstructure:"jwt"`
	RateLimit struct {
		AuthRequestsPerMinute int `mapstructure:"authRequestsPerMinute"`
	} `mapstructure:"rateLimit"`
	Observability struct {
		ServiceName  string `mapstructure:"serviceName"`
		OTLPEndpoint string `mapstructure:"otlpEndpoint"`
	} `mapstructure:"observability"`
}

// JWTConfig holds the session token settings.
type JWTConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// JWT_SECRETKEY, REPOSITORIES_POSTGRES_HOST, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secretKey must be set")
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("jwt.tokenTTL must be positive")
	}
	switch c.Repositories.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown repositories.driver %q", c.Repositories.Driver)
	}
	return nil
}
