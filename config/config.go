// Package config provides Viper-based configuration for the discovery server and the deck client
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig is the configuration of the discovery API server
type ServerConfig struct {
	Port    int           `mapstructure:"port"`
	DevMode bool          `mapstructure:"dev_mode"`
	Store   string        `mapstructure:"store"`     // dynamodb or memory
	Seed    string        `mapstructure:"seed_file"` // JSON profiles loaded into the memory store
	AWS     AWSConfig     `mapstructure:"aws"`
	Auth    AuthConfig    `mapstructure:"auth"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AWSConfig holds region, table and bucket names
type AWSConfig struct {
	Region            string        `mapstructure:"region"`
	ProfilesTable     string        `mapstructure:"profiles_table"`
	InteractionsTable string        `mapstructure:"interactions_table"`
	MatchesTable      string        `mapstructure:"matches_table"`
	PreferencesTable  string        `mapstructure:"preferences_table"`
	PhotoBucket       string        `mapstructure:"photo_bucket"`
	PhotoURLTTL       time.Duration `mapstructure:"photo_url_ttl"`
}

// AuthConfig holds JWT settings
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// CORSConfig lists allowed origins
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConfig is the configuration of a discovery session
type ClientConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Token          string        `mapstructure:"token"`
	UserID         string        `mapstructure:"user_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Deck           DeckConfig    `mapstructure:"deck"`
	Swipe          SwipeConfig   `mapstructure:"swipe"`
	Poll           PollConfig    `mapstructure:"poll"`
	Logging        LoggingConfig `mapstructure:"logging"`
}

// DeckConfig sizes the local buffer and the pagination lookahead
type DeckConfig struct {
	PageSize  int `mapstructure:"page_size"`
	Cap       int `mapstructure:"cap"`
	Lookahead int `mapstructure:"lookahead"`
}

// SwipeConfig tunes the dispatcher
type SwipeConfig struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	Animation        time.Duration `mapstructure:"animation"`
	MatchNotifyDelay time.Duration `mapstructure:"match_notify_delay"`
}

// PollConfig describes the background refresh schedule. The interval grows
// with the number of candidates still buffered.
type PollConfig struct {
	ShortBelow     int           `mapstructure:"short_below"`
	MediumBelow    int           `mapstructure:"medium_below"`
	ShortInterval  time.Duration `mapstructure:"short_interval"`
	MediumInterval time.Duration `mapstructure:"medium_interval"`
	LongInterval   time.Duration `mapstructure:"long_interval"`
	MinGap         time.Duration `mapstructure:"min_gap"` // minimum spacing between fetches
	Burst          int           `mapstructure:"burst"`
}

// LoadServer reads server configuration from an optional file and VIBIN_* environment variables
func LoadServer(cfgFile string) (*ServerConfig, error) {
	v := newViper(cfgFile)
	setServerDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validateServer(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// LoadClient reads client configuration from an optional file and VIBIN_* environment variables
func LoadClient(cfgFile string) (*ClientConfig, error) {
	v := newViper(cfgFile)
	setClientDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validateClient(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func newViper(cfgFile string) *viper.Viper {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".vibin")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vibin")
	}

	v.SetEnvPrefix("VIBIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}
	return nil
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("dev_mode", false)
	v.SetDefault("store", "dynamodb")
	v.SetDefault("seed_file", "")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.profiles_table", "Profiles")
	v.SetDefault("aws.interactions_table", "Interactions")
	v.SetDefault("aws.matches_table", "Matches")
	v.SetDefault("aws.preferences_table", "Preferences")
	v.SetDefault("aws.photo_bucket", "")
	v.SetDefault("aws.photo_url_ttl", 15*time.Minute)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("token", "")
	v.SetDefault("user_id", "")
	v.SetDefault("request_timeout", 10*time.Second)

	v.SetDefault("deck.page_size", 20)
	v.SetDefault("deck.cap", 100)
	v.SetDefault("deck.lookahead", 3)

	v.SetDefault("swipe.timeout", 1500*time.Millisecond)
	v.SetDefault("swipe.animation", 250*time.Millisecond)
	v.SetDefault("swipe.match_notify_delay", 600*time.Millisecond)

	v.SetDefault("poll.short_below", 5)
	v.SetDefault("poll.medium_below", 20)
	v.SetDefault("poll.short_interval", 20*time.Second)
	v.SetDefault("poll.medium_interval", 45*time.Second)
	v.SetDefault("poll.long_interval", 90*time.Second)
	v.SetDefault("poll.min_gap", 2*time.Second)
	v.SetDefault("poll.burst", 2)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
}

func validateServer(cfg *ServerConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}
	switch cfg.Store {
	case "dynamodb", "memory":
	default:
		return fmt.Errorf("invalid store: %s (must be dynamodb or memory)", cfg.Store)
	}
	if cfg.Seed != "" && cfg.Store != "memory" {
		return fmt.Errorf("seed_file is only supported with the memory store")
	}
	if cfg.Auth.JWTSecret == "" {
		if !cfg.DevMode {
			return fmt.Errorf("auth.jwt_secret is required outside dev mode")
		}
		cfg.Auth.JWTSecret = "vibin-dev-secret"
	}
	return validateLogging(cfg.Logging)
}

func validateClient(cfg *ClientConfig) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if cfg.Deck.PageSize <= 0 {
		return fmt.Errorf("deck.page_size must be positive")
	}
	if cfg.Deck.Cap < cfg.Deck.PageSize {
		return fmt.Errorf("deck.cap (%d) must be at least deck.page_size (%d)", cfg.Deck.Cap, cfg.Deck.PageSize)
	}
	if cfg.Deck.Lookahead < 0 {
		return fmt.Errorf("deck.lookahead must not be negative")
	}
	if cfg.Swipe.Timeout <= 0 {
		return fmt.Errorf("swipe.timeout must be positive")
	}
	if cfg.Poll.ShortBelow > cfg.Poll.MediumBelow {
		return fmt.Errorf("poll.short_below must not exceed poll.medium_below")
	}
	return validateLogging(cfg.Logging)
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", l.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", l.Format)
	}
	return nil
}
