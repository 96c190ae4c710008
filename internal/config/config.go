package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Identity IdentityConfig `mapstructure:"identity" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// Connection pool settings. Zero values fall back to the defaults set
	// during Load.
	MaxOpenConns    int `mapstructure:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifeMins int `mapstructure:"conn_max_life_mins" validate:"gte=0"`
}

// IdentityConfig selects and configures the token verification provider.
//
// Mode "remote" verifies tokens against the identity provider's HTTP
// endpoint; mode "hmac" verifies locally signed HS256 tokens and exists for
// development and testing.
type IdentityConfig struct {
	Mode string `mapstructure:"mode" validate:"required,oneof=remote hmac"`

	// Remote mode settings.
	VerifyURL      string `mapstructure:"verify_url"      validate:"required_if=Mode remote,omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`

	// HMAC mode settings.
	HMACSecret string `mapstructure:"hmac_secret" validate:"required_if=Mode hmac,omitempty,min=32"`
	Issuer     string `mapstructure:"issuer"`

	// Audience is checked in both modes when set.
	Audience string `mapstructure:"audience"`
}
