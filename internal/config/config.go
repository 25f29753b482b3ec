package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port          string   `mapstructure:"PORT"`
	Env           string   `mapstructure:"ENV"`
	DatabaseURL   string   `mapstructure:"DATABASE_URL"`
	DBMaxConns    int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns    int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer    string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL   string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience  string   `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey string   `mapstructure:"JWT_SIGNING_KEY"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`

	// Daily ward rates in paise. The defaults match the hospital's
	// published tariff (Rs 750 AC, Rs 500 non-AC).
	BedRateAC    int64 `mapstructure:"BED_RATE_AC"`
	BedRateNonAC int64 `mapstructure:"BED_RATE_NON_AC"`
	DietRate     int64 `mapstructure:"DIET_RATE"`
	DoctorRate   int64 `mapstructure:"DOCTOR_RATE"`
	NursingRate  int64 `mapstructure:"NURSING_RATE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BED_RATE_AC", 75000)
	v.SetDefault("BED_RATE_NON_AC", 50000)
	v.SetDefault("DIET_RATE", 0)
	v.SetDefault("DOCTOR_RATE", 0)
	v.SetDefault("NURSING_RATE", 0)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("BED_RATE_AC")
	v.BindEnv("BED_RATE_NON_AC")
	v.BindEnv("DIET_RATE")
	v.BindEnv("DOCTOR_RATE")
	v.BindEnv("NURSING_RATE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active, all requests get admin access.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// either AUTH_ISSUER (JWKS validation) or JWT_SIGNING_KEY must be set so that
// real JWT authentication is enforced.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" && c.JWTSigningKey == "" {
		return fmt.Errorf(
			"AUTH_ISSUER or JWT_SIGNING_KEY must be set when ENV=%q; refusing to start without authentication", c.Env)
	}
	if c.BedRateAC < 0 || c.BedRateNonAC < 0 {
		return fmt.Errorf("bed rates must not be negative")
	}
	if c.DietRate < 0 || c.DoctorRate < 0 || c.NursingRate < 0 {
		return fmt.Errorf("per-day service rates must not be negative")
	}
	return nil
}
