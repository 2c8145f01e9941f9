package config

import (
	"github.com/dmitrijs2005/studentcrm/internal/flagx"
	"github.com/dmitrijs2005/studentcrm/internal/timex"
)

// fileConfig mirrors the config file schema. Pointer fields distinguish
// "absent" from zero values so a partial file only overrides what it names.
type fileConfig struct {
	HTTPAddr         *string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr         *string         `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN      *string         `json:"database_dsn" yaml:"database_dsn"`
	RedisURL         *string         `json:"redis_url" yaml:"redis_url"`
	SecretKey        *string         `json:"secret_key" yaml:"secret_key"`
	SessionTTL       *timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	RecoveryTTL      *timex.Duration `json:"recovery_ttl" yaml:"recovery_ttl"`
	CookieName       *string         `json:"cookie_name" yaml:"cookie_name"`
	CookieSecure     *bool           `json:"cookie_secure" yaml:"cookie_secure"`
	BcryptCost       *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	BootstrapCourses []string        `json:"bootstrap_courses" yaml:"bootstrap_courses"`
	LogLevel         *string         `json:"log_level" yaml:"log_level"`
	HealthInterval   *timex.Duration `json:"health_interval" yaml:"health_interval"`
}

// parseFile overlays values from the file named by -c/-config. Nothing is
// loaded when neither flag is present.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	fc := &fileConfig{}
	if err := flagx.DecodeConfigFile(path, fc); err != nil {
		return err
	}

	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.GRPCAddr, fc.GRPCAddr)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.RedisURL, fc.RedisURL)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.CookieName, fc.CookieName)
	setString(&cfg.LogLevel, fc.LogLevel)

	if fc.SessionTTL != nil {
		cfg.SessionTTL = fc.SessionTTL.Duration
	}
	if fc.RecoveryTTL != nil {
		cfg.RecoveryTTL = fc.RecoveryTTL.Duration
	}
	if fc.HealthInterval != nil {
		cfg.HealthInterval = fc.HealthInterval.Duration
	}
	if fc.CookieSecure != nil {
		cfg.CookieSecure = *fc.CookieSecure
	}
	if fc.BcryptCost != nil {
		cfg.BcryptCost = *fc.BcryptCost
	}
	if len(fc.BootstrapCourses) > 0 {
		cfg.BootstrapCourses = fc.BootstrapCourses
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
