// Package config provides type-safe environment variable loading with
// per-type caching. A .env file is loaded automatically on first use and the
// caarlos0/env library parses environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/kawacukennedy/AgriCredit-Africa-sub000/core/config"
//
//	type engineConfig struct {
//		SessionTimeout time.Duration `env:"USSD_SESSION_TIMEOUT" envDefault:"180s"`
//		MaxPerPhone    int           `env:"USSD_MAX_SESSIONS_PER_PHONE" envDefault:"3"`
//	}
//
//	var cfg engineConfig
//	config.MustLoad(&cfg)
//
// Each configuration type is loaded once per process; later Load calls for
// the same type return the cached value.
package config
