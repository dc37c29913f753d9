package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache holds one parsed value per configuration type.
	cache   sync.Map
	envOnce sync.Once
)

// Load parses environment variables into the given configuration struct.
// Each configuration type is parsed only once per process; subsequent calls
// for the same type return the cached value. A .env file in the working
// directory is loaded on first use if present.
func Load(cfg any) error {
	envOnce.Do(func() {
		// Missing .env is the normal case in production.
		_ = godotenv.Load()
	})

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("config: target must be a non-nil pointer, got %T", cfg)
	}

	typ := v.Elem().Type()
	if cached, ok := cache.Load(typ); ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", typ, err)
	}

	cache.Store(typ, v.Elem().Interface())
	return nil
}

// MustLoad is Load that panics on failure. Intended for application startup
// where a missing required variable should abort the process.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
