// Package config loads process configuration by layering defaults, an
// optional YAML file, and FORGEPATH_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Mode string

const (
	ModeOffline Mode = "offline" // single-site deployment, dummy reviewer
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     string `koanf:"mode"`
	HTTPAddr string `koanf:"http_addr"`

	DBDriver string `koanf:"db_driver"` // sqlite|postgres
	DBDSN    string `koanf:"db_dsn"`

	BlobBasePath string `koanf:"blob_base_path"` // artifact attachments

	AuthSecret    string `koanf:"auth_secret"` // HMAC for local JWTs
	TokenTTLHours int    `koanf:"token_ttl_hours"`

	// How many recent precheck results per artifact feed the risk window.
	PrecheckWindow int `koanf:"precheck_window"`

	CORSOriginsOnline  []string `koanf:"cors_origins_online"`
	CORSOriginsOffline []string `koanf:"cors_origins_offline"`
}

func defaults() Config {
	return Config{
		Mode:               string(ModeOffline),
		HTTPAddr:           ":8080",
		DBDriver:           "sqlite",
		DBDSN:              "",
		BlobBasePath:       "./data",
		AuthSecret:         "supersecret-dev-key",
		TokenTTLHours:      8,
		PrecheckWindow:     5,
		CORSOriginsOnline:  []string{"https://app.forgepath.io"},
		CORSOriginsOffline: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Load builds a Config. Precedence (low -> high):
//  1. defaults
//  2. YAML file named by FORGEPATH_CONFIG, if set
//  3. env vars (FORGEPATH_HTTP_ADDR, FORGEPATH_DB_DRIVER, ...)
func Load() (Config, error) {
	cfg := defaults()

	k := koanf.New(".")
	if path := os.Getenv("FORGEPATH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}
	envProvider := env.Provider("FORGEPATH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "forgepath_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, err
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, err
	}

	if cfg.HTTPAddr == "" {
		return Config{}, errors.New("http_addr must not be empty")
	}
	if cfg.Mode != string(ModeOffline) && cfg.Mode != string(ModeOnline) {
		return Config{}, errors.New("mode must be offline or online")
	}
	if cfg.PrecheckWindow <= 0 {
		cfg.PrecheckWindow = 5
	}
	return cfg, nil
}

// CORSOrigins picks the allow-list for the active mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == string(ModeOnline) {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}
