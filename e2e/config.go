package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config drives the end to end suites against a live server.
type Config struct {
	ChatAddr      string        `envconfig:"E2E_CHAT_ADDR"` // the suites skip when empty
	CallTimeout   time.Duration `envconfig:"E2E_CALL_TIMEOUT" default:"30s"`
	StreamTimeout time.Duration `envconfig:"E2E_STREAM_TIMEOUT" default:"10s"`
	Password      string        `envconfig:"E2E_PASSWORD" default:"Str0ng!Passw0rd"`
	DebugJSON     bool          `envconfig:"E2E_DEBUG_JSON" default:"false"` // dump request/response bodies
	Colours       bool          `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
