package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL,default=1m"`
	PushTimeout          time.Duration `env:"PUSH_TIMEOUT,default=2s"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`

	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	UploadDir      string `env:"UPLOAD_DIR,default=uploads"`
	UploadBaseURL  string `env:"UPLOAD_BASE_URL,default=http://localhost:8081/files"`
	MaxUploadBytes int    `env:"MAX_UPLOAD_BYTES,default=10485760"`

	CensoredDir     string `env:"CENSORED_DIR"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`

	AssistantAddr        string        `env:"ASSISTANT_ADDR"`
	AssistantContextSize int           `env:"ASSISTANT_CONTEXT_SIZE,default=20"`
	AssistantTimeout     time.Duration `env:"ASSISTANT_TIMEOUT,default=15s"`

	DebugPort      int           `env:"DEBUG_PORT"`
	MetricInterval time.Duration `env:"METRIC_INTERVAL,default=10s"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
