package gameserver

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains all configuration options for the game server.
// Everything secret or environment-specific is injected here; nothing
// is compiled in.
type Config struct {
	// Addr is the listen address for the HTTP API.
	Addr string `env:"GAME_SERVER_ADDR" envDefault:":4000"`

	// TokensSecret signs game credentials. Required; there is no
	// baked-in fallback on purpose.
	TokensSecret string `env:"GAME_SERVER_TOKENS_SECRET,required,notEmpty"`

	// DistanceThreshold is the anti-cheat bound in meters: a reported
	// displacement at or beyond it is flagged untrusted.
	DistanceThreshold float64 `env:"GAME_SERVER_DISTANCE_THRESHOLD" envDefault:"100"`

	// ClientsUpdateInterval is the broadcast tick period.
	ClientsUpdateInterval time.Duration `env:"GAME_SERVER_CLIENTS_UPDATE_INTERVAL" envDefault:"200ms"`

	// BgCharacterCount is how many background characters each game
	// seeds.
	BgCharacterCount int `env:"GAME_SERVER_BG_CHARACTER_COUNT" envDefault:"8"`

	// BgMovementInterval is the background character movement tick.
	BgMovementInterval time.Duration `env:"GAME_SERVER_BG_MOVEMENT_INTERVAL" envDefault:"500ms"`

	AllowedOrigins []string `env:"GAME_SERVER_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Redis RedisConfig `envPrefix:"GAME_SERVER_REDIS_"`
}

// RedisConfig contains the lifecycle event broker connection.
type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return config, nil
}
