package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"3001" validate:"min=1000,max=65535"`

	RoomGracePeriod time.Duration `env:"ROOM_GRACE_PERIOD" envDefault:"5m" validate:"gt=0"`
	MeetingIDLength int           `env:"MEETING_ID_LENGTH" envDefault:"8"  validate:"min=4,max=32"`

	WsReadLimit  int64 `env:"WS_READ_LIMIT"  envDefault:"65536" validate:"min=1024"`
	WsSendBuffer int   `env:"WS_SEND_BUFFER" envDefault:"256"   validate:"min=1"`

	StreamAPISecret string        `env:"STREAM_API_SECRET"`
	StreamTokenTTL  time.Duration `env:"STREAM_TOKEN_TTL" envDefault:"1h" validate:"gt=0"`

	RedisEventsEnabled bool   `env:"REDIS_EVENTS_ENABLED" envDefault:"false"`
	RedisHost          string `env:"REDIS_HOST"           envDefault:"localhost"`
	RedisPort          uint16 `env:"REDIS_PORT"           envDefault:"6379" validate:"min=1000,max=65535"`

	LogFormat string `env:"LOG_FORMAT" envDefault:"console" validate:"oneof=console json"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}
	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
