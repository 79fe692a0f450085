package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sharetube/client/internal/domain"
	"github.com/sharetube/client/pkg/validator"
)

type AppConfig struct {
	ServerURL      string         `json:"server_url" validate:"required,url"`
	Room           string         `json:"room" validate:"required"`
	Name           string         `json:"name" validate:"required,max=32"`
	Avatar         domain.BadgeID `json:"avatar"`
	LogLevel       string         `json:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
	MPVSocket      string         `json:"mpv_socket" validate:"required"`
	MediaBaseURL   string         `json:"media_base_url" validate:"required,url"`
	StreamVariant  int            `json:"stream_variant" validate:"gte=0"`
	ReportInterval time.Duration  `json:"report_interval" validate:"gte=0"`
	HTTPAddr       string         `json:"http_addr" validate:"omitempty,hostname_port"`
	Console        bool           `json:"console"`
	ReconnectMin   time.Duration  `json:"reconnect_min" validate:"gt=0"`
	ReconnectMax   time.Duration  `json:"reconnect_max" validate:"gtefield=ReconnectMin"`
	ActivitySize   int            `json:"activity_size" validate:"min=1"`
}

func (cfg *AppConfig) Validate() error {
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)

	if err := validator.NewValidator().Check(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// RoomURL is the websocket endpoint of the configured room.
func (cfg *AppConfig) RoomURL() (string, error) {
	u, err := url.JoinPath(cfg.ServerURL, "websocket", cfg.Room)
	if err != nil {
		return "", fmt.Errorf("failed to build room url: %w", err)
	}

	return u, nil
}
