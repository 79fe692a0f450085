package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/client/internal/app"
	"github.com/sharetube/client/internal/domain"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	configFile = configVar[string]{
		envKey:  "WATCH_CONFIG",
		flagKey: "config",
		usage:   "Config file (yaml, toml or json); log-level changes in it apply without restart",
	}
	serverURL = configVar[string]{
		envKey:       "WATCH_SERVER_URL",
		flagKey:      "server-url",
		defaultValue: "ws://localhost:8080",
		usage:        "Watch party server websocket base url",
	}
	roomName = configVar[string]{
		envKey:  "WATCH_ROOM",
		flagKey: "room",
		usage:   "Room to join",
	}
	name = configVar[string]{
		envKey:  "WATCH_NAME",
		flagKey: "name",
		usage:   "Name shown to other participants",
	}
	avatar = configVar[uint32]{
		envKey:       "WATCH_AVATAR",
		flagKey:      "avatar",
		defaultValue: uint32(domain.BadgeUserGreen),
		usage:        "Avatar badge id",
	}
	logLevel = configVar[string]{
		envKey:       "WATCH_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	mpvSocket = configVar[string]{
		envKey:       "WATCH_MPV_SOCKET",
		flagKey:      "mpv-socket",
		defaultValue: "/tmp/mpv.sock",
		usage:        "mpv --input-ipc-server socket path",
	}
	mediaBaseURL = configVar[string]{
		envKey:       "WATCH_MEDIA_BASE_URL",
		flagKey:      "media-base-url",
		defaultValue: "http://localhost:8080",
		usage:        "Base url the stream playlists are served from",
	}
	streamVariant = configVar[int]{
		envKey:  "WATCH_STREAM_VARIANT",
		flagKey: "stream-variant",
		usage:   "Index of the stream variant to play",
	}
	reportInterval = configVar[time.Duration]{
		envKey:  "WATCH_REPORT_INTERVAL",
		flagKey: "report-interval",
		usage:   "Send own state this often on top of server pings, 0 to disable",
	}
	httpAddr = configVar[string]{
		envKey:       "WATCH_HTTP_ADDR",
		flagKey:      "http-addr",
		defaultValue: "127.0.0.1:7777",
		usage:        "Local control api address, empty to disable",
	}
	console = configVar[bool]{
		envKey:       "WATCH_CONSOLE",
		flagKey:      "console",
		defaultValue: true,
		usage:        "Read commands from the terminal",
	}
	reconnectMin = configVar[time.Duration]{
		envKey:       "WATCH_RECONNECT_MIN",
		flagKey:      "reconnect-min",
		defaultValue: time.Second,
		usage:        "First reconnect delay",
	}
	reconnectMax = configVar[time.Duration]{
		envKey:       "WATCH_RECONNECT_MAX",
		flagKey:      "reconnect-max",
		defaultValue: 30 * time.Second,
		usage:        "Largest reconnect delay",
	}
	activitySize = configVar[int]{
		envKey:       "WATCH_ACTIVITY_SIZE",
		flagKey:      "activity-size",
		defaultValue: 200,
		usage:        "Number of activity lines kept",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.String(configFile.flagKey, configFile.defaultValue, configFile.usage)
	pflag.String(serverURL.flagKey, serverURL.defaultValue, serverURL.usage)
	pflag.String(roomName.flagKey, roomName.defaultValue, roomName.usage)
	pflag.String(name.flagKey, name.defaultValue, name.usage)
	pflag.Uint32(avatar.flagKey, avatar.defaultValue, avatar.usage)
	pflag.String(logLevel.flagKey, logLevel.defaultValue, logLevel.usage)
	pflag.String(mpvSocket.flagKey, mpvSocket.defaultValue, mpvSocket.usage)
	pflag.String(mediaBaseURL.flagKey, mediaBaseURL.defaultValue, mediaBaseURL.usage)
	pflag.Int(streamVariant.flagKey, streamVariant.defaultValue, streamVariant.usage)
	pflag.Duration(reportInterval.flagKey, reportInterval.defaultValue, reportInterval.usage)
	pflag.String(httpAddr.flagKey, httpAddr.defaultValue, httpAddr.usage)
	pflag.Bool(console.flagKey, console.defaultValue, console.usage)
	pflag.Duration(reconnectMin.flagKey, reconnectMin.defaultValue, reconnectMin.usage)
	pflag.Duration(reconnectMax.flagKey, reconnectMax.defaultValue, reconnectMax.usage)
	pflag.Int(activitySize.flagKey, activitySize.defaultValue, activitySize.usage)
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(configFile)
	bind(serverURL)
	bind(roomName)
	bind(name)
	bind(avatar)
	bind(logLevel)
	bind(mpvSocket)
	bind(mediaBaseURL)
	bind(streamVariant)
	bind(reportInterval)
	bind(httpAddr)
	bind(console)
	bind(reconnectMin)
	bind(reconnectMax)
	bind(activitySize)

	if path := viper.GetString(configFile.flagKey); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("failed to read config file: %v", err)
		}

		viper.OnConfigChange(func(e fsnotify.Event) {
			if err := app.SetLogLevel(viper.GetString(logLevel.flagKey)); err != nil {
				log.Printf("ignoring config change in %s: %v", e.Name, err)
			}
		})
		viper.WatchConfig()
	}

	return &app.AppConfig{
		ServerURL:      viper.GetString(serverURL.flagKey),
		Room:           viper.GetString(roomName.flagKey),
		Name:           viper.GetString(name.flagKey),
		Avatar:         domain.BadgeID(viper.GetUint32(avatar.flagKey)),
		LogLevel:       viper.GetString(logLevel.flagKey),
		MPVSocket:      viper.GetString(mpvSocket.flagKey),
		MediaBaseURL:   viper.GetString(mediaBaseURL.flagKey),
		StreamVariant:  viper.GetInt(streamVariant.flagKey),
		ReportInterval: viper.GetDuration(reportInterval.flagKey),
		HTTPAddr:       viper.GetString(httpAddr.flagKey),
		Console:        viper.GetBool(console.flagKey),
		ReconnectMin:   viper.GetDuration(reconnectMin.flagKey),
		ReconnectMax:   viper.GetDuration(reconnectMax.flagKey),
		ActivitySize:   viper.GetInt(activitySize.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting client with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
