package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"trackcast/errs"
)

type Config struct {
	Discord Discord
	Spotify Spotify
	LastFM  LastFM
	Options Options
}

type Discord struct {
	WebhookURL string
}

type Spotify struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

type LastFM struct {
	APIKey   string
	Username string
}

type Options struct {
	PollingInterval time.Duration
	HTTPTimeout     time.Duration
	LogLevel        string
	SentryDSN       string
}

// required lists the environment variables that have no usable default.
var required = []string{
	"DISCORD_WEBHOOK_URL",
	"SPOTIFY_CLIENT_ID",
	"SPOTIFY_CLIENT_SECRET",
	"SPOTIFY_REFRESH_TOKEN",
	"LASTFM_API_KEY",
	"LASTFM_USERNAME",
}

// Load reads configuration from the environment. Every missing required
// variable is reported in a single error so the operator can fix them all
// at once.
func Load() (*Config, error) {
	var missing []string
	for _, name := range required {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errs.Newf(errs.KindConfig,
			"missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return &Config{
		Discord: Discord{
			WebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
		},
		Spotify: Spotify{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
			RefreshToken: os.Getenv("SPOTIFY_REFRESH_TOKEN"),
		},
		LastFM: LastFM{
			APIKey:   os.Getenv("LASTFM_API_KEY"),
			Username: os.Getenv("LASTFM_USERNAME"),
		},
		Options: Options{
			PollingInterval: getPollingInterval(),
			HTTPTimeout:     getHTTPTimeout(),
			LogLevel:        os.Getenv("LOG_LEVEL"),
			SentryDSN:       os.Getenv("SENTRY_DSN"),
		},
	}, nil
}

func getPollingInterval() time.Duration {
	return getSeconds("POLLING_INTERVAL", 15)
}

func getHTTPTimeout() time.Duration {
	return getSeconds("HTTP_TIMEOUT", 10)
}

func getSeconds(name string, def int) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return time.Duration(def) * time.Second
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Warnf("Ignoring invalid %s value %q, using default %ds", name, raw, def)
		return time.Duration(def) * time.Second
	}
	return time.Duration(secs) * time.Second
}

// String renders the config with secrets elided, for the startup log line.
func (c *Config) String() string {
	return fmt.Sprintf("poll=%s timeout=%s lastfm_user=%s",
		c.Options.PollingInterval, c.Options.HTTPTimeout, c.LastFM.Username)
}
