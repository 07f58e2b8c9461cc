package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"trackcast/artwork"
	appConfig "trackcast/config"
	"trackcast/controller"
	"trackcast/discord"
	"trackcast/lastfm"
	"trackcast/poller"
	"trackcast/sentry"
	"trackcast/spotify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warnf("Error loading .env file: %v", err)
	}

	cfg, err := appConfig.Load()
	if err != nil {
		log.Errorf("Invalid configuration: %v", err)
		log.Error("Please check your .env file")
		os.Exit(1)
	}

	setupLogging(cfg.Options.LogLevel)
	sentry.Init(cfg.Options.SentryDSN)
	defer sentry.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		sentry.ReportError(err)
		log.Errorf("Exiting: %v", err)
		sentry.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *appConfig.Config) error {
	log.Info("Starting Spotify → Discord webhook")
	log.Infof("Polling interval: %s", cfg.Options.PollingInterval)
	log.Debugf("Loaded config: %s", cfg)

	broker := spotify.NewTokenBroker(
		cfg.Spotify.ClientID,
		cfg.Spotify.ClientSecret,
		cfg.Spotify.RefreshToken,
		cfg.Options.HTTPTimeout,
	)
	playback := spotify.NewClient(ctx, broker, cfg.Options.HTTPTimeout)
	scrobbles := lastfm.NewClient(cfg.LastFM.APIKey, cfg.LastFM.Username, cfg.Options.HTTPTimeout)
	colors := artwork.NewExtractor(cfg.Options.HTTPTimeout)
	sink := discord.NewWebhook(cfg.Discord.WebhookURL, cfg.Options.HTTPTimeout)

	watch := poller.New(playback, scrobbles, colors, sink, cfg.LastFM.Username)
	loop := controller.New(watch.Poll, cfg.Options.PollingInterval)

	return loop.Run(ctx)
}

func setupLogging(level string) {
	log.SetFormatter(&nested.Formatter{
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        true,
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
