package config

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"trackcast/errs"
)

func setAllRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("SPOTIFY_REFRESH_TOKEN", "refresh")
	t.Setenv("LASTFM_API_KEY", "key")
	t.Setenv("LASTFM_USERNAME", "listener")
}

func TestLoadValid(t *testing.T) {
	setAllRequired(t)
	t.Setenv("POLLING_INTERVAL", "")
	t.Setenv("HTTP_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LastFM.Username != "listener" {
		t.Errorf("LastFM.Username = %q; want %q", cfg.LastFM.Username, "listener")
	}
	if cfg.Options.PollingInterval != 15*time.Second {
		t.Errorf("PollingInterval = %s; want 15s", cfg.Options.PollingInterval)
	}
	if cfg.Options.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %s; want 10s", cfg.Options.HTTPTimeout)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setAllRequired(t)
	t.Setenv("SPOTIFY_REFRESH_TOKEN", "")
	t.Setenv("LASTFM_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil; want config error")
	}
	if !errs.Is(err, errs.KindConfig) {
		t.Errorf("KindOf(err) = %s; want config", errs.KindOf(err))
	}
	for _, name := range []string{"SPOTIFY_REFRESH_TOKEN", "LASTFM_API_KEY"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestGetSecondsWarnsOnInvalidValue(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	t.Setenv("POLLING_INTERVAL", "abc")
	if got := getSeconds("POLLING_INTERVAL", 15); got != 15*time.Second {
		t.Errorf("getSeconds() = %s; want 15s", got)
	}
	for _, want := range []string{"POLLING_INTERVAL", "abc"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("warning log %q does not mention %q", buf.String(), want)
		}
	}
}

func TestGetSeconds(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want time.Duration
	}{
		{"empty", "", 15 * time.Second},
		{"invalid", "abc", 15 * time.Second},
		{"zero", "0", 15 * time.Second},
		{"negative", "-5", 15 * time.Second},
		{"valid_small", "1", 1 * time.Second},
		{"valid_default", "15", 15 * time.Second},
		{"valid_large", "60", 60 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POLLING_INTERVAL", tt.env)
			if got := getSeconds("POLLING_INTERVAL", 15); got != tt.want {
				t.Errorf("getSeconds() = %s; want %s", got, tt.want)
			}
		})
	}
}
