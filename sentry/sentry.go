package sentry

import (
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// Init configures the Sentry client. An empty DSN is valid and disables
// transport, so error reporting is safely optional.
func Init(dsn string) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn: dsn,
	}); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
}

func ReportError(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Flush drains buffered events before process exit.
func Flush() {
	sentry.Flush(2 * time.Second)
}
