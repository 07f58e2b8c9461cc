// Package poller implements the poll cycle: query what is playing, detect
// a track change against the last notified identity, and on change enrich
// and deliver a notification before advancing that identity.
package poller

import (
	"context"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"trackcast/discord"
	"trackcast/errs"
	"trackcast/models"
	"trackcast/sentry"
)

// Outcome reports what a single poll cycle observed.
type Outcome int

const (
	// OutcomeNothingPlaying: the account is idle.
	OutcomeNothingPlaying Outcome = iota
	// OutcomeUnchanged: the playing track was already notified (or this
	// cycle was suppressed by a recoverable parse failure).
	OutcomeUnchanged
	// OutcomeNewTrack: a different track is playing and a notification
	// was attempted.
	OutcomeNewTrack
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNothingPlaying:
		return "nothing_playing"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeNewTrack:
		return "new_track"
	default:
		return "invalid"
	}
}

// PlaybackSource answers "what is playing now" and the account's identity.
type PlaybackSource interface {
	NowPlaying(ctx context.Context) (*models.TrackSnapshot, error)
	Profile(ctx context.Context) (*models.Profile, error)
}

// ScrobbleSource returns cumulative play-count display text. Best effort.
type ScrobbleSource interface {
	TotalScrobbles(ctx context.Context) string
}

// ColorSource returns the embed tint for an album art URL. Best effort.
type ColorSource interface {
	DominantColor(ctx context.Context, imageURL string) int
}

// Sink delivers the composed embed. True only on confirmed delivery.
type Sink interface {
	Deliver(ctx context.Context, embed *discordgo.MessageEmbed) bool
}

type Poller struct {
	playback   PlaybackSource
	scrobbles  ScrobbleSource
	colors     ColorSource
	sink       Sink
	lastfmUser string

	// lastNotifiedID is the dedupe state: the identity of the last track a
	// notification was confirmed delivered for. It only advances on
	// confirmed delivery, so a failed send is retried next cycle.
	lastNotifiedID string
	profile        *models.Profile
}

func New(playback PlaybackSource, scrobbles ScrobbleSource, colors ColorSource, sink Sink, lastfmUser string) *Poller {
	return &Poller{
		playback:   playback,
		scrobbles:  scrobbles,
		colors:     colors,
		sink:       sink,
		lastfmUser: lastfmUser,
	}
}

// Poll runs one cycle. Auth and upstream failures propagate to the caller
// for retry accounting; parse failures suppress this cycle's notification
// and report Unchanged.
func (p *Poller) Poll(ctx context.Context) (Outcome, error) {
	if err := p.ensureProfile(ctx); err != nil {
		return OutcomeUnchanged, err
	}

	snap, err := p.playback.NowPlaying(ctx)
	if err != nil {
		if errs.Is(err, errs.KindParse) {
			log.Warnf("Skipping cycle, malformed now-playing response: %v", err)
			return OutcomeUnchanged, nil
		}
		if errs.Is(err, errs.KindAuth) {
			// Force a profile refetch once credentials recover.
			p.profile = nil
		}
		return OutcomeUnchanged, err
	}

	if snap == nil {
		return OutcomeNothingPlaying, nil
	}
	if snap.ID == p.lastNotifiedID {
		return OutcomeUnchanged, nil
	}

	p.notify(ctx, snap)
	return OutcomeNewTrack, nil
}

func (p *Poller) ensureProfile(ctx context.Context) error {
	if p.profile != nil {
		return nil
	}
	profile, err := p.playback.Profile(ctx)
	if err != nil {
		return err
	}
	p.profile = profile
	log.Infof("Connected as: %s", profile.DisplayName)
	return nil
}

// notify enriches the snapshot and attempts delivery. The dedupe state
// advances only when the sink confirms the send.
func (p *Poller) notify(ctx context.Context, snap *models.TrackSnapshot) {
	card := &discord.NowPlayingCard{
		Track:      *snap,
		Profile:    *p.profile,
		LastFMUser: p.lastfmUser,
		Color:      p.colors.DominantColor(ctx, snap.AlbumArtURL),
		Scrobbles:  p.scrobbles.TotalScrobbles(ctx),
	}

	if !p.sink.Deliver(ctx, discord.BuildNowPlayingEmbed(card)) {
		err := deliveryFailure(snap)
		log.Errorf("%v, will retry next cycle", err)
		sentry.ReportError(err)
		return
	}

	p.lastNotifiedID = snap.ID
	log.Infof("Now playing: %s - %s", snap.ArtistName, snap.Title)
}

// deliveryFailure tags a failed webhook send so it can be logged and
// reported with its error kind intact.
func deliveryFailure(snap *models.TrackSnapshot) error {
	return errs.Newf(errs.KindDelivery, "webhook delivery failed for %s - %s",
		snap.ArtistName, snap.Title)
}
