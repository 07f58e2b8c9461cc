package spotify

import (
	"context"
	"time"

	spotifyclient "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"trackcast/errs"
	"trackcast/models"
)

// Client wraps the Spotify Web API calls the poll loop needs: the
// currently-playing query and the profile lookup. Every request flows
// through the broker, so token renewal happens transparently and only
// when the cached token is stale.
type Client struct {
	api *spotifyclient.Client
}

func NewClient(ctx context.Context, broker *TokenBroker, timeout time.Duration) *Client {
	httpClient := oauth2.NewClient(ctx, broker)
	httpClient.Timeout = timeout
	return &Client{api: spotifyclient.New(httpClient)}
}

// NowPlaying returns the currently playing track, or nil when nothing is
// playing (the API answers 204 and the client surfaces an empty item).
func (c *Client) NowPlaying(ctx context.Context) (*models.TrackSnapshot, error) {
	playing, err := c.api.PlayerCurrentlyPlaying(ctx)
	if err != nil {
		return nil, classify(err)
	}
	if playing == nil || playing.Item == nil {
		return nil, nil
	}
	return snapshotFromTrack(playing.Item)
}

// Profile fetches the monitored account's display identity.
func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return nil, classify(err)
	}

	profile := &models.Profile{
		DisplayName: user.DisplayName,
		ProfileURL:  user.ExternalURLs["spotify"],
	}
	if profile.DisplayName == "" {
		profile.DisplayName = user.ID
	}
	if len(user.Images) > 0 {
		profile.AvatarURL = user.Images[0].URL
	}
	return profile, nil
}

func snapshotFromTrack(item *spotifyclient.FullTrack) (*models.TrackSnapshot, error) {
	snap := &models.TrackSnapshot{
		ID:        string(item.ID),
		Title:     item.Name,
		AlbumName: item.Album.Name,
		TrackURL:  item.ExternalURLs["spotify"],
	}
	if len(item.Artists) > 0 {
		snap.ArtistName = item.Artists[0].Name
	}
	if len(item.Album.Images) > 0 {
		snap.AlbumArtURL = item.Album.Images[0].URL
	}

	if snap.ID == "" || snap.Title == "" || snap.ArtistName == "" {
		return nil, errs.Newf(errs.KindParse,
			"now-playing item missing required fields (id=%q title=%q artist=%q)",
			snap.ID, snap.Title, snap.ArtistName)
	}
	return snap, nil
}

// classify tags transport and HTTP failures as upstream errors. Errors that
// already carry a kind (a broker auth failure travels up through the oauth2
// transport wrapped in a *url.Error) keep it.
func classify(err error) error {
	if errs.KindOf(err) != errs.KindUnknown {
		return err
	}
	return errs.New(errs.KindUpstream, err)
}
