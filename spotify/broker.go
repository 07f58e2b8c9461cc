package spotify

import (
	"context"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"trackcast/errs"
)

// expiryBuffer is how long before actual expiry we treat a token as stale.
const expiryBuffer = 300 * time.Second

type exchangeFunc func(ctx context.Context) (*oauth2.Token, error)

// TokenBroker exchanges a long-lived refresh token for short-lived access
// tokens and caches the result. It implements oauth2.TokenSource so it can
// back an oauth2 HTTP client directly: fresh tokens are served from the
// cache without touching the network, stale ones trigger a renewal exchange.
type TokenBroker struct {
	mu       sync.Mutex
	exchange exchangeFunc
	token    *oauth2.Token
	now      func() time.Time
}

// NewTokenBroker builds a broker that renews against the Spotify accounts
// service using the standard refresh-token grant.
func NewTokenBroker(clientID, clientSecret, refreshToken string, timeout time.Duration) *TokenBroker {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: spotifyauth.TokenURL},
	}
	return &TokenBroker{
		exchange: func(ctx context.Context) (*oauth2.Token, error) {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})
			// Seed token is pre-expired so the source always performs
			// a real exchange instead of handing the seed back.
			seed := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Unix(1, 0)}
			return conf.TokenSource(ctx, seed).Token()
		},
		now: time.Now,
	}
}

// Token returns a valid access token, renewing first if the cached one is
// absent or expires within the safety buffer. A failed renewal never
// replaces the cached state.
func (b *TokenBroker) Token() (*oauth2.Token, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fresh() {
		return b.token, nil
	}

	tok, err := b.exchange(context.Background())
	if err != nil {
		return nil, errs.New(errs.KindAuth, err)
	}
	if tok.AccessToken == "" {
		return nil, errs.Newf(errs.KindAuth, "token exchange returned an empty access token")
	}

	b.token = tok
	log.Debugf("Refreshed access token, expires %s", tok.Expiry.Format(time.RFC3339))
	return tok, nil
}

// fresh must be called with the mutex held.
func (b *TokenBroker) fresh() bool {
	return b.token != nil && b.token.Expiry.After(b.now().Add(expiryBuffer))
}
