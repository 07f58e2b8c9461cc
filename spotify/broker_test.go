package spotify

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"trackcast/errs"
)

func testBroker(exchange exchangeFunc, now time.Time) *TokenBroker {
	return &TokenBroker{
		exchange: exchange,
		now:      func() time.Time { return now },
	}
}

func TestTokenRenewsWhenEmpty(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	b := testBroker(func(ctx context.Context) (*oauth2.Token, error) {
		calls++
		return &oauth2.Token{AccessToken: "tok-1", Expiry: now.Add(time.Hour)}, nil
	}, now)

	tok, err := b.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "tok-1" {
		t.Errorf("AccessToken = %q; want %q", tok.AccessToken, "tok-1")
	}
	if calls != 1 {
		t.Errorf("exchange calls = %d; want 1", calls)
	}
}

func TestTokenSkipsNetworkWhenFresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	b := testBroker(func(ctx context.Context) (*oauth2.Token, error) {
		calls++
		return &oauth2.Token{AccessToken: "tok-1", Expiry: now.Add(time.Hour)}, nil
	}, now)

	for i := 0; i < 5; i++ {
		if _, err := b.Token(); err != nil {
			t.Fatalf("Token() call %d error = %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("exchange calls = %d; want 1 (fresh token must be served from cache)", calls)
	}
}

func TestTokenRenewsInsideExpiryBuffer(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		expiry    time.Time
		wantCalls int
	}{
		{"expired", now.Add(-time.Minute), 1},
		{"inside_buffer", now.Add(expiryBuffer - time.Second), 1},
		{"at_buffer_edge", now.Add(expiryBuffer), 1},
		{"outside_buffer", now.Add(expiryBuffer + time.Second), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			b := testBroker(func(ctx context.Context) (*oauth2.Token, error) {
				calls++
				return &oauth2.Token{AccessToken: "tok-2", Expiry: now.Add(time.Hour)}, nil
			}, now)
			b.token = &oauth2.Token{AccessToken: "tok-1", Expiry: tt.expiry}

			if _, err := b.Token(); err != nil {
				t.Fatalf("Token() error = %v", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("exchange calls = %d; want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestFailedExchangeKeepsCache(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stale := &oauth2.Token{AccessToken: "stale", Expiry: now.Add(-time.Minute)}
	b := testBroker(func(ctx context.Context) (*oauth2.Token, error) {
		return nil, errors.New("connection refused")
	}, now)
	b.token = stale

	_, err := b.Token()
	if err == nil {
		t.Fatal("Token() error = nil; want auth error")
	}
	if !errs.Is(err, errs.KindAuth) {
		t.Errorf("KindOf(err) = %s; want auth", errs.KindOf(err))
	}
	if b.token != stale {
		t.Error("cached token was replaced by a failed exchange")
	}
}

func TestEmptyAccessTokenIsAuthError(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := testBroker(func(ctx context.Context) (*oauth2.Token, error) {
		return &oauth2.Token{Expiry: now.Add(time.Hour)}, nil
	}, now)

	_, err := b.Token()
	if err == nil {
		t.Fatal("Token() error = nil; want auth error")
	}
	if !errs.Is(err, errs.KindAuth) {
		t.Errorf("KindOf(err) = %s; want auth", errs.KindOf(err))
	}
	if b.token != nil {
		t.Error("malformed exchange result was cached")
	}
}
