package models

// TrackSnapshot is the per-cycle view of the currently playing item.
// It lives for one poll cycle: built from the now-playing response,
// handed to enrichment and delivery, then discarded.
type TrackSnapshot struct {
	ID          string
	Title       string
	ArtistName  string
	AlbumName   string
	AlbumArtURL string
	TrackURL    string
}

// Profile is the monitored account's public identity, fetched once per
// process lifetime (or again after an auth failure forces a reconnect).
type Profile struct {
	DisplayName string
	ProfileURL  string
	AvatarURL   string
}
