package discord

import (
	"testing"

	"trackcast/models"
)

func TestBuildNowPlayingEmbed(t *testing.T) {
	card := &NowPlayingCard{
		Track: models.TrackSnapshot{
			ID:          "t1",
			Title:       "Song One",
			ArtistName:  "Artist One",
			AlbumName:   "An Album",
			AlbumArtURL: "https://i.scdn.co/image/abc",
			TrackURL:    "https://open.spotify.com/track/t1",
		},
		Profile: models.Profile{
			DisplayName: "listener",
			AvatarURL:   "https://i.scdn.co/image/avatar",
		},
		LastFMUser: "listener_fm",
		Color:      0xAB12CD,
		Scrobbles:  "48213",
	}

	embed := BuildNowPlayingEmbed(card)

	if embed.Color != 0xAB12CD {
		t.Errorf("Color = %#06x; want %#06x", embed.Color, 0xAB12CD)
	}
	if embed.Title != "Song One" {
		t.Errorf("Title = %q; want %q", embed.Title, "Song One")
	}
	if embed.URL != "https://open.spotify.com/track/t1" {
		t.Errorf("URL = %q", embed.URL)
	}
	if want := "**Artist One** • *An Album*"; embed.Description != want {
		t.Errorf("Description = %q; want %q", embed.Description, want)
	}
	if embed.Author == nil {
		t.Fatal("Author = nil")
	}
	if want := "Now playing - listener"; embed.Author.Name != want {
		t.Errorf("Author.Name = %q; want %q", embed.Author.Name, want)
	}
	if want := "https://www.last.fm/user/listener_fm"; embed.Author.URL != want {
		t.Errorf("Author.URL = %q; want %q", embed.Author.URL, want)
	}
	if embed.Author.IconURL != "https://i.scdn.co/image/avatar" {
		t.Errorf("Author.IconURL = %q", embed.Author.IconURL)
	}
	if embed.Thumbnail == nil || embed.Thumbnail.URL != "https://i.scdn.co/image/abc" {
		t.Errorf("Thumbnail = %+v", embed.Thumbnail)
	}
	if embed.Footer == nil {
		t.Fatal("Footer = nil")
	}
	if want := "48213 total scrobbles"; embed.Footer.Text != want {
		t.Errorf("Footer.Text = %q; want %q", embed.Footer.Text, want)
	}
}
