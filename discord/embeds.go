package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"trackcast/models"
)

// NowPlayingCard contains all info for a now-playing notification
type NowPlayingCard struct {
	Track      models.TrackSnapshot
	Profile    models.Profile
	LastFMUser string
	Color      int
	Scrobbles  string
}

// BuildNowPlayingEmbed creates a rich embed for a now-playing notification
func BuildNowPlayingEmbed(card *NowPlayingCard) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: card.Color,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("Now playing - %s", card.Profile.DisplayName),
			URL:     fmt.Sprintf("https://www.last.fm/user/%s", card.LastFMUser),
			IconURL: card.Profile.AvatarURL,
		},
		Title:       card.Track.Title,
		URL:         card.Track.TrackURL,
		Description: fmt.Sprintf("**%s** • *%s*", card.Track.ArtistName, card.Track.AlbumName),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: card.Track.AlbumArtURL,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s total scrobbles", card.Scrobbles),
		},
	}
}
