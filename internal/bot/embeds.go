package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"esports_notifier/internal/domain"
)

const confirmColor = 0x00FF56

func toMessageSend(msg domain.Message) *discordgo.MessageSend {
	out := &discordgo.MessageSend{Content: msg.Content}
	if msg.Embed != nil {
		out.Embeds = []*discordgo.MessageEmbed{toEmbed(msg.Embed)}
	}
	return out
}

func toEmbed(e *domain.Embed) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Color:       e.Color,
	}
	if !e.Timestamp.IsZero() {
		embed.Timestamp = e.Timestamp.Format(time.RFC3339)
	}
	if e.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
	}
	for _, f := range e.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}

func subscriptionEmbed(channelName string, sub domain.Subscription) *discordgo.MessageEmbed {
	names := make([]string, 0, 3)
	for _, g := range sub.Games() {
		names = append(names, g.String())
	}

	return &discordgo.MessageEmbed{
		Title: "News channel configured",
		Description: fmt.Sprintf("**Channel:** %s\n**Games:** %s\n\nNew articles are checked every 20 minutes.",
			channelName, strings.Join(names, ", ")),
		Color: confirmColor,
	}
}

func matchesEmbed(league string, matches []domain.Match) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Schedule: %s", league),
		Color: confirmColor,
	}

	for i, m := range matches {
		if i == 10 {
			break
		}
		value := m.StartsAt.Format("2006-01-02 15:04")
		if m.Status == domain.MatchFinished {
			value = fmt.Sprintf("%s - %d : %d", value, m.HomeScore, m.AwayScore)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s vs %s", m.HomeTeam.Name, m.AwayTeam.Name),
			Value: value,
		})
	}

	if len(embed.Fields) == 0 {
		embed.Description = "No matches found."
	}

	return embed
}

func playersEmbed(query string, players []domain.PlayerResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Player search: %s", query),
		Color: confirmColor,
	}

	if len(players) == 0 {
		embed.Description = "No players found."
		return embed
	}

	var sb strings.Builder
	for i, p := range players {
		if i == 10 {
			break
		}
		fmt.Fprintf(&sb, "[%s](%s)", p.Nickname, p.ProfileURL)
		if p.RealName != "" {
			fmt.Fprintf(&sb, " - %s", p.RealName)
		}
		sb.WriteString("\n")
	}
	embed.Description = sb.String()

	return embed
}
