package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"esports_notifier/internal/command"
	"esports_notifier/internal/delivery"
)

// previewPageSize limits how many article embeds go into one preview reply.
const previewPageSize = 4

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.prefix) {
		return
	}

	fields := strings.Fields(strings.TrimPrefix(m.Content, b.prefix))
	if len(fields) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	cmd, args := fields[0], fields[1:]
	switch strings.ToLower(cmd) {
	case "news":
		b.handleNews(ctx, s, m, args)
	case "newschannel":
		b.handleNewsChannel(ctx, s, m, args)
	case "schedule":
		b.handleSchedule(ctx, s, m, args)
	case "player":
		b.handlePlayer(ctx, s, m, args)
	case "help":
		b.handleHelp(s, m)
	}
}

func (b *Bot) handleNews(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	token := ""
	if len(args) > 0 {
		token = args[0]
	}

	day, err := command.ParseDate(token, time.Now())
	if err != nil {
		b.reply(s, m.ChannelID, err.Error())
		return
	}

	page := 1
	if len(args) > 1 {
		page, err = strconv.Atoi(args[1])
		if err != nil || page < 1 {
			b.reply(s, m.ChannelID, fmt.Sprintf("Invalid page %q; use a number like `%snews today 2`.", args[1], b.prefix))
			return
		}
	}

	channelID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		b.reply(s, m.ChannelID, "Could not identify this channel.")
		return
	}

	b.reply(s, m.ChannelID, fmt.Sprintf("Looking up esports news for %s...", day.Format("2006-01-02")))

	articles, err := b.previews.Preview(ctx, channelID, day)
	if err != nil {
		b.reply(s, m.ChannelID, fmt.Sprintf("News check failed: %v", err))
		return
	}

	pageArticles, page, pages := delivery.PreviewPage(articles, page, previewPageSize)

	header := delivery.PreviewHeader(day, len(articles), page, pages)
	embeds := []*discordgo.MessageEmbed{toEmbed(header.Embed)}
	for _, a := range pageArticles {
		msg := delivery.NewsMessage(a)
		embeds = append(embeds, toEmbed(msg.Embed))
	}

	if _, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{Embeds: embeds}); err != nil {
		b.logger.Warn("preview reply failed", "channel_id", m.ChannelID, "error", err)
		return
	}

	if page < pages {
		b.reply(s, m.ChannelID, fmt.Sprintf("More articles: `%snews %s %d`", b.prefix, day.Format("2006-01-02"), page+1))
	}
}

func (b *Bot) handleNewsChannel(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionManageChannels == 0 {
		b.reply(s, m.ChannelID, "You need the Manage Channels permission to configure news.")
		return
	}

	channelID, err := strconv.ParseInt(m.ChannelID, 10, 64)
	if err != nil {
		b.reply(s, m.ChannelID, "Could not identify this channel.")
		return
	}

	if len(args) == 0 {
		b.showSubscription(ctx, s, m, channelID)
		return
	}

	if command.IsOff(args) {
		deleted, err := b.subs.Delete(ctx, channelID)
		switch {
		case err != nil:
			b.reply(s, m.ChannelID, "Failed to update news settings, please try again.")
		case deleted:
			b.reply(s, m.ChannelID, "News notifications disabled for this channel.")
		default:
			b.reply(s, m.ChannelID, "This channel had no news notifications configured.")
		}
		return
	}

	sub, err := command.ParseGames(args)
	if err != nil {
		b.reply(s, m.ChannelID, err.Error())
		return
	}
	sub.ChannelID = channelID

	if err := b.subs.Upsert(ctx, sub); err != nil {
		b.reply(s, m.ChannelID, "Failed to save news settings, please try again.")
		return
	}

	b.replyEmbed(s, m.ChannelID, subscriptionEmbed(b.channelName(s, m.ChannelID), sub))
}

func (b *Bot) showSubscription(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, channelID int64) {
	sub, found, err := b.subs.Get(ctx, channelID)
	if err != nil {
		b.reply(s, m.ChannelID, "Failed to load news settings, please try again.")
		return
	}
	if !found || !sub.Any() {
		b.reply(s, m.ChannelID, fmt.Sprintf(
			"This channel has no news configured. Use `%snewschannel lol valorant overwatch` to set it up.", b.prefix))
		return
	}

	names := make([]string, 0, 3)
	for _, g := range sub.Games() {
		names = append(names, g.String())
	}
	b.reply(s, m.ChannelID, fmt.Sprintf("Current news settings for %s: %s",
		b.channelName(s, m.ChannelID), strings.Join(names, ", ")))
}

func (b *Bot) handleSchedule(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	league := "lck"
	if len(args) > 0 {
		league = strings.ToLower(args[0])
	}
	month := time.Now().In(time.FixedZone("KST", 9*60*60)).Format("200601")
	if len(args) > 1 {
		month = args[1]
		if len(month) != 6 {
			b.reply(s, m.ChannelID, fmt.Sprintf("Invalid month %q; use YYYYMM, like 202507.", month))
			return
		}

		// an explicitly requested month is checked against the months that
		// actually have matches; a failed check falls through to the fetch
		months, err := b.schedules.FetchScheduleMonths(ctx, month[:4], league)
		if err == nil && !containsMonth(months, month) {
			available := "none"
			if len(months) > 0 {
				available = strings.Join(months, ", ")
			}
			b.reply(s, m.ChannelID, fmt.Sprintf("No %s matches in %s. Months with matches: %s",
				league, month, available))
			return
		}
	}

	matches, err := b.schedules.FetchMonthSchedule(ctx, month, league)
	if err != nil {
		b.reply(s, m.ChannelID, fmt.Sprintf("Schedule lookup failed: %v", err))
		return
	}

	b.replyEmbed(s, m.ChannelID, matchesEmbed(league, matches))
}

func (b *Bot) handlePlayer(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		b.reply(s, m.ChannelID, fmt.Sprintf("Usage: `%splayer <nickname>`", b.prefix))
		return
	}
	query := strings.Join(args, " ")

	players, err := b.players.SearchPlayers(ctx, query)
	if err != nil {
		b.reply(s, m.ChannelID, fmt.Sprintf("Player search failed: %v", err))
		return
	}

	b.replyEmbed(s, m.ChannelID, playersEmbed(query, players))
}

func (b *Bot) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	p := b.prefix
	b.reply(s, m.ChannelID, strings.Join([]string{
		"**Commands**",
		fmt.Sprintf("`%snews [today|yesterday|YYYY-MM-DD] [page]` - check news for a date", p),
		fmt.Sprintf("`%snewschannel [games...|all|off]` - configure news notifications (Manage Channels required)", p),
		fmt.Sprintf("`%sschedule [league] [YYYYMM]` - league match schedule", p),
		fmt.Sprintf("`%splayer <nickname>` - player profile search", p),
	}, "\n"))
}

// reply mirrors the transport contract of the pipeline: a failed reply is
// logged and dropped, never raised.
func (b *Bot) reply(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		b.logger.Warn("reply failed", "channel_id", channelID, "error", err)
	}
}

func (b *Bot) replyEmbed(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Warn("reply failed", "channel_id", channelID, "error", err)
	}
}

func containsMonth(months []string, month string) bool {
	for _, m := range months {
		if m == month {
			return true
		}
	}
	return false
}

func (b *Bot) channelName(s *discordgo.Session, channelID string) string {
	if ch, err := s.State.Channel(channelID); err == nil && ch.Name != "" {
		return "#" + ch.Name
	}
	return "this channel"
}
