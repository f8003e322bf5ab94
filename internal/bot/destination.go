package bot

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"esports_notifier/internal/delivery"
	"esports_notifier/internal/domain"
)

// ChannelDestination adapts one discord channel to the delivery capability.
type ChannelDestination struct {
	session   *discordgo.Session
	channelID int64
}

func (d *ChannelDestination) ID() int64 {
	return d.channelID
}

func (d *ChannelDestination) Send(ctx context.Context, msg domain.Message) error {
	_, err := d.session.ChannelMessageSendComplex(
		strconv.FormatInt(d.channelID, 10),
		toMessageSend(msg),
		discordgo.WithContext(ctx),
	)
	return err
}

// ChannelResolver resolves persisted channel ids against the gateway state.
// A channel the bot can no longer see resolves to nothing: the registry row
// may outlive the channel (deleted, or the bot kicked), and the poller just
// skips it.
type ChannelResolver struct {
	session *discordgo.Session
}

func NewChannelResolver(session *discordgo.Session) *ChannelResolver {
	return &ChannelResolver{session: session}
}

var _ delivery.Destination = (*ChannelDestination)(nil)

func (r *ChannelResolver) Resolve(channelID int64) (delivery.Destination, bool) {
	idStr := strconv.FormatInt(channelID, 10)

	if _, err := r.session.State.Channel(idStr); err != nil {
		if _, err := r.session.Channel(idStr); err != nil {
			return nil, false
		}
	}

	return &ChannelDestination{session: r.session, channelID: channelID}, true
}
