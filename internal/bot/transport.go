package bot

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// Transport adapts a discordgo session to the finder's send and mention
// interfaces.
type Transport struct {
	session *discordgo.Session
}

// NewTransport wraps a session.
func NewTransport(session *discordgo.Session) *Transport {
	return &Transport{session: session}
}

// SendMessage delivers one message to a channel.
func (t *Transport) SendMessage(_ context.Context, channelID, text string) error {
	_, err := t.session.ChannelMessageSend(channelID, text)
	return err
}

// Mention renders a discord user mention for an id.
func (t *Transport) Mention(ownerID int64) string {
	return "<@" + strconv.FormatInt(ownerID, 10) + ">"
}
