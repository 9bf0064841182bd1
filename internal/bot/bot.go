// Package bot is the Discord-facing surface: it parses commands, runs the
// finder pipeline and the account linker, and adapts the discordgo session
// into the transport the finder sends through.
package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/mohammad-safakhou/steambuddy/config"
	"github.com/mohammad-safakhou/steambuddy/internal/finder"
	"github.com/mohammad-safakhou/steambuddy/internal/ingest"
)

const helpText = `A bot for finding steam games you share in common with your friends.
You can link more than one steam account to your discord account.

Commands:
    !ping: see if the bot is still running
    !help: get help for commands
    !steamBuddy add { profile-url }: link a steam account (steamcommunity.com/id/... or /profiles/...)
    !steamBuddy find { limit } [ @mentions ]: report the top shared games of the mentioned users
    !steamBuddy update: re-sync the libraries of your linked accounts

This bot stores the steam ids you link, your discord id, and the app ids of
the games in those libraries.`

// Bot owns the gateway session and routes commands.
type Bot struct {
	session *discordgo.Session
	prefix  string
	finder  *finder.Finder
	linker  *ingest.Linker
	limits  config.FinderConfig
	logger  *log.Logger
}

// New builds a Bot over a fresh gateway session and wires the finder
// pipeline through it.
func New(cfg *config.Config, source finder.OwnershipSource, catalog finder.Catalog, linker *ingest.Linker, logger *log.Logger) (*Bot, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[BOT] ", log.LstdFlags)
	}
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	transport := NewTransport(session)
	f := finder.New(cfg.Finder, source, catalog, transport, transport,
		log.New(log.Writer(), "[FINDER] ", log.LstdFlags))

	return &Bot{
		session: session,
		prefix:  cfg.Discord.CommandPrefix,
		finder:  f,
		linker:  linker,
		limits:  cfg.Finder,
		logger:  logger,
	}, nil
}

// Run opens the gateway and blocks until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.logger.Printf("logged in as %s#%s", r.User.Username, r.User.Discriminator)
	})
	b.session.AddHandler(b.onMessage)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	defer b.session.Close()

	<-ctx.Done()
	return nil
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	ctx := context.Background()

	switch {
	case m.Content == "!ping":
		b.reply(s, m.ChannelID, "Still alive")
	case m.Content == "!help":
		b.reply(s, m.ChannelID, helpText)
	default:
		cmd, args, ok := splitCommand(m.Content, b.prefix)
		if !ok {
			return
		}
		switch cmd {
		case "add":
			b.handleAdd(ctx, s, m, args)
		case "find":
			b.handleFind(ctx, s, m, args)
		case "update":
			b.handleUpdate(ctx, s, m)
		default:
			b.reply(s, m.ChannelID, "Unknown command, try !help")
		}
	}
}

func (b *Bot) handleAdd(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	author, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		b.logger.Printf("bad author id %q: %v", m.Author.ID, err)
		return
	}
	count, err := b.linker.LinkAndIngest(ctx, args, author)
	if err != nil {
		b.logger.Printf("add for %s: %v", m.Author.ID, err)
	}
	b.reply(s, m.ChannelID, linkReply(count, err))
}

func (b *Bot) handleFind(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	limit := parseFindLimit(args, b.limits.DefaultLimit, b.limits.MaxLimit)

	principals := make([]int64, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		id, err := strconv.ParseInt(u.ID, 10, 64)
		if err != nil {
			continue
		}
		principals = append(principals, id)
	}

	if err := b.finder.Find(ctx, m.ChannelID, principals, limit); err != nil {
		b.logger.Printf("find in %s: %v", m.ChannelID, err)
		b.reply(s, m.ChannelID, "I couldn't finish the report, try again later")
	}
}

func (b *Bot) handleUpdate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	author, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		b.logger.Printf("bad author id %q: %v", m.Author.ID, err)
		return
	}
	count, err := b.linker.Refresh(ctx, author)
	if err != nil {
		b.logger.Printf("update for %s: %v", m.Author.ID, err)
		b.reply(s, m.ChannelID, "I couldn't update your libraries, try again later")
		return
	}
	b.reply(s, m.ChannelID, fmt.Sprintf("I found %d non free games in your libraries", count))
}

func (b *Bot) reply(s *discordgo.Session, channelID, text string) {
	if _, err := s.ChannelMessageSend(channelID, text); err != nil {
		b.logger.Printf("reply to %s: %v", channelID, err)
	}
}
