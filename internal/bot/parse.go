package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/steambuddy/internal/ingest"
)

// splitCommand strips the bot prefix and splits the rest into a subcommand
// and its argument string. ok is false when the message is not addressed to
// the bot.
func splitCommand(content, prefix string) (cmd, args string, ok bool) {
	if !strings.HasPrefix(content, prefix) {
		return "", "", false
	}
	rest := strings.TrimSpace(content[len(prefix):])
	if rest == "" {
		return "", "", false
	}
	parts := strings.SplitN(rest, " ", 2)
	cmd = parts[0]
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return cmd, args, true
}

// parseFindLimit reads an optional leading integer limit from the find
// arguments. Missing or unparseable limits fall back to the default; explicit
// limits are clamped to the hard cap.
func parseFindLimit(args string, def, max int) int {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return def
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// linkReply words the bot's answer to an add command per linker error kind.
func linkReply(count int, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("I found %d non free games in your library", count)
	case errors.Is(err, ingest.ErrInvalidProfileURL):
		return "That doesn't look like a steam profile url, it should be like https://steamcommunity.com/id/{name}"
	case errors.Is(err, ingest.ErrDuplicateLink):
		return "That steam account is already linked"
	case errors.Is(err, ingest.ErrSourceUnavailable):
		return "Steam isn't answering right now, try again later"
	default:
		return "Could not add you, try again later"
	}
}
