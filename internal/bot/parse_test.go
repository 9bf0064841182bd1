package bot

import (
	"errors"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/steambuddy/internal/ingest"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		content  string
		cmd, arg string
		ok       bool
	}{
		{"!steamBuddy find 5 @user", "find", "5 @user", true},
		{"!steamBuddy add https://steamcommunity.com/id/gaben", "add", "https://steamcommunity.com/id/gaben", true},
		{"!steamBuddy update", "update", "", true},
		{"!steamBuddy   find  ", "find", "", true},
		{"!steamBuddy", "", "", false},
		{"hello there", "", "", false},
	}
	for _, c := range cases {
		cmd, args, ok := splitCommand(c.content, "!steamBuddy")
		if cmd != c.cmd || args != c.arg || ok != c.ok {
			t.Fatalf("splitCommand(%q) = (%q, %q, %v), want (%q, %q, %v)", c.content, cmd, args, ok, c.cmd, c.arg, c.ok)
		}
	}
}

func TestParseFindLimit(t *testing.T) {
	cases := []struct {
		args string
		want int
	}{
		{"", 7},
		{"5 @user", 5},
		{"15", 15},
		{"99", 15},     // clamped to the hard cap
		{"@user", 7},   // no explicit limit
		{"0 @user", 7}, // nonsense limits fall back to the default
		{"-3", 7},
	}
	for _, c := range cases {
		if got := parseFindLimit(c.args, 7, 15); got != c.want {
			t.Fatalf("parseFindLimit(%q) = %d, want %d", c.args, got, c.want)
		}
	}
}

func TestLinkReply(t *testing.T) {
	if got := linkReply(12, nil); got != "I found 12 non free games in your library" {
		t.Fatalf("success reply = %q", got)
	}
	cases := []struct {
		err  error
		want string
	}{
		{ingest.ErrInvalidProfileURL, "steam profile url"},
		{ingest.ErrDuplicateLink, "already linked"},
		{ingest.ErrSourceUnavailable, "Steam isn't answering"},
		{ingest.ErrPersistence, "Could not add you"},
		{errors.New("anything else"), "Could not add you"},
	}
	for _, c := range cases {
		if got := linkReply(0, c.err); !strings.Contains(got, c.want) {
			t.Fatalf("linkReply(%v) = %q, want substring %q", c.err, got, c.want)
		}
	}
}
