// Package voice maps transcribed speech ("raise fifty", "call", "all in")
// to canonical betting actions. Speech-to-text and diarization happen
// upstream; this package only parses the resulting phrases.
package voice

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lox/holdem-advisor/internal/game"
)

// Event is one betting action recovered from a phrase. Amount is cents;
// spoken values are treated as dollars, so "raise fifty" is 5000. AllIn
// maps to a raise whose size the caller resolves from the stack.
type Event struct {
	Action    game.Action
	Amount    int
	HasAmount bool
	AllIn     bool
	Raw       string
}

type pattern struct {
	re     *regexp.Regexp
	action game.Action
	allIn  bool
	fixed  int // fixed cents for word numbers, -1 to read the capture group
}

// Spoken number words, longer phrases first so "twenty five" wins over
// "twenty".
var wordNumbers = []struct {
	word  string
	value int
}{
	{"twenty five", 25}, {"twentyfive", 25},
	{"twenty", 20}, {"thirty", 30}, {"forty", 40}, {"fifty", 50},
	{"sixty", 60}, {"seventy", 70}, {"eighty", 80}, {"ninety", 90},
	{"hundred", 100},
}

var patterns = buildPatterns()

func buildPatterns() []pattern {
	ps := []pattern{
		{re: regexp.MustCompile(`(?i)\b(?:all\s*in|allin)\b`), action: game.Raise, allIn: true},
		{re: regexp.MustCompile(`(?i)\bfold\b`), action: game.Fold},
		{re: regexp.MustCompile(`(?i)\bcheck\b`), action: game.Check},
		{re: regexp.MustCompile(`(?i)\bcall\b`), action: game.Call},
		{re: regexp.MustCompile(`(?i)\braise\s+(\d+(?:\.\d+)?)\b`), action: game.Raise, fixed: -1},
		{re: regexp.MustCompile(`(?i)\braise\s+to\s+(\d+(?:\.\d+)?)\b`), action: game.Raise, fixed: -1},
		{re: regexp.MustCompile(`(?i)\bbet\s+(\d+(?:\.\d+)?)\s*(?:dollars?|bucks|bb)?\b`), action: game.Raise, fixed: -1},
	}
	for _, wn := range wordNumbers {
		word := strings.ReplaceAll(regexp.QuoteMeta(wn.word), " ", `\s+`)
		cents := wn.value * 100
		ps = append(ps,
			pattern{re: regexp.MustCompile(`(?i)\braise\s+` + word + `\b`), action: game.Raise, fixed: cents},
			pattern{re: regexp.MustCompile(`(?i)\bbet\s+` + word + `\b`), action: game.Raise, fixed: cents},
		)
	}
	return ps
}

// ParsePhrase extracts the first betting action from a phrase. Pattern
// order is fixed, so "I'll call, no wait, fold" folds: fold outranks call
// regardless of position in the text.
func ParsePhrase(text string) (Event, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Event{}, false
	}

	for _, p := range patterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		ev := Event{Action: p.action, AllIn: p.allIn, Raw: trimmed}
		switch {
		case p.fixed > 0:
			ev.Amount = p.fixed
			ev.HasAmount = true
		case p.fixed == -1 && len(m) > 1:
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				ev.Amount = int(math.Round(v * 100))
				ev.HasAmount = true
			}
		}
		return ev, true
	}
	return Event{}, false
}
