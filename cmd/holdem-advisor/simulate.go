package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-advisor/internal/bot"
	"github.com/lox/holdem-advisor/internal/equity"
	"github.com/lox/holdem-advisor/internal/potodds"
)

// SimulateCmd plays the advisor against the house bots, with the hero
// seat driven by the same odds policy the live advisor uses.
type SimulateCmd struct {
	Hands   int    `kong:"default='10',help='Number of hands to play'"`
	Players int    `kong:"default='6',help='Seats at the table'"`
	Profile string `kong:"default='neutral',enum='aggressive,neutral,conservative',help='Aggression profile'"`
	BuyIn   int    `kong:"default='1000',help='Starting stack in cents'"`
	Seed    *int64 `kong:"help='Deterministic deal seed (optional)'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

var (
	handHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	winnerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	loserStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const heroSeat = 0

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg := bot.DefaultConfig()
	cfg.NumPlayers = c.Players
	cfg.Profile = potodds.ProfileByName(c.Profile)
	cfg.BuyIn = c.BuyIn
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}

	g, err := bot.NewGame(cfg, logger)
	if err != nil {
		return err
	}

	var engine *equity.Engine
	if c.Seed != nil {
		engine = equity.NewEngineSeeded(logger, *c.Seed)
	} else {
		engine = equity.NewEngine(logger)
	}

	stats := bot.NewSessionStats(c.BuyIn)

	for hand := 1; hand <= c.Hands; hand++ {
		target := g.State().HandNumber
		fmt.Println(handHeaderStyle.Render(fmt.Sprintf("Hand %d", target)))
		fmt.Printf("  Hero: %s\n", strings.Join(cardNotations(g), " "))

		if err := playHand(g, engine, cfg.Profile, target); err != nil {
			return err
		}

		if sd := g.Showdown(); sd != nil {
			reportShowdown(sd)
		}
		stats.RecordHand(g.Showdown(), heroSeat, g.Table().Stack(heroSeat))
		fmt.Println()
	}

	summary := stats.Summary()
	fmt.Println(handHeaderStyle.Render("Session"))
	fmt.Printf("  Hands: %d  Won: %d  Showdowns: %d\n", summary.Hands, summary.HandsWon, summary.Showdowns)
	net := fmt.Sprintf("%+d", summary.Net)
	if summary.Net >= 0 {
		net = winnerStyle.Render(net)
	} else {
		net = loserStyle.Render(net)
	}
	fmt.Printf("  Net: %s cents\n", net)
	return nil
}

// playHand alternates bot steps with policy-driven hero actions until
// the table moves on to the next hand.
func playHand(g *bot.Game, engine *equity.Engine, profile potodds.Profile, target int) error {
	const maxActions = 400
	for i := 0; i < maxActions; i++ {
		g.RunHand()
		st := g.State()
		if st.HandNumber != target {
			return nil
		}
		if !g.Table().IsHeroTurn() {
			// Everyone is all in; the table runs the streets out itself.
			continue
		}

		d := bot.Decide(
			engine,
			g.HeroHole(),
			g.RevealedBoard(),
			st.Street,
			st.Pot,
			g.Table().CostToCall(heroSeat),
			g.Table().Stack(heroSeat),
			g.Table().Config().BigBlind,
			len(st.PlayersInHand),
			profile,
		)
		fmt.Printf("  Hero %s: %s (%s)\n", st.Street, d.Action, d.Reason)
		if _, ok := g.HeroAction(d.Action, d.Amount); !ok {
			return fmt.Errorf("hero action %s rejected on hand %d", d.Action, target)
		}
	}
	return fmt.Errorf("hand %d did not settle", target)
}

func reportShowdown(sd *bot.Showdown) {
	fmt.Printf("  Board: %s\n", strings.Join(sd.Board, " "))
	for _, seat := range sd.Winners {
		label := fmt.Sprintf("seat %d", seat)
		if seat == heroSeat {
			label = "hero"
		}
		detail := ""
		if r, ok := sd.Rankings[seat]; ok {
			detail = " with " + r
		}
		fmt.Printf("  %s\n", winnerStyle.Render(fmt.Sprintf("%s wins %d%s", label, sd.Pot/len(sd.Winners), detail)))
	}
}

func cardNotations(g *bot.Game) []string {
	cards := g.HeroHole()
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Notation()
	}
	return out
}
