package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/equity"
	"github.com/lox/holdem-advisor/internal/evaluator"
	"github.com/lox/holdem-advisor/internal/game"
	"github.com/lox/holdem-advisor/internal/potodds"
)

// OddsCmd analyses one spot: hero's equity, the exact category
// distribution, and what the odds policy would do about it.
type OddsCmd struct {
	Hole    string `kong:"arg,help='Hero hole cards, e.g. \"Ah Kd\"'"`
	Board   string `kong:"short='b',help='Community cards, e.g. \"10s Jc Qd\"'"`
	Players int    `kong:"default='6',help='Players dealt into the hand'"`
	Pot     int    `kong:"default='0',help='Pot before hero acts, in cents'"`
	ToCall  int    `kong:"default='0',help='Amount hero must call, in cents'"`
	Profile string `kong:"default='neutral',enum='aggressive,neutral,conservative',help='Aggression profile'"`
	Seed    *int64 `kong:"help='Random seed for reproducible sampling'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	cardStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	equityStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	verdictStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

type spotView struct {
	pot    int
	toCall int
}

func (v spotView) AmountToCall(game.Street) int  { return v.toCall }
func (v spotView) PotBeforeCall(game.Street) int { return v.pot }

func (c *OddsCmd) Run() error {
	logger := setupLogger(c.Debug)

	hole, err := deck.ParseCards(c.Hole)
	if err != nil {
		return fmt.Errorf("hole cards: %w", err)
	}
	if len(hole) != 2 {
		return fmt.Errorf("need exactly 2 hole cards, got %d", len(hole))
	}

	var board []deck.Card
	if c.Board != "" {
		board, err = deck.ParseCards(c.Board)
		if err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}
	switch len(board) {
	case 0, 3, 4, 5:
	default:
		return fmt.Errorf("board must have 0, 3, 4 or 5 cards, got %d", len(board))
	}
	if deck.HasDuplicates(hole, board) {
		return fmt.Errorf("duplicate cards between hole and board")
	}

	var engine *equity.Engine
	if c.Seed != nil {
		engine = equity.NewEngineSeeded(logger, *c.Seed)
	} else {
		engine = equity.NewEngine(logger)
	}

	street := streetForBoard(len(board))
	profile := potodds.ProfileByName(c.Profile)

	start := time.Now()
	pct, ok := engine.Equity(hole, board, c.Players)
	if !ok {
		return fmt.Errorf("equity computation failed")
	}
	dist, distOK := engine.Distribution(hole, board)
	elapsed := time.Since(start)

	fmt.Println(headerStyle.Render("Spot"))
	fmt.Printf("  Hole:  %s\n", cardStyle.Render(c.Hole))
	if len(board) > 0 {
		fmt.Printf("  Board: %s  (%s)\n", cardStyle.Render(c.Board), street)
	} else {
		fmt.Printf("  Board: %s  (%s)\n", cardStyle.Render("none"), street)
	}
	fmt.Printf("  Players: %d\n\n", c.Players)

	fmt.Println(headerStyle.Render("Equity"))
	fmt.Printf("  Win: %s  vs %d opponent(s)\n\n",
		equityStyle.Render(fmt.Sprintf("%.1f%%", pct)), c.Players-1)

	if distOK {
		fmt.Println(headerStyle.Render("Hand distribution by river"))
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, cat := range evaluator.Categories() {
			p := dist.At(cat)
			if p == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s\t%.2f%%\n", categoryStyle.Render(cat.String()), p*100)
		}
		w.Flush()
		fmt.Println()
	}

	verdict := potodds.Recommend(spotView{pot: c.Pot, toCall: c.ToCall}, street, pct, true, profile)

	fmt.Println(headerStyle.Render(fmt.Sprintf("Recommendation (%s)", profile.Name)))
	action := verdict.Action.String()
	if verdict.Amount > 0 {
		action = fmt.Sprintf("%s %d", action, verdict.Amount)
	}
	fmt.Printf("  %s\n", verdictStyle.Render(action))
	fmt.Printf("  %s\n", verdict.Reason)
	fmt.Printf("  Sizing guide: %s\n\n", potodds.SizingGuide(pct, true))

	logger.Debug("analysis complete", "elapsed", elapsed)
	return nil
}

func streetForBoard(n int) game.Street {
	switch n {
	case 3:
		return game.Flop
	case 4:
		return game.Turn
	case 5:
		return game.River
	default:
		return game.Preflop
	}
}
