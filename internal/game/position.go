package game

import "fmt"

// Position returns the table-position name for a seat (UTG, MP, CO, BTN,
// SB, BB), derived from the preflop action order. Display only.
func (t *Table) Position(seat int) string {
	n := t.cfg.NumPlayers
	if seat < 0 || seat >= n {
		return "?"
	}
	if n == 2 {
		if seat == t.sbSeat {
			return "SB"
		}
		return "BB"
	}

	first := (t.bbSeat + 1) % n
	idx := -1
	for i := 0; i < n; i++ {
		if (first+i)%n == seat {
			idx = i
			break
		}
	}

	var names []string
	switch n {
	case 3:
		names = []string{"UTG", "SB", "BB"}
	case 4:
		names = []string{"UTG", "BTN", "SB", "BB"}
	case 5:
		names = []string{"UTG", "MP", "BTN", "SB", "BB"}
	case 6:
		names = []string{"UTG", "MP", "CO", "BTN", "SB", "BB"}
	default:
		names = []string{"UTG"}
		for i := 1; i < n-5; i++ {
			names = append(names, fmt.Sprintf("UTG+%d", i))
		}
		names = append(names, "MP", "CO", "BTN", "SB", "BB")
	}
	if idx < 0 || idx >= len(names) {
		return "?"
	}
	return names[idx]
}

// HeroPosition returns the hero's position name, or "?" if the hero seat
// is unknown.
func (t *Table) HeroPosition() string {
	if t.heroSeat < 0 {
		return "?"
	}
	return t.Position(t.heroSeat)
}
