// Package game implements the table action state machine: seat rotation,
// blind posting, turn order, street progression and hand termination. It
// carries no card logic; cards and equity live with the caller.
package game

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// Config describes a table. Amounts are in cents.
type Config struct {
	NumPlayers int
	SmallBlind int
	BigBlind   int
	MinRaise   int // default raise size when a raise gives no amount
	HeroSeat   int // -1 until the hero seat is known
	BuyIn      int // starting stack per seat
	// ResetStacksEachHand restores every stack to BuyIn at hand start.
	// The bot game keeps stacks across hands; the live tracker does not
	// track winnings and resets.
	ResetStacksEachHand bool
}

// DefaultConfig returns a 6-max table at 10c/20c blinds.
func DefaultConfig() Config {
	return Config{
		NumPlayers: 6,
		SmallBlind: 10,
		BigBlind:   20,
		MinRaise:   20,
		HeroSeat:   -1,
		BuyIn:      1000,
	}
}

// ActionRecord is one entry of the current hand's action history.
type ActionRecord struct {
	Seat   int
	Action Action
	Amount int
}

// HandState is a read-only snapshot of the current hand, safe to hold
// without the table lock.
type HandState struct {
	HandNumber     int
	DealerSeat     int
	SmallBlindSeat int
	BigBlindSeat   int
	Street         Street
	CurrentActor   int // -1 when no seat is awaiting action
	Pot            int
	CurrentBet     int
	PlayersInHand  []int // sorted seat indices still holding cards
	BetsThisStreet map[int]int
	Stacks         []int
	IsNewHand      bool // true on the snapshot emitted right after a hand starts
}

// Table enforces legal turn order and advances betting streets for N seats.
// StartNewHand and RecordAction are the only mutators; everything else is a
// read-only query. The table is not safe for concurrent use; callers hold
// one lock per session (see internal/session).
type Table struct {
	cfg      Config
	logger   *log.Logger
	heroSeat int

	handNumber   int
	dealerSeat   int
	sbSeat       int
	bbSeat       int
	street       Street
	pot          int
	currentBet   int
	inHand       []bool
	bets         []int
	stacks       []int
	toAct        []int
	currentActor int
	lastRaiser   int
	history      []ActionRecord

	// Notifications to external collaborators. Invoked synchronously from
	// StartNewHand / RecordAction with a fresh snapshot.
	OnHandStarted func(HandState)
	OnHandEnded   func(HandState)
}

// NewTable validates the config and creates a table. No hand is running
// until StartNewHand is called.
func NewTable(cfg Config, logger *log.Logger) (*Table, error) {
	if cfg.NumPlayers < 2 || cfg.NumPlayers > 10 {
		return nil, fmt.Errorf("num players must be 2-10, got %d", cfg.NumPlayers)
	}
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= 0 {
		return nil, fmt.Errorf("blinds must be positive, got %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.MinRaise <= 0 {
		cfg.MinRaise = cfg.BigBlind
	}
	if logger == nil {
		logger = log.New(nil)
	}

	t := &Table{
		cfg:          cfg,
		logger:       logger.WithPrefix("table"),
		heroSeat:     cfg.HeroSeat,
		dealerSeat:   -1,
		currentActor: -1,
		lastRaiser:   -1,
		inHand:       make([]bool, cfg.NumPlayers),
		bets:         make([]int, cfg.NumPlayers),
		stacks:       make([]int, cfg.NumPlayers),
	}
	if t.heroSeat >= cfg.NumPlayers {
		return nil, fmt.Errorf("hero seat %d out of range", t.heroSeat)
	}
	for i := range t.stacks {
		t.stacks[i] = cfg.BuyIn
	}
	return t, nil
}

// StartNewHand rotates the dealer and blinds, posts blinds, seeds the
// to-act queue and notifies OnHandStarted. The previous HandState is
// discarded wholesale.
func (t *Table) StartNewHand() HandState {
	n := t.cfg.NumPlayers
	t.handNumber++
	t.dealerSeat = (t.dealerSeat + 1) % n
	if n == 2 {
		// Heads-up: the dealer posts the small blind and acts first preflop.
		t.sbSeat = t.dealerSeat
		t.bbSeat = (t.dealerSeat + 1) % n
	} else {
		t.sbSeat = (t.dealerSeat + 1) % n
		t.bbSeat = (t.dealerSeat + 2) % n
	}

	t.street = Preflop
	t.history = t.history[:0]
	for i := range t.inHand {
		t.inHand[i] = true
		t.bets[i] = 0
		if t.cfg.ResetStacksEachHand {
			t.stacks[i] = t.cfg.BuyIn
		}
	}

	t.postBlind(t.sbSeat, t.cfg.SmallBlind)
	t.postBlind(t.bbSeat, t.cfg.BigBlind)
	t.pot = t.bets[t.sbSeat] + t.bets[t.bbSeat]
	t.currentBet = t.cfg.BigBlind
	t.lastRaiser = t.bbSeat

	first := (t.bbSeat + 1) % n
	t.toAct = t.actionOrderFrom(first)
	t.currentActor = t.nextToAct()

	t.logger.Debug("hand started",
		"hand", t.handNumber, "dealer", t.dealerSeat, "sb", t.sbSeat, "bb", t.bbSeat,
		"first_to_act", t.currentActor)

	state := t.State()
	state.IsNewHand = true
	if t.OnHandStarted != nil {
		t.OnHandStarted(state)
	}
	return state
}

func (t *Table) postBlind(seat, amount int) {
	if amount > t.stacks[seat] {
		amount = t.stacks[seat]
	}
	t.bets[seat] = amount
	t.stacks[seat] -= amount
}

// actionOrderFrom returns live seats clockwise from start. Folded seats are
// skipped and never re-inserted; all-in seats have no action left to take.
func (t *Table) actionOrderFrom(start int) []int {
	n := t.cfg.NumPlayers
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		if t.inHand[seat] && t.stacks[seat] > 0 {
			order = append(order, seat)
		}
	}
	return order
}

func (t *Table) nextToAct() int {
	if len(t.toAct) == 0 {
		return -1
	}
	return t.toAct[0]
}

func (t *Table) removeFromQueue(seat int) {
	for i, s := range t.toAct {
		if s == seat {
			t.toAct = append(t.toAct[:i], t.toAct[i+1:]...)
			return
		}
	}
}

// RecordAction applies one action for the given seat. Invalid actions
// (wrong seat, folded seat, check facing a bet) return ok=false without
// mutating any state; the caller re-prompts.
func (t *Table) RecordAction(seat int, action Action, amount int) (HandState, bool) {
	if t.currentActor == -1 || seat != t.currentActor {
		return HandState{}, false
	}
	if seat < 0 || seat >= t.cfg.NumPlayers || !t.inHand[seat] {
		return HandState{}, false
	}

	toCall := t.currentBet - t.bets[seat]

	switch action {
	case Fold:
		return t.recordFold(seat), true

	case Check:
		if toCall > 0 {
			return HandState{}, false
		}
		t.history = append(t.history, ActionRecord{Seat: seat, Action: Check})

	case Call:
		// The amount argument is a floor, never authoritative: the deficit
		// is paid in full (capped only by the stack).
		paid := t.contribute(seat, toCall)
		t.history = append(t.history, ActionRecord{Seat: seat, Action: Call, Amount: paid})

	case Raise:
		raiseSize := amount
		if raiseSize <= 0 {
			raiseSize = t.cfg.MinRaise
		}
		paid := t.contribute(seat, toCall+raiseSize)
		t.history = append(t.history, ActionRecord{Seat: seat, Action: Raise, Amount: paid})

		// An all-in for less than a full raise does not reopen the action
		// and must not lower the current bet.
		if t.bets[seat] > t.currentBet {
			t.currentBet = t.bets[seat]
			t.lastRaiser = seat

			// Every other live player re-enters the queue, starting from
			// the seat after the raiser.
			order := t.actionOrderFrom((seat + 1) % t.cfg.NumPlayers)
			t.toAct = t.toAct[:0]
			for _, s := range order {
				if s != seat {
					t.toAct = append(t.toAct, s)
				}
			}
		}

	default:
		return HandState{}, false
	}

	t.removeFromQueue(seat)
	return t.afterAction(), true
}

// contribute moves chips from the seat's stack into the pot and returns
// the amount actually paid after the stack clamp.
func (t *Table) contribute(seat, amount int) int {
	if amount > t.stacks[seat] {
		amount = t.stacks[seat]
	}
	if amount < 0 {
		amount = 0
	}
	t.bets[seat] += amount
	t.stacks[seat] -= amount
	t.pot += amount
	return amount
}

func (t *Table) recordFold(seat int) HandState {
	t.inHand[seat] = false
	t.removeFromQueue(seat)
	t.history = append(t.history, ActionRecord{Seat: seat, Action: Fold})

	// The hero folding ends the hand for tracking purposes, as does
	// everyone else folding to one player.
	if (t.heroSeat >= 0 && seat == t.heroSeat) || t.liveCount() <= 1 {
		return t.endHand()
	}

	t.currentActor = t.nextToAct()
	if t.currentActor == -1 && t.allMatched() {
		return t.maybeAdvanceStreet()
	}
	return t.State()
}

func (t *Table) afterAction() HandState {
	if len(t.toAct) == 0 && t.allMatched() {
		return t.maybeAdvanceStreet()
	}
	t.currentActor = t.nextToAct()
	return t.State()
}

func (t *Table) maybeAdvanceStreet() HandState {
	for {
		if t.street == River || t.liveCount() <= 1 {
			return t.endHand()
		}

		t.street++
		t.currentBet = 0
		t.lastRaiser = -1
		for i := range t.bets {
			t.bets[i] = 0
		}

		// Postflop the seat left of the dealer acts first; heads-up the
		// queue reseeds from the dealer itself.
		n := t.cfg.NumPlayers
		first := (t.dealerSeat + 1) % n
		if n == 2 {
			first = t.dealerSeat
		}
		t.toAct = t.actionOrderFrom(first)
		t.currentActor = t.nextToAct()

		t.logger.Debug("street advanced", "hand", t.handNumber, "street", t.street, "pot", t.pot)
		if t.currentActor != -1 {
			return t.State()
		}
		// Everyone left is all-in; run the remaining streets out.
	}
}

func (t *Table) endHand() HandState {
	t.currentActor = -1
	ended := t.State()
	t.logger.Debug("hand ended", "hand", t.handNumber, "pot", t.pot, "live", ended.PlayersInHand)
	if t.OnHandEnded != nil {
		t.OnHandEnded(ended)
	}
	return t.StartNewHand()
}

func (t *Table) liveCount() int {
	count := 0
	for _, in := range t.inHand {
		if in {
			count++
		}
	}
	return count
}

func (t *Table) allMatched() bool {
	for seat, in := range t.inHand {
		if in && t.stacks[seat] > 0 && t.bets[seat] < t.currentBet {
			return false
		}
	}
	return true
}

// CostToCall returns what the seat still owes this street.
func (t *Table) CostToCall(seat int) int {
	if seat < 0 || seat >= t.cfg.NumPlayers {
		return 0
	}
	if owed := t.currentBet - t.bets[seat]; owed > 0 {
		return owed
	}
	return 0
}

// CurrentActor returns the seat awaiting action, or -1.
func (t *Table) CurrentActor() int {
	return t.currentActor
}

// Street returns the current betting street.
func (t *Table) Street() Street {
	return t.street
}

// Pot returns the running pot total across all streets.
func (t *Table) Pot() int {
	return t.pot
}

// HandNumber returns the monotonically increasing hand counter.
func (t *Table) HandNumber() int {
	return t.handNumber
}

// Config returns the table configuration.
func (t *Table) Config() Config {
	return t.cfg
}

// SetHeroSeat registers the tracked player's seat the first time the hero
// acts. Later calls are ignored.
func (t *Table) SetHeroSeat(seat int) {
	if t.heroSeat == -1 && seat >= 0 && seat < t.cfg.NumPlayers {
		t.heroSeat = seat
	}
}

// HeroSeat returns the hero's seat, or -1 if unknown.
func (t *Table) HeroSeat() int {
	return t.heroSeat
}

// IsHeroTurn reports whether the hero is the current actor.
func (t *Table) IsHeroTurn() bool {
	return t.heroSeat >= 0 && t.currentActor == t.heroSeat
}

// PlayersInHand returns the sorted live seats.
func (t *Table) PlayersInHand() []int {
	seats := make([]int, 0, t.cfg.NumPlayers)
	for seat, in := range t.inHand {
		if in {
			seats = append(seats, seat)
		}
	}
	return seats
}

// History returns the current hand's action history.
func (t *Table) History() []ActionRecord {
	out := make([]ActionRecord, len(t.history))
	copy(out, t.history)
	return out
}

// AwardPot credits winnings to a seat's stack. Called by the bot game at
// showdown; the pot itself is reset by the next StartNewHand.
func (t *Table) AwardPot(seat, amount int) {
	if seat >= 0 && seat < t.cfg.NumPlayers && amount > 0 {
		t.stacks[seat] += amount
	}
}

// Stack returns the seat's current stack.
func (t *Table) Stack(seat int) int {
	if seat < 0 || seat >= t.cfg.NumPlayers {
		return 0
	}
	return t.stacks[seat]
}

// State returns a read-only snapshot of the current hand.
func (t *Table) State() HandState {
	bets := make(map[int]int, t.cfg.NumPlayers)
	for seat, in := range t.inHand {
		if in {
			bets[seat] = t.bets[seat]
		}
	}
	stacks := make([]int, len(t.stacks))
	copy(stacks, t.stacks)

	state := HandState{
		HandNumber:     t.handNumber,
		DealerSeat:     t.dealerSeat,
		SmallBlindSeat: t.sbSeat,
		BigBlindSeat:   t.bbSeat,
		Street:         t.street,
		CurrentActor:   t.currentActor,
		Pot:            t.pot,
		CurrentBet:     t.currentBet,
		PlayersInHand:  t.PlayersInHand(),
		BetsThisStreet: bets,
		Stacks:         stacks,
	}
	sort.Ints(state.PlayersInHand)
	return state
}
