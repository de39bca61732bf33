package equity

import (
	"context"
	"math"
	rand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-advisor/internal/deck"
	"github.com/lox/holdem-advisor/internal/evaluator"
	"github.com/lox/holdem-advisor/internal/randutil"
)

const (
	// Worker parallelism kicks in for preflop-sized trial counts.
	parallelMinTrials = 500
	maxWorkers        = 8
)

type workerResult struct {
	equitySum float64
	samples   int
}

// simulate runs the Monte-Carlo loop and returns the win percentage,
// rounded to one decimal. Ties credit 1/k for k players sharing the best
// hand, hero included.
func (e *Engine) simulate(hole, board []deck.Card, opponents, trials int) float64 {
	remaining := remainingCards(hole, board)

	workers := 1
	if trials >= parallelMinTrials {
		workers = runtime.NumCPU()
		if workers > maxWorkers {
			workers = maxWorkers
		}
	}

	if workers == 1 {
		res := runTrials(hole, board, remaining, opponents, trials, randutil.New(e.seed))
		return roundPct(res)
	}

	perWorker := trials / workers
	remainder := trials % workers

	seeder := randutil.New(e.seed)
	g, ctx := errgroup.WithContext(context.Background())
	results := make(chan workerResult, workers)

	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		// Independent RNG per worker to avoid contention.
		seed := seeder.Int64()

		g.Go(func() error {
			res := runTrials(hole, board, remaining, opponents, n, randutil.New(seed))
			select {
			case results <- res:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		g.Wait() //nolint:errcheck
	}()

	var total workerResult
	for res := range results {
		total.equitySum += res.equitySum
		total.samples += res.samples
	}
	return roundPct(total)
}

func runTrials(hole, board []deck.Card, remaining []deck.Card, opponents, trials int, rng *rand.Rand) workerResult {
	need := 5 - len(board)

	// Per-worker copies and reusable buffers.
	pool := make([]deck.Card, len(remaining))
	copy(pool, remaining)
	fullBoard := make([]deck.Card, 0, 5)
	hand := make([]deck.Card, 0, 7)

	var res workerResult
	for i := 0; i < trials; i++ {
		rng.Shuffle(len(pool), func(a, b int) {
			pool[a], pool[b] = pool[b], pool[a]
		})

		fullBoard = append(fullBoard[:0], board...)
		fullBoard = append(fullBoard, pool[:need]...)

		hand = append(hand[:0], hole...)
		hand = append(hand, fullBoard...)
		heroRank, ok := evaluator.Evaluate(hand)
		if !ok {
			continue
		}

		heroBest := true
		sharers := 1
		for opp := 0; opp < opponents; opp++ {
			oppHole := pool[need+2*opp : need+2*opp+2]
			hand = append(hand[:0], oppHole...)
			hand = append(hand, fullBoard...)
			oppRank, ok := evaluator.Evaluate(hand)
			if !ok {
				continue
			}
			if cmp := oppRank.Compare(heroRank); cmp > 0 {
				heroBest = false
				break
			} else if cmp == 0 {
				sharers++
			}
		}
		if heroBest {
			res.equitySum += 1 / float64(sharers)
		}
		res.samples++
	}
	return res
}

func roundPct(res workerResult) float64 {
	if res.samples == 0 {
		return 0
	}
	pct := 100 * res.equitySum / float64(res.samples)
	// One decimal, matching the precision the verdict thresholds expect.
	return math.Round(pct*10) / 10
}
