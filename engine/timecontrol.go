package engine

import (
	"fmt"
	"math/bits"
	"time"

	tm "talon/talonmg"
)

// Limits carries the caller's constraints for one search: clock times
// and increments in milliseconds, or fixed depth, node or move-time
// caps. A zero field means that bound is absent; at least one bound
// must be set.
type Limits struct {
	WhiteTimeMS int
	BlackTimeMS int
	WhiteIncMS  int
	BlackIncMS  int
	MovesToGo   int
	MoveTimeMS  int
	Depth       int
	Nodes       uint64
	Infinite    bool
}

// LimitsError reports search limits that cannot be honored.
type LimitsError struct {
	Field string
	Value int
}

func (e *LimitsError) Error() string {
	return fmt.Sprintf("invalid search limit: %s = %d", e.Field, e.Value)
}

// clockGame reports whether any clock field puts a timed game in play.
func (l Limits) clockGame() bool {
	return l.WhiteTimeMS > 0 || l.BlackTimeMS > 0 || l.WhiteIncMS > 0 || l.BlackIncMS > 0
}

// validate rejects limits no search could satisfy. A zero field means
// that bound is absent, but at least one bound must remain: with no
// clock, movetime, node cap or infinite flag, depth is the binding
// limit and must be positive.
func (l Limits) validate() error {
	if l.Depth < 0 {
		return &LimitsError{Field: "depth", Value: l.Depth}
	}
	if l.Depth == 0 && !l.Infinite && l.Nodes == 0 && l.MoveTimeMS == 0 && !l.clockGame() {
		return &LimitsError{Field: "depth", Value: 0}
	}
	if l.MoveTimeMS < 0 {
		return &LimitsError{Field: "movetime", Value: l.MoveTimeMS}
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"wtime", l.WhiteTimeMS}, {"btime", l.BlackTimeMS},
		{"winc", l.WhiteIncMS}, {"binc", l.BlackIncMS},
		{"movestogo", l.MovesToGo},
	} {
		if f.v < 0 {
			return &LimitsError{Field: f.name, Value: f.v}
		}
	}
	return nil
}

// timeHandler turns the clock situation into a single deadline the
// search polls against.
type timeHandler struct {
	deadline   time.Time
	hasDeadline bool
	started    time.Time
}

const (
	// Reserve for I/O jitter so we never flag on the wire.
	overheadMS = 30
	minMoveMS  = 5
	// Never spend more than this share of the remaining clock.
	maxClockFrac = 0.7
	// Below this remaining time, live off the increment.
	panicThresholdMS = 1000
	panicIncFrac     = 0.90
)

// start computes the time slice for this move. With no clock limits
// the search runs until stopped by depth, nodes or the caller.
func (th *timeHandler) start(p *tm.Position, limits Limits) {
	th.started = time.Now()
	th.hasDeadline = false

	if limits.Infinite {
		return
	}
	if limits.MoveTimeMS > 0 {
		th.setDeadline(Max(limits.MoveTimeMS-overheadMS, minMoveMS))
		return
	}

	rem, inc := limits.WhiteTimeMS, limits.WhiteIncMS
	if p.SideToMove() == tm.Black {
		rem, inc = limits.BlackTimeMS, limits.BlackIncMS
	}
	if rem <= 0 {
		// A timed game with the mover's clock already exhausted buys
		// exactly the first iteration.
		if limits.clockGame() {
			th.deadline = th.started
			th.hasDeadline = true
		}
		return
	}

	movesLeft := limits.MovesToGo
	if movesLeft <= 0 {
		movesLeft = estimateMovesRemaining(p)
	}

	var moveTime int
	if inc > 0 {
		if rem < panicThresholdMS {
			moveTime = int(float64(inc) * panicIncFrac)
		} else {
			moveTime = rem/movesLeft + inc
		}
	} else {
		moveTime = rem / movesLeft
	}

	moveTime = Min(moveTime, int(float64(rem)*maxClockFrac))
	moveTime = Min(moveTime, rem-overheadMS)
	moveTime = Max(moveTime, minMoveMS)
	th.setDeadline(moveTime)
}

func (th *timeHandler) setDeadline(ms int) {
	th.deadline = th.started.Add(time.Duration(ms) * time.Millisecond)
	th.hasDeadline = true
}

func (th *timeHandler) expired() bool {
	return th.hasDeadline && time.Now().After(th.deadline)
}

func (th *timeHandler) elapsed() time.Duration {
	return time.Since(th.started)
}

// estimateMovesRemaining interpolates the expected game length from
// the material phase: around 45 moves to budget for in the opening,
// tapering to 20 in bare endgames.
func estimateMovesRemaining(p *tm.Position) int {
	phase := 0
	for c := tm.White; c <= tm.Black; c++ {
		for pt := tm.Knight; pt <= tm.Queen; pt++ {
			phase += phaseWeight[pt] * bits.OnesCount64(p.PieceBB(c, pt))
		}
	}
	phase = Min(phase, totalPhase)
	return 20 + phase*25/totalPhase
}
