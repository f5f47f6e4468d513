package engine

import (
	"fmt"
	"io"
	"sync"

	tm "talon/talonmg"
)

// Engine bundles a position, a search and the game history behind a
// small facade, the surface the UCI loop and the HTTP service drive.
type Engine struct {
	mu         sync.Mutex
	pos        *tm.Position
	search     *Search
	tt         *TransTable
	opts       Options
	gameHashes []uint64
}

// New creates an engine on the starting position.
func New(opts Options) *Engine {
	tt := NewTransTable(opts.HashMB)
	e := &Engine{
		pos:    tm.MustParseFEN(tm.StartFEN),
		search: NewSearch(tt, opts),
		tt:     tt,
		opts:   opts,
	}
	e.gameHashes = append(e.gameHashes, e.pos.Hash())
	return e
}

// SetOutput directs search info lines to w. Pass nil to silence them.
func (e *Engine) SetOutput(w io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search.Output = w
}

// SetOptions replaces the engine's tunable parameters. The hash size
// is handled separately via SetHashMB.
func (e *Engine) SetOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	opts.HashMB = e.opts.HashMB
	e.opts = opts
	e.search.opts = opts
}

// SetHashMB resizes the transposition table, losing its contents.
func (e *Engine) SetHashMB(mb int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.HashMB = mb
	e.tt.Resize(mb)
}

// NewGame clears all state carried between searches.
func (e *Engine) NewGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search.ResetForNewGame()
	e.setPosition(tm.MustParseFEN(tm.StartFEN))
}

// SetPositionFEN replaces the game with the given position. The game
// hash history restarts here.
func (e *Engine) SetPositionFEN(fen string) error {
	pos, err := tm.ParseFEN(fen)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setPosition(pos)
	return nil
}

func (e *Engine) setPosition(pos *tm.Position) {
	e.pos = pos
	e.gameHashes = append(e.gameHashes[:0], pos.Hash())
}

// PlayMove applies a move in long algebraic form ("e2e4", "e7e8q") to
// the game position.
func (e *Engine) PlayMove(uciMove string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.pos.ParseMove(uciMove)
	if !ok {
		return fmt.Errorf("no legal move matches %q", uciMove)
	}
	if ok, _ := e.pos.MakeMove(m); !ok {
		return fmt.Errorf("illegal move %q", uciMove)
	}
	e.gameHashes = append(e.gameHashes, e.pos.Hash())
	return nil
}

// Position returns a copy of the current game position.
func (e *Engine) Position() *tm.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.Clone()
}

// FEN returns the current game position in FEN form.
func (e *Engine) FEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.ToFEN()
}

// InternalError wraps an invariant violation detected around a search.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return "internal engine error: " + e.Err.Error() }
func (e *InternalError) Unwrap() error { return e.Err }

// Search runs a blocking search on the current position. Stop unblocks
// it early.
func (e *Engine) Search(limits Limits) (Result, error) {
	if err := limits.validate(); err != nil {
		return Result{}, err
	}
	e.mu.Lock()
	pos := e.pos.Clone()
	hashes := append([]uint64(nil), e.gameHashes...)
	search := e.search
	e.mu.Unlock()
	if err := pos.Validate(); err != nil {
		return Result{}, &InternalError{Err: err}
	}
	return search.Run(pos, limits, hashes), nil
}

// Stop interrupts a running search.
func (e *Engine) Stop() {
	e.search.Stop()
}

// Stats returns the pruning counters from the last search.
func (e *Engine) Stats() CutStats {
	return e.search.stats
}
