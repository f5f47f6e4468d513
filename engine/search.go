package engine

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	tm "talon/talonmg"
)

// Options are the tunable engine parameters exposed over UCI.
type Options struct {
	HashMB             int
	AspirationWindowCP int
	NullMoveReduction  int
	LMRMinMoveIndex    int
	ShowCutStats       bool
}

// DefaultOptions returns the settings the engine ships with.
func DefaultOptions() Options {
	return Options{
		HashMB:             128,
		AspirationWindowCP: 50,
		NullMoveReduction:  2,
		LMRMinMoveIndex:    4,
	}
}

// Termination records why a search returned.
type Termination int

const (
	// TerminationCompleted means every requested iteration finished.
	TerminationCompleted Termination = iota
	// TerminationDeadline means the clock budget ran out.
	TerminationDeadline
	// TerminationCancelled means Stop was called.
	TerminationCancelled
	// TerminationNodeCap means the node limit was reached.
	TerminationNodeCap
	// TerminationTerminal means the root position is already decided:
	// mate, stalemate, or a claimable draw.
	TerminationTerminal
)

func (t Termination) String() string {
	switch t {
	case TerminationDeadline:
		return "deadline"
	case TerminationCancelled:
		return "cancelled"
	case TerminationNodeCap:
		return "nodecap"
	case TerminationTerminal:
		return "terminal"
	default:
		return "completed"
	}
}

// Result is the outcome of one search: the move to play, its score
// from the mover's point of view, and the usual reporting figures.
type Result struct {
	BestMove    tm.Move
	Score       int
	Depth       int
	Nodes       uint64
	Time        time.Duration
	PV          []tm.Move
	Termination Termination

	// TTHitRate is the share of transposition probes that found their
	// position; CutoffRate the number of beta cutoffs in the main search
	// divided by all nodes visited, quiescence nodes included.
	TTHitRate  float64
	CutoffRate float64
}

// Search holds all per-engine search state. It is not safe for
// concurrent use; one Search drives one game.
type Search struct {
	opts    Options
	tt      *TransTable
	killers killerTable
	history historyTable
	hist    *hashHistory
	pv      pvTable
	timer   timeHandler
	limits  Limits
	stats   CutStats

	// Output, when set, receives "info ..." lines during the search.
	Output io.Writer

	nodes     uint64
	stopped   bool
	stopFlag  atomic.Bool
	iterDepth int
	lastPV    []tm.Move
	followPV  bool
	moveDest  [maxPly + 1]tm.Square
	moveBufs  [maxPly + 1][]tm.Move
	capBufs   [maxPly + 1][]tm.Move
}

// NewSearch creates a search sharing the given transposition table.
func NewSearch(tt *TransTable, opts Options) *Search {
	s := &Search{opts: opts, tt: tt, hist: newHashHistory()}
	for i := range s.moveBufs {
		s.moveBufs[i] = make([]tm.Move, 0, tm.MaxMoves)
		s.capBufs[i] = make([]tm.Move, 0, tm.MaxMoves)
	}
	return s
}

// ResetForNewGame clears everything learned from the previous game.
func (s *Search) ResetForNewGame() {
	s.tt.Clear()
	s.killers.clear()
	s.history.clear()
	s.lastPV = nil
}

// Stop asks a running search to return as soon as possible. Safe to
// call from another goroutine.
func (s *Search) Stop() {
	s.stopFlag.Store(true)
}

// Run searches the position within the given limits using iterative
// deepening with aspiration windows. The gameHashes slice carries the
// zobrist hashes of the positions already played, newest last, so the
// search can see threefold repetitions that span the game history.
func (s *Search) Run(p *tm.Position, limits Limits, gameHashes []uint64) Result {
	s.limits = limits
	s.nodes = 0
	s.stopped = false
	s.stopFlag.Store(false)
	s.stats.reset()
	s.timer.start(p, limits)
	s.tt.NextGeneration()

	s.hist.hashes = append(s.hist.hashes[:0], gameHashes...)
	if n := len(s.hist.hashes); n == 0 || s.hist.hashes[n-1] != p.Hash() {
		s.hist.push(p.Hash())
	}

	// A root position the mover could already claim drawn is not worth
	// searching; report the draw with any legal move.
	if p.Rule50() >= 100 || p.InsufficientMaterial() || s.hist.occurrences(p.Rule50()) >= 3 {
		res := Result{Score: scoreDraw, Termination: TerminationTerminal, Time: s.timer.elapsed()}
		if moves := p.GenerateMoves(); len(moves) > 0 {
			res.BestMove = moves[0]
			res.PV = []tm.Move{moves[0]}
		}
		return res
	}

	maxD := maxDepth
	if limits.Depth > 0 {
		maxD = Min(limits.Depth, maxDepth)
	}

	var res Result
	score := 0
	for depth := 1; depth <= maxD; depth++ {
		s.iterDepth = depth
		s.followPV = len(s.lastPV) > 0
		score = s.aspirate(p, depth, score)
		if s.stopped && depth > 1 {
			break
		}

		line := s.pv.rootLine()
		if len(line) == 0 {
			// Mate or stalemate at the root: terminal score, no move.
			res = Result{
				Score:       score,
				Depth:       depth,
				Nodes:       s.nodes,
				Time:        s.timer.elapsed(),
				Termination: TerminationTerminal,
			}
			break
		}
		res = Result{
			BestMove: line[0],
			Score:    score,
			Depth:    depth,
			Nodes:    s.nodes,
			Time:     s.timer.elapsed(),
			PV:       append([]tm.Move(nil), line...),
		}
		s.lastPV = res.PV
		s.emitInfo(res)

		if s.timer.expired() || s.stopFlag.Load() {
			break
		}
		if score > scoreMateThreshold && scoreMate-score <= depth {
			break
		}
	}

	if res.Termination != TerminationTerminal {
		switch {
		case s.stopFlag.Load():
			res.Termination = TerminationCancelled
		case s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes:
			res.Termination = TerminationNodeCap
		case s.timer.expired():
			res.Termination = TerminationDeadline
		default:
			res.Termination = TerminationCompleted
		}
	}
	if s.stats.TTProbes > 0 {
		res.TTHitRate = float64(s.stats.TTHits) / float64(s.stats.TTProbes)
	}
	if s.nodes > 0 {
		res.CutoffRate = float64(s.stats.BetaCuts) / float64(s.nodes)
	}

	if s.opts.ShowCutStats && s.Output != nil {
		for _, line := range s.stats.lines() {
			fmt.Fprintf(s.Output, "info string %s\n", line)
		}
	}
	return res
}

// aspirate wraps the root search in a window around the previous
// iteration's score; a fail on either side re-searches with the full
// (-inf, +inf) window.
func (s *Search) aspirate(p *tm.Position, depth, prev int) int {
	if depth < 4 || s.opts.AspirationWindowCP <= 0 {
		return s.alphabeta(p, depth, 0, -scoreInfinite, scoreInfinite, 0, false)
	}

	delta := s.opts.AspirationWindowCP
	alpha := Max(prev-delta, -scoreInfinite)
	beta := Min(prev+delta, scoreInfinite)
	for {
		score := s.alphabeta(p, depth, 0, alpha, beta, 0, false)
		if s.stopped {
			return score
		}
		if score > alpha && score < beta {
			return score
		}
		alpha, beta = -scoreInfinite, scoreInfinite
	}
}

func (s *Search) emitInfo(r Result) {
	if s.Output == nil {
		return
	}
	ms := r.Time.Milliseconds()
	nps := int64(0)
	if ms > 0 {
		nps = int64(r.Nodes) * 1000 / ms
	}
	fmt.Fprintf(s.Output, "info depth %d score %s nodes %d time %d nps %d pv %s\n",
		r.Depth, formatScore(r.Score), r.Nodes, ms, nps, pvString(r.PV))
}

// visitNode counts the node and polls the clock and external stop
// every 4096 nodes, keeping the hot path free of time syscalls. The
// first iteration is never interrupted, so a complete depth-1 result
// always exists.
func (s *Search) visitNode() {
	s.nodes++
	if s.nodes&4095 != 0 || s.iterDepth <= 1 {
		return
	}
	if s.timer.expired() || s.stopFlag.Load() {
		s.stopped = true
	}
	if s.limits.Nodes > 0 && s.nodes >= s.limits.Nodes {
		s.stopped = true
	}
}

func hasNonPawnMaterial(p *tm.Position, side tm.Color) bool {
	return p.Occupied(side) != p.PieceBB(side, tm.Pawn)|p.PieceBB(side, tm.King)
}

// seventhRankPush reports a pawn move landing on the sixth or seventh
// rank from the mover's point of view; whether the pawn is passed is
// not checked.
func seventhRankPush(m tm.Move) bool {
	if m.Moved().Type() != tm.Pawn {
		return false
	}
	r := tm.RankOf(m.To())
	if m.Moved().Color() == tm.White {
		return r == 5 || r == 6
	}
	return r == 2 || r == 1
}

func (s *Search) alphabeta(p *tm.Position, depth, ply, alpha, beta, ext int, nullMade bool) int {
	s.pv.clear(ply)
	s.visitNode()
	if s.stopped {
		return 0
	}
	if ply >= maxPly {
		return Evaluate(p)
	}

	if ply > 0 {
		if p.Rule50() >= 100 || p.InsufficientMaterial() || s.hist.isRepetition(p.Rule50()) {
			return scoreDraw
		}
	}

	isPV := beta-alpha > 1 || ply == 0
	s.stats.TTProbes++
	ttScore, hashMove, usable := s.tt.Probe(p.Hash(), depth, ply, alpha, beta)
	if usable || hashMove != tm.NullMove {
		s.stats.TTHits++
	}
	if usable && !isPV {
		s.stats.TTCuts++
		return ttScore
	}

	if depth <= 0 {
		return s.quiescence(p, ply, alpha, beta)
	}

	inCheck := p.InCheck(p.SideToMove())
	static := Evaluate(p)

	// Null move: hand the opponent a free tempo; if the reduced search
	// still clears beta the real position surely does. Unsound in
	// zugzwang, hence the non-pawn-material guard.
	if !nullMade && !isPV && !inCheck && depth >= 3 && static >= beta &&
		hasNonPawnMaterial(p, p.SideToMove()) && !isMateScore(beta) {
		r := s.opts.NullMoveReduction
		if depth >= 6 {
			r++
		}
		st := p.MakeNullMove()
		s.hist.push(p.Hash())
		score := -s.alphabeta(p, depth-1-r, ply+1, -beta, -beta+1, ext, true)
		s.hist.pop()
		p.UnmakeNullMove(st)
		if s.stopped {
			return 0
		}
		if score >= beta && !isMateScore(score) {
			s.stats.NullMoveCuts++
			return beta
		}
	}

	// Razoring: a shallow node so far below alpha that only a tactic
	// can save it; let quiescence have the last word.
	if !isPV && !inCheck && depth <= 2 {
		margin := 300
		if depth == 2 {
			margin = 500
		}
		if static+margin <= alpha {
			score := s.quiescence(p, ply, alpha, beta)
			if score <= alpha {
				s.stats.RazorCuts++
				return score
			}
		}
	}

	moves := p.GenerateMovesInto(s.moveBufs[ply][:0])
	if len(moves) == 0 {
		if inCheck {
			return matedScore(ply)
		}
		return scoreDraw
	}

	pvMove := tm.NullMove
	if s.followPV {
		if ply < len(s.lastPV) {
			pvMove = s.lastPV[ply]
		} else {
			s.followPV = false
		}
	}

	ml := s.scoreMoves(p, moves, ply, pvMove, hashMove)
	mover := p.SideToMove()
	bestScore := -scoreInfinite
	bestMove := tm.NullMove
	bound := BoundUpper

	for i := 0; i < ml.len(); i++ {
		m := ml.next(i)
		if i > 0 {
			s.followPV = false
		}

		ok, st := p.MakeMove(m)
		if !ok {
			continue
		}
		s.hist.push(p.Hash())
		s.moveDest[ply] = m.To()

		givesCheck := p.InCheck(p.SideToMove())
		extend := 0
		if ext < s.iterDepth/2 {
			switch {
			case givesCheck:
				extend = 1
			case seventhRankPush(m):
				extend = 1
			case m.IsCapture() && ply > 0 && m.To() == s.moveDest[ply-1]:
				extend = 1
			}
			if extend == 1 {
				s.stats.Extensions++
			}
		}
		newDepth := depth - 1 + extend

		var score int
		if i == 0 {
			score = -s.alphabeta(p, newDepth, ply+1, -beta, -alpha, ext+extend, false)
		} else {
			// Late quiet moves are searched reduced with a null window
			// first; anything promising gets the full treatment.
			reduce := 0
			if extend == 0 && depth >= 3 && i > s.opts.LMRMinMoveIndex &&
				m.IsQuiet() && !inCheck && !givesCheck && !s.killers.isKiller(ply, m) {
				reduce = 1
				if i > 3*s.opts.LMRMinMoveIndex {
					reduce = 2
				}
			}
			score = -s.alphabeta(p, newDepth-reduce, ply+1, -alpha-1, -alpha, ext+extend, false)
			if score > alpha && reduce > 0 {
				s.stats.LMRResearches++
				score = -s.alphabeta(p, newDepth, ply+1, -alpha-1, -alpha, ext+extend, false)
			}
			if score > alpha && score < beta {
				score = -s.alphabeta(p, newDepth, ply+1, -beta, -alpha, ext+extend, false)
			}
		}

		s.hist.pop()
		p.UnmakeMove(st)
		if s.stopped {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				bound = BoundExact
				s.pv.extend(ply, m)
				if alpha >= beta {
					s.stats.BetaCuts++
					if i == 0 {
						s.stats.FirstMoveCuts++
					}
					if m.IsQuiet() {
						s.killers.insert(ply, m)
						s.history.increment(mover, m, depth)
					}
					bound = BoundLower
					break
				}
			}
		}
	}

	s.tt.Store(p.Hash(), bestMove, bestScore, depth, ply, bound)
	return bestScore
}

// quiescence resolves captures until the position is quiet so the
// evaluation is never taken in the middle of an exchange. In check,
// every evasion is searched instead of standing pat.
func (s *Search) quiescence(p *tm.Position, ply, alpha, beta int) int {
	s.pv.clear(ply)
	s.visitNode()
	s.stats.QNodes++
	if s.stopped {
		return 0
	}
	if ply >= maxPly {
		return Evaluate(p)
	}
	if p.Rule50() >= 100 || p.InsufficientMaterial() || s.hist.isRepetition(p.Rule50()) {
		return scoreDraw
	}

	inCheck := p.InCheck(p.SideToMove())
	if inCheck {
		moves := p.GenerateMovesInto(s.moveBufs[ply][:0])
		if len(moves) == 0 {
			return matedScore(ply)
		}
		ml := s.scoreMoves(p, moves, ply, tm.NullMove, s.tt.HashMove(p.Hash()))
		best := -scoreInfinite
		for i := 0; i < ml.len(); i++ {
			m := ml.next(i)
			ok, st := p.MakeMove(m)
			if !ok {
				continue
			}
			s.hist.push(p.Hash())
			score := -s.quiescence(p, ply+1, -beta, -alpha)
			s.hist.pop()
			p.UnmakeMove(st)
			if s.stopped {
				return 0
			}
			if score > best {
				best = score
				if score > alpha {
					alpha = score
					s.pv.extend(ply, m)
					if alpha >= beta {
						break
					}
				}
			}
		}
		return best
	}

	static := Evaluate(p)
	if static >= beta {
		return static
	}
	if static > alpha {
		alpha = static
	}

	caps := p.GenerateCapturesInto(s.capBufs[ply][:0])
	ml := s.scoreCaptures(p, caps)
	best := static
	for i := 0; i < ml.len(); i++ {
		m := ml.next(i)
		// Exchanges that lose more than a pawn rarely rescue the node.
		if m.Promotion() == tm.NoPiece && SEE(p, m) < -100 {
			continue
		}
		ok, st := p.MakeMove(m)
		if !ok {
			continue
		}
		s.hist.push(p.Hash())
		score := -s.quiescence(p, ply+1, -beta, -alpha)
		s.hist.pop()
		p.UnmakeMove(st)
		if s.stopped {
			return 0
		}
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				s.pv.extend(ply, m)
				if alpha >= beta {
					break
				}
			}
		}
	}
	return best
}
