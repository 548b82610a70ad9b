// Package history tracks move-ordering heuristics across a search: a
// history-of-success table for quiet moves, a two-slot killer-move ring per
// ply, and a counter-move table indexed by the opponent's last move.
package history

import "github.com/kestrelchess/kestrel/internal/chess"

// MaxPly bounds the killer table; deeper plies reuse the last slot.
const MaxPly = 128

// Tables holds the ordering state for one search. Not safe for concurrent
// use by more than one goroutine.
type Tables struct {
	killers [MaxPly][2]chess.Move
	history [64][64]int
	counter [12][64]chess.Move
}

// New creates an empty ordering table set.
func New() *Tables {
	return &Tables{}
}

// Clear resets killers and counter-moves, and ages (halves) the history
// table, for the start of a new search.
func (t *Tables) Clear() {
	for i := range t.killers {
		t.killers[i][0] = chess.NoMove
		t.killers[i][1] = chess.NoMove
	}
	for i := range t.counter {
		for j := range t.counter[i] {
			t.counter[i][j] = chess.NoMove
		}
	}
	for i := range t.history {
		for j := range t.history[i] {
			t.history[i][j] /= 2
		}
	}
}

// Killers returns the two killer moves stored at ply.
func (t *Tables) Killers(ply int) (chess.Move, chess.Move) {
	if ply >= MaxPly {
		ply = MaxPly - 1
	}
	return t.killers[ply][0], t.killers[ply][1]
}

// IsKiller reports whether m is either killer move at ply.
func (t *Tables) IsKiller(m chess.Move, ply int) bool {
	a, b := t.Killers(ply)
	return m == a || m == b
}

// UpdateKillers records m as a killer at ply, evicting the older slot. A
// move already in the primary slot is left untouched.
func (t *Tables) UpdateKillers(m chess.Move, ply int) {
	if ply >= MaxPly {
		ply = MaxPly - 1
	}
	if t.killers[ply][0] == m {
		return
	}
	t.killers[ply][1] = t.killers[ply][0]
	t.killers[ply][0] = m
}

// historyCap bounds the magnitude of a history entry; breaching it halves
// the whole table to keep scores comparable across a long search.
const historyCap = 400000

// UpdateHistory adjusts the history score for a quiet move by depth^2,
// rewarding a cutoff and penalizing a move that was tried and failed.
func (t *Tables) UpdateHistory(m chess.Move, depth int, good bool) {
	from, to := m.From(), m.To()
	bonus := depth * depth

	if good {
		t.history[from][to] += bonus
		if t.history[from][to] > historyCap {
			t.halveHistory()
		}
		return
	}
	t.history[from][to] -= bonus
	if t.history[from][to] < -historyCap {
		t.history[from][to] = -historyCap
	}
}

func (t *Tables) halveHistory() {
	for i := range t.history {
		for j := range t.history[i] {
			t.history[i][j] /= 2
		}
	}
}

// HistoryScore returns the current history score for a move.
func (t *Tables) HistoryScore(m chess.Move) int {
	return t.history[m.From()][m.To()]
}

// UpdateCounterMove records counter as the reply to prevMove, played from a
// position where the piece that just moved is piece.
func (t *Tables) UpdateCounterMove(prevMove, counter chess.Move, prevPiece chess.Piece) {
	if prevMove == chess.NoMove || prevPiece == chess.NoPiece {
		return
	}
	t.counter[prevPiece][prevMove.To()] = counter
}

// CounterMove returns the recorded reply to prevMove, or NoMove if none.
func (t *Tables) CounterMove(prevMove chess.Move, prevPiece chess.Piece) chess.Move {
	if prevMove == chess.NoMove || prevPiece == chess.NoPiece {
		return chess.NoMove
	}
	return t.counter[prevPiece][prevMove.To()]
}
