// Package eval scores a position from the side-to-move's perspective in
// centipawns, blending middlegame and endgame terms by game phase.
package eval

import (
	"github.com/kestrelchess/kestrel/internal/chess"
	"github.com/kestrelchess/kestrel/internal/pawntt"
)

// TempoBonus rewards the side on move, added to the midgame score before
// the phase blend (after the blend on the lazy-exit path).
const TempoBonus = 10

// LazyThreshold gates the expensive pawn-structure/piece-level/king-safety
// terms: once material+PSQT alone clears this margin (scaled by how
// middlegame-like the position still is), the cheap terms are trusted.
const LazyThreshold = 900

const (
	doubledPawnMg  = -15
	doubledPawnEg  = -20
	isolatedPawnMg = -20
	isolatedPawnEg = -25
	blockedPawnMg  = -10
	blockedPawnEg  = -5
	phalanxPawnMg  = 8
	phalanxPawnEg  = 5
	supportedPawnMg = 6
	supportedPawnEg = 10
)

var passedPawnBonusByRank = [8]int{0, 10, 20, 40, 70, 120, 200, 0}

const (
	bishopPairMg = 25
	bishopPairEg = 50
)

// Evaluate returns the static evaluation of p from the side-to-move's
// perspective. pawnTable may be nil, in which case pawn structure is
// recomputed every call instead of cached.
func Evaluate(p *chess.Position, pawnTable *pawntt.Table) int {
	if p.CheckInsufficientMaterial() {
		return 0
	}

	material := p.Material()
	mid := material + p.PsqMidValue()
	end := material + p.PsqEndValue()
	phase := p.GamePhase()

	blended := (mid*phase + end*(chess.MaxGamePhase-phase)) / chess.MaxGamePhase
	phaseFactor := float64(phase) / float64(chess.MaxGamePhase)
	if abs(blended) > int(LazyThreshold*(1+phaseFactor)) {
		return sideRelative(p, blended+TempoBonusFor(p))
	}

	pawnMid, pawnEnd := pawnStructure(p, pawnTable)
	mid += pawnMid
	end += pawnEnd

	if p.Pieces[chess.White][chess.Bishop].PopCount() > 1 {
		mid += bishopPairMg
		end += bishopPairEg
	}
	if p.Pieces[chess.Black][chess.Bishop].PopCount() > 1 {
		mid -= bishopPairMg
		end -= bishopPairEg
	}

	mid += kingSafety(p, chess.White) - kingSafety(p, chess.Black)

	mid += TempoBonusFor(p)

	blended = (mid*phase + end*(chess.MaxGamePhase-phase)) / chess.MaxGamePhase
	return sideRelative(p, blended)
}

// TempoBonusFor returns the signed tempo bonus for the side to move.
func TempoBonusFor(p *chess.Position) int {
	if p.SideToMove == chess.White {
		return TempoBonus
	}
	return -TempoBonus
}

func sideRelative(p *chess.Position, whiteScore int) int {
	if p.SideToMove == chess.Black {
		return -whiteScore
	}
	return whiteScore
}

// pawnStructure scores isolated, doubled, passed, blocked, phalanx and
// supported pawns as popcounts over constructed bitboards, cached in
// pawnTable keyed by the pawn-only Zobrist key.
func pawnStructure(p *chess.Position, pawnTable *pawntt.Table) (mid, end int) {
	if pawnTable != nil {
		if mg, eg, found := pawnTable.Probe(p.PawnKey); found {
			return int(mg), int(eg)
		}
	}

	mg, eg := computePawnStructure(p)

	if pawnTable != nil {
		pawnTable.Put(p.PawnKey, int16(mg), int16(eg))
	}
	return mg, eg
}

func computePawnStructure(p *chess.Position) (mid, end int) {
	for c := chess.White; c <= chess.Black; c++ {
		sign := 1
		if c == chess.Black {
			sign = -1
		}
		them := c.Other()
		pawns := p.Pieces[c][chess.Pawn]
		enemyPawns := p.Pieces[them][chess.Pawn]

		for file := 0; file < 8; file++ {
			onFile := pawns & chess.FileMask[file]
			if onFile.PopCount() > 1 {
				doubled := onFile.PopCount() - 1
				mid += sign * doubledPawnMg * doubled
				end += sign * doubledPawnEg * doubled
			}

			var adjacent chess.Bitboard
			if file > 0 {
				adjacent |= chess.FileMask[file-1]
			}
			if file < 7 {
				adjacent |= chess.FileMask[file+1]
			}
			if onFile != 0 && pawns&adjacent == 0 {
				n := onFile.PopCount()
				mid += sign * isolatedPawnMg * n
				end += sign * isolatedPawnEg * n
			}
		}

		blocked := frontFill(pawns, c) & enemyPawns
		// frontFill includes the pawn's own square projection; count only
		// pawns whose immediate stop square is occupied by an enemy pawn.
		blockedCount := 0
		bb := pawns
		for bb != 0 {
			sq := bb.PopLSB()
			var stop chess.Square
			if c == chess.White {
				stop = sq + 8
			} else {
				stop = sq - 8
			}
			if stop.IsValid() && enemyPawns.IsSet(stop) {
				blockedCount++
			}
		}
		_ = blocked
		mid += sign * blockedPawnMg * blockedCount
		end += sign * blockedPawnEg * blockedCount

		phalanx := 0
		supported := 0
		bb = pawns
		for bb != 0 {
			sq := bb.PopLSB()
			file := sq.File()
			if file < 7 && pawns.IsSet(sq+1) && sq.Rank() == (sq+1).Rank() {
				phalanx++
			}
			if pawns&chess.PawnAttacks(sq, them) != 0 {
				supported++
			}
		}
		mid += sign * phalanxPawnMg * phalanx
		end += sign * phalanxPawnEg * phalanx
		mid += sign * supportedPawnMg * supported
		end += sign * supportedPawnEg * supported

		passed := 0
		passedRankSum := 0
		bb = pawns
		for bb != 0 {
			sq := bb.PopLSB()
			if isPassed(sq, c, enemyPawns) {
				passed++
				passedRankSum += passedPawnBonusByRank[sq.RelativeRank(c)]
			}
		}
		mid += sign * passedRankSum
		end += sign * passedRankSum * 3 / 2
		_ = passed
	}

	return mid, end
}

func frontFill(pawns chess.Bitboard, c chess.Color) chess.Bitboard {
	if c == chess.White {
		return pawns.NorthFill() &^ pawns
	}
	return pawns.SouthFill() &^ pawns
}

func isPassed(sq chess.Square, c chess.Color, enemyPawns chess.Bitboard) bool {
	file := sq.File()
	fileMask := chess.FileMask[file]
	if file > 0 {
		fileMask |= chess.FileMask[file-1]
	}
	if file < 7 {
		fileMask |= chess.FileMask[file+1]
	}

	var front chess.Bitboard
	if c == chess.White {
		front = chess.SquareBB(sq).NorthFill() &^ chess.SquareBB(sq)
	} else {
		front = chess.SquareBB(sq).SouthFill() &^ chess.SquareBB(sq)
	}
	front |= front.East() | front.West()

	return enemyPawns&fileMask&front == 0
}

// kingSafety is a placeholder hook: a light pawn-shield term counting the
// side's own pawns on any square adjacent to the king. There are no
// open-file or attacker-weight terms.
func kingSafety(p *chess.Position, c chess.Color) int {
	ksq := p.KingSquare[c]
	if ksq == chess.NoSquare {
		return 0
	}
	shield := chess.KingAttacks(ksq) & p.Pieces[c][chess.Pawn]
	return shield.PopCount() * 5
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
