// Package see implements Static Exchange Evaluation: estimating the
// material result of a capture sequence on a single square without a full
// search.
package see

import "github.com/kestrelchess/kestrel/internal/chess"

// Evaluate estimates the material gain of playing m, from the mover's
// perspective, by simulating the full alternating capture sequence on the
// destination square. En passant captures return a flat +100 without
// simulating any exchange, since the captured pawn is never on the
// destination square and its value is always a pawn's.
// Capturing (under)promotions are scored as a plain capture of the
// victim: the exchange simulation tracks the pawn's own value through the
// rest of the sequence rather than the promoted piece's.
func Evaluate(pos *chess.Position, m chess.Move) int {
	from := m.From()
	to := m.To()

	attacker := pos.PieceAt(from)
	if attacker == chess.NoPiece {
		return 0
	}

	if m.IsEnPassant() {
		return 100
	}

	victim := pos.PieceAt(to)
	if victim == chess.NoPiece {
		return 0
	}

	return swap(pos, to, from, attacker, chess.PieceValue[victim.Type()])
}

// swap runs the minimax exchange simulation on target, starting with the
// attacker at excludeFrom already having captured for initialGain.
func swap(pos *chess.Position, target, excludeFrom chess.Square, firstAttacker chess.Piece, initialGain int) int {
	var gain [32]int
	d := 0
	gain[d] = initialGain

	occupied := pos.AllOccupied &^ chess.SquareBB(excludeFrom)
	attackerValue := chess.PieceValue[firstAttacker.Type()]
	side := firstAttacker.Color().Other()

	for {
		d++
		gain[d] = attackerValue - gain[d-1]

		if max(-gain[d-1], gain[d]) < 0 {
			break
		}

		sq, piece := leastValuableAttacker(pos, target, side, occupied)
		if sq == chess.NoSquare {
			break
		}

		occupied &^= chess.SquareBB(sq)
		attackerValue = chess.PieceValue[piece.Type()]
		side = side.Other()
	}

	for d--; d > 0; d-- {
		gain[d-1] = -max(-gain[d-1], gain[d])
	}

	return gain[0]
}

// leastValuableAttacker finds the cheapest piece of side attacking target
// under occupied, recomputing slider attacks each call so that pieces
// revealed by earlier removals (x-ray attacks) are picked up.
func leastValuableAttacker(pos *chess.Position, target chess.Square, side chess.Color, occupied chess.Bitboard) (chess.Square, chess.Piece) {
	pawns := pos.Pieces[side][chess.Pawn] & occupied & chess.PawnAttacks(target, side.Other())
	if pawns != 0 {
		sq := pawns.LSB()
		return sq, chess.NewPiece(chess.Pawn, side)
	}

	knights := pos.Pieces[side][chess.Knight] & occupied & chess.KnightAttacks(target)
	if knights != 0 {
		sq := knights.LSB()
		return sq, chess.NewPiece(chess.Knight, side)
	}

	bishopAtt := chess.BishopAttacks(target, occupied)
	bishops := pos.Pieces[side][chess.Bishop] & occupied & bishopAtt
	if bishops != 0 {
		sq := bishops.LSB()
		return sq, chess.NewPiece(chess.Bishop, side)
	}

	rookAtt := chess.RookAttacks(target, occupied)
	rooks := pos.Pieces[side][chess.Rook] & occupied & rookAtt
	if rooks != 0 {
		sq := rooks.LSB()
		return sq, chess.NewPiece(chess.Rook, side)
	}

	queens := pos.Pieces[side][chess.Queen] & occupied & (bishopAtt | rookAtt)
	if queens != 0 {
		sq := queens.LSB()
		return sq, chess.NewPiece(chess.Queen, side)
	}

	king := pos.Pieces[side][chess.King] & occupied & chess.KingAttacks(target)
	if king != 0 {
		return king.LSB(), chess.NewPiece(chess.King, side)
	}

	return chess.NoSquare, chess.NoPiece
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
