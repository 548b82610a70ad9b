package chess

// Fancy magic bitboards for sliding-piece (bishop/rook) attack lookups: each
// square's relevant occupancy is hashed through a precomputed multiplier
// into a dense slice of the square's own possible attack sets, built once at
// init from indexToOccupancy + the ray-casting slow paths below.

// slidingMagic is one square's magic-multiplication parameters: the relevant
// occupancy mask, the multiplier, the down-shift that turns the masked
// occupancy into a table index, and that square's offset into the shared
// attack slice.
type slidingMagic struct {
	mask   Bitboard
	magic  uint64
	shift  uint8
	offset uint32
}

var (
	bishopMagicsBySquare [64]slidingMagic
	rookMagicsBySquare   [64]slidingMagic

	bishopAttackSlice [5248]Bitboard
	rookAttackSlice   [102400]Bitboard
)

// bishopMagicNumbers and rookMagicNumbers are precomputed multipliers (found
// offline by search) that hash a square's masked occupancy onto a
// collision-free index within that square's slice of bishopAttackSlice /
// rookAttackSlice. They are load-bearing constants, not derived at runtime.
var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

// initMagics fills both sliding-piece magic tables in one pass, sharing the
// per-square indexing loop between bishops and rooks via buildSlidingMagics.
func initMagics() {
	buildSlidingMagics(bishopMagicsBySquare[:], bishopAttackSlice[:], bishopMagicNumbers, bishopMask, bishopAttacksSlow)
	buildSlidingMagics(rookMagicsBySquare[:], rookAttackSlice[:], rookMagicNumbers, rookMask, rookAttacksSlow)
}

// buildSlidingMagics populates table (one slidingMagic per square) and slice
// (the shared dense attack sets those entries index into), given that
// piece's occupancy-mask function and ray-casting slow path.
func buildSlidingMagics(table []slidingMagic, slice []Bitboard, numbers [64]uint64, maskFor func(Square) Bitboard, slowAttacks func(Square, Bitboard) Bitboard) {
	var offset uint32
	for sq := A1; sq <= H8; sq++ {
		mask := maskFor(sq)
		relevantBits := mask.PopCount()

		table[sq] = slidingMagic{
			mask:   mask,
			magic:  numbers[sq],
			shift:  uint8(64 - relevantBits),
			offset: offset,
		}

		entries := 1 << relevantBits
		for i := 0; i < entries; i++ {
			occ := indexToOccupancy(i, relevantBits, mask)
			idx := (uint64(occ) * numbers[sq]) >> (64 - relevantBits)
			slice[offset+uint32(idx)] = slowAttacks(sq, occ)
		}
		offset += uint32(entries)
	}
}

// bishopMask returns the relevant occupancy mask for a bishop on sq: its
// unobstructed diagonal rays, with board-edge squares stripped out since a
// piece sitting on the edge can never block or be blocked differently than
// the edge itself.
func bishopMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, 0) & ^(Rank1 | Rank8 | FileA | FileH)
}

// rookMask returns the relevant occupancy mask for a rook on sq: its file
// and rank, excluding the two end squares of each (same edge-stripping
// reasoning as bishopMask).
func rookMask(sq Square) Bitboard {
	file := sq.File()
	rank := sq.Rank()

	var mask Bitboard
	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}
	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}
	return mask
}

// indexToOccupancy expands index (0..2^bits-1) into one concrete occupancy
// subset of mask, by treating each set bit of index as "this relevant
// square is occupied" in mask's bit order.
func indexToOccupancy(index, bits int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < bits; i++ {
		sq := mask.LSB()
		mask &= mask - 1
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

// bishopAttacksSlow ray-casts a bishop's attacks across all four diagonals,
// stopping at (and including) the first occupied square each way. Used only
// to populate bishopAttackSlice at init; BishopAttacks is the hot path.
func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	file, rank := sq.File(), sq.Rank()

	for f, r := file+1, rank+1; f <= 7 && r <= 7; f, r = f+1, r+1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f, r := file-1, rank+1; f >= 0 && r <= 7; f, r = f-1, r+1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f, r := file+1, rank-1; f <= 7 && r >= 0; f, r = f+1, r-1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f, r := file-1, rank-1; f >= 0 && r >= 0; f, r = f-1, r-1 {
		s := NewSquare(f, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}

	return attacks
}

// rookAttacksSlow ray-casts a rook's attacks across its file and rank,
// stopping at (and including) the first occupied square each way. Used only
// to populate rookAttackSlice at init; RookAttacks is the hot path.
func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	file, rank := sq.File(), sq.Rank()

	for r := rank + 1; r <= 7; r++ {
		s := NewSquare(file, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for r := rank - 1; r >= 0; r-- {
		s := NewSquare(file, r)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f := file + 1; f <= 7; f++ {
		s := NewSquare(f, rank)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}
	for f := file - 1; f >= 0; f-- {
		s := NewSquare(f, rank)
		attacks |= SquareBB(s)
		if occupied&SquareBB(s) != 0 {
			break
		}
	}

	return attacks
}

// getBishopAttacks returns bishop attacks from sq using the magic table.
func getBishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagicsBySquare[sq]
	idx := ((uint64(occupied) & uint64(m.mask)) * m.magic) >> m.shift
	return bishopAttackSlice[m.offset+uint32(idx)]
}

// getRookAttacks returns rook attacks from sq using the magic table.
func getRookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagicsBySquare[sq]
	idx := ((uint64(occupied) & uint64(m.mask)) * m.magic) >> m.shift
	return rookAttackSlice[m.offset+uint32(idx)]
}
