package movegen

import (
	"testing"

	"github.com/kestrelchess/kestrel/internal/chess"
)

// perft counts the number of leaf nodes at the given depth, the standard
// way to cross-check move generation against known node counts.
func perft(p *chess.Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := GenerateLegal(p)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos := chess.NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		// Depth 5 takes longer, enable for thorough testing:
		// {5, 4865609},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKiwipete exercises castling, en passant and promotion edge
// cases absent from the starting position.
func TestPerftKiwipete(t *testing.T) {
	pos, err := chess.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parsing kiwipete FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		// Depth 4 takes longer, enable for thorough testing:
		// {4, 4085603},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftPosition3 is the endgame position from the CPW perft suite,
// heavy on pawn promotions and en passant.
func TestPerftPosition3(t *testing.T) {
	pos, err := chess.ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("parsing position 3 FEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

func TestLegalMovesSubsetOfPseudoLegal(t *testing.T) {
	pos, err := chess.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parsing FEN: %v", err)
	}

	legal := GenerateLegal(pos)
	pseudo := GeneratePseudoLegal(pos)

	for i := 0; i < legal.Len(); i++ {
		if !pseudo.Contains(legal.Get(i)) {
			t.Errorf("legal move %s not found in pseudo-legal list", legal.Get(i))
		}
	}
}

func TestCheckDetection(t *testing.T) {
	pos, err := chess.ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("parsing FEN: %v", err)
	}
	if !pos.InCheck() {
		t.Fatalf("expected white king to be in check (fool's mate position)")
	}
	if HasLegalMoves(pos) {
		t.Errorf("expected checkmate, found a legal move")
	}
}

func TestSANRoundTrip(t *testing.T) {
	pos := chess.NewPosition()
	legal := GenerateLegal(pos)

	for i := 0; i < legal.Len(); i++ {
		m := legal.Get(i)
		san := ToSAN(m, pos, legal)
		parsed := ParseSAN(san, pos, legal)
		if parsed != m {
			t.Errorf("SAN round trip for %s: got %q -> %s, want %s", m, san, parsed, m)
		}
	}
}
