package chess

import "testing"

func TestAttacksToIncludesEnPassantAttacker(t *testing.T) {
	// White just pushed e2-e4; the black pawn on d4 can capture en passant,
	// so it attacks e4 even though e4 isn't one of its normal diagonal
	// capture squares.
	pos, err := ParseFEN("4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if !pos.IsSquareAttacked(E4, Black) {
		t.Errorf("expected e4 to be attacked by Black via the en passant capture on d4")
	}
	if pos.AttacksTo(E4, pos.AllOccupied)&pos.Pieces[Black][Pawn] == 0 {
		t.Errorf("expected AttacksTo(e4) to report the d4 pawn as an attacker")
	}
}

func TestAttacksToIncludesEnPassantAttackerSymmetric(t *testing.T) {
	// Black just pushed d7-d5; the white pawn on e5 can capture en passant,
	// so it attacks d5 even though d5 isn't one of its normal diagonal
	// capture squares.
	pos, err := ParseFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if !pos.IsSquareAttacked(D5, White) {
		t.Errorf("expected d5 to be attacked by White via the en passant capture on e5")
	}
	if pos.AttacksTo(D5, pos.AllOccupied)&pos.Pieces[White][Pawn] == 0 {
		t.Errorf("expected AttacksTo(d5) to report the e5 pawn as an attacker")
	}
}

func TestAttacksToIgnoresEnPassantWhenNoneSet(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/3pP3/8/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	if pos.IsSquareAttacked(E4, Black) {
		t.Errorf("expected e4 not to be attacked by Black's d4 pawn once the en passant window has closed")
	}
}
