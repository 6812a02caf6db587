package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"4k3/8/8/8/8/8/8/4K3 b - - 17 42",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen, true)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
		if h := pos.ComputeHash(); h != pos.HashCode() {
			t.Errorf("%s: hash %016x, recomputed %016x", fen, pos.HashCode(), h)
		}
		if err := pos.Validate(); err != nil {
			t.Errorf("%s: Validate() = %v", fen, err)
		}
	}
}

func TestFENRoundTripAfterMoves(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	moves := pos.AllMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if err := pos.DoMove(m); err != nil {
			t.Fatal(err)
		}
		q, err := ParseFEN(pos.FEN(), true)
		if err != nil {
			t.Fatalf("after %v: ParseFEN(%q): %v", m, pos.FEN(), err)
		}
		if q.HashCode() != pos.HashCode() {
			t.Errorf("after %v: reparsed hash %016x, want %016x", m, q.HashCode(), pos.HashCode())
		}
		pos.UndoMove()
	}
}

func TestFENLenient(t *testing.T) {
	// Four fields, castling letters out of order and an en passant square
	// no pawn backs.
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w qkQK e6", false)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Castles() != AllCastling {
		t.Errorf("Castles() = %v, want KQkq", pos.Castles())
	}
	if pos.EPSquare() != NoSquare {
		t.Errorf("EPSquare() = %v, want none", pos.EPSquare())
	}
	if pos.HalfMoveClock() != 0 || pos.FullMoveNumber() != 1 {
		t.Errorf("counters = %d %d, want 0 1", pos.HalfMoveClock(), pos.FullMoveNumber())
	}

	// Rights without a rook at home are dropped.
	pos, err = ParseFEN("4k3/8/8/8/8/8/8/4K2R w KQ - 0 1", false)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Castles() != WhiteKingSideCastle {
		t.Errorf("Castles() = %v, want K", pos.Castles())
	}
}

func TestFENErrors(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		strict bool
		index  int
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w", false, 17},
		{"strict needs six fields", "4k3/8/8/8/8/8/8/4K3 w - -", true, 25},
		{"unknown piece", "4k3/8/8/8/8/8/8/4X3 w - - 0 1", false, 17},
		{"bad digit", "4k3/8/8/9/8/8/8/4K3 w - - 0 1", false, 8},
		{"rank too long", "4k4/8/8/8/8/8/8/4K3 w - - 0 1", false, 2},
		{"rank too short", "4k3/7/8/8/8/8/8/4K3 w - - 0 1", false, 5},
		{"missing rank", "4k3/8/8/8/8/8/4K3 w - - 0 1", false, 17},
		{"two white kings", "4k3/8/8/8/8/8/8/3KK3 w - - 0 1", false, 18},
		{"no black king", "8/8/8/8/8/8/8/4K3 w - - 0 1", false, 0},
		{"pawn on last rank", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1", false, 0},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1", false, 20},
		{"bad castling letter", "4k3/8/8/8/8/8/8/4K3 w X - 0 1", false, 22},
		{"castling out of order", "r3k2r/8/8/8/8/8/8/R3K2R w kK - 0 1", true, 27},
		{"duplicate castling", "r3k2r/8/8/8/8/8/8/R3K2R w KK - 0 1", true, 27},
		{"castling without rook", "4k3/8/8/8/8/8/8/4K3 w K - 0 1", true, 22},
		{"bad ep square", "4k3/8/8/8/8/8/8/4K3 w - z9 0 1", false, 24},
		{"unbacked ep square", "4k3/8/8/8/8/8/8/4K3 w - e6 0 1", true, 24},
		{"bad half-move clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1", false, 26},
		{"half-move clock overflow", "4k3/8/8/8/8/8/8/4K3 w - - 256 1", false, 26},
		{"full-move overflow", "4k3/8/8/8/8/8/8/4K3 w - - 0 513", false, 28},
		{"zero full-move strict", "4k3/8/8/8/8/8/8/4K3 w - - 0 0", true, 28},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseFEN(tc.fen, tc.strict)
			var fe *FENError
			if !errors.As(err, &fe) {
				t.Fatalf("ParseFEN(%q) error = %v, want *FENError", tc.fen, err)
			}
			if fe.Index != tc.index {
				t.Errorf("Index = %d, want %d (%v)", fe.Index, tc.index, fe)
			}
		})
	}
}

func TestInitFromFENKeepsPositionOnError(t *testing.T) {
	pos := NewPosition()
	if err := pos.DoMove(RegularMove(E2, E4, false)); err != nil {
		t.Fatal(err)
	}
	before := pos.Clone()

	if err := pos.InitFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0", true); err == nil {
		t.Fatal("InitFromFEN accepted a five-field FEN in strict mode")
	}
	if !pos.Equals(before) || pos.LastMove() != before.LastMove() {
		t.Error("failed InitFromFEN changed the position")
	}

	if err := pos.InitFromFEN("4k3/8/8/8/8/8/8/4K3 b - - 3 20", true); err != nil {
		t.Fatal(err)
	}
	if pos.FEN() != "4k3/8/8/8/8/8/8/4K3 b - - 3 20" {
		t.Errorf("FEN() = %q", pos.FEN())
	}
	if pos.CanUndo() {
		t.Error("history survived InitFromFEN")
	}
}
