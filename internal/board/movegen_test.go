package board

import (
	"sort"
	"testing"
)

// pseudoLegalMoves generates moves by piece pattern only, ignoring whether
// the own king is left attacked.
func pseudoLegalMoves(p *Position) []Move {
	us := p.ToPlay()
	them := us.Other()
	own := p.ColorMask(us)
	enemy := p.ColorMask(them)
	occ := p.Occupied()
	forbidden := own | SquareBB(p.KingSquare(them))

	var moves []Move
	for bb := own; bb != 0; {
		from := bb.PopLSB()
		stone := p.StoneAt(from)

		var targets Bitboard
		switch stone.Type() {
		case Knight:
			targets = KnightAttacks(from)
		case Bishop:
			targets = BishopAttacks(from, occ)
		case Rook:
			targets = RookAttacks(from, occ)
		case Queen:
			targets = QueenAttacks(from, occ)
		case King:
			targets = KingAttacks(from)
		case Pawn:
			moves = append(moves, pseudoPawnMoves(p, from, us, enemy, occ)...)
			continue
		}
		for targets &^= forbidden; targets != 0; {
			to := targets.PopLSB()
			moves = append(moves, RegularMove(from, to, enemy.IsSet(to)))
		}
	}

	// Castling: the king may not start, pass or land on an attacked square.
	if !p.IsAttacked(p.KingSquare(us), them, 0) {
		for _, short := range []bool{true, false} {
			m := CastleMove(us, short)
			kFrom, kTo, rFrom, rTo := castleSquares(m)
			if p.Castles().CanCastle(us, short) && p.KingSquare(us) == kFrom &&
				p.StoneAt(rFrom) == NewStone(Rook, us) && Between(kFrom, rFrom)&occ == 0 &&
				!p.IsAttacked(rTo, them, 0) && !p.IsAttacked(kTo, them, 0) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

func pseudoPawnMoves(p *Position, from Square, us Color, enemy, occ Bitboard) []Move {
	var moves []Move
	add := func(to Square, capture bool) {
		if to.RelativeRank(us) == 7 {
			for _, pt := range []PieceType{Queen, Rook, Bishop, Knight} {
				moves = append(moves, PawnMove(from, to, capture, pt))
			}
			return
		}
		moves = append(moves, PawnMove(from, to, capture, NoPieceType))
	}

	dir := 8
	if us == Black {
		dir = -8
	}
	one := Square(int(from) + dir)
	if !occ.IsSet(one) {
		add(one, false)
		two := Square(int(one) + dir)
		if from.RelativeRank(us) == 1 && !occ.IsSet(two) {
			add(two, false)
		}
	}
	for caps := PawnAttacks(from, us) & enemy &^ SquareBB(p.KingSquare(us.Other())); caps != 0; {
		add(caps.PopLSB(), true)
	}
	if ep := p.EPSquare(); ep != NoSquare && PawnAttacks(from, us).IsSet(ep) {
		moves = append(moves, EPMove(from, ep))
	}
	return moves
}

// bruteForceMoves filters pseudo-legal moves by playing them on a copy and
// testing whether the mover's king is attacked.
func bruteForceMoves(t *testing.T, p *Position) []Move {
	t.Helper()
	us := p.ToPlay()
	var legal []Move
	for _, m := range pseudoLegalMoves(p) {
		q := p.Clone()
		if err := q.DoMove(m); err != nil {
			t.Fatalf("%s: DoMove(%v): %v", p.FEN(), m, err)
		}
		if !q.IsAttacked(q.KingSquare(us), us.Other(), 0) {
			legal = append(legal, m)
		}
	}
	return legal
}

func sortedMoves(moves []Move) []Move {
	sort.Slice(moves, func(i, j int) bool { return moves[i] < moves[j] })
	return moves
}

func TestLegalityAgainstBruteForce(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	var walk func(t *testing.T, pos *Position, depth int)
	walk = func(t *testing.T, pos *Position, depth int) {
		got := sortedMoves(pos.AllMoves().Slice())
		want := sortedMoves(bruteForceMoves(t, pos))
		if len(got) != len(want) {
			t.Fatalf("%s: %d moves %v, brute force %d moves %v", pos.FEN(), len(got), got, len(want), want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("%s: moves %v, brute force %v", pos.FEN(), got, want)
			}
		}
		if depth == 0 {
			return
		}
		for _, m := range got {
			if err := pos.DoMove(m); err != nil {
				t.Fatal(err)
			}
			walk(t, pos, depth-1)
			pos.UndoMove()
		}
	}

	for _, fen := range fens {
		walk(t, mustFEN(t, fen), 1)
	}
}

func TestMoveSubsets(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	all := pos.AllMoves()
	captures := pos.CapturingMoves()
	quiets := pos.NonCapturingMoves()

	if captures.Len()+quiets.Len() != all.Len() {
		t.Fatalf("captures %d + quiets %d != all %d", captures.Len(), quiets.Len(), all.Len())
	}
	for i := 0; i < captures.Len(); i++ {
		if m := captures.Get(i); !m.IsCapturing() || !all.Contains(m) {
			t.Errorf("capture list holds %v", m)
		}
	}
	for i := 0; i < quiets.Len(); i++ {
		if m := quiets.Get(i); m.IsCapturing() || !all.Contains(m) {
			t.Errorf("quiet list holds %v", m)
		}
	}

	// Only d5xe6 captures the pawn on e6.
	re := pos.RecapturingMoves(E6)
	for i := 0; i < re.Len(); i++ {
		if m := re.Get(i); m.To() != E6 || !m.IsCapturing() {
			t.Errorf("RecapturingMoves(e6) holds %v", m)
		}
	}
	if !re.Contains(RegularMove(D5, E6, true)) {
		t.Error("RecapturingMoves(e6) misses d5xe6")
	}
}

func TestEnPassant(t *testing.T) {
	pos := NewPosition()
	for _, m := range []Move{
		RegularMove(E2, E4, false),
		RegularMove(A7, A6, false),
		RegularMove(E4, E5, false),
		RegularMove(D7, D5, false),
	} {
		if err := pos.DoMove(m); err != nil {
			t.Fatal(err)
		}
	}

	if pos.EPSquare() != D6 {
		t.Fatalf("EPSquare() = %v, want d6", pos.EPSquare())
	}

	ep := EPMove(E5, D6)
	if !pos.AllMoves().Contains(ep) {
		t.Fatal("e5xd6 e.p. not generated")
	}
	if !pos.CapturingMoves().Contains(ep) {
		t.Error("e5xd6 e.p. missing from captures")
	}
	if !pos.RecapturingMoves(D5).Contains(ep) {
		t.Error("e5xd6 e.p. missing from recaptures of d5")
	}
	if pos.NonCapturingMoves().Contains(ep) {
		t.Error("e5xd6 e.p. listed as non-capturing")
	}

	if err := pos.DoMove(ep); err != nil {
		t.Fatal(err)
	}
	if pos.StoneAt(D5) != NoStone {
		t.Errorf("passed pawn still on d5: %v", pos.StoneAt(D5))
	}
	if pos.StoneAt(D6) != WhitePawn || pos.StoneAt(E5) != NoStone {
		t.Errorf("d6=%v e5=%v", pos.StoneAt(D6), pos.StoneAt(E5))
	}
	if pos.EPSquare() != NoSquare {
		t.Errorf("EPSquare() = %v after capture", pos.EPSquare())
	}
	if pos.HalfMoveClock() != 0 {
		t.Errorf("HalfMoveClock() = %d", pos.HalfMoveClock())
	}

	pos.UndoMove()
	if pos.StoneAt(D5) != BlackPawn || pos.StoneAt(E5) != WhitePawn || pos.EPSquare() != D6 {
		t.Errorf("undo of e.p. gave %s", pos.FEN())
	}
}

func TestCastlingGating(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		short bool
		long  bool
	}{
		{"free", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", true, true},
		{"bishop on f1", "r3k2r/8/8/8/8/8/8/R3KB1R w KQkq - 0 1", false, true},
		{"knight on b1", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", true, false},
		{"f1 attacked", "4kr2/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"g1 attacked", "4k1r1/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"b1 attacked", "1r2k3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, true},
		{"d1 attacked", "3rk3/8/8/8/8/8/8/R3K2R w KQ - 0 1", true, false},
		{"in check", "4r1k1/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, false},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			moves := pos.AllMoves()
			if got := moves.Contains(WhiteShortCastle); got != tc.short {
				t.Errorf("O-O generated = %v, want %v", got, tc.short)
			}
			if got := moves.Contains(WhiteLongCastle); got != tc.long {
				t.Errorf("O-O-O generated = %v, want %v", got, tc.long)
			}
		})
	}
}

func TestCastleGenerationDoesNotAllocate(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	ml := NewMoveList()

	allocs := testing.AllocsPerRun(100, func() {
		ml.Clear()
		pos.generateCastles(ml, White, Universe)
	})
	if allocs != 0 {
		t.Errorf("generateCastles allocates %.0f times per call", allocs)
	}
	if ml.Len() != 2 {
		t.Errorf("%d castles generated, want 2", ml.Len())
	}
}

func TestCastleMoveUpdatesBoard(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	if err := pos.DoMove(WhiteShortCastle); err != nil {
		t.Fatal(err)
	}
	if pos.StoneAt(G1) != WhiteKing || pos.StoneAt(F1) != WhiteRook || !pos.IsEmpty(E1) || !pos.IsEmpty(H1) {
		t.Errorf("after O-O: %s", pos.FEN())
	}
	if pos.KingSquare(White) != G1 {
		t.Errorf("KingSquare(White) = %v", pos.KingSquare(White))
	}
	if pos.Castles() != BlackKingSideCastle|BlackQueenSideCastle {
		t.Errorf("Castles() = %v, want kq", pos.Castles())
	}

	if err := pos.DoMove(BlackLongCastle); err != nil {
		t.Fatal(err)
	}
	if got := pos.FEN(); got != "2kr3r/8/8/8/8/8/8/R4RK1 w - - 2 2" {
		t.Errorf("FEN() = %q", got)
	}
	if h := pos.ComputeHash(); h != pos.HashCode() {
		t.Errorf("hash %016x, recomputed %016x", pos.HashCode(), h)
	}
}

func TestRookCaptureClearsCastling(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	if err := pos.DoMove(RegularMove(A1, A8, true)); err != nil {
		t.Fatal(err)
	}
	if pos.Castles() != WhiteKingSideCastle|BlackKingSideCastle {
		t.Errorf("Castles() = %v, want Kk", pos.Castles())
	}
}

func TestPromotions(t *testing.T) {
	pos := mustFEN(t, "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1")

	moves := pos.AllMoves()
	// a8 and axb8, four pieces each, plus five king moves.
	if moves.Len() != 13 {
		t.Errorf("%d moves, want 13: %v", moves.Len(), moves.Slice())
	}
	for _, pt := range []PieceType{Queen, Rook, Bishop, Knight} {
		if !moves.Contains(PawnMove(A7, A8, false, pt)) || !moves.Contains(PawnMove(A7, B8, true, pt)) {
			t.Errorf("promotion to %v missing", pt)
		}
	}

	if err := pos.DoMove(PawnMove(A7, B8, true, Queen)); err != nil {
		t.Fatal(err)
	}
	if pos.StoneAt(B8) != WhiteQueen {
		t.Errorf("b8 = %v, want Q", pos.StoneAt(B8))
	}
	if pos.PieceMask(Queen) != SquareBB(B8) || pos.PieceMask(Pawn) != Empty {
		t.Errorf("queens %v pawns %v", pos.PieceMask(Queen).Squares(), pos.PieceMask(Pawn).Squares())
	}
	if !pos.IsCheck() {
		t.Error("Qb8 does not give check")
	}
}

func TestPinnedPieces(t *testing.T) {
	// Bishop on e2 pinned by the rook on e7 cannot move.
	pos := mustFEN(t, "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1")
	if d := pos.PinnedDirection(E2, White); d != North {
		t.Errorf("PinnedDirection(e2) = %v, want North", d)
	}
	moves := pos.AllMoves()
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).From() == E2 {
			t.Errorf("pinned bishop moves: %v", moves.Get(i))
		}
	}

	// A pinned rook slides along the pin line only.
	pos = mustFEN(t, "4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1")
	var rookMoves []Move
	moves = pos.AllMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.From() == E2 {
			rookMoves = append(rookMoves, m)
		}
	}
	if len(rookMoves) != 5 {
		t.Errorf("pinned rook has moves %v, want e3-e7", rookMoves)
	}
	for _, m := range rookMoves {
		if m.To().File() != 4 {
			t.Errorf("pinned rook leaves the e-file: %v", m)
		}
	}
}

func TestCheckEvasions(t *testing.T) {
	// Single check by a rook: the king steps aside or knight or bishop
	// interposes.
	pos := mustFEN(t, "4r1k1/8/8/8/1B6/8/2N5/4K3 w - - 0 1")
	want := []Move{
		RegularMove(E1, D1, false),
		RegularMove(E1, D2, false),
		RegularMove(E1, F1, false),
		RegularMove(E1, F2, false),
		RegularMove(C2, E3, false),
		RegularMove(B4, E7, false),
	}
	got := pos.AllMoves()
	if got.Len() != len(want) {
		t.Errorf("%d evasions %v, want %v", got.Len(), got.Slice(), want)
	}
	for _, m := range want {
		if !got.Contains(m) {
			t.Errorf("evasion %v missing", m)
		}
	}

	// Double check: only the king moves.
	pos = mustFEN(t, "4r1k1/8/8/8/8/3n4/8/R3K3 w - - 0 1")
	moves := pos.AllMoves()
	for i := 0; i < moves.Len(); i++ {
		if m := moves.Get(i); m.From() != E1 {
			t.Errorf("non-king move %v in double check", m)
		}
	}
}

func TestKingCannotHideBehindItself(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/r3K3 w - - 0 1")

	if pos.IsAttacked(F1, Black, 0) {
		t.Error("f1 attacked through the king")
	}
	if !pos.IsAttacked(F1, Black, SquareBB(E1)) {
		t.Error("f1 not attacked with e1 excluded")
	}
	moves := pos.AllMoves()
	if moves.Len() != 3 || moves.Contains(RegularMove(E1, F1, false)) {
		t.Errorf("king moves %v, want d2 e2 f2", moves.Slice())
	}
}

func TestFindMove(t *testing.T) {
	pos := mustFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	if m := pos.FindMove(E1, G1, NoPieceType); m != WhiteShortCastle {
		t.Errorf("FindMove(e1, g1) = %v, want O-O", m)
	}
	if m := pos.FindMove(A1, A8, NoPieceType); m != RegularMove(A1, A8, true) {
		t.Errorf("FindMove(a1, a8) = %v", m)
	}
	if m := pos.FindMove(A1, B2, NoPieceType); m != NoMove {
		t.Errorf("FindMove(a1, b2) = %v, want NoMove", m)
	}
	if pos.IsLegal(RegularMove(E1, G1, false)) {
		t.Error("king hop e1g1 reported legal")
	}
}
