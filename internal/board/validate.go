package board

import (
	"fmt"
	"log"
)

// DebugMoveValidation enables expensive consistency checks after every move.
// Set to true to debug move generation issues.
var DebugMoveValidation = false

// Validate checks the position's invariants and returns the first violation.
// Moves and board edits never call it; it is meant for tests and for
// positions assembled through the setters.
func (p *Position) Validate() error {
	if p.white&p.black != 0 {
		return fmt.Errorf("squares %v are both white and black", (p.white & p.black).Squares())
	}

	kings := p.PieceMask(King)
	typed := [...]Bitboard{p.pawns, p.knights, p.bishops | p.rooks, kings}
	var union Bitboard
	for i, a := range typed {
		for _, b := range typed[i+1:] {
			if a&b != 0 {
				return fmt.Errorf("squares %v hold more than one piece type", (a & b).Squares())
			}
		}
		union |= a
	}
	if union != p.occupied() {
		return fmt.Errorf("type masks cover %v but colors cover %v", union.Squares(), p.occupied().Squares())
	}

	for _, c := range []Color{White, Black} {
		k := p.kings[c]
		if k == NoSquare {
			return fmt.Errorf("%s has no king", c)
		}
		if !p.colorMask(c).IsSet(k) {
			return fmt.Errorf("%s king square %s is not %s", c, k, c)
		}
	}

	if p.pawns&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns on %v", (p.pawns & (Rank1 | Rank8)).Squares())
	}

	them := p.ToPlay().Other()
	if p.IsAttacked(p.kings[them], p.ToPlay(), 0) {
		return fmt.Errorf("%s is to play but %s is in check", p.ToPlay(), them)
	}

	for _, right := range []CastlingRights{WhiteKingSideCastle, WhiteQueenSideCastle, BlackKingSideCastle, BlackQueenSideCastle} {
		if p.Castles()&right != 0 && !p.castleBacked(right) {
			return fmt.Errorf("castling right %s without king and rook at home", right)
		}
	}

	if ep := p.EPSquare(); ep != NoSquare && !p.epBacked(ep) {
		return fmt.Errorf("en passant square %s without a double-pushed pawn", ep)
	}

	if p.HalfMoveClock() > p.PlyNumber() {
		return fmt.Errorf("half-move clock %d exceeds ply number %d", p.HalfMoveClock(), p.PlyNumber())
	}

	if h := p.ComputeHash(); h != p.hash {
		return fmt.Errorf("hash %016x, recomputed %016x", p.hash, h)
	}

	return nil
}

// debugValidate logs the state after m when the position is inconsistent.
func (p *Position) debugValidate(m Move) {
	if err := p.Validate(); err != nil {
		log.Printf("POSITION CORRUPTED after %s: %v\n%s", m, err, p)
	}
}
