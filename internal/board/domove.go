package board

import (
	"fmt"
	"log"
)

// IllegalMoveError is returned by DoMove for a move that cannot be applied.
// The position is unchanged when it is returned.
type IllegalMoveError struct {
	Move   Move
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s", e.Move, e.Reason)
}

// castleSquares returns the king and rook squares of a castle code.
func castleSquares(m Move) (kFrom, kTo, rFrom, rTo Square) {
	switch m {
	case WhiteShortCastle:
		return E1, G1, H1, F1
	case WhiteLongCastle:
		return E1, C1, A1, D1
	case BlackShortCastle:
		return E8, G8, H8, F8
	default:
		return E8, C8, A8, D8
	}
}

// epCaptureSquare returns the square of the pawn captured by an en passant
// capture of color us onto to.
func epCaptureSquare(to Square, us Color) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// DoMove applies m for the side to play and discards the redo tail.
//
// The move is checked against the board before anything changes: the origin
// must hold a stone of the side to play, the destination must not hold an own
// stone or a king, castles need king and rook at home with nothing between,
// and pawns reaching the last rank must promote. DoMove does not test whether
// the move leaves the own king attacked; use IsLegal for that.
func (p *Position) DoMove(m Move) error {
	if err := p.checkMove(m); err != nil {
		if DebugMoveValidation {
			log.Printf("DoMove: %v\n%s", err, p)
		}
		return err
	}

	oldFlags := p.flags
	us := p.ToPlay()

	p.doMove(m)
	p.moves = append(p.moves[:p.moveTop], m)
	p.moveTop++

	if DebugMoveValidation {
		p.debugValidate(m)
	}
	p.notifyAfterMove(m, us, oldFlags, false)
	return nil
}

// UndoMove takes back the last applied move. It returns false if there is
// nothing to undo.
func (p *Position) UndoMove() bool {
	if p.moveTop == 0 {
		return false
	}
	m := p.moves[p.moveTop-1]
	oldFlags := p.flags

	p.popBackup()
	p.moveTop--

	p.notifyAfterMove(m, p.ToPlay(), oldFlags, true)
	return true
}

// RedoMove re-applies the next move undone by UndoMove. It returns false if
// no move was undone since the last DoMove or board edit.
func (p *Position) RedoMove() bool {
	if p.moveTop >= len(p.moves) {
		return false
	}
	m := p.moves[p.moveTop]
	oldFlags := p.flags
	us := p.ToPlay()

	p.doMove(m)
	p.moveTop++

	p.notifyAfterMove(m, us, oldFlags, false)
	return true
}

// doMove applies a checked move and pushes its backup record.
func (p *Position) doMove(m Move) {
	us := p.ToPlay()
	pre := p.takeSnapshot(us)
	p.clearCaches()

	resetClock := false
	newEP := NoSquare

	switch {
	case m.IsNull():
	case m.IsCastle():
		kFrom, kTo, rFrom, rTo := castleSquares(m)
		king, rook := NewStone(King, us), NewStone(Rook, us)
		p.toggle(king, kFrom)
		p.toggle(king, kTo)
		p.toggle(rook, rFrom)
		p.toggle(rook, rTo)
		p.setCastlesField(p.Castles() &^ colorRights(us))
	default:
		from, to := m.From(), m.To()
		stone := p.StoneAt(from)

		// Captured stones leave before the mover arrives.
		if m.IsEPMove() {
			p.toggle(NewStone(Pawn, us.Other()), epCaptureSquare(to, us))
			resetClock = true
		} else if captured := p.StoneAt(to); captured != NoStone {
			p.toggle(captured, to)
			resetClock = true
		}

		placed := stone
		if m.IsPromotion() {
			placed = NewStone(m.PromotionPiece(), us)
		}
		p.toggle(stone, from)
		p.toggle(placed, to)

		if stone.Type() == Pawn {
			resetClock = true
			if d := int(to) - int(from); d == 16 || d == -16 {
				newEP = Square((int(from) + int(to)) / 2)
			}
		}
		p.setCastlesField(p.Castles() &^ (castleMask[from] | castleMask[to]))
	}

	p.setEPField(newEP)
	p.toggleToPlay()
	p.incPlyNumber()
	if resetClock {
		p.setField(halfMoveShift, halfMoveBits, 0)
	} else {
		p.incHalfMoveClock()
	}
	p.updateEPHash()

	p.pushBackup(&pre, us)
}

// checkMove returns an *IllegalMoveError if m cannot be applied.
func (p *Position) checkMove(m Move) error {
	illegal := func(reason string) error {
		return &IllegalMoveError{Move: m, Reason: reason}
	}

	if !m.IsValid() {
		return illegal("invalid move code")
	}
	if m.IsNull() {
		return nil
	}

	us := p.ToPlay()
	if m.IsCastle() {
		kFrom, _, rFrom, _ := castleSquares(m)
		switch {
		case CastleMove(us, m.IsShortCastle()) != m:
			return illegal("castle of the side not to play")
		case p.kings[us] != kFrom:
			return illegal("king is not on its home square")
		case p.StoneAt(rFrom) != NewStone(Rook, us):
			return illegal("rook is not on its home square")
		case Between(kFrom, rFrom)&p.occupied() != 0:
			return illegal("squares between king and rook are occupied")
		}
		return nil
	}

	from, to := m.From(), m.To()
	stone := p.StoneAt(from)
	if stone == NoStone || stone.Color() != us {
		return illegal("origin does not hold a stone of the side to play")
	}
	target := p.StoneAt(to)
	if target != NoStone {
		if target.Color() == us {
			return illegal("destination holds an own stone")
		}
		if target.Type() == King {
			return illegal("a king cannot be captured")
		}
	}

	if m.IsEPMove() {
		switch {
		case stone.Type() != Pawn || to != p.EPSquare() || pawnAttacks[us][from]&SquareBB(to) == 0:
			return illegal("no en passant capture available")
		case target != NoStone:
			return illegal("en passant square is occupied")
		case p.StoneAt(epCaptureSquare(to, us)) != NewStone(Pawn, us.Other()):
			return illegal("no pawn to capture en passant")
		}
		return nil
	}

	if m.IsCapturing() != (target != NoStone) {
		return illegal("capture flag does not match the board")
	}
	if stone.Type() == King {
		if d := from.File() - to.File(); d > 1 || d < -1 {
			return illegal("castling must use a castle move")
		}
	}
	lastRank := stone.Type() == Pawn && to.RelativeRank(us) == 7
	if m.IsPromotion() && !lastRank {
		return illegal("only a pawn reaching the last rank can promote")
	}
	if lastRank && !m.IsPromotion() {
		return illegal("a pawn reaching the last rank must promote")
	}
	return nil
}

// touchedSquares returns the squares whose stones m changes when played by us.
func touchedSquares(m Move, us Color) Bitboard {
	switch {
	case m.IsNull():
		return Empty
	case m.IsCastle():
		kFrom, kTo, rFrom, rTo := castleSquares(m)
		return SquareBB(kFrom) | SquareBB(kTo) | SquareBB(rFrom) | SquareBB(rTo)
	case m.IsEPMove():
		return SquareBB(m.From()) | SquareBB(m.To()) | SquareBB(epCaptureSquare(m.To(), us))
	default:
		return SquareBB(m.From()) | SquareBB(m.To())
	}
}

func (p *Position) notifyAfterMove(m Move, us Color, oldFlags uint64, undone bool) {
	if !p.notify {
		return
	}
	p.notifySquares(touchedSquares(m, us))
	p.notifyFlags(oldFlags)
	p.notifyMove(m, undone)
}
