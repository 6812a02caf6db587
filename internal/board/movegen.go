package board

import "log"

// generator modes
const (
	genCaptures = 1 << iota
	genQuiets
	genAll = genCaptures | genQuiets
)

// AllMoves generates all legal moves for the position.
func (p *Position) AllMoves() *MoveList {
	ml := NewMoveList()
	p.generate(ml, genAll, Universe)
	return ml
}

// CapturingMoves generates the legal captures, en passant included.
func (p *Position) CapturingMoves() *MoveList {
	ml := NewMoveList()
	p.generate(ml, genCaptures, Universe)
	return ml
}

// NonCapturingMoves generates the legal moves that capture nothing,
// castles and non-capturing promotions included.
func (p *Position) NonCapturingMoves() *MoveList {
	ml := NewMoveList()
	p.generate(ml, genQuiets, Universe)
	return ml
}

// RecapturingMoves generates the legal captures of the stone on sq,
// including an en passant capture of a pawn standing on sq.
func (p *Position) RecapturingMoves(sq Square) *MoveList {
	ml := NewMoveList()
	p.generate(ml, genCaptures, SquareBB(sq))
	return ml
}

// generate adds the legal moves of the side to play. mode selects captures
// and/or quiet moves; target restricts destinations (for en passant, either
// the destination or the captured pawn's square may match).
func (p *Position) generate(ml *MoveList, mode int, target Bitboard) {
	us := p.ToPlay()
	them := us.Other()
	own := p.colorMask(us)
	enemy := p.colorMask(them)
	occ := own | enemy
	ksq := p.kings[us]

	if DebugMoveValidation && ksq == NoSquare {
		log.Printf("movegen: %v has no king, hash=%016x", us, p.hash)
	}

	dest := Empty
	if mode&genCaptures != 0 {
		dest |= enemy
	}
	if mode&genQuiets != 0 {
		dest |= ^occ
	}
	dest &= target
	if k := p.kings[them]; k != NoSquare {
		dest &^= SquareBB(k)
	}

	checkers := Empty
	if ksq != NoSquare {
		checkers = p.AttackersOf(ksq, them)
		p.generateKingMoves(ml, ksq, them, enemy, dest)
	}

	switch checkers.PopCount() {
	case 0:
		if mode&genQuiets != 0 && ksq != NoSquare {
			p.generateCastles(ml, us, target)
		}
	case 1:
		dest &= checkers | betweenBB[ksq][checkers.LSB()]
	default:
		return
	}

	p.generateKnightMoves(ml, us, own, enemy, dest)
	p.generateSliderMoves(ml, us, ksq, own, enemy, occ, dest)
	p.generatePawnMoves(ml, us, ksq, enemy, occ, dest)

	if mode&genCaptures != 0 {
		p.generateEPMoves(ml, us, ksq, target)
	}
}

func addTargets(ml *MoveList, from Square, targets, enemy Bitboard) {
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(RegularMove(from, to, enemy.IsSet(to)))
	}
}

// addPawnMove adds a pawn move, expanded to all four promotions on the last rank.
func addPawnMove(ml *MoveList, us Color, from, to Square, capture bool) {
	if to.RelativeRank(us) != 7 {
		ml.Add(PawnMove(from, to, capture, NoPieceType))
		return
	}
	ml.Add(PawnMove(from, to, capture, Queen))
	ml.Add(PawnMove(from, to, capture, Rook))
	ml.Add(PawnMove(from, to, capture, Bishop))
	ml.Add(PawnMove(from, to, capture, Knight))
}

// generateKingMoves generates king moves (non-castling). The king's origin
// is excluded from the occupancy so it cannot hide from a slider behind
// itself.
func (p *Position) generateKingMoves(ml *MoveList, ksq Square, them Color, enemy, dest Bitboard) {
	targets := kingAttacks[ksq] & dest
	for targets != 0 {
		to := targets.PopLSB()
		if !p.IsAttacked(to, them, SquareBB(ksq)) {
			ml.Add(RegularMove(ksq, to, enemy.IsSet(to)))
		}
	}
}

func (p *Position) generateKnightMoves(ml *MoveList, us Color, own, enemy, dest Bitboard) {
	knights := p.knights & own
	for knights != 0 {
		from := knights.PopLSB()
		// A pinned knight always leaves the pin line.
		if p.PinnedDirection(from, us) != NoDirection {
			continue
		}
		addTargets(ml, from, knightAttacks[from]&dest, enemy)
	}
}

// generateSliderMoves handles bishops, rooks and queens. Queens are in both
// masks and get their diagonal moves from the first loop and their
// orthogonal moves from the second.
func (p *Position) generateSliderMoves(ml *MoveList, us Color, ksq Square, own, enemy, occ, dest Bitboard) {
	diagonal := p.bishops & own
	for diagonal != 0 {
		from := diagonal.PopLSB()
		pin := p.PinnedDirection(from, us)
		if pin.IsOrthogonal() {
			continue
		}
		targets := BishopAttacks(from, occ) & dest
		if pin != NoDirection {
			targets &= rays[ksq][pin.index()]
		}
		addTargets(ml, from, targets, enemy)
	}

	orthogonal := p.rooks & own
	for orthogonal != 0 {
		from := orthogonal.PopLSB()
		pin := p.PinnedDirection(from, us)
		if pin.IsDiagonal() {
			continue
		}
		targets := RookAttacks(from, occ) & dest
		if pin != NoDirection {
			targets &= rays[ksq][pin.index()]
		}
		addTargets(ml, from, targets, enemy)
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, ksq Square, enemy, occ, dest Bitboard) {
	forward := 8
	if us == Black {
		forward = -8
	}

	pawns := p.pawns & p.colorMask(us)
	for pawns != 0 {
		from := pawns.PopLSB()

		allowed := dest
		if pin := p.PinnedDirection(from, us); pin != NoDirection {
			allowed &= rays[ksq][pin.index()]
		}

		one := Square(int(from) + forward)
		if !occ.IsSet(one) {
			if allowed.IsSet(one) {
				addPawnMove(ml, us, from, one, false)
			}
			if from.RelativeRank(us) == 1 {
				two := Square(int(one) + forward)
				if !occ.IsSet(two) && allowed.IsSet(two) {
					ml.Add(PawnMove(from, two, false, NoPieceType))
				}
			}
		}

		captures := pawnAttacks[us][from] & enemy & allowed
		for captures != 0 {
			addPawnMove(ml, us, from, captures.PopLSB(), true)
		}
	}
}

// generateEPMoves adds en passant captures. Each candidate is checked by
// replaying its occupancy change, which covers pins along the rank of the
// two pawns as well as check evasion.
func (p *Position) generateEPMoves(ml *MoveList, us Color, ksq Square, target Bitboard) {
	ep := p.EPSquare()
	if ep == NoSquare {
		return
	}
	them := us.Other()
	capSq := epCaptureSquare(ep, us)
	if p.StoneAt(capSq) != NewStone(Pawn, them) || !p.IsEmpty(ep) {
		return
	}
	if target&(SquareBB(ep)|SquareBB(capSq)) == 0 {
		return
	}

	candidates := pawnAttacks[them][ep] & p.pawns & p.colorMask(us)
	for candidates != 0 {
		from := candidates.PopLSB()
		if ksq != NoSquare {
			occ := p.occupied() ^ SquareBB(from) ^ SquareBB(ep) ^ SquareBB(capSq)
			if p.attackers(ksq, them, occ, ^SquareBB(capSq)) != 0 {
				continue
			}
		}
		ml.Add(EPMove(from, ep))
	}
}

// generateCastles adds castles whose right is held, with king and rook at
// home, nothing between them and no attacked square on the king's path.
// The caller guarantees the side to play is not in check.
func (p *Position) generateCastles(ml *MoveList, us Color, target Bitboard) {
	rights := p.Castles()
	if rights&colorRights(us) == 0 {
		return
	}
	them := us.Other()
	occ := p.occupied()
	rook := NewStone(Rook, us)

	for _, short := range [2]bool{true, false} {
		if !rights.CanCastle(us, short) {
			continue
		}
		m := CastleMove(us, short)
		kFrom, kTo, rFrom, rTo := castleSquares(m)
		if p.kings[us] != kFrom || p.StoneAt(rFrom) != rook || !target.IsSet(kTo) {
			continue
		}
		if betweenBB[kFrom][rFrom]&occ != 0 {
			continue
		}
		// The rook's destination is the king's transit square.
		if p.IsAttacked(rTo, them, 0) || p.IsAttacked(kTo, them, 0) {
			continue
		}
		ml.Add(m)
	}
}

// IsLegal reports whether m is among the legal moves of the position.
func (p *Position) IsLegal(m Move) bool {
	return p.AllMoves().Contains(m)
}

// FindMove returns the legal move from from to to with the given promotion
// piece (NoPieceType for none), or NoMove. Castles are found by the king's
// origin and destination.
func (p *Position) FindMove(from, to Square, promo PieceType) Move {
	ml := p.AllMoves()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m.From() == from && m.To() == to && m.PromotionPiece() == promo {
			return m
		}
	}
	return NoMove
}

// IsCheck returns true if the side to play is in check.
func (p *Position) IsCheck() bool {
	if v, ok := p.cached(checkShift); ok {
		return v
	}
	ksq := p.kings[p.ToPlay()]
	check := ksq != NoSquare && p.IsAttacked(ksq, p.ToPlay().Other(), 0)
	p.setCached(checkShift, check)
	return check
}

// CanMove returns true if the side to play has at least one legal move.
func (p *Position) CanMove() bool {
	if v, ok := p.cached(canMoveShift); ok {
		return v
	}
	ml := NewMoveList()
	p.generate(ml, genAll, Universe)
	can := ml.Len() > 0
	p.setCached(canMoveShift, can)
	return can
}

// IsMate returns true if the side to play is checkmated.
func (p *Position) IsMate() bool {
	return p.IsCheck() && !p.CanMove()
}

// IsStaleMate returns true if the side to play is stalemated.
func (p *Position) IsStaleMate() bool {
	return !p.IsCheck() && !p.CanMove()
}

// IsTerminal returns true on mate, stalemate, or once the fifty-move rule
// applies (half-move clock of 100).
func (p *Position) IsTerminal() bool {
	return p.HalfMoveClock() >= 100 || !p.CanMove()
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	// If there are any pawns, rooks, or queens, sufficient material
	if p.pawns|p.rooks != 0 {
		return false
	}

	// Count minor pieces
	bishops := p.bishops
	wKnights := (p.knights & p.white).PopCount()
	wBishops := (bishops & p.white).PopCount()
	bKnights := (p.knights & p.black).PopCount()
	bBishops := (bishops & p.black).PopCount()

	// K vs K
	if wKnights+wBishops+bKnights+bBishops == 0 {
		return true
	}

	// K+minor vs K
	if wKnights+wBishops <= 1 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights+bBishops <= 1 && wKnights+wBishops == 0 {
		return true
	}

	// Bishops only, all on squares of one color
	const lightSquares Bitboard = 0x55AA55AA55AA55AA
	if wKnights+bKnights == 0 && (bishops&lightSquares == 0 || bishops&^lightSquares == 0) {
		return true
	}

	return false
}
