package board

import "fmt"

// Position is a mutable chess position.
//
// Pieces are stored in six bitboards. Queens are the squares present in both
// bishops and rooks; kings appear only in the color masks and are located
// through the two king squares. A Position is not safe for concurrent use.
type Position struct {
	white, black Bitboard
	pawns        Bitboard
	knights      Bitboard
	bishops      Bitboard // bishops and queens
	rooks        Bitboard // rooks and queens
	kings        [2]Square

	flags uint64
	hash  uint64

	// backup holds one changed-only record per applied move; moves[:moveTop]
	// are the applied moves and moves[moveTop:] the redo tail.
	backup  []uint64
	moves   []Move
	moveTop int

	listeners       []PositionListener
	changeListeners []PositionChangeListener
	notify          bool
}

// NewEmptyPosition returns an empty board with white to play.
func NewEmptyPosition() *Position {
	return &Position{
		kings:  [2]Square{NoSquare, NoSquare},
		notify: true,
	}
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN, true)
	return pos
}

// Clone returns an independent copy including the undo and redo history.
// Listeners are not copied.
func (p *Position) Clone() *Position {
	c := *p
	c.backup = append([]uint64(nil), p.backup...)
	c.moves = append([]Move(nil), p.moves...)
	c.listeners = nil
	c.changeListeners = nil
	return &c
}

// Equals reports whether two positions have the same stones, side to play,
// castling rights, en passant square, counters and hash.
func (p *Position) Equals(o *Position) bool {
	const stateMask = flagsMask &^ (cacheBits<<checkShift | cacheBits<<canMoveShift)
	return p.white == o.white && p.black == o.black &&
		p.pawns == o.pawns && p.knights == o.knights &&
		p.bishops == o.bishops && p.rooks == o.rooks &&
		p.kings == o.kings &&
		p.flags&stateMask == o.flags&stateMask &&
		p.hash == o.hash
}

func (p *Position) colorMask(c Color) Bitboard {
	if c == White {
		return p.white
	}
	return p.black
}

func (p *Position) occupied() Bitboard {
	return p.white | p.black
}

// ColorMask returns the squares occupied by stones of color c.
func (p *Position) ColorMask(c Color) Bitboard {
	return p.colorMask(c)
}

// Occupied returns all occupied squares.
func (p *Position) Occupied() Bitboard {
	return p.occupied()
}

// PieceMask returns the squares holding pieces of type pt of either color.
func (p *Position) PieceMask(pt PieceType) Bitboard {
	switch pt {
	case Pawn:
		return p.pawns
	case Knight:
		return p.knights
	case Bishop:
		return p.bishops &^ p.rooks
	case Rook:
		return p.rooks &^ p.bishops
	case Queen:
		return p.bishops & p.rooks
	case King:
		var bb Bitboard
		for _, k := range p.kings {
			if k != NoSquare {
				bb |= SquareBB(k)
			}
		}
		return bb
	default:
		return Empty
	}
}

// Pieces returns the squares holding pieces of type pt and color c.
func (p *Position) Pieces(pt PieceType, c Color) Bitboard {
	return p.PieceMask(pt) & p.colorMask(c)
}

// KingSquare returns the king square of color c, NoSquare if it has no king.
func (p *Position) KingSquare(c Color) Square {
	return p.kings[c]
}

// StoneAt returns the stone on sq, NoStone if the square is empty.
func (p *Position) StoneAt(sq Square) Stone {
	bb := SquareBB(sq)

	var c Color
	switch {
	case p.white&bb != 0:
		c = White
	case p.black&bb != 0:
		c = Black
	default:
		return NoStone
	}

	switch {
	case p.kings[c] == sq:
		return NewStone(King, c)
	case p.pawns&bb != 0:
		return NewStone(Pawn, c)
	case p.knights&bb != 0:
		return NewStone(Knight, c)
	case p.bishops&p.rooks&bb != 0:
		return NewStone(Queen, c)
	case p.bishops&bb != 0:
		return NewStone(Bishop, c)
	case p.rooks&bb != 0:
		return NewStone(Rook, c)
	}
	return NoStone
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.occupied()&SquareBB(sq) == 0
}

// toggle XORs a stone on or off a square in the masks, the king squares and
// the hash.
func (p *Position) toggle(s Stone, sq Square) {
	bb := SquareBB(sq)
	c := s.Color()
	if c == White {
		p.white ^= bb
	} else {
		p.black ^= bb
	}

	switch s.Type() {
	case Pawn:
		p.pawns ^= bb
	case Knight:
		p.knights ^= bb
	case Bishop:
		p.bishops ^= bb
	case Rook:
		p.rooks ^= bb
	case Queen:
		p.bishops ^= bb
		p.rooks ^= bb
	case King:
		if p.kings[c] == sq {
			p.kings[c] = NoSquare
		} else {
			p.kings[c] = sq
		}
	}

	p.hash ^= stoneKeys[s.index()][sq]
}

// resetHistory drops the undo and redo history. Every board edit does this
// since the backup records no longer describe the board.
func (p *Position) resetHistory() {
	p.backup = p.backup[:0]
	p.moves = p.moves[:0]
	p.moveTop = 0
}

// SetStone places s on sq, replacing whatever stood there. NoStone empties
// the square. Placing a king moves that side's king if it already has one.
func (p *Position) SetStone(sq Square, s Stone) {
	old := p.StoneAt(sq)
	if old == s {
		return
	}
	oldFlags := p.flags
	p.resetHistory()
	p.clearCaches()

	touched := SquareBB(sq)
	if old != NoStone {
		p.toggle(old, sq)
	}
	if s != NoStone {
		if s.Type() == King {
			if k := p.kings[s.Color()]; k != NoSquare {
				p.toggle(s, k)
				touched |= SquareBB(k)
			}
		}
		p.toggle(s, sq)
	}
	p.updateEPHash()

	p.notifySquares(touched)
	p.notifyFlags(oldFlags)
}

// SetToPlay sets the side to move.
func (p *Position) SetToPlay(c Color) {
	if c != White && c != Black || c == p.ToPlay() {
		return
	}
	p.edit(func() { p.toggleToPlay() })
}

// SetCastles sets the castling rights.
func (p *Position) SetCastles(cr CastlingRights) {
	cr &= AllCastling
	if cr == p.Castles() {
		return
	}
	p.edit(func() { p.setCastlesField(cr) })
}

// SetEPSquare sets the en passant target square, NoSquare to clear it.
func (p *Position) SetEPSquare(sq Square) {
	if !sq.IsValid() {
		sq = NoSquare
	}
	if sq == p.EPSquare() {
		return
	}
	p.edit(func() { p.setEPField(sq) })
}

// SetHalfMoveClock sets the fifty-move counter, clamped to [0, MaxHalfMoveClock].
func (p *Position) SetHalfMoveClock(n int) {
	n = min(max(n, 0), MaxHalfMoveClock)
	if n == p.HalfMoveClock() {
		return
	}
	p.edit(func() { p.setField(halfMoveShift, halfMoveBits, uint64(n)) })
}

// SetPlyNumber sets the ply counter, clamped to [0, MaxPlyNumber].
func (p *Position) SetPlyNumber(n int) {
	n = min(max(n, 0), MaxPlyNumber)
	if n == p.PlyNumber() {
		return
	}
	p.edit(func() { p.setField(plyShift, plyBits, uint64(n)) })
}

// edit applies a flags-only board edit.
func (p *Position) edit(apply func()) {
	oldFlags := p.flags
	p.resetHistory()
	p.clearCaches()
	apply()
	p.updateEPHash()
	p.notifyFlags(oldFlags)
}

// Clear resets the position to an empty board with white to play.
// Listeners stay registered.
func (p *Position) Clear() {
	oldFlags := p.flags
	squares := p.occupied()

	p.white, p.black = Empty, Empty
	p.pawns, p.knights, p.bishops, p.rooks = Empty, Empty, Empty, Empty
	p.kings = [2]Square{NoSquare, NoSquare}
	p.flags = 0
	p.hash = 0
	p.resetHistory()

	p.notifySquares(squares)
	p.notifyFlags(oldFlags)
}

// LastMove returns the most recently applied move, NoMove if there is none.
func (p *Position) LastMove() Move {
	if p.moveTop == 0 {
		return NoMove
	}
	return p.moves[p.moveTop-1]
}

// MoveCount returns the number of moves that can be undone.
func (p *Position) MoveCount() int {
	return p.moveTop
}

// CanUndo reports whether UndoMove would succeed.
func (p *Position) CanUndo() bool {
	return p.moveTop > 0
}

// CanRedo reports whether RedoMove would succeed.
func (p *Position) CanRedo() bool {
	return p.moveTop < len(p.moves)
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			stone := p.StoneAt(NewSquare(file, rank))
			if stone == NoStone {
				s += ". "
			} else {
				s += stone.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("To play: %s\n", p.ToPlay())
	s += fmt.Sprintf("Castling: %s\n", p.Castles())
	s += fmt.Sprintf("En passant: %s\n", p.EPSquare())
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock())
	s += fmt.Sprintf("Ply: %d\n", p.PlyNumber())
	s += fmt.Sprintf("Hash: %016x\n", p.hash)
	return s
}
