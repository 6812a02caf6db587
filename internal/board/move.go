package board

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bit  12:    capture flag
// bits 13-15: kind (0=regular, 1-4=promotion to Knight..Queen, 5=en passant,
//
//	6=castle, 7=null move)
type Move uint16

const (
	moveToShift   = 6
	moveCapture   = 1 << 12
	moveKindShift = 13

	kindRegular   = 0
	kindEnPassant = 5
	kindCastle    = 6
	kindNull      = 7
)

// NoMove is the zero value and never a valid move.
const NoMove Move = 0

// Fixed codes for the special moves.
const (
	WhiteShortCastle = Move(E1) | Move(G1)<<moveToShift | kindCastle<<moveKindShift
	WhiteLongCastle  = Move(E1) | Move(C1)<<moveToShift | kindCastle<<moveKindShift
	BlackShortCastle = Move(E8) | Move(G8)<<moveToShift | kindCastle<<moveKindShift
	BlackLongCastle  = Move(E8) | Move(C8)<<moveToShift | kindCastle<<moveKindShift
	NullMove         = Move(kindNull << moveKindShift)
)

// RegularMove creates a non-pawn-special move.
func RegularMove(from, to Square, capture bool) Move {
	m := Move(from) | Move(to)<<moveToShift
	if capture {
		m |= moveCapture
	}
	return m
}

// PawnMove creates a pawn move, promoting to promo unless it is NoPieceType.
func PawnMove(from, to Square, capture bool, promo PieceType) Move {
	m := RegularMove(from, to, capture)
	if promo >= Knight && promo <= Queen {
		m |= Move(promo) << moveKindShift
	}
	return m
}

// EPMove creates an en passant capture.
func EPMove(from, to Square) Move {
	return Move(from) | Move(to)<<moveToShift | moveCapture | kindEnPassant<<moveKindShift
}

// CastleMove returns the castle code for a color and wing.
func CastleMove(c Color, short bool) Move {
	switch {
	case c == White && short:
		return WhiteShortCastle
	case c == White:
		return WhiteLongCastle
	case short:
		return BlackShortCastle
	default:
		return BlackLongCastle
	}
}

func (m Move) kind() int {
	return int(m >> moveKindShift)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> moveToShift) & 0x3F)
}

// IsValid reports whether the code is structurally a move.
func (m Move) IsValid() bool {
	switch m.kind() {
	case kindNull:
		return m == NullMove
	case kindCastle:
		return m == WhiteShortCastle || m == WhiteLongCastle ||
			m == BlackShortCastle || m == BlackLongCastle
	case kindEnPassant:
		return m&moveCapture != 0 && m.From() != m.To()
	default:
		return m.From() != m.To()
	}
}

// IsSpecial reports castles and null moves.
func (m Move) IsSpecial() bool {
	return m.kind() >= kindCastle
}

// IsNull reports whether this is the null move.
func (m Move) IsNull() bool {
	return m == NullMove
}

// IsCastle reports whether this is one of the four castle codes.
func (m Move) IsCastle() bool {
	return m.kind() == kindCastle
}

// IsShortCastle reports a king-side castle.
func (m Move) IsShortCastle() bool {
	return m.IsCastle() && m.To().File() == 6
}

// IsLongCastle reports a queen-side castle.
func (m Move) IsLongCastle() bool {
	return m.IsCastle() && m.To().File() == 2
}

// IsCapturing reports whether the move captures, en passant included.
func (m Move) IsCapturing() bool {
	return m&moveCapture != 0
}

// IsEPMove reports an en passant capture.
func (m Move) IsEPMove() bool {
	return m.kind() == kindEnPassant
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	k := m.kind()
	return k >= int(Knight) && k <= int(Queen)
}

// PromotionPiece returns the promotion piece type, NoPieceType if none.
func (m Move) PromotionPiece() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return PieceType(m.kind())
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	switch {
	case m == NoMove:
		return "-"
	case m.IsNull():
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.PromotionPiece().Char() + 'a' - 'A')
	}
	return s
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns a copy of the moves.
func (ml *MoveList) Slice() []Move {
	out := make([]Move, ml.count)
	copy(out, ml.moves[:ml.count])
	return out
}
