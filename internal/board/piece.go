package board

// Color represents the color of a stone or of the side to play.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType is an uncolored chessman.
// Knight through Queen fit in [1,4] so a promotion piece can be packed into
// three bits of a move code, with 0 meaning "no promotion".
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	Pawn
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the upper-case letter of the piece type, or ' ' for none.
func (pt PieceType) Char() byte {
	const chars = " NBRQPK"
	if pt > King {
		return ' '
	}
	return chars[pt]
}

// PieceTypeFromChar parses an upper- or lower-case piece letter.
func PieceTypeFromChar(c byte) PieceType {
	switch c {
	case 'N', 'n':
		return Knight
	case 'B', 'b':
		return Bishop
	case 'R', 'r':
		return Rook
	case 'Q', 'q':
		return Queen
	case 'P', 'p':
		return Pawn
	case 'K', 'k':
		return King
	default:
		return NoPieceType
	}
}

// Stone is a colored piece: the piece type negated for white, positive for
// black, and zero for an empty square.
type Stone int8

const (
	WhiteKing   Stone = -Stone(King)
	WhitePawn   Stone = -Stone(Pawn)
	WhiteQueen  Stone = -Stone(Queen)
	WhiteRook   Stone = -Stone(Rook)
	WhiteBishop Stone = -Stone(Bishop)
	WhiteKnight Stone = -Stone(Knight)
	NoStone     Stone = 0
	BlackKnight Stone = Stone(Knight)
	BlackBishop Stone = Stone(Bishop)
	BlackRook   Stone = Stone(Rook)
	BlackQueen  Stone = Stone(Queen)
	BlackPawn   Stone = Stone(Pawn)
	BlackKing   Stone = Stone(King)
)

// NewStone creates a Stone from a piece type and a color.
func NewStone(pt PieceType, c Color) Stone {
	if pt == NoPieceType || pt > King {
		return NoStone
	}
	switch c {
	case White:
		return -Stone(pt)
	case Black:
		return Stone(pt)
	default:
		return NoStone
	}
}

// Type returns the uncolored piece type of the stone.
func (s Stone) Type() PieceType {
	if s < 0 {
		return PieceType(-s)
	}
	return PieceType(s)
}

// Color returns the owner of the stone, NoColor for an empty square.
func (s Stone) Color() Color {
	switch {
	case s < 0:
		return White
	case s > 0:
		return Black
	default:
		return NoColor
	}
}

// Char returns the FEN letter: upper case for white, lower case for black,
// ' ' for NoStone.
func (s Stone) Char() byte {
	c := s.Type().Char()
	if s > 0 {
		c += 'a' - 'A'
	}
	return c
}

// String returns the FEN letter of the stone.
func (s Stone) String() string {
	return string(s.Char())
}

// StoneFromChar converts a FEN letter to a Stone, NoStone if unknown.
func StoneFromChar(c byte) Stone {
	pt := PieceTypeFromChar(c)
	if pt == NoPieceType {
		return NoStone
	}
	if c >= 'a' && c <= 'z' {
		return NewStone(pt, Black)
	}
	return NewStone(pt, White)
}

// index maps a stone into [0,12] for table lookups.
func (s Stone) index() int {
	return int(s) + int(King)
}
