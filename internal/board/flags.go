package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// colorRights returns both rights of a color.
func colorRights(c Color) CastlingRights {
	if c == White {
		return WhiteKingSideCastle | WhiteQueenSideCastle
	}
	return BlackKingSideCastle | BlackQueenSideCastle
}

// castleMask lists the rights lost when a move touches a square.
var castleMask [64]CastlingRights

func init() {
	castleMask[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	castleMask[H1] = WhiteKingSideCastle
	castleMask[A1] = WhiteQueenSideCastle
	castleMask[E8] = BlackKingSideCastle | BlackQueenSideCastle
	castleMask[H8] = BlackKingSideCastle
	castleMask[A8] = BlackQueenSideCastle
}

// Layout of the packed flags word. Bits 38 and up are only used by backup
// records, which store both king squares and the change mask next to the
// flags.
const (
	toPlayShift   = 0
	castlesShift  = 1
	castlesBits   = 0xF
	epShift       = 5
	epBits        = 0x7F // square+1, 0 = none
	epHashShift   = 12
	epHashBits    = 0xF // hashed column+1, 0 = not hashed
	checkShift    = 16
	canMoveShift  = 18
	cacheBits     = 0x3
	halfMoveShift = 20
	halfMoveBits  = 0xFF
	plyShift      = 28
	plyBits       = 0x3FF

	flagsMask = 1<<38 - 1

	whiteKingShift = 38
	blackKingShift = 45
	kingBits       = 0x7F
	changeShift    = 52
	changeBits     = 0x1F
)

// Saturation limits of the counters.
const (
	MaxHalfMoveClock = halfMoveBits
	MaxPlyNumber     = plyBits
)

// tri-state values of the check and can-move caches
const (
	cacheUnknown = 0
	cacheYes     = 1
	cacheNo      = 2
)

func (p *Position) field(shift uint, bits uint64) uint64 {
	return (p.flags >> shift) & bits
}

func (p *Position) setField(shift uint, bits, v uint64) {
	p.flags = p.flags&^(bits<<shift) | (v&bits)<<shift
}

func (p *Position) clearCaches() {
	p.flags &^= cacheBits<<checkShift | cacheBits<<canMoveShift
}

func (p *Position) cached(shift uint) (value, ok bool) {
	switch p.field(shift, cacheBits) {
	case cacheYes:
		return true, true
	case cacheNo:
		return false, true
	default:
		return false, false
	}
}

func (p *Position) setCached(shift uint, value bool) {
	if value {
		p.setField(shift, cacheBits, cacheYes)
	} else {
		p.setField(shift, cacheBits, cacheNo)
	}
}

// ToPlay returns the side to move.
func (p *Position) ToPlay() Color {
	return Color(p.field(toPlayShift, 1))
}

// Castles returns the current castling rights.
func (p *Position) Castles() CastlingRights {
	return CastlingRights(p.field(castlesShift, castlesBits))
}

// EPSquare returns the en passant target square, NoSquare if none.
func (p *Position) EPSquare() Square {
	v := p.field(epShift, epBits)
	if v == 0 {
		return NoSquare
	}
	return Square(v - 1)
}

// HalfMoveClock returns the number of plies since the last pawn move or capture.
func (p *Position) HalfMoveClock() int {
	return int(p.field(halfMoveShift, halfMoveBits))
}

// PlyNumber returns the number of plies played since the start of the game.
func (p *Position) PlyNumber() int {
	return int(p.field(plyShift, plyBits))
}

// FullMoveNumber returns the FEN full move number derived from the ply number.
func (p *Position) FullMoveNumber() int {
	return p.PlyNumber()/2 + 1
}

func (p *Position) setEPField(sq Square) {
	if sq == NoSquare {
		p.setField(epShift, epBits, 0)
		return
	}
	p.setField(epShift, epBits, uint64(sq)+1)
}

func (p *Position) setCastlesField(cr CastlingRights) {
	old := p.Castles()
	if old == cr {
		return
	}
	p.hash ^= castleKeys[old] ^ castleKeys[cr]
	p.setField(castlesShift, castlesBits, uint64(cr))
}

func (p *Position) toggleToPlay() {
	p.flags ^= 1 << toPlayShift
	p.hash ^= sideKey
}

func (p *Position) incHalfMoveClock() {
	if c := p.field(halfMoveShift, halfMoveBits); c < halfMoveBits {
		p.setField(halfMoveShift, halfMoveBits, c+1)
	}
}

func (p *Position) incPlyNumber() {
	if n := p.field(plyShift, plyBits); n < plyBits {
		p.setField(plyShift, plyBits, n+1)
	}
}

// backupWord packs the flags, both king squares and a change mask.
func (p *Position) backupWord(changed uint64) uint64 {
	return p.flags&flagsMask |
		uint64(p.kings[White])<<whiteKingShift |
		uint64(p.kings[Black])<<blackKingShift |
		changed<<changeShift
}

func (p *Position) restoreWord(w uint64) (changed uint64) {
	p.flags = w & flagsMask
	p.kings[White] = Square((w >> whiteKingShift) & kingBits)
	p.kings[Black] = Square((w >> blackKingShift) & kingBits)
	return (w >> changeShift) & changeBits
}
