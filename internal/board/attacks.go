package board

// Direction is a compass direction expressed as the square delta of one step.
type Direction int8

const (
	NoDirection Direction = 0
	North       Direction = 8
	South       Direction = -8
	East        Direction = 1
	West        Direction = -1
	NorthEast   Direction = 9
	NorthWest   Direction = 7
	SouthEast   Direction = -7
	SouthWest   Direction = -9
)

// directions lists the eight compass directions; the first four are
// orthogonal, the last four diagonal.
var directions = [8]Direction{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}

// IsDiagonal reports whether d is one of the four diagonal directions.
func (d Direction) IsDiagonal() bool {
	return d == NorthEast || d == NorthWest || d == SouthEast || d == SouthWest
}

// IsOrthogonal reports whether d is one of the four rank/file directions.
func (d Direction) IsOrthogonal() bool {
	return d == North || d == South || d == East || d == West
}

// index maps a direction into [0,8) for ray lookups.
func (d Direction) index() int {
	switch d {
	case North:
		return 0
	case South:
		return 1
	case East:
		return 2
	case West:
		return 3
	case NorthEast:
		return 4
	case NorthWest:
		return 5
	case SouthEast:
		return 6
	default:
		return 7
	}
}

// Pre-computed attack tables.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	bishopPattern [64]Bitboard // empty-board diagonal attacks
	rookPattern   [64]Bitboard // empty-board orthogonal attacks
	queenPattern  [64]Bitboard

	rays [64][8]Bitboard // squares from sq in a direction, sq excluded

	directionBB [64][64]Direction // compass direction from sq1 to sq2
	betweenBB   [64][64]Bitboard  // squares strictly between two aligned squares
)

func init() {
	initKnightAttacks()
	initKingAttacks()
	initPawnAttacks()
	initRays()
	initDirectionsAndBetween()
}

func initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := Empty
		attacks |= (bb << 17) & NotFileA
		attacks |= (bb << 15) & NotFileH
		attacks |= (bb >> 17) & NotFileH
		attacks |= (bb >> 15) & NotFileA
		attacks |= (bb << 10) & NotFileAB
		attacks |= (bb << 6) & NotFileGH
		attacks |= (bb >> 10) & NotFileGH
		attacks |= (bb >> 6) & NotFileAB

		knightAttacks[sq] = attacks
	}
}

func initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		attacks := bb.North() | bb.South()
		attacks |= bb.East() | bb.West()
		attacks |= bb.NorthEast() | bb.NorthWest()
		attacks |= bb.SouthEast() | bb.SouthWest()

		kingAttacks[sq] = attacks
	}
}

func initPawnAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

// step returns the square one step from sq in direction d, or false when the
// step would leave the board.
func step(sq Square, d Direction) (Square, bool) {
	f, r := sq.File(), sq.Rank()
	switch d {
	case North:
		r++
	case South:
		r--
	case East:
		f++
	case West:
		f--
	case NorthEast:
		f, r = f+1, r+1
	case NorthWest:
		f, r = f-1, r+1
	case SouthEast:
		f, r = f+1, r-1
	case SouthWest:
		f, r = f-1, r-1
	}
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for i, d := range directions {
			var ray Bitboard
			for s, ok := step(sq, d); ok; s, ok = step(s, d) {
				ray |= SquareBB(s)
			}
			rays[sq][i] = ray
			if d.IsDiagonal() {
				bishopPattern[sq] |= ray
			} else {
				rookPattern[sq] |= ray
			}
		}
		queenPattern[sq] = bishopPattern[sq] | rookPattern[sq]
	}
}

func initDirectionsAndBetween() {
	for from := A1; from <= H8; from++ {
		for _, d := range directions {
			var between Bitboard
			for s, ok := step(from, d); ok; s, ok = step(s, d) {
				directionBB[from][s] = d
				betweenBB[from][s] = between
				between |= SquareBB(s)
			}
		}
	}
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// Ray returns the squares reached from sq in direction d on an empty board.
func Ray(sq Square, d Direction) Bitboard {
	if d == NoDirection {
		return Empty
	}
	return rays[sq][d.index()]
}

// DirectionBetween returns the compass direction leading from sq1 to sq2,
// NoDirection if the squares do not share a rank, file or diagonal.
func DirectionBetween(sq1, sq2 Square) Direction {
	return directionBB[sq1][sq2]
}

// Between returns the squares strictly between two squares.
// Returns empty if the squares are not aligned or are adjacent.
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// rayAttacks returns the squares a slider on sq reaches in direction d,
// stopping at (and including) the first occupied square.
func rayAttacks(sq Square, d Direction, occupied Bitboard) Bitboard {
	i := d.index()
	ray := rays[sq][i]
	blockers := ray & occupied
	if blockers == 0 {
		return ray
	}
	var first Square
	if d > 0 {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return ray &^ rays[first][i]
}

// BishopAttacks returns the diagonal attacks from sq with the given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, NorthEast, occupied) | rayAttacks(sq, NorthWest, occupied) |
		rayAttacks(sq, SouthEast, occupied) | rayAttacks(sq, SouthWest, occupied)
}

// RookAttacks returns the orthogonal attacks from sq with the given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, North, occupied) | rayAttacks(sq, South, occupied) |
		rayAttacks(sq, East, occupied) | rayAttacks(sq, West, occupied)
}

// QueenAttacks returns the combined attacks from sq with the given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// attackers returns the stones of color by among candidates that attack sq
// when the board occupancy is occupied.
func (p *Position) attackers(sq Square, by Color, occupied, candidates Bitboard) Bitboard {
	own := p.colorMask(by) & candidates
	var result Bitboard

	result |= knightAttacks[sq] & p.knights & own
	result |= pawnAttacks[by.Other()][sq] & p.pawns & own
	if k := p.KingSquare(by); k != NoSquare && kingAttacks[sq]&own&SquareBB(k) != 0 {
		result |= SquareBB(k)
	}

	diag := bishopPattern[sq] & p.bishops & own
	for diag != 0 {
		from := diag.PopLSB()
		if betweenBB[sq][from]&occupied == 0 {
			result |= SquareBB(from)
		}
	}
	ortho := rookPattern[sq] & p.rooks & own
	for ortho != 0 {
		from := ortho.PopLSB()
		if betweenBB[sq][from]&occupied == 0 {
			result |= SquareBB(from)
		}
	}
	return result
}

// AttackersOf returns all stones of color by attacking sq.
func (p *Position) AttackersOf(sq Square, by Color) Bitboard {
	return p.attackers(sq, by, p.occupied(), Universe)
}

// IsAttacked reports whether sq is attacked by color by, treating the squares
// in exclude as empty. The king move generator passes the king's origin so
// sliders see through the vacated square.
func (p *Position) IsAttacked(sq Square, by Color, exclude Bitboard) bool {
	return p.attackers(sq, by, p.occupied()&^exclude, ^exclude) != 0
}

// PinnedDirection returns the direction of the line on which the stone on sq
// is pinned against the king of color kingColor, or NoDirection if it is not
// the sole blocker between that king and an enemy slider.
func (p *Position) PinnedDirection(sq Square, kingColor Color) Direction {
	ksq := p.KingSquare(kingColor)
	if ksq == NoSquare || ksq == sq {
		return NoDirection
	}
	d := directionBB[ksq][sq]
	if d == NoDirection {
		return NoDirection
	}
	occ := p.occupied()
	if betweenBB[ksq][sq]&occ != 0 {
		return NoDirection
	}

	beyond := rayAttacks(sq, d, occ) & occ
	if beyond == 0 {
		return NoDirection
	}
	sliders := p.rooks
	if d.IsDiagonal() {
		sliders = p.bishops
	}
	if beyond&sliders&p.colorMask(kingColor.Other()) == 0 {
		return NoDirection
	}
	return d
}
