package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FENError describes a malformed FEN string. Index is the byte offset of the
// offending character.
type FENError struct {
	FEN    string
	Index  int
	Reason string
}

func (e *FENError) Error() string {
	return fmt.Sprintf("invalid FEN %q at index %d: %s", e.FEN, e.Index, e.Reason)
}

// fenField is a space separated FEN field and its offset in the string.
type fenField struct {
	text  string
	index int
}

func splitFEN(fen string) []fenField {
	var fields []fenField
	start := -1
	for i := 0; i <= len(fen); i++ {
		if i == len(fen) || fen[i] == ' ' || fen[i] == '\t' {
			if start >= 0 {
				fields = append(fields, fenField{fen[start:i], start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return fields
}

// ParseFEN parses a FEN string and returns a Position.
//
// In lenient mode the half-move clock and full move number may be omitted,
// castling letters may come in any order, and castling rights or an en
// passant square the board cannot back are dropped. Strict mode requires
// all six fields, castling letters in KQkq order and rights and en passant
// squares consistent with the board.
func ParseFEN(fen string, strict bool) (*Position, error) {
	fields := splitFEN(fen)
	fail := func(index int, format string, args ...any) (*Position, error) {
		return nil, &FENError{FEN: fen, Index: index, Reason: fmt.Sprintf(format, args...)}
	}

	switch {
	case strict && len(fields) != 6:
		return fail(len(fen), "need 6 fields, got %d", len(fields))
	case len(fields) < 4:
		return fail(len(fen), "need at least 4 fields, got %d", len(fields))
	case len(fields) > 6:
		return fail(fields[6].index, "unexpected field %q", fields[6].text)
	}

	pos := NewEmptyPosition()

	// Parse piece placement (field 0)
	if err := parsePlacement(pos, fields[0]); err != nil {
		err.FEN = fen
		return nil, err
	}

	// Parse side to move (field 1)
	var toPlay Color
	switch fields[1].text {
	case "w":
		toPlay = White
	case "b":
		toPlay = Black
	default:
		return fail(fields[1].index, "invalid side to move %q", fields[1].text)
	}
	if toPlay == Black {
		pos.toggleToPlay()
	}

	// Parse castling rights (field 2)
	cr, err := parseCastles(pos, fields[2], strict)
	if err != nil {
		err.FEN = fen
		return nil, err
	}
	pos.setCastlesField(cr)

	// Parse en passant square (field 3)
	if f := fields[3]; f.text != "-" {
		sq, err := ParseSquare(f.text)
		if err != nil {
			return fail(f.index, "invalid en passant square %q", f.text)
		}
		switch {
		case pos.epBacked(sq):
			pos.setEPField(sq)
		case strict:
			return fail(f.index, "en passant square %s without a double-pushed pawn", sq)
		}
	}

	// Parse half-move clock (field 4, optional)
	halfMove := 0
	if len(fields) > 4 {
		f := fields[4]
		n, err := strconv.Atoi(f.text)
		switch {
		case err != nil || n < 0:
			return fail(f.index, "invalid half-move clock %q", f.text)
		case n > MaxHalfMoveClock:
			return fail(f.index, "half-move clock %d exceeds %d", n, MaxHalfMoveClock)
		}
		halfMove = n
	}
	pos.setField(halfMoveShift, halfMoveBits, uint64(halfMove))

	// Parse full-move number (field 5, optional)
	fullMove := 1
	if len(fields) > 5 {
		f := fields[5]
		n, err := strconv.Atoi(f.text)
		switch {
		case err != nil || n < 0 || strict && n == 0:
			return fail(f.index, "invalid full-move number %q", f.text)
		case n == 0:
			n = 1
		}
		fullMove = n
	}
	ply := (fullMove-1)*2 + int(toPlay)
	if ply > MaxPlyNumber {
		return fail(fields[len(fields)-1].index, "full-move number %d exceeds the ply limit %d", fullMove, MaxPlyNumber)
	}
	pos.setField(plyShift, plyBits, uint64(ply))

	pos.updateEPHash()
	return pos, nil
}

// parsePlacement parses the piece placement field into an empty position.
func parsePlacement(pos *Position, f fenField) *FENError {
	fail := func(i int, format string, args ...any) *FENError {
		return &FENError{Index: f.index + i, Reason: fmt.Sprintf(format, args...)}
	}

	rank, file := 7, 0
	for i := 0; i < len(f.text); i++ {
		c := f.text[i]
		switch {
		case c == '/':
			if file != 8 {
				return fail(i, "rank %d has %d squares", rank+1, file)
			}
			if rank == 0 {
				return fail(i, "more than 8 ranks")
			}
			rank--
			file = 0
		case c >= '1' && c <= '8':
			file += int(c - '0')
			if file > 8 {
				return fail(i, "rank %d has more than 8 squares", rank+1)
			}
		default:
			stone := StoneFromChar(c)
			if stone == NoStone {
				return fail(i, "invalid piece character %q", c)
			}
			if file > 7 {
				return fail(i, "rank %d has more than 8 squares", rank+1)
			}
			sq := NewSquare(file, rank)
			switch stone.Type() {
			case King:
				if pos.kings[stone.Color()] != NoSquare {
					return fail(i, "more than one %s king", strings.ToLower(stone.Color().String()))
				}
			case Pawn:
				if rank == 0 || rank == 7 {
					return fail(i, "pawn on rank %d", rank+1)
				}
			}
			pos.toggle(stone, sq)
			file++
		}
	}
	if rank != 0 || file != 8 {
		return fail(len(f.text), "need 8 ranks of 8 squares")
	}
	for _, c := range []Color{White, Black} {
		if pos.kings[c] == NoSquare {
			return fail(0, "no %s king", strings.ToLower(c.String()))
		}
	}
	return nil
}

// parseCastles parses the castling field.
func parseCastles(pos *Position, f fenField, strict bool) (CastlingRights, *FENError) {
	fail := func(i int, format string, args ...any) *FENError {
		return &FENError{Index: f.index + i, Reason: fmt.Sprintf(format, args...)}
	}
	if f.text == "-" {
		return NoCastling, nil
	}

	var cr CastlingRights
	for i := 0; i < len(f.text); i++ {
		var right CastlingRights
		switch f.text[i] {
		case 'K':
			right = WhiteKingSideCastle
		case 'Q':
			right = WhiteQueenSideCastle
		case 'k':
			right = BlackKingSideCastle
		case 'q':
			right = BlackQueenSideCastle
		default:
			return 0, fail(i, "invalid castling character %q", f.text[i])
		}
		if strict && right <= cr {
			return 0, fail(i, "castling rights not in KQkq order")
		}

		if !pos.castleBacked(right) {
			if strict {
				return 0, fail(i, "castling right %s without king and rook at home", right)
			}
			continue
		}
		cr |= right
	}
	return cr, nil
}

// castleBacked reports whether king and rook stand on the home squares a
// castling right needs.
func (p *Position) castleBacked(right CastlingRights) bool {
	var m Move
	switch right {
	case WhiteKingSideCastle:
		m = WhiteShortCastle
	case WhiteQueenSideCastle:
		m = WhiteLongCastle
	case BlackKingSideCastle:
		m = BlackShortCastle
	default:
		m = BlackLongCastle
	}
	kFrom, _, rFrom, _ := castleSquares(m)
	c := White
	if right&colorRights(Black) != 0 {
		c = Black
	}
	return p.kings[c] == kFrom && p.StoneAt(rFrom) == NewStone(Rook, c)
}

// epBacked reports whether sq can be the en passant square: it lies on the
// third rank of the side that just moved, is empty together with the
// square behind it, and the pushed pawn stands in front of it.
func (p *Position) epBacked(sq Square) bool {
	us := p.ToPlay()
	them := us.Other()
	if sq.RelativeRank(them) != 2 {
		return false
	}
	pushed := epCaptureSquare(sq, us)
	origin := epCaptureSquare(sq, them)
	return p.IsEmpty(sq) && p.IsEmpty(origin) && p.StoneAt(pushed) == NewStone(Pawn, them)
}

// InitFromFEN replaces the position with the one described by fen. On error
// the position is left untouched. Listeners stay registered and are notified
// of every changed square and flag.
func (p *Position) InitFromFEN(fen string, strict bool) error {
	q, err := ParseFEN(fen, strict)
	if err != nil {
		return err
	}

	oldFlags := p.flags
	squares := p.occupied() | q.occupied()

	p.white, p.black = q.white, q.black
	p.pawns, p.knights, p.bishops, p.rooks = q.pawns, q.knights, q.bishops, q.rooks
	p.kings = q.kings
	p.flags = q.flags
	p.hash = q.hash
	p.resetHistory()

	p.notifySquares(squares)
	p.notifyFlags(oldFlags)
	return nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			stone := p.StoneAt(NewSquare(file, rank))
			if stone == NoStone {
				empty++
			} else {
				if empty > 0 {
					sb.WriteString(strconv.Itoa(empty))
					empty = 0
				}
				sb.WriteByte(stone.Char())
			}
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if p.ToPlay() == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(p.Castles().String())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(p.EPSquare().String())

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock()))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber()))

	return sb.String()
}
