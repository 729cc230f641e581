package protocol

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"othello-client/types"
)

// Binary record layout:
//
//	offset  size  field
//	0       1     type code
//	1       20    name, UTF-8, zero padded
//	21      1     color: 'B', 'W', or 0 when not applicable
//	22      1     pad
//	23      1     row
//	24      1     col
const (
	NameLength   = 20
	RecordLength = 25

	offType  = 0
	offName  = 1
	offColor = offName + NameLength
	offRow   = offColor + 2
	offCol   = offRow + 1
)

// Binary record type codes.
const (
	ConnReq     byte = 1
	ConnRes     byte = 2
	PutMyStone  byte = 3
	PutOppStone byte = 4
)

const (
	colorBlack byte = 'B'
	colorWhite byte = 'W'
)

// BinaryCodec implements the fixed-width record profile used by the relay
// server. Every record carries the sender's display name.
type BinaryCodec struct {
	Name string
}

// Profile returns ProfileBinary.
func (*BinaryCodec) Profile() Profile { return ProfileBinary }

// EchoesMoves is false: the relay forwards a move only to the opponent.
func (*BinaryCodec) EchoesMoves() bool { return false }

// Hello encodes the ConnReq record that opens a binary session.
func (c *BinaryCodec) Hello(name string) ([]byte, error) {
	if name == "" {
		name = c.Name
	}
	if len(name) > NameLength {
		return nil, fmt.Errorf("display name %q longer than %d bytes", name, NameLength)
	}
	rec := make([]byte, RecordLength)
	rec[offType] = ConnReq
	copy(rec[offName:offColor], name)
	return rec, nil
}

// EncodeMove encodes a PutMyStone record.
func (c *BinaryCodec) EncodeMove(m Move) ([]byte, error) {
	if !types.InBounds(m.Row, m.Col) {
		return nil, fmt.Errorf("move (%d,%d) out of bounds", m.Row, m.Col)
	}
	rec := make([]byte, RecordLength)
	rec[offType] = PutMyStone
	copy(rec[offName:offColor], c.Name)
	rec[offColor] = colorByte(m.Player)
	rec[offRow] = byte(m.Row)
	rec[offCol] = byte(m.Col)
	return rec, nil
}

// Decode reads one fixed-width record.
func (c *BinaryCodec) Decode(buf []byte) (Message, int, error) {
	if len(buf) > 0 && (buf[offType] < ConnReq || buf[offType] > PutOppStone) {
		return nil, 0, malformed("record type %d", buf[offType])
	}
	if len(buf) < RecordLength {
		return nil, 0, ErrIncomplete
	}
	rec := buf[:RecordLength]

	name := string(bytes.TrimRight(rec[offName:offColor], "\x00"))
	if !utf8.ValidString(name) {
		return nil, 0, malformed("name is not UTF-8")
	}

	switch rec[offType] {
	case ConnRes:
		p, err := colorPlayer(rec[offColor])
		if err != nil {
			return nil, 0, err
		}
		return Matched{Opponent: name, Role: types.RoleOf(p)}, RecordLength, nil
	case PutMyStone, PutOppStone:
		p, err := colorPlayer(rec[offColor])
		if err != nil {
			return nil, 0, err
		}
		row, col := int(rec[offRow]), int(rec[offCol])
		if !types.InBounds(row, col) {
			return nil, 0, malformed("stone at (%d,%d)", row, col)
		}
		return StonePlaced{Player: p, Row: row, Col: col}, RecordLength, nil
	}
	return nil, 0, malformed("unexpected ConnReq from server")
}

func colorByte(p types.Player) byte {
	if p == types.Black {
		return colorBlack
	}
	return colorWhite
}

func colorPlayer(b byte) (types.Player, error) {
	switch b {
	case colorBlack:
		return types.Black, nil
	case colorWhite:
		return types.White, nil
	}
	return types.Black, malformed("color byte %#x", b)
}
