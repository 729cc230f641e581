// Package types contains shared data structures for othello-client.
package types

// Size is the width and height of an Othello board.
const Size = 8

// Cell is the occupancy of one square. The numeric values match the
// JSON wire grid: 0=empty, 1=black, 2=white.
type Cell int

const (
	Empty Cell = iota
	BlackStone
	WhiteStone
)

// Valid reports whether c is one of the three known cell values.
func (c Cell) Valid() bool {
	return c >= Empty && c <= WhiteStone
}

// Player is one of the two colors. The numeric values match the wire
// player_number and current_turn fields: 0=black, 1=white.
type Player int

const (
	Black Player = iota
	White
)

// Opponent returns the other color.
func (p Player) Opponent() Player {
	if p == Black {
		return White
	}
	return Black
}

// Cell returns the board value of a stone of this color.
func (p Player) Cell() Cell {
	if p == Black {
		return BlackStone
	}
	return WhiteStone
}

func (p Player) String() string {
	if p == Black {
		return "Black"
	}
	return "White"
}

// Board is indexed as Board[row][col].
type Board [Size][Size]Cell

// NewBoard returns the standard starting position: white on the main
// diagonal of the central square, black on the anti-diagonal.
func NewBoard() Board {
	var b Board
	b.Reset()
	return b
}

// Reset restores the starting position in place.
func (b *Board) Reset() {
	*b = Board{}
	b[3][3] = WhiteStone
	b[4][4] = WhiteStone
	b[3][4] = BlackStone
	b[4][3] = BlackStone
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns the cell at (row, col), or Empty when out of bounds.
func (b *Board) At(row, col int) Cell {
	if !InBounds(row, col) {
		return Empty
	}
	return b[row][col]
}

// Count returns the number of black, white and empty cells.
// The three always sum to Size*Size.
func (b *Board) Count() (black, white, empty int) {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch b[row][col] {
			case BlackStone:
				black++
			case WhiteStone:
				white++
			default:
				empty++
			}
		}
	}
	return black, white, empty
}

var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Place puts a stone of color p at (row, col) and flips every bracketed
// line of opponent stones. It returns the number of flipped stones.
// No legality check is made; a placement that brackets nothing still
// puts the stone down.
func (b *Board) Place(p Player, row, col int) int {
	if !InBounds(row, col) {
		return 0
	}
	me, opp := p.Cell(), p.Opponent().Cell()
	b[row][col] = me
	flipped := 0
	for _, d := range directions {
		r, c := row+d[0], col+d[1]
		run := 0
		for InBounds(r, c) && b[r][c] == opp {
			r += d[0]
			c += d[1]
			run++
		}
		if run == 0 || !InBounds(r, c) || b[r][c] != me {
			continue
		}
		for i := 1; i <= run; i++ {
			b[row+d[0]*i][col+d[1]*i] = me
		}
		flipped += run
	}
	return flipped
}
