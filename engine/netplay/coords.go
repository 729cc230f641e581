// Package netplay implements engine.GameEngine against a remote Othello
// server over TCP.
package netplay

import (
	"fmt"
	"strconv"
	"strings"

	"othello-client/types"
)

// Display coordinate system:
// - Columns: a-h (left to right)
// - Rows: 1-8 (top to bottom, as the board is drawn)
// - Example: d3, e6
//
// Wire coordinate system:
// - row: 0-7 (top to bottom)
// - col: 0-7 (left to right)
// - Example: (2, 3) for d3

// PosToDisplay converts wire coordinates to display notation.
// (2, 3) -> d3, (0, 0) -> a1, (7, 7) -> h8
func PosToDisplay(row, col int) string {
	if !types.InBounds(row, col) {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'a'+rune(col), row+1)
}

// DisplayToPos converts display notation to wire coordinates.
// d3 -> (2, 3). Case-insensitive.
func DisplayToPos(square string) (int, int, error) {
	square = strings.TrimSpace(strings.ToLower(square))
	if len(square) < 2 {
		return 0, 0, fmt.Errorf("invalid square: %s", square)
	}

	col := int(square[0] - 'a')
	row, err := strconv.Atoi(square[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row in square: %s", square)
	}
	row--

	if !types.InBounds(row, col) {
		return 0, 0, fmt.Errorf("square out of bounds: %s", square)
	}
	return row, col, nil
}
