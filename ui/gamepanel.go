package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"othello-client/engine/netplay"
	"othello-client/types"
)

// GameInfoPanel displays the session alongside the board.
type GameInfoPanel struct {
	box    *tview.TextView
	state  types.State
	server string

	cursorRow, cursorCol int
	hasCursor            bool
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box:   tview.NewTextView(),
		state: types.State{Session: types.NewSession(), Board: types.NewBoard()},
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetState updates the panel with the current state.
func (p *GameInfoPanel) SetState(state types.State) {
	p.state = state
	p.refresh()
}

// SetServer sets the server line, e.g. "127.0.0.1:10000 (json)".
func (p *GameInfoPanel) SetServer(server string) {
	p.server = server
	p.refresh()
}

// SetCursor sets the square shown on the cursor line.
func (p *GameInfoPanel) SetCursor(row, col int, ok bool) {
	p.cursorRow, p.cursorCol, p.hasCursor = row, col, ok
}

func (p *GameInfoPanel) refresh() {
	p.box.SetText(p.text())
}

func (p *GameInfoPanel) text() string {
	s := p.state.Session
	var b strings.Builder

	b.WriteString("[white::b]Game Info[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	if p.server != "" {
		fmt.Fprintf(&b, "[white]Server:[-:-:-] %s\n", p.server)
	}
	if s.Connected {
		b.WriteString("[white]Link:[-:-:-] [green]connected[-]\n")
	} else {
		b.WriteString("[white]Link:[-:-:-] [red]disconnected[-]\n")
	}
	fmt.Fprintf(&b, "[white]Role:[-:-:-] %s\n", s.Role)
	if s.Opponent != "" {
		fmt.Fprintf(&b, "[white]Opponent:[-:-:-] %s\n", tview.Escape(s.Opponent))
	}
	fmt.Fprintf(&b, "[white]Status:[-:-:-] %s\n", s.Status)
	if s.Status == types.Playing {
		turn := fmt.Sprintf("%s %s", stoneGlyph(s.CurrentTurn), s.CurrentTurn)
		if s.IsMyTurn() {
			turn += " (you)"
		}
		fmt.Fprintf(&b, "[white]Turn:[-:-:-] %s\n", turn)
	}

	black, white, _ := p.state.Board.Count()
	b.WriteString("\n[white::b]Stones[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
	fmt.Fprintf(&b, "● Black %2d   ○ White %2d\n", black, white)

	if s.Winner != types.NoWinner {
		b.WriteString("\n[white::b]Result[-:-:-]\n")
		b.WriteString("[dimgray]──────────────────────[-:-:-]\n")
		fmt.Fprintf(&b, "[yellow]%s[-]\n", s.Winner)
		if s.BlackScore > 0 || s.WhiteScore > 0 {
			fmt.Fprintf(&b, "Score %d - %d\n", s.BlackScore, s.WhiteScore)
		}
	}

	if p.hasCursor {
		fmt.Fprintf(&b, "\n[dimgray]Cursor: %s[-]\n", netplay.PosToDisplay(p.cursorRow, p.cursorCol))
	}
	return b.String()
}

// CreateGameLayout creates the main game layout with board, side panel,
// notice banner and status bar.
func CreateGameLayout(board *BoardUI, hint *tview.TextView) (*tview.Flex, *GameInfoPanel) {
	infoPanel := NewGameInfoPanel()
	banner := NewBanner()

	// Store references in board for updates
	board.infoPanel = infoPanel
	board.banner = banner

	// Create horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)         // Board (flexible, takes remaining space)
	boardRow.AddItem(infoPanel.Box(), 28, 0, false) // Info panel (fixed width)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(banner.Box(), 1, 0, false)
	mainFlex.AddItem(boardRow, 0, 1, true)
	mainFlex.AddItem(hint, 2, 0, false) // Compact: just 2 rows

	return mainFlex, infoPanel
}

// CreateCenteredForm creates a centered form container for the connect screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}
