// Package ui specifies custom controls for tview to play Othello against a
// remote server in the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"othello-client/config"
	"othello-client/engine"
	"othello-client/types"
)

// Indexes into BoardUI.styles.
const (
	styleBoard = iota
	styleBoardAlt
	styleBlack
	styleWhite
	styleLine
	styleCursorFG
	styleCursorBG
)

// BoardUI draws the 8x8 board and turns cursor input into move proposals.
// All methods must be called from the tview event loop.
type BoardUI struct {
	Box       *tview.Box
	State     types.State
	hint      *tview.TextView
	cfg       *config.Config
	selRow    int
	selCol    int
	app       *tview.Application
	eng       engine.GameEngine
	styles    []tcell.Color
	infoPanel *GameInfoPanel
	banner    *Banner
}

func NewBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:    tview.NewBox(),
		State:  types.State{Session: types.NewSession(), Board: types.NewBoard()},
		hint:   hint,
		app:    app,
		selRow: -1,
		selCol: -1,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		// 2 characters per cell for square appearance
		boardW, boardH := types.Size*2, types.Size

		for row := 0; row < types.Size; row++ {
			for col := 0; col < types.Size; col++ {
				bg := board.styles[styleBoard]
				if board.cfg.Theme.Checkerboard && (row+col)%2 == 1 {
					bg = board.styles[styleBoardAlt]
				}
				fg := board.styles[styleLine]
				drawRune := board.cfg.Theme.Symbols.EmptySquare

				switch board.State.Board[row][col] {
				case types.BlackStone:
					drawRune = board.cfg.Theme.Symbols.BlackStone
					fg = board.styles[styleBlack]
				case types.WhiteStone:
					drawRune = board.cfg.Theme.Symbols.WhiteStone
					fg = board.styles[styleWhite]
				}

				if row == board.selRow && col == board.selCol {
					if board.cfg.Theme.DrawCursorBackground {
						bg = board.styles[styleCursorBG]
					}
					if board.State.Board[row][col] == types.Empty {
						fg = board.styles[styleCursorFG]
					}
				}
				drawCell(screen, tcell.StyleDefault.Background(bg).Foreground(fg), drawRune, col, row, x+3, y)
			}
		}
		drawCoordinates(screen, x, y, board)
		return x, y, boardW + 3, boardH + 1
	})
	return board
}

// ConnectEngine attaches the board to an engine. Callbacks arrive on the
// receive goroutine and are handed to the event loop, which re-reads the
// latest state so queued redraws may run in any order.
func (g *BoardUI) ConnectEngine(e engine.GameEngine) {
	g.eng = e
	g.ResetSelection()

	e.OnUpdate(func(types.State) {
		g.queueRefresh(false)
	})
	e.OnGameEnd(func(types.State) {
		g.queueRefresh(true)
	})
	e.OnDisconnect(func(error) {
		g.queueRefresh(false)
	})
	g.Refresh()
}

func (g *BoardUI) queueRefresh(resetSelection bool) {
	// Spawn goroutine so the receive goroutine never waits for a frame
	go func() {
		g.app.QueueUpdateDraw(func() {
			if resetSelection {
				g.ResetSelection()
			}
			g.Refresh()
		})
	}()
}

// Engine returns the attached engine, or nil.
func (g *BoardUI) Engine() engine.GameEngine {
	return g.eng
}

// Tick advances notice countdowns by one frame and redraws from the engine.
func (g *BoardUI) Tick() {
	if g.eng == nil {
		return
	}
	g.eng.Tick()
	g.Refresh()
}

// Refresh re-reads the engine state.
func (g *BoardUI) Refresh() {
	if g.eng == nil {
		g.setState(g.State)
		return
	}
	g.setState(g.eng.State())
}

func (g *BoardUI) setState(state types.State) {
	g.State = state
	if g.infoPanel != nil {
		row, col, ok := g.SelectedSquare()
		g.infoPanel.SetCursor(row, col, ok)
		g.infoPanel.SetState(state)
	}
	if g.banner != nil {
		g.banner.SetState(state)
	}
	g.refreshHint()
}

// SelectedSquare returns the cursor position, ok is false without a cursor.
func (g *BoardUI) SelectedSquare() (row, col int, ok bool) {
	if g.selRow == -1 && g.selCol == -1 {
		return 0, 0, false
	}
	return g.selRow, g.selCol, true
}

// MoveSelection moves the cursor by the given offsets. The first call
// places the cursor near the centre of the board.
func (g *BoardUI) MoveSelection(dRow, dCol int) {
	if _, _, ok := g.SelectedSquare(); !ok {
		g.selRow, g.selCol = types.Size/2-1, types.Size/2-1
		g.setState(g.State)
		return
	}
	if !types.InBounds(g.selRow+dRow, g.selCol+dCol) {
		return
	}
	g.selRow += dRow
	g.selCol += dCol
	g.setState(g.State)
}

func (g *BoardUI) ResetSelection() {
	g.selRow = -1
	g.selCol = -1
}

// PlayMove proposes a stone at the cursor. Rejections are expected while it
// is not our turn and are only logged by the engine.
func (g *BoardUI) PlayMove() error {
	row, col, ok := g.SelectedSquare()
	if !ok || g.eng == nil {
		return nil
	}
	err := g.eng.PlayMove(row, col)
	g.Refresh()
	return err
}

// Close disconnects the engine.
func (g *BoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.BoardColor),    // styleBoard
		tcell.PaletteColor(c.Theme.Colors.BoardColorAlt), // styleBoardAlt
		tcell.PaletteColor(c.Theme.Colors.BlackColor),    // styleBlack
		tcell.PaletteColor(c.Theme.Colors.WhiteColor),    // styleWhite
		tcell.PaletteColor(c.Theme.Colors.LineColor),     // styleLine
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG), // styleCursorFG
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG), // styleCursorBG
	}
	g.cfg = c
}

func (g *BoardUI) refreshHint() {
	if g.hint == nil {
		return
	}
	g.hint.SetText(hintText(g.State.Session))
}

func hintText(s types.Session) string {
	var turnLine string
	switch {
	case !s.Connected:
		turnLine = "  ✕ Disconnected · r reconnect"
	case s.Status == types.Playing && s.IsMyTurn():
		turnLine = fmt.Sprintf("  %s Your move (%s)", stoneGlyph(s.CurrentTurn), s.CurrentTurn)
	case s.Status == types.Playing:
		turnLine = fmt.Sprintf("  ◌ Waiting for %s", s.CurrentTurn)
	default:
		turnLine = "  ◌ Waiting for the server"
	}
	return turnLine + "\n  hjkl/↑↓←→ move   ⏎ play   r reconnect   q leave"
}

func stoneGlyph(p types.Player) string {
	if p == types.White {
		return "○"
	}
	return "●"
}

// drawCell draws a cell (2 characters wide)
func drawCell(s tcell.Screen, c tcell.Style, r rune, col, row, l, t int) {
	s.SetContent(l+col*2, t+row, r, nil, c)
	s.SetContent(l+col*2+1, t+row, ' ', nil, c)
}

func drawCoordinates(s tcell.Screen, x, y int, ui *BoardUI) {
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(ui.styles[styleCursorBG])

	for col := 0; col < types.Size; col++ {
		_style := style
		if col == ui.selCol {
			_style = highlight
		}
		s.SetContent(x+3+(col*2), y+types.Size, rune('a'+col), nil, _style)
		s.SetContent(x+3+(col*2)+1, y+types.Size, ' ', nil, _style)
	}

	// Row 1 is the top row.
	for row := 0; row < types.Size; row++ {
		_style := style
		if row == ui.selRow {
			_style = highlight
		}
		s.SetContent(x+1, y+row, rune('1'+row), nil, _style)
	}
}
