package ui

import "github.com/gdamore/tcell/v2"

// MenuColors is the palette for the connect form and the notice banner.
var MenuColors = struct {
	CardBG     tcell.Color
	Hint       tcell.Color
	ButtonBG   tcell.Color
	ButtonText tcell.Color
}{
	CardBG:     tcell.PaletteColor(236), // dark gray
	Hint:       tcell.PaletteColor(245),
	ButtonBG:   tcell.PaletteColor(60), // muted blue
	ButtonText: tcell.PaletteColor(255),
}
