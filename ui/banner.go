package ui

import (
	"github.com/rivo/tview"

	"othello-client/types"
)

// Banner is a one-line strip for the timed message and error notices.
// An error notice wins over a message while both are visible.
type Banner struct {
	box *tview.TextView
}

func NewBanner() *Banner {
	box := tview.NewTextView()
	box.SetDynamicColors(true)
	box.SetTextAlign(tview.AlignCenter)
	box.SetBackgroundColor(MenuColors.CardBG)
	return &Banner{box: box}
}

// Box returns the underlying tview component.
func (b *Banner) Box() *tview.TextView {
	return b.box
}

func (b *Banner) SetState(state types.State) {
	b.box.SetText(bannerText(state))
}

func bannerText(state types.State) string {
	switch {
	case state.Error.Visible():
		return "[red::b]" + tview.Escape(state.Error.Text) + "[-:-:-]"
	case state.Message.Visible():
		return "[white]" + tview.Escape(state.Message.Text) + "[-]"
	}
	return ""
}
