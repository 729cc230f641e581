package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"othello-client/config"
	"othello-client/protocol"
)

var profiles = []protocol.Profile{protocol.ProfileJSON, protocol.ProfileBinary}

// ConnectFormUI provides a form for choosing the server to join.
type ConnectFormUI struct {
	form      *tview.Form
	flex      *tview.Flex
	onConnect func(config.ServerConfig)
	onCancel  func()

	server config.ServerConfig
}

// NewConnectForm creates a connect form prefilled with initial.
func NewConnectForm(initial config.ServerConfig, onConnect func(config.ServerConfig), onCancel func()) *ConnectFormUI {
	setup := &ConnectFormUI{
		onConnect: onConnect,
		onCancel:  onCancel,
		server:    initial,
	}

	form := tview.NewForm()

	form.AddInputField("Host", initial.Host, 32, nil, func(text string) {
		setup.server.Host = strings.TrimSpace(text)
	})

	form.AddInputField("Port", strconv.Itoa(initial.Port), 8, tview.InputFieldInteger, func(text string) {
		if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			setup.server.Port = val
		}
	})

	labels := []string{"JSON (game server)", "Binary (relay server)"}
	selected := 0
	for i, p := range profiles {
		if p == initial.Profile {
			selected = i
		}
	}
	form.AddDropDown("Protocol", labels, selected, func(option string, index int) {
		if index >= 0 && index < len(profiles) {
			setup.server.Profile = profiles[index]
		}
	})

	form.AddInputField("Name", initial.Name, protocol.NameLength, func(text string, lastChar rune) bool {
		return len(text) <= protocol.NameLength
	}, func(text string) {
		setup.server.Name = text
	})

	form.AddButton("Connect", func() {
		onConnect(setup.server)
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" Join Server ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Name is only sent by the binary protocol").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// Form returns the flex container with form and help text.
func (s *ConnectFormUI) Form() *tview.Flex {
	return s.flex
}

// Server returns the settings currently entered.
func (s *ConnectFormUI) Server() config.ServerConfig {
	return s.server
}

// SetInputCapture sets the input capture function for the form.
func (s *ConnectFormUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
