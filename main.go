// othello-client is a terminal client for playing Othello on a network game server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"othello-client/config"
	"othello-client/engine/netplay"
	"othello-client/logging"
	"othello-client/protocol"
	"othello-client/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// frameRate is how often notices count down and the screen is redrawn.
const frameRate = 30

// Command-line flags
var (
	flagPort    = flag.Int("port", 0, "Server port (default 10000)")
	flagProfile = flag.String("profile", "", "Wire protocol: json or binary")
	flagName    = flag.String("name", "", "Display name sent by the binary protocol")
	flagConnect = flag.Bool("connect", false, "Connect immediately instead of showing the form")
	flagDebug   = flag.Bool("debug", false, "Write debug entries to the log file")
	flagVersion = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var infoPanel *ui.GameInfoPanel
var cfg *config.Config
var log *zap.Logger

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [host]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *flagVersion {
		fmt.Printf("othello-client %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	log, err = logging.New("", *flagDebug)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("starting", zap.String("version", Version))

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ● othello ○ ")

	gameHint := tview.NewTextView()
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameBoard = ui.NewBoard(app, cfg, gameHint)

	var gameFrame *tview.Flex
	gameFrame, infoPanel = ui.CreateGameLayout(gameBoard, gameHint)

	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyDown:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyRight:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyEnter:
			if err := gameBoard.PlayMove(); err != nil {
				log.Debug("move not sent", zap.Error(err))
			}
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(0, -1)
			case 'j':
				gameBoard.MoveSelection(1, 0)
			case 'k':
				gameBoard.MoveSelection(-1, 0)
			case 'l':
				gameBoard.MoveSelection(0, 1)
			case 'r':
				reconnect()
			case 'q':
				if _, _, ok := gameBoard.SelectedSquare(); ok {
					gameBoard.ResetSelection()
					gameBoard.Refresh()
				} else {
					gameBoard.Close()
					rootPage.SwitchToPage("setup")
				}
			}
			return nil
		}
		return event
	})

	setupUI := ui.NewConnectForm(cfg.Server,
		func(server config.ServerConfig) {
			startGame(server)
		},
		func() {
			app.Stop()
		},
	)

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 60), true, !*flagConnect)
	rootPage.AddPage("gameview", gameFrame, true, *flagConnect)

	if *flagConnect {
		eng, err := newEngine(cfg.Server)
		if err != nil {
			return err
		}
		if err := eng.Connect(context.Background()); err != nil {
			return err
		}
	}

	return runLoop()
}

// runLoop runs the event loop and the frame ticker until the user quits.
func runLoop() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(time.Second / frameRate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				app.QueueUpdateDraw(gameBoard.Tick)
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		defer gameBoard.Close()
		return app.SetRoot(rootPage, true).Run()
	})

	return g.Wait()
}

// applyFlags overrides the loaded config with command-line values.
func applyFlags(c *config.Config) error {
	if host := flag.Arg(0); host != "" {
		c.Server.Host = host
	}
	if *flagPort != 0 {
		c.Server.Port = *flagPort
	}
	if *flagProfile != "" {
		p, err := protocol.ParseProfile(*flagProfile)
		if err != nil {
			return err
		}
		c.Server.Profile = p
	}
	if *flagName != "" {
		c.Server.Name = *flagName
	}
	return c.Validate()
}

// newEngine builds an engine for server and attaches it to the board.
func newEngine(server config.ServerConfig) (*netplay.NetEngine, error) {
	cfg.Server = server
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gameBoard.Close()

	eng, err := netplay.NewNetEngine(cfg.GameConfig(), log)
	if err != nil {
		return nil, err
	}
	gameBoard.ConnectEngine(eng)
	infoPanel.SetServer(fmt.Sprintf("%s (%s)", net.JoinHostPort(server.Host, strconv.Itoa(server.Port)), server.Profile))
	return eng, nil
}

// startGame connects from the form. The dial runs off the event loop.
func startGame(server config.ServerConfig) {
	eng, err := newEngine(server)
	if err != nil {
		showError(err)
		return
	}
	if err := cfg.Save(); err != nil {
		log.Warn("failed to save config", zap.Error(err))
	}

	go func() {
		err := eng.Connect(context.Background())
		app.QueueUpdateDraw(func() {
			if err != nil {
				showError(err)
				return
			}
			rootPage.SwitchToPage("gameview")
			gameBoard.Refresh()
		})
	}()
}

// reconnect dials again after the connection was lost.
func reconnect() {
	eng := gameBoard.Engine()
	if eng == nil || eng.Connected() {
		return
	}
	go func() {
		if err := eng.Connect(context.Background()); err != nil && !errors.Is(err, netplay.ErrAlreadyConnected) {
			log.Info("reconnect failed", zap.Error(err))
		}
		app.QueueUpdateDraw(gameBoard.Refresh)
	}()
}

func showError(err error) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Failed to connect:\n%s", err.Error())).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}
