package config

import (
	"othello-client/engine"
	"othello-client/protocol"
)

var DefaultConfig Config
var DefaultTheme Theme

func init() {
	DefaultTheme = Theme{
		DrawCursorBackground: true,
		Checkerboard:         false,
		Colors: ConfigColors{
			BoardColor:    28,
			BoardColorAlt: 22,
			BlackColor:    232,
			WhiteColor:    255,
			LineColor:     22,
			CursorColorFG: 226,
			CursorColorBG: 64,
		},
		Symbols: ConfigSymbols{
			BlackStone:  '●',
			WhiteStone:  '●',
			EmptySquare: '·',
		},
	}

	DefaultConfig = Config{
		Theme: DefaultTheme,
		Server: ServerConfig{
			Host:    "127.0.0.1",
			Port:    engine.DefaultPort,
			Profile: protocol.ProfileJSON,
		},
	}
}

// GameConfig returns the engine configuration for the server settings.
func (c *Config) GameConfig() engine.GameConfig {
	gc := engine.DefaultConfig()
	gc.Host = c.Server.Host
	gc.Port = c.Server.Port
	gc.Profile = c.Server.Profile
	gc.Name = c.Server.Name
	return gc
}
