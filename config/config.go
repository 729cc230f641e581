package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"othello-client/protocol"
)

var (
	cfgFile = "othello-client/config.json"
	envFile = ".env"
)

// Environment variables that override the config file.
const (
	EnvHost    = "OTHELLO_HOST"
	EnvPort    = "OTHELLO_PORT"
	EnvProfile = "OTHELLO_PROFILE"
	EnvName    = "OTHELLO_NAME"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

type ConfigColors struct {
	BoardColor    int `json:"board"`
	BoardColorAlt int `json:"board_alt"`
	BlackColor    int `json:"black"`
	WhiteColor    int `json:"white"`
	LineColor     int `json:"line"`
	CursorColorFG int `json:"cursor_fg"`
	CursorColorBG int `json:"cursor_bg"`
}

type ConfigSymbols struct {
	BlackStone  rune `json:"black"`
	WhiteStone  rune `json:"white"`
	EmptySquare rune `json:"empty"`
}

type Theme struct {
	DrawCursorBackground bool          `json:"draw_cursor_bg"`
	Checkerboard         bool          `json:"checkerboard"`
	Colors               ConfigColors  `json:"colors"`
	Symbols              ConfigSymbols `json:"symbols"`
}

// ServerConfig holds the connection settings shown in the connect form.
type ServerConfig struct {
	Host    string           `json:"host"`
	Port    int              `json:"port"`
	Profile protocol.Profile `json:"profile"`
	Name    string           `json:"name"`
}

type Config struct {
	Theme  Theme        `json:"theme"`
	Server ServerConfig `json:"server"`
}

// InitConfig loads the defaults, the config file if one exists and then the
// environment, including a .env file in the working directory.
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ApplyEnv overrides server settings from OTHELLO_* variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &InvalidConfig{fmt.Sprintf("%s=%q is not a number", EnvPort, v)}
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv(EnvProfile); ok && v != "" {
		p, err := protocol.ParseProfile(v)
		if err != nil {
			return &InvalidConfig{err.Error()}
		}
		c.Server.Profile = p
	}
	if v, ok := os.LookupEnv(EnvName); ok && v != "" {
		c.Server.Name = v
	}
	return nil
}

func (c *Config) Validate() error {
	for _, r := range []rune{c.Theme.Symbols.BlackStone, c.Theme.Symbols.WhiteStone, c.Theme.Symbols.EmptySquare} {
		if r < 32 || (r >= 127 && r <= 159) {
			return &InvalidConfig{"Unicode characters 1-31 and 127-159 are not allowed"}
		}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &InvalidConfig{fmt.Sprintf("port %d out of range", c.Server.Port)}
	}
	if _, err := protocol.ParseProfile(string(c.Server.Profile)); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if len(c.Server.Name) > protocol.NameLength {
		return &InvalidConfig{fmt.Sprintf("name longer than %d bytes", protocol.NameLength)}
	}
	return nil
}

func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return &InvalidConfig{fmt.Sprintf("reading %s: %v", path, err)}
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	configReader, err := os.ReadFile(filePath)
	if err != nil {
		return nil
	}
	if err = json.Unmarshal(configReader, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
