package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"othello-client/types"
)

// JSONCodec implements the JSON profile: compact JSON objects written back
// to back with no length prefix or delimiter.
type JSONCodec struct{}

// envelope is the union of every field a server record may carry.
type envelope struct {
	Type         *string `json:"type"`
	PlayerNumber *int    `json:"player_number"`
	Winner       *int    `json:"winner"`
	BlackScore   int     `json:"black_score"`
	WhiteScore   int     `json:"white_score"`
	Board        [][]int `json:"board"`
	CurrentTurn  *int    `json:"current_turn"`
	Error        *string `json:"error"`
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Profile returns ProfileJSON.
func (JSONCodec) Profile() Profile { return ProfileJSON }

// EchoesMoves is true: the server broadcasts a board after every move.
func (JSONCodec) EchoesMoves() bool { return true }

// Hello returns nil; the JSON server assigns roles on accept.
func (JSONCodec) Hello(string) ([]byte, error) { return nil, nil }

// EncodeMove returns {"row":R,"col":C} with no whitespace.
func (JSONCodec) EncodeMove(m Move) ([]byte, error) {
	return json.Marshal(moveRequest{Row: m.Row, Col: m.Col})
}

// Decode splits off the first JSON object in buf. Record boundaries come
// from the JSON grammar itself, so concatenated and split records are both
// handled without looking for delimiters.
func (JSONCodec) Decode(buf []byte) (Message, int, error) {
	start := 0
	for start < len(buf) && isSpace(buf[start]) {
		start++
	}
	if start == len(buf) {
		return nil, start, nil
	}
	if buf[start] != '{' {
		return nil, 0, malformed("record starts with %q", buf[start])
	}

	var raw []byte
	n := len(buf)
	if json.Valid(buf[start:]) {
		// Common case: exactly one record per read.
		raw = buf[start:]
	} else {
		dec := json.NewDecoder(bytes.NewReader(buf[start:]))
		var rm json.RawMessage
		if err := dec.Decode(&rm); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, 0, ErrIncomplete
			}
			return nil, 0, malformed("%v", err)
		}
		raw = rm
		n = start + int(dec.InputOffset())
	}

	msg, err := decodeRecord(raw)
	if err != nil {
		return nil, 0, err
	}
	return msg, n, nil
}

func decodeRecord(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, malformed("%v", err)
	}

	switch {
	case env.Type != nil:
		return decodeTyped(*env.Type, &env, raw)
	case env.Board != nil:
		return decodeBoard(&env)
	case env.Error != nil:
		return ErrorNotice{Text: *env.Error}, nil
	}
	return Unknown{Raw: append([]byte(nil), raw...)}, nil
}

func decodeTyped(typ string, env *envelope, raw []byte) (Message, error) {
	switch typ {
	case "player_assigned":
		if env.PlayerNumber == nil {
			return nil, malformed("player_assigned without player_number")
		}
		p, err := wirePlayer(*env.PlayerNumber)
		if err != nil {
			return nil, err
		}
		return RoleAssigned{Role: types.RoleOf(p)}, nil
	case "spectator_assigned":
		return SpectatorAssigned{}, nil
	case "game_start":
		return GameStart{}, nil
	case "game_over":
		if env.Winner == nil {
			return nil, malformed("game_over without winner")
		}
		w, err := wireWinner(*env.Winner, types.Draw)
		if err != nil {
			return nil, err
		}
		return GameOver{Winner: w, BlackScore: env.BlackScore, WhiteScore: env.WhiteScore}, nil
	}
	return Unknown{Raw: append([]byte(nil), raw...)}, nil
}

func decodeBoard(env *envelope) (Message, error) {
	if len(env.Board) != types.Size {
		return nil, malformed("board has %d rows", len(env.Board))
	}
	var b types.Board
	for row, cells := range env.Board {
		if len(cells) != types.Size {
			return nil, malformed("board row %d has %d cells", row, len(cells))
		}
		for col, v := range cells {
			c := types.Cell(v)
			if !c.Valid() {
				return nil, malformed("board cell (%d,%d) = %d", row, col, v)
			}
			b[row][col] = c
		}
	}
	if env.CurrentTurn == nil {
		return nil, malformed("board without current_turn")
	}
	turn, err := wirePlayer(*env.CurrentTurn)
	if err != nil {
		return nil, err
	}
	winner := types.NoWinner
	if env.Winner != nil {
		if winner, err = wireWinner(*env.Winner, types.NoWinner); err != nil {
			return nil, err
		}
	}
	return BoardUpdate{Board: b, CurrentTurn: turn, Winner: winner}, nil
}

func wirePlayer(v int) (types.Player, error) {
	switch v {
	case 0:
		return types.Black, nil
	case 1:
		return types.White, nil
	}
	return types.Black, malformed("player number %d", v)
}

// wireWinner maps -1/0/1. What -1 means depends on the record: "no winner
// yet" in a board update, "draw" in game_over.
func wireWinner(v int, minusOne types.Winner) (types.Winner, error) {
	switch v {
	case -1:
		return minusOne, nil
	case 0:
		return types.WinnerBlack, nil
	case 1:
		return types.WinnerWhite, nil
	}
	return types.NoWinner, malformed("winner %d", v)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
