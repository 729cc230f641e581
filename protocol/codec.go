package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncomplete means the buffer holds a valid prefix of a record and
	// more bytes are needed.
	ErrIncomplete = errors.New("incomplete record")

	// ErrMalformedStream means the buffer cannot be the start of any record.
	ErrMalformedStream = errors.New("malformed stream")
)

// Profile selects a wire format.
type Profile string

const (
	ProfileJSON   Profile = "json"
	ProfileBinary Profile = "binary"
)

// ParseProfile accepts "json" or "binary", case-insensitively.
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case ProfileJSON:
		return ProfileJSON, nil
	case ProfileBinary:
		return ProfileBinary, nil
	}
	return "", fmt.Errorf("unknown wire profile %q", s)
}

// Codec is a wire format strategy.
type Codec interface {
	// Profile returns the wire format implemented.
	Profile() Profile

	// Decode reads one record from the front of buf and returns the message
	// and the number of bytes it occupied. It returns ErrIncomplete without
	// consuming anything when buf is a valid but unfinished prefix, and an
	// error wrapping ErrMalformedStream when it is not.
	Decode(buf []byte) (Message, int, error)

	// EncodeMove returns the bytes of a move request.
	EncodeMove(m Move) ([]byte, error)

	// Hello returns the handshake record sent right after connecting, or nil
	// when the profile has none.
	Hello(name string) ([]byte, error)

	// EchoesMoves reports whether the server answers every accepted move
	// with a board update. When false the client applies its own move.
	EchoesMoves() bool
}

// NewCodec returns the codec for profile p. name is only used by profiles
// that carry a display name in every record.
func NewCodec(p Profile, name string) (Codec, error) {
	switch p {
	case ProfileJSON:
		return JSONCodec{}, nil
	case ProfileBinary:
		if len(name) > NameLength {
			return nil, fmt.Errorf("display name %q longer than %d bytes", name, NameLength)
		}
		return &BinaryCodec{Name: name}, nil
	}
	return nil, fmt.Errorf("unknown wire profile %q", p)
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedStream, fmt.Sprintf(format, args...))
}
