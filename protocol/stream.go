package protocol

import "errors"

// MaxRecordSize bounds the bytes buffered for one unfinished record. The
// largest server record, a board update, is a few hundred bytes.
const MaxRecordSize = 64 << 10

// Stream accumulates received bytes and hands out decoded messages in
// arrival order. Bytes of an unfinished record stay buffered until the
// rest arrives.
type Stream struct {
	codec Codec
	buf   []byte
}

// NewStream returns an empty stream decoding with c.
func NewStream(c Codec) *Stream {
	return &Stream{codec: c}
}

// Feed appends received bytes.
func (s *Stream) Feed(p []byte) {
	s.buf = append(s.buf, p...)
}

// Next returns the next complete message. ok is false when the buffered
// bytes do not yet form a whole record; feed more and call Next again.
// A malformed stream error is sticky: the buffer is left untouched. An
// unfinished record longer than MaxRecordSize is malformed.
func (s *Stream) Next() (msg Message, ok bool, err error) {
	if len(s.buf) == 0 {
		return nil, false, nil
	}
	msg, n, err := s.codec.Decode(s.buf)
	if errors.Is(err, ErrIncomplete) {
		if len(s.buf) > MaxRecordSize {
			return nil, false, malformed("record exceeds %d bytes", MaxRecordSize)
		}
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	// Shift the remainder to the front so the buffer is reused.
	rest := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:rest]
	if msg == nil {
		// Only separator bytes were consumed.
		return s.Next()
	}
	return msg, true, nil
}

// Buffered returns the number of bytes waiting for a complete record.
func (s *Stream) Buffered() int {
	return len(s.buf)
}

// Reset drops any buffered bytes, for use on a fresh connection.
func (s *Stream) Reset() {
	s.buf = s.buf[:0]
}
