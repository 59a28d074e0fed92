package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// MaxFrameSize bounds a single frame body.
const MaxFrameSize = 64 << 20

// ErrEmptyStream is returned by ReadFrame when the stream ends before any
// header byte was read.
var ErrEmptyStream = errors.New(messages.CodecEmptyStream)

// WriteFrame writes body prefixed with its 4-byte big-endian length.
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) > MaxFrameSize {
		return fmt.Errorf(messages.CodecFrameTooLargeFmt, len(body), MaxFrameSize)
	}
	frame := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[4:], body)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf(messages.CodecWriteFrameFmt, err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame body.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyStream
		}
		return nil, fmt.Errorf(messages.CodecTruncatedFrameFmt, err)
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MaxFrameSize {
		return nil, fmt.Errorf(messages.CodecFrameTooLargeFmt, size, MaxFrameSize)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf(messages.CodecTruncatedFrameFmt, err)
	}
	return body, nil
}
