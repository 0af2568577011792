/*
NAME
  scanner.go - start-code synchronisation for the Program Stream demuxer.

DESCRIPTION
  See DESIGN.md

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpegps

import (
	"io"

	"github.com/ausocean/mpegps/codec/codecutil"
	"github.com/pkg/errors"
)

// ErrNoSync is returned by startCodeScanner.next when MaxSyncSize bytes are
// consumed without finding a start code.
var ErrNoSync = errors.New("mpegps: no start code found within sync budget")

// startCodeScanner locates 4-byte MPEG start codes (0x000001xx) in a byte
// stream using a 24-bit shift register, reusing codecutil.ByteScanner's
// buffered ReadByte for the underlying I/O.
type startCodeScanner struct {
	sc  *codecutil.ByteScanner
	reg uint32 // the last four bytes read; the top three are tested for 0x000001.
}

// newStartCodeScanner returns a scanner reading from r, using buf as its
// read buffer.
func newStartCodeScanner(r io.Reader, buf []byte) *startCodeScanner {
	return &startCodeScanner{sc: codecutil.NewByteScanner(r, buf)}
}

// next advances the scanner to the next start code and returns its 4th
// byte (the stream/header ID byte following 0x00 0x00 0x01). It gives up
// with ErrNoSync after consuming MaxSyncSize bytes without finding one.
// The shift register is reset to 0xFF at the start of every call.
func (s *startCodeScanner) next() (byte, error) {
	s.reg = 0xFF
	for n := 0; n < MaxSyncSize; n++ {
		b, err := s.sc.ReadByte()
		if err != nil {
			return 0, err
		}
		s.reg = (s.reg << 8) | uint32(b)
		if s.reg&0xFFFFFF00 == 0x00000100 {
			return b, nil
		}
	}
	return 0, ErrNoSync
}

// readFull reads exactly len(p) bytes via the scanner's ReadByte, matching
// the byte-at-a-time interface codecutil.ByteScanner exposes.
func (s *startCodeScanner) readFull(p []byte) error {
	for i := range p {
		b, err := s.sc.ReadByte()
		if err != nil {
			return err
		}
		p[i] = b
	}
	return nil
}
