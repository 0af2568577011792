/*
NAME
  stream.go - per-elementary-stream accumulation buffer.

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

import "github.com/ausocean/mpegps/container/mpegps/pes"

// StreamIndex identifies a stream within a MuxSession, in declaration
// order. Streams are owned exclusively by the session and indexed by this
// type rather than holding a back-reference to it (see flushPacket, which
// takes the session as an explicit argument).
type StreamIndex int

// stream is one elementary stream's mux-side state: a fixed-capacity
// accumulation buffer, its PES stream ID, PTS origin and ticker, and its
// own packet counter.
type stream struct {
	kind StreamKind
	id   byte // PES stream ID, from the mpa_id/ac3_id/video pools.

	// isAC3 marks a stream carried inside PrivateStream1 with a one-byte
	// sub-stream ID, rather than having its own PES stream ID range.
	isAC3    bool
	ac3SubID byte

	buf    [MaxPayloadSize]byte
	bufLen int

	maxBufferSize int // STD buffer bound declared to the system header.

	pts      int64
	startPTS Opt[int64]

	ticker *Ticker

	bitRate      int
	packetNumber int
}

// reset clears s's pending PTS without touching its buffer contents; used
// after a flush drains the stream's accumulated payload.
func (s *stream) reset() {
	s.startPTS.Clear()
}

// append copies as much of data as fits into the stream's remaining
// buffer capacity (bounded by max, the accumulation threshold), and
// returns the number of bytes consumed.
func (s *stream) append(data []byte, max int) int {
	room := max - s.bufLen
	if room <= 0 {
		return 0
	}
	n := len(data)
	if n > room {
		n = room
	}
	copy(s.buf[s.bufLen:], data[:n])
	s.bufLen += n
	return n
}

// startCode returns the 4-byte PES start code this stream's packets are
// emitted under: 0x1BD for AC-3 (private_stream_1), otherwise 0x100|id.
func (s *stream) startCode() uint32 {
	if s.isAC3 {
		return PrivateStream1
	}
	return 0x100 | uint32(s.id)
}

// pesStreamID returns the byte written into the PES header's stream ID
// field: the stream's own id, or 0xBD (private_stream_1) for AC-3, whose
// sub-ID is carried inside the payload rather than the PES header.
func (s *stream) pesStreamID() byte {
	if s.isAC3 {
		return pes.PrivateStream1SID
	}
	return s.id
}
