/*
NAME
  header.go - bit-exact serialization of the pack header and system header.

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
	"encoding/binary"

	"github.com/ausocean/mpegps/container/mpegps/pes"
)

// PackHeaderSize is the length in bytes of the pack header this module
// emits. The bit layout in the governing specification sums to 96 bits
// (12 bytes): a 32-bit start code, a 40-bit SCR field in the same
// marker-bit layout as a PTS, and a 24-bit mux-rate field. See DESIGN.md
// for the resolution of the nominal "14 byte" figure against this count.
const PackHeaderSize = 12

// encodePackHeader serialises a pack header using scr (the system clock
// reference, in 90kHz units) and the session's mux rate (in 50 bytes/s
// units, a 22-bit field).
func encodePackHeader(scr int64, muxRate uint32) []byte {
	buf := make([]byte, PackHeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], PackStartCode)

	// Bytes 4-8: '0010' || SCR[32:30] || marker || SCR[29:15] || marker ||
	// SCR[14:0] || marker -- identical in layout to a standalone PTS field.
	pes.EncodeTimestamp(buf[4:9], scr)

	// Bytes 9-11: marker || mux_rate(22) || marker.
	v := uint32(1)<<23 | (muxRate&0x3FFFFF)<<1 | 1
	buf[9] = byte(v >> 16)
	buf[10] = byte(v >> 8)
	buf[11] = byte(v)

	return buf
}

// sysHeaderStream describes one elementary stream's entry in the system
// header.
type sysHeaderStream struct {
	id      byte
	isVideo bool
	// bufSize is the STD buffer bound, pre-scaled by 128 (audio) or 1024
	// (video) into a 13-bit field.
	bufSize uint16
}

// encodeSystemHeader serialises a system header naming muxRate, the
// audio/video stream-count bounds and the participating streams. Per
// spec.md §4.3/§4.4, AC-3 streams carried inside private_stream_1 all
// coalesce onto a single system-header entry for id 0xBD; callers are
// expected to have already deduplicated streams by id before calling.
func encodeSystemHeader(muxRate uint32, audioBound, videoBound byte, streams []sysHeaderStream) []byte {
	buf := make([]byte, 0, 12+3*len(streams))
	buf = append(buf, 0, 0, 0, 0, 0, 0) // start code + length placeholder.
	binary.BigEndian.PutUint32(buf[0:4], SystemHeaderStartCode)

	// 40 bits: marker || rate_bound(22) || marker || audio_bound(6) ||
	// variable_bitrate(1) || non_constrained(1) || audio_locked(1) ||
	// video_locked(1) || marker || video_bound(5).
	var v uint64
	v |= 1 << 39
	v |= uint64(muxRate&0x3FFFFF) << 17
	v |= 1 << 16
	v |= uint64(audioBound&0x3F) << 10
	v |= 1 << 9 // variable bitrate flag.
	v |= 1 << 8 // non-constrained flag.
	// audio_locked and video_locked are always 0.
	v |= 1 << 5 // marker.
	v |= uint64(videoBound & 0x1F)

	var field [5]byte
	for i := range field {
		field[4-i] = byte(v >> (8 * i))
	}
	buf = append(buf, field[:]...)
	buf = append(buf, 0xFF) // reserved byte.

	for _, s := range streams {
		buf = append(buf, s.id)
		var typeBit uint16
		if s.isVideo {
			typeBit = 1
		}
		entry := uint16(0b11)<<14 | typeBit<<13 | (s.bufSize & 0x1FFF)
		buf = append(buf, byte(entry>>8), byte(entry))
	}

	length := len(buf) - 6
	binary.BigEndian.PutUint16(buf[4:6], uint16(length))
	return buf
}

// scaleBufferSize scales max (a byte count) by the fixed divisor for kind,
// returning the 13-bit value written into the system header: audio
// buffers scale by 128, video buffers by 1024.
func scaleBufferSize(kind StreamKind, max int) uint16 {
	if kind.IsVideo() {
		return uint16(max / 1024)
	}
	return uint16(max / 128)
}
