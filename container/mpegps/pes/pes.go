/*
NAME
  pes.go - provides encoding and decoding of Program Stream PES packets.

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

// Package pes provides encoding of Program Stream PES packets and the
// 5-byte MPEG timestamp codec. The pack and system headers that precede
// PES packets are serialised by the parent mpegps package.
package pes

import "github.com/Comcast/gots/v2"

// Stream ID pools, assigned in declaration order during mux session init.
const (
	MPEGAudioBaseID = 0xC0 // mpa_id pool.
	AC3BaseID       = 0x80 // ac3_id pool, carried inside PrivateStream1SID.
	VideoBaseID     = 0xE0

	PrivateStream1SID = 0xBD
)

/*
Packet encapsulates the fields of one PES packet as emitted onto a Program
Stream. Only PTS-only timestamping is supported (this module never emits a
DTS), matching the mux side's single-timestamp contract. Note the stuffing
bytes precede the optional PTS header rather than following it: this
mirrors the field order the reference mux implementation actually writes,
not the nominal PES diagram order. The ISO 11172 end code is not part of
this packet: it is a standalone 4-byte code trailing the very last PES
packet of a mux session, written by the caller after Bytes returns.

									PES Packet Formatting
============================================================================
| octet no | description                                                   |
============================================================================
| 0-2      | 0x00 0x00 0x01 (start code prefix)                            |
----------------------------------------------------------------------------
| 3        | Stream ID (0xE0.. video, 0xC0.. audio, 0xBD private stream 1) |
----------------------------------------------------------------------------
| 4-5      | PES packet length (bytes following this field)               |
----------------------------------------------------------------------------
| optional | stuffing bytes (0xFF)                                        |
----------------------------------------------------------------------------
| 6-8      | optional fields, MPEG-2 only: marker/flags/header length     |
----------------------------------------------------------------------------
| optional | 5-byte PTS, present iff HasPTS                               |
----------------------------------------------------------------------------
| optional | AC-3 sub-stream header: sub ID, 0x01, 0x00, 0x02              |
----------------------------------------------------------------------------
| -        | data                                                         |
----------------------------------------------------------------------------
*/
type Packet struct {
	StreamID byte   // 0xE0.. video, 0xC0.. audio MPEG, 0xBD private_stream_1.
	Length   uint16 // PES packet length in bytes after this field.
	IsMPEG2  bool   // Selects the 3-byte MPEG-2 optional fields header.
	HasPTS   bool   // Whether a PTS field follows the stuffing.
	PTS      int64  // 33-bit presentation timestamp.
	HasACSub bool   // Whether an AC-3 sub-stream header follows the PTS.
	ACSubID  byte   // AC-3 sub-stream ID (private_stream_1 payload).
	Stuff    []byte // Stuffing bytes, written immediately after the length field.
	Data     []byte // Packet payload.
}

// EndCode is the standalone ISO 11172 end code, written immediately after
// the last PES packet of the last stream flushed by a mux session's End.
var EndCode = []byte{0x00, 0x00, 0x01, 0xB9}

// Bytes serialises p into buf, reusing buf's backing array when it has
// sufficient capacity, and returns the result.
func (p *Packet) Bytes(buf []byte) []byte {
	const headSize = 6
	need := headSize + len(p.Stuff) + 3 + 5 + 4 + len(p.Data)
	if cap(buf) < need {
		buf = make([]byte, 0, need)
	}
	buf = buf[:0]
	buf = append(buf, 0x00, 0x00, 0x01, p.StreamID,
		byte(p.Length>>8), byte(p.Length))

	buf = append(buf, p.Stuff...)

	if p.IsMPEG2 {
		var flags byte
		if p.HasPTS {
			flags = 0x80
		}
		buf = append(buf, 0x80, flags, 0x05)
	}

	if p.HasPTS {
		ptsIdx := len(buf)
		buf = buf[:ptsIdx+5]
		gots.InsertPTS(buf[ptsIdx:], uint64(p.PTS))
	}

	if p.HasACSub {
		buf = append(buf, p.ACSubID, 0x01, 0x00, 0x02)
	}

	buf = append(buf, p.Data...)
	return buf
}

// HeaderLen returns the number of header bytes Bytes writes between the
// stuffing and the payload (excluding any AC-3 sub-header): 8 for MPEG-2
// (3 flag bytes + 5 PTS bytes), 5 for MPEG-1 (bare 5 PTS bytes, no flags
// byte). The MPEG-2 header length byte itself declares only the 5 PTS bytes.
func HeaderLen(isMPEG2 bool) int {
	if isMPEG2 {
		return 8
	}
	return 5
}

// EncodeTimestamp writes the 5-byte, 33-bit MPEG timestamp encoding of ts
// (a PTS, DTS, or SCR) into buf, which must have length >= 5.
func EncodeTimestamp(buf []byte, ts int64) {
	gots.InsertPTS(buf, uint64(ts))
}

// DecodeTimestamp reads a 5-byte MPEG timestamp field starting at d[0],
// per the marker-bit layout of ISO/IEC 11172-1 §2.4.4.1. Marker bits are
// not validated, matching the demux side's recovery-oriented posture.
func DecodeTimestamp(d []byte) int64 {
	_ = d[4] // bounds check hint
	return int64(d[0]>>1&0x07)<<30 |
		int64(d[1])<<22 |
		int64(d[2]>>1&0x7f)<<15 |
		int64(d[3])<<7 |
		int64(d[4]>>1&0x7f)
}
