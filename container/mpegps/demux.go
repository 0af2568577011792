/*
NAME
  demux.go - Program Stream demultiplexer: PES header parsing and per-stream
  auto-registration.

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

	"github.com/ausocean/mpegps/container/mpegps/pes"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// ErrEncryptedPES is returned by ReadPacket when a MPEG-2 PES header's
// scrambling-control bits are nonzero; this is the only demux-side error
// that is not locally recovered by resyncing.
var ErrEncryptedPES = errors.New("mpegps: encrypted PES packet")

// errResync signals a locally-recovered malformation: the caller resumes
// scanning for the next start code rather than propagating an error.
var errResync = errors.New("mpegps: resync")

// streamDesc is a demux-side stream descriptor, auto-registered the first
// time its effective stream ID is seen.
type streamDesc struct {
	kind  StreamKind
	index StreamIndex
}

// Packet is one demultiplexed elementary-stream payload.
type Packet struct {
	StreamIndex StreamIndex
	Kind        StreamKind
	PTS         int64
	Data        []byte
}

// Demuxer reads a Program Stream from an io.Reader, auto-registering
// elementary streams as their IDs are first encountered. StreamTable
// entries are created lazily, on first sighting of a given stream ID.
type Demuxer struct {
	scan *startCodeScanner
	log  logging.Logger

	streams map[byte]*streamDesc // StreamTable.
	order   []byte               // insertion order, for stable StreamIndex assignment.

	skipBuf [256]byte // scratch for discarding padding/header_len bytes.
}

// NewDemuxer returns a Demuxer reading Program Stream data from src.
func NewDemuxer(src io.Reader, log logging.Logger) *Demuxer {
	return &Demuxer{
		scan:    newStartCodeScanner(src, make([]byte, 4096)),
		log:     log,
		streams: make(map[byte]*streamDesc),
	}
}

// ReadPacket returns the next data-bearing elementary-stream packet,
// implementing the loop of spec §4.8. It returns io.EOF once the
// underlying reader is exhausted, and ErrEncryptedPES if a MPEG-2 PES
// header declares nonzero scrambling-control bits.
func (d *Demuxer) ReadPacket() (*Packet, error) {
	for {
		idByte, err := d.scan.next()
		if err != nil {
			return nil, err
		}

		switch idByte {
		case byte(PackStartCode), byte(SystemHeaderStartCode):
			// Step 2: pack/system header start codes share the same low
			// byte (0xBA/0xBB) as their full 32-bit form; nothing further
			// to parse here, the fields that follow are not mandatory
			// when discarding.
			continue
		case byte(PaddingStream), byte(PrivateStream2):
			// Step 3.
			n, err := d.readLength()
			if err != nil {
				return nil, err
			}
			if err := d.skip(n); err != nil {
				return nil, err
			}
			continue
		}

		if !isPacketStreamID(idByte) {
			// Step 4.
			continue
		}

		pkt, err := d.readPacketBody(idByte)
		if err != nil {
			if errors.Is(err, errResync) {
				continue
			}
			return nil, err
		}
		if pkt == nil {
			continue
		}
		return pkt, nil
	}
}

// isPacketStreamID reports whether id names an audio, video or
// private_stream_1 PES packet, as opposed to a header or skip-stream code.
func isPacketStreamID(id byte) bool {
	full := 0x100 | uint32(id)
	switch {
	case full >= AudioIDMin && full <= AudioIDMax:
		return true
	case full >= VideoIDMin && full <= VideoIDMax:
		return true
	case full == PrivateStream1:
		return true
	}
	return false
}

// readLength reads the 16-bit big-endian length field spec §4.8 steps 3
// and 5 both consume.
func (d *Demuxer) readLength() (int, error) {
	var lb [2]byte
	if err := d.scan.readFull(lb[:]); err != nil {
		return 0, err
	}
	return int(lb[0])<<8 | int(lb[1]), nil
}

// readPacketBody parses one PES packet's header (spec §4.8 steps 5-13)
// given its stream ID byte. It returns (nil, errResync) for a locally
// recovered malformation, or (nil, nil) only never -- every successfully
// parsed header yields a packet, possibly of zero length.
func (d *Demuxer) readPacketBody(idByte byte) (*Packet, error) {
	origCode := 0x100 | uint32(idByte)

	length, err := d.readLength()
	if err != nil {
		return nil, err
	}

	// Step 6: stuffing.
	var c byte
	for {
		b, err := d.scan.readByte1()
		if err != nil {
			return nil, err
		}
		length--
		if b != 0xFF {
			c = b
			break
		}
	}

	// Step 7: buffer-scale/size marker.
	if c&0xC0 == 0x40 {
		if _, err := d.scan.readByte1(); err != nil {
			return nil, err
		}
		c, err = d.scan.readByte1()
		if err != nil {
			return nil, err
		}
		length -= 2
	}

	var pts int64

	switch {
	case c&0xF0 == 0x20:
		// Step 8: MPEG-1 PTS-only.
		var rest [4]byte
		if err := d.scan.readFull(rest[:]); err != nil {
			return nil, err
		}
		var ts [5]byte
		ts[0] = c
		copy(ts[1:], rest[:])
		pts = pes.DecodeTimestamp(ts[:])
		length -= 4

	case c&0xF0 == 0x30:
		// Step 9: MPEG-1 PTS+DTS. DTS is decoded only to advance the
		// stream; this module never surfaces it, matching the mux side's
		// PTS-only contract.
		var rest [4]byte
		if err := d.scan.readFull(rest[:]); err != nil {
			return nil, err
		}
		var ts [5]byte
		ts[0] = c
		copy(ts[1:], rest[:])
		pts = pes.DecodeTimestamp(ts[:])
		var dts [5]byte
		if err := d.scan.readFull(dts[:]); err != nil {
			return nil, err
		}
		length -= 9

	case c&0xC0 == 0x80:
		// Step 10: MPEG-2 PES. The scrambling-control bits live in c (the
		// marker byte already read above), not in the PTS_DTS flags byte
		// that follows.
		if c&0x30 != 0 {
			return nil, ErrEncryptedPES
		}
		flags, err := d.scan.readByte1()
		if err != nil {
			return nil, err
		}
		headerLenByte, err := d.scan.readByte1()
		if err != nil {
			return nil, err
		}
		length -= 2
		if int(headerLenByte) > length {
			return nil, errResync
		}
		hl := int(headerLenByte)

		switch {
		case flags&0xC0 == 0x80:
			var ts [5]byte
			if err := d.scan.readFull(ts[:]); err != nil {
				return nil, err
			}
			pts = pes.DecodeTimestamp(ts[:])
			hl -= 5
			length -= 5
		case flags&0xC0 == 0xC0:
			var ts [5]byte
			if err := d.scan.readFull(ts[:]); err != nil {
				return nil, err
			}
			pts = pes.DecodeTimestamp(ts[:])
			var dts [5]byte
			if err := d.scan.readFull(dts[:]); err != nil {
				return nil, err
			}
			hl -= 10
			length -= 10
		}
		if hl > 0 {
			if err := d.skip(hl); err != nil {
				return nil, err
			}
			length -= hl
		}
	}

	// Step 11: private_stream_1 sub-ID.
	effStreamID := idByte
	if origCode == PrivateStream1 {
		subID, err := d.scan.readByte1()
		if err != nil {
			return nil, err
		}
		length--
		effStreamID = subID
		if subID >= AC3IDMin && subID <= AC3IDMax {
			var sub [3]byte
			if err := d.scan.readFull(sub[:]); err != nil {
				return nil, err
			}
			length -= 3
		}
	}

	// Step 12: look up or register the effective stream.
	desc := d.streams[effStreamID]
	if desc == nil {
		kind, ok := inferKind(origCode, effStreamID)
		if !ok {
			if err := d.skip(length); err != nil {
				return nil, err
			}
			return nil, errResync
		}
		desc = &streamDesc{kind: kind, index: StreamIndex(len(d.order))}
		d.streams[effStreamID] = desc
		d.order = append(d.order, effStreamID)
		d.log.Debug("demux stream registered", "id", effStreamID, "kind", kind, "index", desc.index)
	}

	// Step 13.
	if length < 0 {
		length = 0
	}
	data := make([]byte, length)
	if err := d.scan.readFull(data); err != nil {
		return nil, err
	}

	return &Packet{
		StreamIndex: desc.index,
		Kind:        desc.kind,
		PTS:         pts,
		Data:        data,
	}, nil
}

// skip discards n bytes from the scanner.
func (d *Demuxer) skip(n int) error {
	for n > 0 {
		chunk := n
		if chunk > len(d.skipBuf) {
			chunk = len(d.skipBuf)
		}
		if err := d.scan.readFull(d.skipBuf[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// inferKind assigns a codec to a newly-seen effective stream ID, per
// spec §4.8 step 12.
func inferKind(origCode uint32, effStreamID byte) (StreamKind, bool) {
	full := 0x100 | uint32(effStreamID)
	switch {
	case full >= VideoIDMin && full <= VideoIDMax:
		return CodecMPEG1Video, true
	case full >= AudioIDMin && full <= AudioIDMax:
		return CodecMP2Audio, true
	case origCode == PrivateStream1 && effStreamID >= AC3IDMin && effStreamID <= AC3InferMax:
		return CodecAC3Audio, true
	}
	return 0, false
}

// readByte1 is a one-byte convenience wrapper over startCodeScanner.readFull.
func (s *startCodeScanner) readByte1() (byte, error) {
	var b [1]byte
	if err := s.readFull(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
