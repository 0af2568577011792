/*
NAME
  pes_test.go

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pes

import (
	"reflect"
	"testing"
)

func TestPacketBytesMPEG1(t *testing.T) {
	pkt := Packet{
		StreamID: 0xE0,
		Length:   10,
		HasPTS:   true,
		PTS:      100000,
		Stuff:    []byte{0xFF, 0xFF},
		Data:     []byte{0xEA, 0x4B, 0x12},
	}
	got := pkt.Bytes(nil)
	want := []byte{
		0x00, 0x00, 0x01, 0xE0, // start code + stream ID
		0x00, 0x0A, // length
		0xFF, 0xFF, // stuffing, written before the PTS field
		0x21, 0x00, 0x07, 0x0D, 0x41, // 5-byte PTS encoding of 100000
		0xEA, 0x4B, 0x12, // data
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected packet encoding:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestPacketBytesMPEG2(t *testing.T) {
	pkt := Packet{
		StreamID: 0xE0,
		Length:   13,
		IsMPEG2:  true,
		HasPTS:   true,
		PTS:      100000,
		Data:     []byte{0x01},
	}
	got := pkt.Bytes(nil)
	want := []byte{
		0x00, 0x00, 0x01, 0xE0,
		0x00, 0x0D,
		0x80, 0x80, 0x05, // marker/flags/header_len
		0x21, 0x00, 0x07, 0x0D, 0x41,
		0x01,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected packet encoding:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestPacketBytesAC3(t *testing.T) {
	pkt := Packet{
		StreamID: PrivateStream1SID,
		HasPTS:   true,
		PTS:      0,
		HasACSub: true,
		ACSubID:  0x80,
		Data:     []byte{0x0B, 0x77},
	}
	got := pkt.Bytes(nil)
	want := []byte{
		0x00, 0x00, 0x01, 0xBD,
		0x00, 0x00, // length left at zero for this helper test
		0x21, 0x00, 0x01, 0x00, 0x01, // PTS=0 encoding
		0x80, 0x01, 0x00, 0x02, // AC-3 sub-header
		0x0B, 0x77,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected packet encoding:\ngot:  %#v\nwant: %#v", got, want)
	}
}

func TestEndCodeStandalone(t *testing.T) {
	want := []byte{0x00, 0x00, 0x01, 0xB9}
	if !reflect.DeepEqual(EndCode, want) {
		t.Errorf("EndCode = %#v, want %#v", EndCode, want)
	}
}

func TestHeaderLen(t *testing.T) {
	if got := HeaderLen(false); got != 5 {
		t.Errorf("HeaderLen(false) = %d, want 5", got)
	}
	if got := HeaderLen(true); got != 8 {
		t.Errorf("HeaderLen(true) = %d, want 8", got)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	cases := []int64{0, 1, 100000, 1 << 32, (1 << 33) - 1}
	for _, ts := range cases {
		var buf [5]byte
		EncodeTimestamp(buf[:], ts)
		got := DecodeTimestamp(buf[:])
		if got != ts {
			t.Errorf("round trip of %d: got %d", ts, got)
		}
	}
}
