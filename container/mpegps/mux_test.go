/*
NAME
  mux_test.go

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
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestMuxRoundTrip covers scenario S1: a VCD-profile session carrying one
// MP2 audio stream, muxed then demuxed, should reproduce the same payload
// bytes in order with non-decreasing PTS.
func TestMuxRoundTrip(t *testing.T) {
	var out bytes.Buffer
	sess := NewMuxSession(&out, testLogger(), ProfileVCD)

	idx, err := sess.AddStream(CodecMP2Audio,
		BitRate(224000), SampleRate(44100), FrameSize(1152))
	if err != nil {
		t.Fatalf("AddStream: %v", err)
	}
	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.packetSize != VCDPacketSize {
		t.Errorf("packetSize = %d, want %d", sess.packetSize, VCDPacketSize)
	}

	frames := make([][]byte, 10)
	for i := range frames {
		f := make([]byte, 418)
		for j := range f {
			f[j] = byte(i)
		}
		frames[i] = f
		if err := sess.WritePacket(idx, f, 0); err != nil {
			t.Fatalf("WritePacket(%d): %v", i, err)
		}
	}
	if err := sess.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	dmx := NewDemuxer(bytes.NewReader(out.Bytes()), testLogger())
	var got []byte
	var lastPTS int64 = -1
	for {
		pkt, err := dmx.ReadPacket()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("ReadPacket: %v", err)
		}
		if pkt.PTS < lastPTS {
			t.Errorf("PTS decreased: %d after %d", pkt.PTS, lastPTS)
		}
		lastPTS = pkt.PTS
		got = append(got, pkt.Data...)
	}

	var want []byte
	for _, f := range frames {
		want = append(want, f...)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip payload mismatch (-want +got):\n%s", diff)
	}
}

// TestMuxHeaderCadence covers property 4: pack headers recur at
// pack_header_freq-packet intervals; for the VCD profile that interval is
// always 1 (every packet is preceded by a pack header).
func TestMuxHeaderCadence(t *testing.T) {
	var out bytes.Buffer
	sess := NewMuxSession(&out, testLogger(), ProfileVCD)
	idx, err := sess.AddStream(CodecMP2Audio, BitRate(224000), SampleRate(44100), FrameSize(1152))
	if err != nil {
		t.Fatalf("AddStream: %v", err)
	}
	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.packHeaderFreq != 1 {
		t.Errorf("packHeaderFreq = %d, want 1 for VCD", sess.packHeaderFreq)
	}
	if sess.systemHeaderFreq != 40 {
		t.Errorf("systemHeaderFreq = %d, want 40 for VCD", sess.systemHeaderFreq)
	}

	f := make([]byte, 418)
	for i := 0; i < 3; i++ {
		if err := sess.WritePacket(idx, f, 0); err != nil {
			t.Fatalf("WritePacket: %v", err)
		}
	}
	if err := sess.End(); err != nil {
		t.Fatalf("End: %v", err)
	}

	n := bytes.Count(out.Bytes(), []byte{0x00, 0x00, 0x01, 0xBA})
	if n == 0 {
		t.Errorf("expected at least one pack header, found none")
	}
}

// TestMuxPacketSizeExactness covers property 3: every emitted PES packet
// for a VCD session is exactly packet_size bytes, measured from one pack
// header start code to the next.
func TestMuxPacketSizeExactness(t *testing.T) {
	var out bytes.Buffer
	sess := NewMuxSession(&out, testLogger(), ProfileVCD)
	idx, err := sess.AddStream(CodecMP2Audio, BitRate(224000), SampleRate(44100), FrameSize(1152))
	if err != nil {
		t.Fatalf("AddStream: %v", err)
	}
	if err := sess.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	f := make([]byte, 418)
	for i := 0; i < 12; i++ {
		if err := sess.WritePacket(idx, f, 0); err != nil {
			t.Fatalf("WritePacket: %v", err)
		}
	}

	data := out.Bytes()
	var starts []int
	for i := 0; i+3 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 && data[i+3] == 0xBA {
			starts = append(starts, i)
		}
	}
	for i := 1; i < len(starts); i++ {
		if got := starts[i] - starts[i-1]; got != VCDPacketSize {
			t.Errorf("packet %d size = %d, want %d", i, got, VCDPacketSize)
		}
	}
}
