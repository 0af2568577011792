/*
NAME
  demux_test.go

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

	"github.com/ausocean/utils/logging"
)

func testLogger() logging.Logger {
	return logging.New(logging.Debug, io.Discard, true)
}

// TestDemuxMPEG2PES covers scenario S5: a single MPEG-2 PES packet with a
// PTS+DTS header and a one-byte payload.
func TestDemuxMPEG2PES(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x01, 0xE0}) // video start code.
	buf.Write([]byte{0x00, 15})                // length: all bytes that follow.
	buf.WriteByte(0xFF)                        // stuffing.
	buf.Write([]byte{0x80, 0xC0, 0x0A})        // marker/flags(PTS+DTS)/header_len.
	buf.Write([]byte{0x21, 0x00, 0x01, 0x00, 0x01}) // PTS=0.
	buf.Write([]byte{0x11, 0x00, 0x01, 0x00, 0x01}) // DTS=0 (marker nibble 0001).
	buf.WriteByte(0x42)                        // 1-byte payload.

	d := NewDemuxer(&buf, testLogger())
	pkt, err := d.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket() error: %v", err)
	}
	if len(pkt.Data) != 1 || pkt.Data[0] != 0x42 {
		t.Errorf("payload = %#v, want [0x42]", pkt.Data)
	}
	if pkt.Kind != CodecMPEG1Video {
		t.Errorf("kind = %v, want CodecMPEG1Video", pkt.Kind)
	}
}

// TestDemuxSkipsPadding covers spec step 3: padding_stream packets are
// skipped using their declared length, never surfaced as a Packet.
func TestDemuxSkipsPadding(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x01, 0xBE}) // padding_stream.
	buf.Write([]byte{0x00, 0x03})             // length.
	buf.Write([]byte{0xAA, 0xBB, 0xCC})       // padding bytes.

	buf.Write([]byte{0x00, 0x00, 0x01, 0xC0}) // audio start code.
	buf.Write([]byte{0x00, 6})                // length.
	buf.Write([]byte{0x21, 0x00, 0x01, 0x00, 0x01}) // PTS=0.
	buf.WriteByte(0x07)                       // 1-byte payload.

	d := NewDemuxer(&buf, testLogger())
	pkt, err := d.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket() error: %v", err)
	}
	if len(pkt.Data) != 1 || pkt.Data[0] != 0x07 {
		t.Errorf("payload = %#v, want [0x07]", pkt.Data)
	}
}

// TestDemuxAC3SubStream covers scenario S3's demux-side counterpart: an
// AC-3 payload carried inside private_stream_1 is registered under its
// sub-ID, not 0xBD.
func TestDemuxAC3SubStream(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x01, 0xBD}) // private_stream_1.
	buf.Write([]byte{0x00, 12})               // length.
	buf.Write([]byte{0x21, 0x00, 0x01, 0x00, 0x01}) // PTS=0.
	buf.Write([]byte{0x80, 0x01, 0x00, 0x02})       // sub_id=0x80, AC-3 sub-header.
	buf.Write([]byte{0x0B, 0x77, 0x01})             // 3-byte payload.

	d := NewDemuxer(&buf, testLogger())
	pkt, err := d.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket() error: %v", err)
	}
	if pkt.Kind != CodecAC3Audio {
		t.Errorf("kind = %v, want CodecAC3Audio", pkt.Kind)
	}
	if !bytes.Equal(pkt.Data, []byte{0x0B, 0x77, 0x01}) {
		t.Errorf("payload = %#v", pkt.Data)
	}
}

func TestDemuxEOF(t *testing.T) {
	d := NewDemuxer(bytes.NewReader(nil), testLogger())
	_, err := d.ReadPacket()
	if err != io.EOF {
		t.Errorf("ReadPacket() on empty input: err = %v, want io.EOF", err)
	}
}
