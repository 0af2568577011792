/*
NAME
  header_test.go

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
	"testing"
)

func TestEncodePackHeaderStartCode(t *testing.T) {
	got := encodePackHeader(0, 565)
	if len(got) != PackHeaderSize {
		t.Fatalf("encodePackHeader length = %d, want %d", len(got), PackHeaderSize)
	}
	if !bytes.Equal(got[0:4], []byte{0x00, 0x00, 0x01, 0xBA}) {
		t.Errorf("pack start code = %#v", got[0:4])
	}
}

func TestEncodeSystemHeaderStartCode(t *testing.T) {
	streams := []sysHeaderStream{
		{id: 0xC0, isVideo: false, bufSize: 32},
	}
	got := encodeSystemHeader(565, 1, 0, streams)
	if !bytes.Equal(got[0:4], []byte{0x00, 0x00, 0x01, 0xBB}) {
		t.Errorf("system header start code = %#v", got[0:4])
	}
	wantLen := int(got[4])<<8 | int(got[5])
	if len(got)-6 != wantLen {
		t.Errorf("declared length %d does not match body length %d", wantLen, len(got)-6)
	}
}

func TestScaleBufferSize(t *testing.T) {
	if got := scaleBufferSize(CodecMP2Audio, AudioBufferBound); got != AudioBufferBound/128 {
		t.Errorf("audio scale = %d, want %d", got, AudioBufferBound/128)
	}
	if got := scaleBufferSize(CodecMPEG1Video, VideoBufferBound); got != VideoBufferBound/1024 {
		t.Errorf("video scale = %d, want %d", got, VideoBufferBound/1024)
	}
}
