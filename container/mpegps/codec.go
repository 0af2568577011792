/*
NAME
  codec.go - elementary stream codec identification.

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

import "github.com/ausocean/mpegps/codec/codecutil"

// StreamKind identifies the elementary stream codec being packetized or
// recovered. Its string form is one of codecutil's registered codec names.
type StreamKind int

const (
	// CodecMPEG1Video identifies an ISO/IEC 11172-2 video elementary stream.
	CodecMPEG1Video StreamKind = iota
	// CodecMPEG2Video identifies an ISO/IEC 13818-2 video elementary stream.
	CodecMPEG2Video
	// CodecMP2Audio identifies an MPEG-1/2 audio (MP2) elementary stream.
	CodecMP2Audio
	// CodecAC3Audio identifies a Dolby AC-3 audio elementary stream, carried
	// inside private_stream_1.
	CodecAC3Audio
)

// IsVideo reports whether k is a video codec.
func (k StreamKind) IsVideo() bool {
	return k == CodecMPEG1Video || k == CodecMPEG2Video
}

// IsAudio reports whether k is an audio codec.
func (k StreamKind) IsAudio() bool {
	return k == CodecMP2Audio || k == CodecAC3Audio
}

// String implements fmt.Stringer, returning one of codecutil's registered
// codec names.
func (k StreamKind) String() string {
	switch k {
	case CodecMPEG1Video:
		return codecutil.MPEG1Video
	case CodecMPEG2Video:
		return codecutil.MPEG2Video
	case CodecMP2Audio:
		return codecutil.MP2
	case CodecAC3Audio:
		return codecutil.AC3
	default:
		return "unknown"
	}
}
