/*
NAME
  mpegps.go - shared wire constants for the MPEG-1/2 Program Stream container.

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

// Package mpegps provides encoding and decoding of the MPEG-1/2 Program
// Stream (PS) container, including the MPEG-1 System, VCD and MPEG-2 VOB
// profiles.
package mpegps

// Start code constants as per ISO/IEC 11172-1 and 13818-1.
const (
	PackStartCode         = 0x000001BA
	SystemHeaderStartCode = 0x000001BB
	IsoEndCode            = 0x000001B9

	ProgramStreamMap = 0x1BC
	PrivateStream1   = 0x1BD
	PaddingStream    = 0x1BE
	PrivateStream2   = 0x1BF
)

// PES stream ID ranges.
const (
	VideoIDMin = 0x1E0
	VideoIDMax = 0x1EF
	AudioIDMin = 0x1C0
	AudioIDMax = 0x1DF

	// AC3IDMin/AC3IDMax bound the private_stream_1 sub-IDs that carry a
	// 4-byte sub-stream header (sub ID + 3 header bytes) to skip, per
	// mpegps_read_packet's "audio: skip header" check.
	AC3IDMin = 0x80
	AC3IDMax = 0xBF

	// AC3InferMax is the narrower bound mpegps_read_packet uses when
	// inferring a newly-seen sub-ID's codec as AC-3 specifically: sub-IDs
	// 0xA0-0xBF carry a sub-stream header but are not auto-inferred as
	// AC-3, matching the "else skip" fallthrough for that sub-range.
	AC3InferMax = 0x9F
)

// Buffer and scan bounds.
const (
	// MaxPayloadSize is the fixed capacity of a StreamBuffer's accumulation
	// buffer; this is an MPEG STD buffer accounting choice, not a growable
	// default.
	MaxPayloadSize = 4096

	// MaxSyncSize bounds how many bytes the start-code scanner will consume
	// looking for the next start code before giving up.
	MaxSyncSize = 100000
)

// Decoder buffer bounds declared in the system header, before scaling.
const (
	AudioBufferBound = 4 * 1024
	VideoBufferBound = 46 * 1024
)

// FrameRateBase is the integer denominator used to express fractional frame
// rates without floating point.
const FrameRateBase = 1000

// PTSFrequency is the 90 kHz tick rate of the PTS/DTS/SCR clock.
const PTSFrequency = 90000

// MaxPTS is the largest representable 33-bit PTS value.
const MaxPTS = (1 << 33) - 1

// PacketSize profiles, in bytes per emitted PES packet.
const (
	VCDPacketSize     = 2324
	DefaultPacketSize = 2048
)

// ScoreMax mirrors the probe scoring convention of format-registration
// collaborators: Probe returns ScoreMax-1 for a recognised PS start code so
// that MPEG-TS, which returns ScoreMax on a stronger match, wins any tie.
const ScoreMax = 100
