/*
NAME
  options.go - functional options for mux session and stream configuration.

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

import "github.com/pkg/errors"

// Errors returned while configuring streams.
var (
	ErrUnsupportedCodec  = errors.New("unsupported codec type")
	ErrInvalidBitRate    = errors.New("invalid bit rate")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrInvalidFrameSize  = errors.New("invalid frame size")
	ErrInvalidFrameRate  = errors.New("invalid frame rate")
	ErrTooManyStreams    = errors.New("too many streams for this program")
)

// Profile selects the pack/system header cadence and packet size rules of
// one of the three PS variants this module supports.
type Profile int

const (
	// ProfileMPEG1System is the plain MPEG-1 System Layer profile.
	ProfileMPEG1System Profile = iota
	// ProfileVCD is the Video-CD profile: 2324-byte packets, a pack header
	// before every PES packet.
	ProfileVCD
	// ProfileVOB is the MPEG-2 VOB profile: 2048-byte packets, a pack
	// header before every PES packet, MPEG-2 PES headers.
	ProfileVOB
)

// streamSpec accumulates the options passed to AddStream before the
// stream's ticker and buffer bound are derived.
type streamSpec struct {
	kind       StreamKind
	bitRate    int
	sampleRate int
	frameSize  int
	frameRate  int // in FrameRateBase units.
}

// StreamOption configures a stream declared via MuxSession.AddStream.
type StreamOption func(*streamSpec) error

// BitRate sets a stream's nominal bit rate in bits/second; it contributes
// to the session's mux_rate and header cadence derivation.
func BitRate(bps int) StreamOption {
	return func(s *streamSpec) error {
		if bps <= 0 {
			return ErrInvalidBitRate
		}
		s.bitRate = bps
		return nil
	}
}

// SampleRate sets an audio stream's sample rate in Hz.
func SampleRate(hz int) StreamOption {
	return func(s *streamSpec) error {
		if hz <= 0 {
			return ErrInvalidSampleRate
		}
		s.sampleRate = hz
		return nil
	}
}

// FrameSize sets an audio stream's samples-per-frame.
func FrameSize(n int) StreamOption {
	return func(s *streamSpec) error {
		if n <= 0 {
			return ErrInvalidFrameSize
		}
		s.frameSize = n
		return nil
	}
}

// FrameRate sets a video stream's frame rate, expressed as a ratio over
// FrameRateBase (e.g. FrameRate(30*FrameRateBase) for a plain 30fps
// stream, or FrameRate(29970) with FrameRateBase=1000 for 29.97fps).
func FrameRate(rateBaseUnits int) StreamOption {
	return func(s *streamSpec) error {
		if rateBaseUnits <= 0 {
			return ErrInvalidFrameRate
		}
		s.frameRate = rateBaseUnits
		return nil
	}
}
