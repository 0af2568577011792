/*
NAME
  mux.go - the Program Stream muxer: per-program session state, stream
  declaration, packet accumulation and the pack/system/PES header emission
  cadence.

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

// ErrNotStarted is returned by WritePacket and End when called before
// Start has derived the session's mux rate and header cadence.
var ErrNotStarted = errors.New("mux session not started")

// ErrAlreadyStarted is returned by AddStream once Start has been called;
// streams may only be declared up front, before the first WritePacket.
var ErrAlreadyStarted = errors.New("streams cannot be added after Start")

// maxStreams bounds the number of concurrent elementary streams per
// program.
const maxStreams = 8

// MuxSession holds per-program mux state: packet size, header cadence,
// mux rate, the packet counter, profile flags, and the declared streams.
type MuxSession struct {
	dst io.Writer
	log logging.Logger

	profile Profile
	isMPEG2 bool
	isVCD   bool

	packetSize        int
	packetDataMaxSize int

	packHeaderFreq   int
	systemHeaderFreq int
	muxRate          uint32
	audioBound       int
	videoBound       int

	packetNumber int // session-wide count of emitted PES packets.

	streams []*stream
	started bool

	scratch [256]byte // scratch space for PES stuffing bytes.
}

// NewMuxSession returns a MuxSession that will write a Program Stream of
// the given profile to dst. Streams must be declared with AddStream, then
// the session finalised with Start, before WritePacket may be called.
func NewMuxSession(dst io.Writer, log logging.Logger, profile Profile) *MuxSession {
	s := &MuxSession{
		dst:     dst,
		log:     log,
		profile: profile,
	}
	switch profile {
	case ProfileVCD:
		s.isVCD = true
		s.packetSize = VCDPacketSize
	case ProfileVOB:
		s.isMPEG2 = true
		s.packetSize = DefaultPacketSize
	default:
		s.packetSize = DefaultPacketSize
	}
	s.packetDataMaxSize = s.packetSize - 7
	log.Debug("mux session created", "profile", profile, "packetSize", s.packetSize)
	return s
}

// AddStream declares one elementary stream of the given kind, configured
// by opts, and returns its StreamIndex for later use with WritePacket.
// Streams are numbered within their codec's ID pool in declaration order:
// MPEG audio from pes.MPEGAudioBaseID, AC-3 audio from pes.AC3BaseID
// (carried inside PrivateStream1), video from pes.VideoBaseID.
func (s *MuxSession) AddStream(kind StreamKind, opts ...StreamOption) (StreamIndex, error) {
	if s.started {
		return 0, ErrAlreadyStarted
	}
	if len(s.streams) >= maxStreams {
		return 0, ErrTooManyStreams
	}

	var spec streamSpec
	spec.kind = kind
	for _, opt := range opts {
		if err := opt(&spec); err != nil {
			return 0, errors.Wrap(err, "stream option failed")
		}
	}

	st := &stream{kind: kind, bitRate: spec.bitRate}

	switch kind {
	case CodecMP2Audio:
		st.id = pes.MPEGAudioBaseID + byte(s.countKind(CodecMP2Audio))
		st.maxBufferSize = AudioBufferBound
		st.ticker = NewTicker(int64(PTSFrequency)*int64(spec.frameSize), int64(spec.sampleRate))
	case CodecAC3Audio:
		st.isAC3 = true
		st.ac3SubID = pes.AC3BaseID + byte(s.countKind(CodecAC3Audio))
		st.maxBufferSize = AudioBufferBound
		st.ticker = NewTicker(int64(PTSFrequency)*int64(spec.frameSize), int64(spec.sampleRate))
	case CodecMPEG1Video, CodecMPEG2Video:
		st.id = pes.VideoBaseID + byte(s.countKind(CodecMPEG1Video)+s.countKind(CodecMPEG2Video))
		st.maxBufferSize = VideoBufferBound
		st.ticker = NewTicker(int64(PTSFrequency)*int64(FrameRateBase), int64(spec.frameRate))
	default:
		return 0, ErrUnsupportedCodec
	}

	s.streams = append(s.streams, st)
	idx := StreamIndex(len(s.streams) - 1)
	s.log.Debug("stream added", "index", idx, "kind", kind, "id", st.id, "bitRate", spec.bitRate)
	return idx, nil
}

// countKind returns the number of already-declared streams of kind k, used
// to assign the next ID in that codec's pool.
func (s *MuxSession) countKind(k StreamKind) int {
	n := 0
	for _, st := range s.streams {
		if st.kind == k {
			n++
		}
	}
	return n
}

// Start finalises the session: it derives the mux rate and pack/system
// header cadence from the declared streams' bit rates, per spec §4.2.
// AddStream may not be called after Start.
func (s *MuxSession) Start() error {
	if s.started {
		return nil
	}
	s.started = true

	const baseBitrate = 2000
	bitrate := baseBitrate
	for _, st := range s.streams {
		bitrate += st.bitRate
		if st.kind.IsAudio() {
			s.audioBound++
		} else {
			s.videoBound++
		}
	}

	s.muxRate = uint32((bitrate + 8*50 - 1) / (8 * 50))

	if s.isVCD || s.isMPEG2 {
		s.packHeaderFreq = 1
	} else {
		s.packHeaderFreq = (2 * bitrate) / s.packetSize / 8
		if s.packHeaderFreq == 0 {
			s.packHeaderFreq = 1
		}
	}
	if s.isVCD {
		s.systemHeaderFreq = s.packHeaderFreq * 40
	} else {
		s.systemHeaderFreq = s.packHeaderFreq * 5
	}

	s.log.Debug("mux session started",
		"bitrate", bitrate, "muxRate", s.muxRate,
		"packHeaderFreq", s.packHeaderFreq, "systemHeaderFreq", s.systemHeaderFreq)
	return nil
}

// WritePacket absorbs one frame of elementary-stream data for the stream
// at idx, flushing complete PES packets to the sink as the stream's
// accumulation buffer fills, and advances the stream's PTS by one ticker
// unit. Callers are expected to invoke WritePacket exactly once per audio
// frame or video frame, never per byte: the PTS ticker only advances on
// a per-call basis. If forcePTS is nonzero and the stream has no pending
// PTS, it overrides the ticker-derived PTS for the next packet's origin.
func (s *MuxSession) WritePacket(idx StreamIndex, data []byte, forcePTS int64) error {
	if !s.started {
		return ErrNotStarted
	}
	st := s.streams[idx]

	for {
		if _, ok := st.startPTS.Get(); !ok {
			if forcePTS != 0 {
				st.pts = forcePTS
			}
			st.startPTS = Some(st.pts)
		}

		n := st.append(data, s.packetDataMaxSize)
		data = data[n:]

		if st.bufLen >= s.packetDataMaxSize {
			if err := s.flushPacket(idx, false); err != nil {
				return err
			}
		}

		if len(data) == 0 {
			break
		}
	}

	st.pts += st.ticker.Tick(1)
	return nil
}

// End flushes any residual data in each stream, in index order, then
// writes the standalone ISO 11172 end code immediately after the last
// stream's final packet. If every stream's buffer is already empty, no
// standalone end code is written; End does not synthesise a trailing
// empty packet just to carry it.
func (s *MuxSession) End() error {
	if !s.started {
		return ErrNotStarted
	}

	last := -1
	for i, st := range s.streams {
		if st.bufLen > 0 {
			last = i
		}
	}

	for i, st := range s.streams {
		if st.bufLen == 0 {
			continue
		}
		if err := s.flushPacket(StreamIndex(i), i == last); err != nil {
			return err
		}
	}
	if last >= 0 {
		if _, err := s.dst.Write(pes.EndCode); err != nil {
			return errors.Wrap(err, "could not write end code")
		}
	}
	s.log.Debug("mux session ended", "packetNumber", s.packetNumber)
	return nil
}

// flushPacket assembles and emits one PES packet from stream idx's
// pending payload, prepending pack/system headers as scheduled by the
// session's cadence, computing stuffing, and encoding the stream's
// start PTS. See spec §4.4 for the full algorithm.
func (s *MuxSession) flushPacket(idx StreamIndex, last bool) error {
	st := s.streams[idx]

	// start_pts is captured before the pack-header cadence check so that
	// the pack header's SCR matches this PES's PTS.
	scr, _ := st.startPTS.Get()

	emitPack := s.packetNumber%s.packHeaderFreq == 0
	emitSystem := emitPack && s.packetNumber%s.systemHeaderFreq == 0

	var preface []byte
	if emitPack {
		preface = append(preface, encodePackHeader(scr, s.muxRate)...)
		s.log.Debug("emitting pack header", "scr", scr, "packetNumber", s.packetNumber)
		if emitSystem {
			preface = append(preface, s.buildSystemHeader()...)
			s.log.Debug("emitting system header", "packetNumber", s.packetNumber)
		}
	}
	if len(preface) > 0 {
		if _, err := s.dst.Write(preface); err != nil {
			return errors.Wrap(err, "could not write pack/system header")
		}
	}

	headerLen := pes.HeaderLen(s.isMPEG2)

	payloadSize := s.packetSize - (len(preface) + 6 + headerLen)
	if st.isAC3 {
		payloadSize -= 4
	}

	stuffingSize := payloadSize - st.bufLen
	if stuffingSize < 0 {
		stuffingSize = 0
	}
	dataSize := payloadSize - stuffingSize
	if dataSize > st.bufLen {
		dataSize = st.bufLen
	}

	length := payloadSize + headerLen
	if st.isAC3 {
		length += 4
	}

	pkt := pes.Packet{
		StreamID: st.pesStreamID(),
		Length:   uint16(length),
		IsMPEG2:  s.isMPEG2,
		HasPTS:   true,
		PTS:      scr,
		HasACSub: st.isAC3,
		ACSubID:  st.ac3SubID,
		Stuff:    stuffingBytes(s.scratch[:0], stuffingSize),
		Data:     st.buf[:dataSize],
	}

	b := pkt.Bytes(nil)
	if _, err := s.dst.Write(b); err != nil {
		return errors.Wrap(err, "could not write PES packet")
	}

	s.log.Debug("flushed packet", "index", idx, "id", pkt.StreamID,
		"dataSize", dataSize, "stuffingSize", stuffingSize, "last", last)

	// Preserve the unflushed tail, and clear the stamped PTS so the next
	// write_packet call re-stamps it against fresh data.
	leftover := st.bufLen - dataSize
	if leftover < 0 {
		leftover = 0
	}
	copy(st.buf[:leftover], st.buf[dataSize:st.bufLen])
	st.bufLen = leftover
	st.reset()

	s.packetNumber++
	st.packetNumber++
	return nil
}

// buildSystemHeader constructs the system header for the session's
// currently-declared streams, coalescing every AC-3 stream onto a single
// id-0xBD entry per spec's private-stream coalescing rule.
func (s *MuxSession) buildSystemHeader() []byte {
	var entries []sysHeaderStream
	sawAC3 := false
	for _, st := range s.streams {
		if st.isAC3 {
			if sawAC3 {
				continue
			}
			sawAC3 = true
			entries = append(entries, sysHeaderStream{
				id:      pes.PrivateStream1SID,
				isVideo: false,
				bufSize: scaleBufferSize(st.kind, st.maxBufferSize),
			})
			continue
		}
		entries = append(entries, sysHeaderStream{
			id:      st.id,
			isVideo: st.kind.IsVideo(),
			bufSize: scaleBufferSize(st.kind, st.maxBufferSize),
		})
	}
	return encodeSystemHeader(s.muxRate, byte(s.audioBound), byte(s.videoBound), entries)
}

// stuffingBytes returns n bytes of 0xFF, reusing buf's backing array.
func stuffingBytes(buf []byte, n int) []byte {
	buf = buf[:0]
	for i := 0; i < n; i++ {
		buf = append(buf, 0xFF)
	}
	return buf
}
