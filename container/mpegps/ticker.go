/*
NAME
  ticker.go - drift-free PTS advancement.

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

// Ticker converts a count of source ticks (audio samples, video frames)
// into 90 kHz PTS units without floating point and without long-term
// drift: the cumulative sum of Tick's return values always equals
// floor(num*sum(n)/den).
//
// For an audio stream, construct with num = PTSFrequency*frameSize, den =
// sampleRate. For a video stream, num = PTSFrequency*FrameRateBase, den =
// the codec frame rate expressed in FrameRateBase units.
type Ticker struct {
	num int64
	den int64
	err int64
}

// NewTicker returns a Ticker that adds num/den PTS units per source tick.
func NewTicker(num, den int64) *Ticker {
	return &Ticker{num: num, den: den}
}

// Tick returns the PTS increment for n source ticks, carrying the
// fractional remainder forward so that long sequences of calls never
// accumulate more than one tick's worth of rounding error.
func (t *Ticker) Tick(n int64) int64 {
	acc := n*t.num + t.err
	inc := acc / t.den
	t.err = acc % t.den
	return inc
}
