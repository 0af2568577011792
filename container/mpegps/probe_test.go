/*
NAME
  probe_test.go

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

import "testing"

func TestProbe(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want int
	}{
		{"pack start code", []byte{0xAA, 0xBB, 0x00, 0x00, 0x01, 0xBA}, ScoreMax - 1},
		{"non-PS start code", []byte{0x00, 0x00, 0x01, 0xAA}, 0},
		{"no start code", []byte{0x11, 0x22, 0x33}, 0},
		{"video PES start code", []byte{0x00, 0x00, 0x01, 0xE0, 0x00, 0x00}, ScoreMax - 1},
		{"audio PES start code", []byte{0x00, 0x00, 0x01, 0xC0}, ScoreMax - 1},
	}
	for _, c := range cases {
		if got := Probe(c.buf); got != c.want {
			t.Errorf("%s: Probe(%#v) = %d, want %d", c.name, c.buf, got, c.want)
		}
	}
}
