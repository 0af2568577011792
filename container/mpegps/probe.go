/*
NAME
  probe.go - format detection for Program Stream input.

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

// Probe examines buf for the first 0x000001?? start code and reports
// ScoreMax-1 if it names a Program Stream construct (pack header, system
// header, or any of the PES/private stream ranges), so that MPEG-TS,
// which claims a stronger match on its own sync byte, wins any tie. It
// reports 0 if the first start code found is not a PS code, or if buf
// contains no start code at all.
func Probe(buf []byte) int {
	for i := 0; i+3 < len(buf); i++ {
		if buf[i] != 0x00 || buf[i+1] != 0x00 || buf[i+2] != 0x01 {
			continue
		}
		if isPSStartCode(buf[i+3]) {
			return ScoreMax - 1
		}
		return 0
	}
	return 0
}

// isPSStartCode reports whether id (the byte following a 0x000001 prefix)
// names a Program Stream construct.
func isPSStartCode(id byte) bool {
	full := 0x100 | uint32(id)
	switch full {
	case PackStartCode, SystemHeaderStartCode, IsoEndCode,
		ProgramStreamMap, PrivateStream1, PaddingStream, PrivateStream2:
		return true
	}
	if full >= AudioIDMin && full <= AudioIDMax {
		return true
	}
	if full >= VideoIDMin && full <= VideoIDMax {
		return true
	}
	return false
}
