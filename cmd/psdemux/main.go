/*
DESCRIPTION
  Psdemux reads an MPEG Program Stream file and reports the elementary
  streams and packets found within it.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psdemux is a command-line tool for inspecting an MPEG Program
// Stream file.
package main

import (
	"errors"
	"flag"
	"io"
	"os"

	"github.com/ausocean/mpegps/container/mpegps"
	"github.com/ausocean/utils/logging"
)

func main() {
	inFlag := flag.String("in", "", "input Program Stream file")
	verboseFlag := flag.Bool("v", false, "log every packet, not just a summary")
	flag.Parse()

	log := logging.New(logging.Info, os.Stderr, false)

	if *inFlag == "" {
		log.Fatal("-in is required")
	}

	f, err := os.Open(*inFlag)
	if err != nil {
		log.Fatal("could not open input file", "error", err)
	}
	defer f.Close()

	dmx := mpegps.NewDemuxer(f, log)

	counts := make(map[mpegps.StreamIndex]int)
	var total int
	for {
		pkt, err := dmx.ReadPacket()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			log.Fatal("demux failed", "error", err)
		}
		counts[pkt.StreamIndex]++
		total++
		if *verboseFlag {
			log.Info("packet", "stream", pkt.StreamIndex, "kind", pkt.Kind,
				"pts", pkt.PTS, "bytes", len(pkt.Data))
		}
	}

	log.Info("demux complete", "packets", total, "streams", len(counts))
	for idx, n := range counts {
		log.Info("stream summary", "index", idx, "packets", n)
	}
}
