/*
DESCRIPTION
  Psmux multiplexes one or more raw elementary-stream files into a single
  MPEG-1/2 Program Stream file.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psmux is a command-line tool for muxing raw elementary streams
// into an MPEG Program Stream.
package main

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/ausocean/mpegps/container/mpegps"
	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging related constants, matching the rotation policy the rest of the
// codebase uses for long-running capture tools.
const (
	logPath      = "psmux.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = false
)

func main() {
	profileFlag := flag.String("profile", "mpeg1", "output profile: mpeg1, vcd, or vob")
	outFlag := flag.String("out", "out.mpg", "output Program Stream file")
	videoFlag := flag.String("video", "", "raw MPEG video elementary stream file (optional)")
	videoRateFlag := flag.Int("video-framerate", 25*mpegps.FrameRateBase, "video frame rate, in FrameRateBase units")
	videoBitrateFlag := flag.Int("video-bitrate", 1150000, "video bit rate, bits/second")
	audioFlag := flag.String("audio", "", "raw MP2/AC-3 audio elementary stream file (optional)")
	audioAC3Flag := flag.Bool("audio-ac3", false, "treat -audio as AC-3 rather than MP2")
	audioRateFlag := flag.Int("audio-samplerate", 44100, "audio sample rate, Hz")
	audioFrameFlag := flag.Int("audio-framesize", 1152, "audio samples per frame")
	audioBitrateFlag := flag.Int("audio-bitrate", 224000, "audio bit rate, bits/second")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	if *videoFlag == "" && *audioFlag == "" {
		log.Fatal("at least one of -video or -audio must be given")
	}

	profile, ok := parseProfile(*profileFlag)
	if !ok {
		log.Fatal("unknown profile", "profile", *profileFlag)
	}

	out, err := os.Create(*outFlag)
	if err != nil {
		log.Fatal("could not create output file", "error", err)
	}
	defer out.Close()

	sess := mpegps.NewMuxSession(out, log, profile)

	var videoIdx, audioIdx mpegps.StreamIndex
	var haveVideo, haveAudio bool
	var videoFile, audioFile *os.File

	if *videoFlag != "" {
		videoFile, err = os.Open(*videoFlag)
		if err != nil {
			log.Fatal("could not open video file", "error", err)
		}
		defer videoFile.Close()

		videoIdx, err = sess.AddStream(mpegps.CodecMPEG1Video,
			mpegps.BitRate(*videoBitrateFlag), mpegps.FrameRate(*videoRateFlag))
		if err != nil {
			log.Fatal("could not add video stream", "error", err)
		}
		haveVideo = true
	}

	if *audioFlag != "" {
		audioFile, err = os.Open(*audioFlag)
		if err != nil {
			log.Fatal("could not open audio file", "error", err)
		}
		defer audioFile.Close()

		kind := mpegps.CodecMP2Audio
		if *audioAC3Flag {
			kind = mpegps.CodecAC3Audio
		}
		audioIdx, err = sess.AddStream(kind,
			mpegps.BitRate(*audioBitrateFlag), mpegps.SampleRate(*audioRateFlag),
			mpegps.FrameSize(*audioFrameFlag))
		if err != nil {
			log.Fatal("could not add audio stream", "error", err)
		}
		haveAudio = true
	}

	if err := sess.Start(); err != nil {
		log.Fatal("could not start mux session", "error", err)
	}

	// A fixed frame size is used for both streams here for simplicity: a
	// real encoder would chunk video by access unit rather than a flat
	// byte count. This tool is a bench harness, not a transcoder.
	const videoChunk = 4096
	const audioChunk = 1152 * 2

	for haveVideo || haveAudio {
		if haveVideo {
			buf := make([]byte, videoChunk)
			n, err := videoFile.Read(buf)
			if n > 0 {
				if err := sess.WritePacket(videoIdx, buf[:n], 0); err != nil {
					log.Fatal("write video packet failed", "error", err)
				}
			}
			if err == io.EOF {
				haveVideo = false
			} else if err != nil {
				log.Fatal("video read failed", "error", err)
			}
		}
		if haveAudio {
			buf := make([]byte, audioChunk)
			n, err := audioFile.Read(buf)
			if n > 0 {
				if err := sess.WritePacket(audioIdx, buf[:n], 0); err != nil {
					log.Fatal("write audio packet failed", "error", err)
				}
			}
			if err == io.EOF {
				haveAudio = false
			} else if err != nil {
				log.Fatal("audio read failed", "error", err)
			}
		}
	}

	if err := sess.End(); err != nil {
		log.Fatal("could not finalise mux session", "error", err)
	}
	log.Info("mux complete", "out", *outFlag)
}

func parseProfile(s string) (mpegps.Profile, bool) {
	switch strings.ToLower(s) {
	case "mpeg1", "":
		return mpegps.ProfileMPEG1System, true
	case "vcd":
		return mpegps.ProfileVCD, true
	case "vob":
		return mpegps.ProfileVOB, true
	}
	return 0, false
}
