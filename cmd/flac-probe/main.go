// Command flac-probe inspects a FLAC file's structure: STREAMINFO fields,
// seek table coverage, cue sheet tracks, and optionally the result of
// seeking to a given position.
//
// Usage:
//
//	flac-probe <file.flac> [seconds]
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/simonhull/flacdemux"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: flac-probe <file.flac> [seconds]")
		os.Exit(1)
	}

	d, err := flacdemux.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	info := d.StreamInfo()
	fmt.Printf("sample rate:     %d Hz\n", info.SampleRate)
	fmt.Printf("channels:        %d\n", info.Channels)
	fmt.Printf("bits per sample: %d\n", info.BitsPerSample)
	fmt.Printf("total samples:   %d\n", info.TotalSamples)
	fmt.Printf("duration:        %s\n", d.Duration())
	fmt.Printf("block size:      %d-%d samples\n", info.BlockSizeMin, info.BlockSizeMax)
	fmt.Printf("audio data at:   byte %d\n", info.AudioDataOffset)
	fmt.Printf("approx bitrate:  %d bit/s\n", d.ApproxBitrate())

	if st := d.SeekTable(); st != nil {
		fmt.Printf("seek table:      %d usable points\n", len(st.Points))
	} else {
		fmt.Println("seek table:      none (seeks use bisection)")
	}

	if cs := d.CueSheet(); cs != nil {
		fmt.Printf("cue sheet:       %d tracks\n", len(cs.Tracks))
		for _, t := range cs.Tracks {
			fmt.Printf("  track %3d at sample %d (%d indices)\n", t.Number, t.Offset, len(t.Indices))
		}
	}

	for _, w := range d.Warnings() {
		fmt.Printf("warning: %s\n", w)
	}

	if len(os.Args) > 2 {
		seconds, err := strconv.ParseFloat(os.Args[2], 64)
		if err != nil {
			fmt.Printf("Error: bad seek position %q\n", os.Args[2])
			os.Exit(1)
		}

		target := uint64(seconds * float64(info.SampleRate))
		res, err := d.Seek(target)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("seek to sample %d: byte %d, sample %d, accuracy %s\n",
			target, res.ByteOffset, res.Sample, res.Accuracy)
	}
}
