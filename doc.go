// Package flacdemux demuxes FLAC containers: it parses the metadata block
// chain and frame headers bit-exactly per RFC 9639 and resolves arbitrary
// sample targets to byte offsets, even for streams that carry no seek table.
//
// # Quick Start
//
//	d, err := flacdemux.Open("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer d.Close()
//
//	info := d.StreamInfo()
//	fmt.Printf("%d Hz, %d ch, %s\n", info.SampleRate, info.Channels, d.Duration())
//
//	res, err := d.Seek(info.TotalSamples / 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("landed at byte %d (sample %d, %s)\n", res.ByteOffset, res.Sample, res.Accuracy)
//
// # Seeking
//
// Seek tries an ordered list of strategies and stops at the first success:
// a SEEKTABLE lookup, a cached frame-index entry, a bisection search over
// the audio data, and finally a rewind to the first frame. The result always
// carries an accuracy tier (exact, estimated, degraded) so callers can
// decide whether to warn or retry; a seek never silently returns a wildly
// wrong position.
//
// The bisection search estimates a byte offset proportionally from the
// target sample, probes it for a CRC-verified frame header, and narrows the
// bracket from the sample number it finds there. Termination is bounded:
// the search ends once it converges within tolerance (250ms by default),
// the bracket collapses, an offset repeats, or the iteration budget runs out.
//
// # Error Handling
//
// flacdemux distinguishes fatal errors from degradation:
//
//   - Only a missing or malformed STREAMINFO block makes a stream unusable.
//   - SEEKTABLE and CUESHEET inconsistencies become Warnings; the feature
//     degrades and parsing continues.
//   - A frame failing its CRC is rejected individually; the stream stays
//     usable and scanning continues past it.
//
// Check Demuxer.Warnings for non-fatal issues encountered during parsing:
//
//	for _, w := range d.Warnings() {
//		log.Printf("warning: %s", w)
//	}
//
// # Scope
//
// The demuxer stops at frame boundaries: frame payloads are returned as raw
// bytes, never decoded into samples. Tags (Vorbis comments, ID3), artwork
// and audio output belong to other layers.
package flacdemux
