package frame

import (
	"errors"
	"testing"

	"github.com/simonhull/flacdemux/internal/crc"
	"github.com/simonhull/flacdemux/internal/types"
)

// testStreamInfo matches the fixture headers built below: CD audio with a
// fixed 4096-sample block size.
func testStreamInfo() *types.StreamInfo {
	return &types.StreamInfo{
		BlockSizeMin:  4096,
		BlockSizeMax:  4096,
		SampleRate:    44100,
		Channels:      2,
		BitsPerSample: 16,
		TotalSamples:  1_000_000,
	}
}

// encodeNumber encodes a frame/sample number in the UTF-8-style
// variable-length form used by frame headers.
func encodeNumber(v uint64) []byte {
	switch {
	case v < 0x80:
		return []byte{byte(v)}
	case v < 0x800:
		return []byte{0xC0 | byte(v>>6), 0x80 | byte(v&0x3F)}
	case v < 0x10000:
		return []byte{0xE0 | byte(v>>12), 0x80 | byte(v>>6&0x3F), 0x80 | byte(v&0x3F)}
	default:
		return []byte{0xF0 | byte(v>>18), 0x80 | byte(v>>12&0x3F), 0x80 | byte(v>>6&0x3F), 0x80 | byte(v&0x3F)}
	}
}

// buildHeader assembles a frame header from raw field bytes plus the coded
// number, appending the correct CRC-8.
func buildHeader(sync2, codes1, codes2 byte, number uint64, extra ...byte) []byte {
	h := []byte{0xFF, sync2, codes1, codes2}
	h = append(h, encodeNumber(number)...)
	h = append(h, extra...)
	return append(h, crc.Checksum8(h))
}

func TestParseHeader_FixedBlockSize(t *testing.T) {
	// Block size code 12 (4096), sample rate code 9 (44100), stereo
	// independent, 16-bit, frame number 130.
	buf := buildHeader(0xF8, 0xC9, 0x18, 130)

	h, err := ParseHeader(buf, testStreamInfo())
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}

	if h.BlockSize != 4096 {
		t.Errorf("BlockSize = %d, want 4096", h.BlockSize)
	}
	if h.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", h.SampleRate)
	}
	if h.Channels != 2 || h.ChannelAssignment != 1 {
		t.Errorf("Channels = %d (assignment %d), want 2 (assignment 1)", h.Channels, h.ChannelAssignment)
	}
	if h.BitsPerSample != 16 {
		t.Errorf("BitsPerSample = %d, want 16", h.BitsPerSample)
	}
	if h.VariableBlockSize {
		t.Error("VariableBlockSize = true, want false")
	}
	if h.Number != 130 {
		t.Errorf("Number = %d, want 130", h.Number)
	}
	if want := uint64(130 * 4096); h.FirstSample != want {
		t.Errorf("FirstSample = %d, want %d", h.FirstSample, want)
	}
	if h.HeaderSize != len(buf) {
		t.Errorf("HeaderSize = %d, want %d", h.HeaderSize, len(buf))
	}
}

func TestParseHeader_VariableBlockSize(t *testing.T) {
	// Blocking strategy bit set: the coded number is a sample number.
	buf := buildHeader(0xF9, 0xC9, 0x18, 499712)

	h, err := ParseHeader(buf, testStreamInfo())
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}

	if !h.VariableBlockSize {
		t.Error("VariableBlockSize = false, want true")
	}
	if h.FirstSample != 499712 {
		t.Errorf("FirstSample = %d, want 499712", h.FirstSample)
	}
}

func TestParseHeader_FromStreamInfoCodes(t *testing.T) {
	// Sample rate code 0 and bit depth code 0 defer to STREAMINFO.
	buf := buildHeader(0xF8, 0xC0, 0x10, 7)

	si := testStreamInfo()
	si.SampleRate = 96000
	si.BitsPerSample = 24

	h, err := ParseHeader(buf, si)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}

	if h.SampleRate != 96000 {
		t.Errorf("SampleRate = %d, want 96000 (from STREAMINFO)", h.SampleRate)
	}
	if h.BitsPerSample != 24 {
		t.Errorf("BitsPerSample = %d, want 24 (from STREAMINFO)", h.BitsPerSample)
	}
}

func TestParseHeader_ExtendedBlockSize(t *testing.T) {
	// Block size code 7: 16-bit (size - 1) follows the coded number.
	buf := buildHeader(0xF8, 0x79, 0x18, 3, 0x11, 0xFF) // 0x11FF + 1 = 4608

	h, err := ParseHeader(buf, testStreamInfo())
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if h.BlockSize != 4608 {
		t.Errorf("BlockSize = %d, want 4608", h.BlockSize)
	}

	// Block size code 6: 8-bit (size - 1).
	buf = buildHeader(0xF8, 0x69, 0x18, 3, 0x3F) // 0x3F + 1 = 64
	h, err = ParseHeader(buf, testStreamInfo())
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if h.BlockSize != 64 {
		t.Errorf("BlockSize = %d, want 64", h.BlockSize)
	}
}

func TestParseHeader_ExtendedSampleRate(t *testing.T) {
	// Sample rate code 14: 16-bit rate in tens of Hz.
	buf := buildHeader(0xF8, 0xCE, 0x18, 3, 0x11, 0x3A) // 4410 * 10 = 44100

	h, err := ParseHeader(buf, testStreamInfo())
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if h.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", h.SampleRate)
	}
}

func TestParseHeader_CRCMismatch(t *testing.T) {
	buf := buildHeader(0xF8, 0xC9, 0x18, 130)

	for i := range buf[:len(buf)-1] {
		corrupted := make([]byte, len(buf))
		copy(corrupted, buf)
		corrupted[i] ^= 0x01

		_, err := ParseHeader(corrupted, testStreamInfo())
		if err == nil {
			t.Errorf("flipping byte %d still parsed", i)
		}
	}

	// Flipping only the stored CRC byte must specifically report a
	// checksum mismatch.
	corrupted := make([]byte, len(buf))
	copy(corrupted, buf)
	corrupted[len(buf)-1] ^= 0x01
	if _, err := ParseHeader(corrupted, testStreamInfo()); !errors.Is(err, ErrCRCMismatch) {
		t.Errorf("expected ErrCRCMismatch, got %v", err)
	}
}

func TestParseHeader_ReservedCodes(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
	}{
		{"no sync", buildHeader(0x00, 0xC9, 0x18, 1)},
		{"reserved bit set", buildHeader(0xFA, 0xC9, 0x18, 1)},
		{"block size code 0", buildHeader(0xF8, 0x09, 0x18, 1)},
		{"sample rate code 15", buildHeader(0xF8, 0xCF, 0x18, 1)},
		{"channel code 11", buildHeader(0xF8, 0xC9, 0xB8, 1)},
		{"bit depth code 3", buildHeader(0xF8, 0xC9, 0x16, 1)},
		{"trailing reserved bit", buildHeader(0xF8, 0xC9, 0x19, 1)},
	}

	for _, tc := range cases {
		if _, err := ParseHeader(tc.buf, testStreamInfo()); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", tc.name, err)
		}
	}
}

func TestParseHeader_Truncated(t *testing.T) {
	buf := buildHeader(0xF8, 0xC9, 0x18, 130)

	for n := 0; n < len(buf); n++ {
		if _, err := ParseHeader(buf[:n], testStreamInfo()); err == nil {
			t.Errorf("parsing %d of %d bytes should fail", n, len(buf))
		}
	}
}

func TestDecodeCodedNumber(t *testing.T) {
	cases := []struct {
		buf  []byte
		want uint64
		n    int
		ok   bool
	}{
		{[]byte{0x00}, 0, 1, true},
		{[]byte{0x7F}, 0x7F, 1, true},
		{[]byte{0xC2, 0x82}, 0x82, 2, true},
		{[]byte{0xE1, 0x80, 0x81}, 0x1001, 3, true},
		// 7-byte form carries the full 36-bit range.
		{[]byte{0xFE, 0xBF, 0xBF, 0xBF, 0xBF, 0xBF, 0xBF}, 0xFFFFFFFFF, 7, true},
		{[]byte{}, 0, 0, false},
		{[]byte{0xC2}, 0, 0, false},             // truncated
		{[]byte{0xC2, 0x41}, 0, 0, false},       // bad continuation byte
		{[]byte{0x80, 0x80}, 0, 0, false},       // lone continuation byte
		{[]byte{0xFF, 0x80, 0x80}, 0, 0, false}, // 8 leading ones
	}

	for _, tc := range cases {
		v, n, ok := decodeCodedNumber(tc.buf)
		if ok != tc.ok || (ok && (v != tc.want || n != tc.n)) {
			t.Errorf("decodeCodedNumber(% x) = (%d, %d, %v), want (%d, %d, %v)",
				tc.buf, v, n, ok, tc.want, tc.n, tc.ok)
		}
	}
}

func BenchmarkParseHeader(b *testing.B) {
	buf := buildHeader(0xF8, 0xC9, 0x18, 130)
	si := testStreamInfo()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ParseHeader(buf, si); err != nil {
			b.Fatal(err)
		}
	}
}

func TestScan_FindsHeaderPastGarbage(t *testing.T) {
	header := buildHeader(0xF8, 0xC9, 0x18, 42)
	buf := append([]byte{0x00, 0x13, 0x37, 0xFF, 0x00}, header...)

	h, off, ok := Scan(buf, testStreamInfo())
	if !ok {
		t.Fatal("Scan found nothing")
	}
	if off != 5 {
		t.Errorf("offset = %d, want 5", off)
	}
	if h.Number != 42 {
		t.Errorf("Number = %d, want 42", h.Number)
	}
}

func TestScan_SkipsFalseSync(t *testing.T) {
	// A sync-looking pair with an invalid body, then a real header.
	header := buildHeader(0xF8, 0xC9, 0x18, 42)
	buf := append([]byte{0xFF, 0xF8, 0x0F, 0xFF, 0xFF, 0xFF}, header...)

	h, off, ok := Scan(buf, testStreamInfo())
	if !ok {
		t.Fatal("Scan found nothing")
	}
	if off != 6 {
		t.Errorf("offset = %d, want 6", off)
	}
	if h.Number != 42 {
		t.Errorf("Number = %d, want 42", h.Number)
	}
}

func TestScan_NothingInGarbage(t *testing.T) {
	buf := make([]byte, 512)
	for i := range buf {
		buf[i] = byte(i % 251)
	}

	if _, _, ok := Scan(buf, testStreamInfo()); ok {
		t.Error("Scan reported a header in sync-free garbage")
	}
}

func TestVerifyBody(t *testing.T) {
	body := buildHeader(0xF8, 0xC9, 0x18, 3)
	body = append(body, 0x01, 0x02, 0x03, 0x04)
	data := AppendCRC16(body)

	if !VerifyBody(data) {
		t.Fatal("VerifyBody rejected a valid frame")
	}

	corrupted := make([]byte, len(data))
	copy(corrupted, data)
	corrupted[len(corrupted)/2] ^= 0x40
	if VerifyBody(corrupted) {
		t.Error("VerifyBody accepted a corrupted frame")
	}

	if VerifyBody(data[:4]) {
		t.Error("VerifyBody accepted an impossibly short frame")
	}
}
