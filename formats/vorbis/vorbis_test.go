// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/utils"
)

// oggPage builds a page with one segment table entry per 255 bytes. The
// CRC is left zero; the prober does not check it.
func oggPage(granule int64, body []byte) []byte {
	p := []byte("OggS\x00\x00")
	p = binary.LittleEndian.AppendUint64(p, uint64(granule))
	p = append(p, make([]byte, 12)...) // serial, sequence, crc

	var table []byte
	for n := len(body); ; n -= 255 {
		if n < 255 {
			table = append(table, byte(n))
			break
		}
		table = append(table, 255)
	}
	p = append(p, byte(len(table)))
	p = append(p, table...)

	return append(p, body...)
}

func identification(channels int, rate uint32) []byte {
	b := []byte("\x01vorbis\x00\x00\x00\x00")
	b = append(b, byte(channels))
	b = binary.LittleEndian.AppendUint32(b, rate)

	return append(b, make([]byte, 14)...)
}

func commentPacket(tags ...string) []byte {
	b := []byte("\x03vorbis")
	b = binary.LittleEndian.AppendUint32(b, 4)
	b = append(b, "test"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(tags)))
	for _, t := range tags {
		b = binary.LittleEndian.AppendUint32(b, uint32(len(t)))
		b = append(b, t...)
	}

	return append(b, 1)
}

func stream(total int64, tags ...string) []byte {
	data := oggPage(0, identification(2, 44100))
	data = append(data, oggPage(0, commentPacket(tags...))...)
	data = append(data, oggPage(total/2, make([]byte, 300))...)

	return append(data, oggPage(total, make([]byte, 40))...)
}

func TestProbe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tags  []string
		loop  *audio.LoopRegion
		title string
	}{
		{"plain", nil, nil, ""},
		{"loop length", []string{"LOOPSTART=1000", "LOOPLENGTH=5000", "title=Field"}, &audio.LoopRegion{Start: 1000, End: 6000}, "Field"},
		{"loop end", []string{"loopstart=10", "LOOPEND=20"}, &audio.LoopRegion{Start: 10, End: 20}, ""},
		{"start only", []string{"LOOPSTART=500"}, &audio.LoopRegion{Start: 500, End: 88200}, ""},
		{"bad loop", []string{"LOOPSTART=90000"}, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := bytesrc.NewMemory("a.ogg", stream(88200, tt.tags...))
			bp, err := Prober{}.Probe(src, audio.ProbeOptions{})
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}

			if bp.NumSamples != 88200 || bp.Channels != 2 || bp.SampleRate != 44100 || bp.External != audio.ExtVorbis {
				t.Errorf("got %d samples, %d ch, %d Hz, %s", bp.NumSamples, bp.Channels, bp.SampleRate, bp.External)
			}
			if (bp.Loop == nil) != (tt.loop == nil) || (bp.Loop != nil && *bp.Loop != *tt.loop) {
				t.Errorf("loop = %+v, want %+v", bp.Loop, tt.loop)
			}
			if bp.StreamName != tt.title {
				t.Errorf("name = %q, want %q", bp.StreamName, tt.title)
			}
		})
	}
}

func TestProbe_Rejects(t *testing.T) {
	t.Parallel()

	opus := oggPage(0, []byte("OpusHead\x01\x02"))
	if _, err := (Prober{}).Probe(bytesrc.NewMemory("a.ogg", opus), audio.ProbeOptions{}); !errors.Is(err, audio.ErrReject) {
		t.Errorf("opus: error = %v, want ErrReject", err)
	}

	noEnd := oggPage(0, identification(1, 22050))
	if _, err := (Prober{}).Probe(bytesrc.NewMemory("a.ogg", noEnd), audio.ProbeOptions{}); !errors.Is(err, audio.ErrCorrupt) {
		t.Errorf("no granule: error = %v, want ErrCorrupt", err)
	}
}

// mockReader plays a ramp of values in [-1, 1).
type mockReader struct {
	channels int
	total    int64
	pos      int64
	failAt   int64
}

func (m *mockReader) Channels() int { return m.channels }

func (m *mockReader) Read(p []float32) (int, error) {
	if m.failAt > 0 && m.pos >= m.failAt {
		return 0, io.ErrUnexpectedEOF
	}
	if m.pos >= m.total {
		return 0, io.EOF
	}

	// decode in packets of 100 samples like a real stream
	n := min(int64(len(p)/m.channels), m.total-m.pos, 100)
	for i := range n {
		for c := range m.channels {
			p[int(i)*m.channels+c] = float32((m.pos+i)%100) / 100
		}
	}
	m.pos += n

	return int(n) * m.channels, nil
}

func (m *mockReader) SetPosition(pos int64) error {
	if pos > m.total {
		return errors.New("past end")
	}
	m.pos = pos
	return nil
}

func newBackend(m *mockReader) *backend {
	return &backend{dec: m, view: bytesrc.NewMemory("a.ogg", nil), channels: m.channels}
}

func TestBackend_DecodeAndSeek(t *testing.T) {
	t.Parallel()

	b := newBackend(&mockReader{channels: 2, total: 350})
	out := make([]int16, 2*400)

	n, err := b.Decode(out, 400)
	if err != nil || n != 350 {
		t.Fatalf("Decode = %d, %v; want 350, nil", n, err)
	}
	if want := utils.Float32ToInt16(0.01); out[2*100] != 0 || out[2*101+1] != want {
		t.Errorf("samples 100/101 = %d %d, want 0 %d", out[2*100], out[2*101+1], want)
	}

	if err := b.Seek(340); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if n, _ := b.Decode(out, 400); n != 10 {
		t.Errorf("after Seek(340) decoded %d, want 10", n)
	}

	if err := b.Seek(1000); !errors.Is(err, ErrDecoder) {
		t.Errorf("Seek past end error = %v", err)
	}
	if err := b.Reset(); err != nil {
		t.Errorf("Reset: %v", err)
	}
}

func TestBackend_Failure(t *testing.T) {
	t.Parallel()

	b := newBackend(&mockReader{channels: 1, total: 1000, failAt: 200})
	out := make([]int16, 500)

	n, err := b.Decode(out, 500)
	if !errors.Is(err, ErrDecoder) || n != 200 {
		t.Errorf("Decode = %d, %v; want 200 and ErrDecoder", n, err)
	}
}
