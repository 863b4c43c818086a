// SPDX-License-Identifier: EPL-2.0

package layout

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/internal/audiotest"
)

func open(t *testing.T, bp *audio.Blueprint, opts ...Option) *Session {
	t.Helper()

	s, err := New(bp, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func render(s *Session, n int) ([]int16, audio.RenderResult) {
	out := make([]int16, n*s.bp.Channels)
	res := s.Render(out, n)

	return out, res
}

// interleave splits one blueprint source into per-channel starts.
func interleave(bp *audio.Blueprint, block int64) {
	src := bp.ChannelCfgs[0].Source
	bp.Layout = audio.Layout{Kind: audio.LayoutInterleave, BlockSize: block}
	bp.ChannelCfgs = nil
	for c := range bp.Channels {
		bp.ChannelCfgs = append(bp.ChannelCfgs, audio.ChannelCfg{Source: src, StartOffset: int64(c) * block})
	}
}

// randomPSX is frames of PS-ADPCM with valid headers and noise data.
func randomPSX(seed uint64, frames int) []byte {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	data := make([]byte, 16*frames)

	for f := range frames {
		fr := data[16*f : 16*f+16]
		fr[0] = byte(rng.IntN(5))<<4 | byte(rng.IntN(13))
		for i := 2; i < 16; i++ {
			fr[i] = byte(rng.IntN(256))
		}
	}

	return data
}

func psxStereo(t *testing.T) *audio.Blueprint {
	t.Helper()

	// 4 blocks of 0x80 per channel, 224 samples each
	bp := audiotest.Blueprint(randomPSX(7, 64), audio.PsxAdpcm, 2, 4*224)
	interleave(bp, 0x80)

	return bp
}

func TestRender_PSXInterleaveSilence(t *testing.T) {
	t.Parallel()

	// two 0x400 blocks per channel of 1792 samples
	bp := audiotest.Blueprint(audiotest.PSXSilence(4*0x40), audio.PsxAdpcm, 2, 2*1792)
	interleave(bp, 0x400)

	s := open(t, bp)

	out, res := render(s, 2*1792)
	if res.Samples != 2*1792 || res.Status != audio.StatusOK {
		t.Fatalf("Render() = %+v, want all samples", res)
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d = %d, want 0", i, v)
		}
	}

	if _, res := render(s, 10); res.Status != audio.StatusEnd || res.Samples != 0 {
		t.Errorf("Render() past end = %+v, want StatusEnd", res)
	}
}

func TestRender_InterleaveLastBlock(t *testing.T) {
	t.Parallel()

	data := audiotest.PCM16Interleave(audiotest.Ramp, 2, 5, 4)
	bp := audiotest.Blueprint(data, audio.Pcm16Le, 2, 5)
	interleave(bp, 4)
	bp.Layout.LastBlockSize = 2

	s := open(t, bp)
	out, _ := render(s, 5)

	if want := audiotest.Interleaved(audiotest.Ramp, 2, 5); !slices.Equal(out, want) {
		t.Errorf("Render() = %v, want %v", out, want)
	}
}

func TestRender_InterleaveFirstBlock(t *testing.T) {
	t.Parallel()

	// [skip 2][ch0 3 samples][skip 2][ch1 3 samples] then blocks of 2 samples
	var data []byte
	put := func(v int16) { data = binary.LittleEndian.AppendUint16(data, uint16(v)) }

	for c := range 2 {
		put(0x7777)
		for i := range 3 {
			put(audiotest.Ramp(i, c))
		}
	}
	for c := range 2 {
		for i := 3; i < 5; i++ {
			put(audiotest.Ramp(i, c))
		}
	}

	src := bytesrc.NewMemory("t", data)
	bp := audiotest.Blueprint(data, audio.Pcm16Le, 2, 5)
	bp.Layout = audio.Layout{Kind: audio.LayoutInterleave, BlockSize: 4, FirstBlockSize: 6, FirstSkip: 2}
	bp.ChannelCfgs = []audio.ChannelCfg{{Source: src, StartOffset: 2}, {Source: src, StartOffset: 10}}

	s := open(t, bp)
	out, _ := render(s, 5)

	if want := audiotest.Interleaved(audiotest.Ramp, 2, 5); !slices.Equal(out, want) {
		t.Errorf("Render() = %v, want %v", out, want)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	t.Parallel()

	s := open(t, psxStereo(t))

	first, _ := render(s, 896)
	s.Seek(0)
	again, _ := render(s, 896)

	if !slices.Equal(first, again) {
		t.Error("Seek(0) does not replay the same samples")
	}
}

func TestSeek_Equivalence(t *testing.T) {
	t.Parallel()

	bp := psxStereo(t)
	full, _ := render(open(t, bp), 896)

	for _, at := range []int64{1, 27, 28, 223, 224, 500, 895} {
		s := open(t, bp)
		// move forward first so the seek must go backwards
		render(s, 896)
		s.Seek(at)

		m := int(min(100, 896-at))
		got, _ := render(s, m)
		if want := full[at*2 : (at+int64(m))*2]; !slices.Equal(got, want) {
			t.Errorf("Seek(%d) output differs from linear decode", at)
		}
	}
}

func TestRender_LoopIdempotence(t *testing.T) {
	t.Parallel()

	bp := psxStereo(t)
	bp.Loop = &audio.LoopRegion{Start: 100, End: 700}

	linear, _ := render(open(t, bp, WithLooping(false)), 896)

	s := open(t, bp)
	const k = 300
	looped, res := render(s, 700+k)
	if res.Samples != 700+k {
		t.Fatalf("Render() = %+v, want %d samples", res, 700+k)
	}

	if !slices.Equal(looped[700*2:], linear[100*2:(100+k)*2]) {
		t.Error("samples after the loop end differ from the loop start")
	}

	// a second pass through the loop restores the same snapshot
	more, _ := render(s, 600)
	if !slices.Equal(more[(600-k)*2:], linear[100*2:(100+k)*2]) {
		t.Error("second loop pass differs")
	}
}

func TestSeek_WrapsIntoLoop(t *testing.T) {
	t.Parallel()

	bp := psxStereo(t)
	bp.Loop = &audio.LoopRegion{Start: 100, End: 700}
	linear, _ := render(open(t, bp, WithLooping(false)), 896)

	s := open(t, bp)
	s.Seek(700 + 650)
	if s.Position() != 150 {
		t.Fatalf("Position() = %d, want 150", s.Position())
	}

	got, _ := render(s, 10)
	if !slices.Equal(got, linear[150*2:160*2]) {
		t.Error("wrapped seek output differs")
	}
}

func TestRender_BlockedVAS(t *testing.T) {
	t.Parallel()

	var data []byte
	for b := range 2 {
		hdr := make([]byte, 0x10)
		binary.LittleEndian.PutUint32(hdr, 0x10+2*8)
		binary.LittleEndian.PutUint32(hdr[4:], 8)
		data = append(data, hdr...)

		for c := range 2 {
			for i := range 4 {
				data = binary.LittleEndian.AppendUint16(data, uint16(audiotest.Ramp(4*b+i, c)))
			}
		}
	}
	data = append(data, make([]byte, 8)...)

	bp := audiotest.Blueprint(data, audio.Pcm16Le, 2, 8)
	bp.Layout = audio.Layout{Kind: audio.LayoutBlocked, Blocked: audio.BlockedVAS}

	s := open(t, bp)
	out, res := render(s, 8)

	if want := audiotest.Interleaved(audiotest.Ramp, 2, 8); !slices.Equal(out, want) {
		t.Errorf("Render() = %v, want %v", out, want)
	}
	if res.Samples != 8 {
		t.Errorf("Samples = %d, want 8", res.Samples)
	}
}

func h4mFrame(kind uint16, payload []byte) []byte {
	b := binary.BigEndian.AppendUint16(nil, kind)
	b = append(b, 0, 0)
	b = binary.BigEndian.AppendUint32(b, uint32(len(payload)))

	return append(b, payload...)
}

// h4mAudio holds zero IMA codes, so every channel repeats its history.
func h4mAudio(samples int, hist ...int16) []byte {
	b := binary.BigEndian.AppendUint32(nil, uint32(samples))
	for _, h := range hist {
		b = binary.BigEndian.AppendUint16(b, uint16(h))
		b = append(b, 0, 0)
	}

	return h4mFrame(h4mAudioFrame, append(b, make([]byte, len(hist)*samples/2)...))
}

func TestRender_BlockedH4MHistory(t *testing.T) {
	t.Parallel()

	b := h4mAudio(8, 1234, -55)

	bp := audiotest.Blueprint(b, audio.Ima, 2, 8)
	bp.Layout = audio.Layout{Kind: audio.LayoutBlocked, Blocked: audio.BlockedH4M}

	out, _ := render(open(t, bp), 8)
	for i := range 8 {
		if out[2*i] != 1234 || out[2*i+1] != -55 {
			t.Fatalf("frame %d = %d/%d, want 1234/-55", i, out[2*i], out[2*i+1])
		}
	}
}

func TestRender_BlockedH4MSkipsVideo(t *testing.T) {
	t.Parallel()

	// a video frame full of nonzero codes sits between the two audio frames
	video := h4mFrame(1, bytes.Repeat([]byte{0x77}, 36))

	var b []byte
	b = append(b, h4mAudio(8, 300)...)
	b = append(b, video...)
	b = append(b, h4mAudio(6, -700)...)

	bp := audiotest.Blueprint(b, audio.Ima, 1, 14)
	bp.Layout = audio.Layout{Kind: audio.LayoutBlocked, Blocked: audio.BlockedH4M}

	out, res := render(open(t, bp), 14)
	for i := range 14 {
		want := int16(300)
		if i >= 8 {
			want = -700
		}
		if out[i] != want {
			t.Fatalf("sample %d = %d, want %d", i, out[i], want)
		}
	}
	if res.Samples != 14 {
		t.Errorf("Samples = %d, want 14", res.Samples)
	}
}

func TestNew_UnsupportedCodecs(t *testing.T) {
	t.Parallel()

	for _, id := range []audio.CodecID{audio.Hevag, audio.Imuse, audio.AcmInterplay} {
		bp := audiotest.Blueprint(make([]byte, 64), id, 1, 10)
		bp.Layout.Kind = audio.LayoutNone

		_, err := New(bp)

		var oe *audio.OpenError
		if !errors.As(err, &oe) || !errors.Is(err, ErrUnsupported) {
			t.Errorf("New(%s) error = %v, want OpenError wrapping ErrUnsupported", id, err)
		}
	}
}

func externalBlueprint(channels int, samples int64) *audio.Blueprint {
	bp := audiotest.Blueprint(make([]byte, 16), audio.External, channels, samples)
	bp.External = audio.ExtMpeg
	bp.Layout.Kind = audio.LayoutNone

	return bp
}

func TestNew_MissingExternal(t *testing.T) {
	t.Parallel()

	_, err := New(externalBlueprint(2, 10))
	if !errors.Is(err, audio.ErrNoExternalCodec) {
		t.Errorf("New() error = %v, want ErrNoExternalCodec", err)
	}
}

func TestRender_DecoderFailure(t *testing.T) {
	t.Parallel()

	be := &audiotest.Backend{Wave: audiotest.Ramp, Channels: 2, Total: 100, FailAt: 10}
	s := open(t, externalBlueprint(2, 100), WithExternals(audiotest.Externals(audio.ExtMpeg, be)))

	out := make([]int16, 40)
	for i := range out {
		out[i] = 99
	}

	res := s.Render(out, 20)
	if res.Samples != 10 || res.Status != audio.StatusDecoderFailed {
		t.Fatalf("Render() = %+v, want 10 samples and StatusDecoderFailed", res)
	}
	for i, v := range out[20:] {
		if v != 0 {
			t.Fatalf("sample %d after failure = %d, want 0", 20+i, v)
		}
	}
}

func TestRender_ExternalDelayAndSeek(t *testing.T) {
	t.Parallel()

	be := &audiotest.Backend{Wave: audiotest.Ramp, Channels: 1, Total: 50, Delay: 5}
	s := open(t, externalBlueprint(1, 50), WithExternals(audiotest.Externals(audio.ExtMpeg, be)))

	out, _ := render(s, 10)
	if want := audiotest.Interleaved(audiotest.Ramp, 1, 10); !slices.Equal(out, want) {
		t.Fatalf("Render() = %v, want %v", out, want)
	}

	s.Seek(3)
	if be.Seeks != 1 {
		t.Fatalf("backend Seeks = %d, want 1", be.Seeks)
	}

	out, _ = render(s, 4)
	if want := audiotest.Interleaved(audiotest.Ramp, 1, 7)[3:]; !slices.Equal(out, want) {
		t.Errorf("Render() after Seek(3) = %v, want %v", out, want)
	}
}

func TestRender_ExternalLoop(t *testing.T) {
	t.Parallel()

	be := &audiotest.Backend{Wave: audiotest.Ramp, Channels: 1, Total: 40}
	bp := externalBlueprint(1, 40)
	bp.Loop = &audio.LoopRegion{Start: 10, End: 30}

	s := open(t, bp, WithExternals(audiotest.Externals(audio.ExtMpeg, be)))
	out, _ := render(s, 45)

	ramp := audiotest.Interleaved(audiotest.Ramp, 1, 40)
	if !slices.Equal(out[30:45], ramp[10:25]) {
		t.Errorf("looped samples = %v, want %v", out[30:45], ramp[10:25])
	}
}

func TestInfo_LoopingOff(t *testing.T) {
	t.Parallel()

	bp := psxStereo(t)
	bp.Loop = &audio.LoopRegion{Start: 0, End: 896}

	if info := open(t, bp).Info(); info.Loop == nil {
		t.Error("Info().Loop = nil with looping on")
	}
	if info := open(t, bp, WithLooping(false)).Info(); info.Loop != nil {
		t.Error("Info().Loop set with looping off")
	}
}
