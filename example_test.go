// SPDX-License-Identifier: EPL-2.0

package vgmpbx_test

import (
	"errors"
	"fmt"

	"github.com/ik5/vgmpbx"
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/internal/audiotest"
)

// loopingWAV is a stereo WAV of 8 frames that loops over frames 2..5.
func loopingWAV() []byte {
	pcm := audiotest.Interleaved(audiotest.Ramp, 2, 8)

	return audiotest.RIFF("WAVE",
		audiotest.Chunk("fmt ", audiotest.Fmt(1, 2, 22050, 4, 16)),
		audiotest.Chunk("data", audiotest.PCM16(pcm)),
		audiotest.Chunk("smpl", audiotest.Smpl(2, 5)),
	)
}

func ExampleProbe() {
	src := bytesrc.NewMemory("jingle.wav", loopingWAV())

	bp, err := vgmpbx.Probe(src, audio.ProbeOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer bp.Close()

	info := bp.Info()
	fmt.Printf("%s: %d ch, %d Hz, %d samples, loop %d..%d\n",
		info.Format, info.Channels, info.SampleRate, info.NumSamples, info.Loop.Start, info.Loop.End)
	// Output: RIFF WAVE: 2 ch, 22050 Hz, 8 samples, loop 2..6
}

func ExampleOpen() {
	bp, err := vgmpbx.Probe(bytesrc.NewMemory("jingle.wav", loopingWAV()), audio.ProbeOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer bp.Close()

	s, err := vgmpbx.Open(bp)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer s.Close()

	// the loop keeps the session going past the 8 frames of the file
	buf := make([]int16, 2*20)
	res := s.Render(buf, 20)
	fmt.Println(res.Samples, res.Status)
	// Output: 20 ok
}

func ExampleDecodeAll() {
	src := bytesrc.NewMemory("jingle.wav", loopingWAV())

	pcm, info, err := vgmpbx.DecodeAll(src, audio.ProbeOptions{}, 0)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(len(pcm)/info.Channels, "frames")
	// Output: 8 frames
}

func ExampleProbe_unknown() {
	_, err := vgmpbx.Probe(bytesrc.NewMemory("notes.txt", []byte("not audio at all")), audio.ProbeOptions{})
	fmt.Println(errors.Is(err, audio.ErrUnknownFormat))
	// Output: true
}
