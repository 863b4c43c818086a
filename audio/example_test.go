// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"fmt"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/internal/audiotest"
)

// rawProber accepts any .pcm file as 16-bit mono PCM at 8 kHz.
type rawProber struct{}

func (rawProber) Name() string         { return "raw PCM" }
func (rawProber) Extensions() []string { return []string{"pcm"} }

func (rawProber) Probe(src bytesrc.Source, _ audio.ProbeOptions) (*audio.Blueprint, error) {
	bp := audiotest.Blueprint(make([]byte, src.Size()), audio.Pcm16Le, 1, src.Size()/2)
	bp.SampleRate = 8000
	bp.Format = ""

	return bp, nil
}

func ExampleRegistry() {
	reg := audio.NewRegistry(nil)
	reg.Register(audio.ClassStructure, rawProber{})

	bp, err := reg.Probe(bytesrc.NewMemory("voice.pcm", make([]byte, 200)), audio.ProbeOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(bp.Format, bp.NumSamples)

	// structure probers do not run for other extensions
	_, err = reg.Probe(bytesrc.NewMemory("voice.bin", make([]byte, 200)), audio.ProbeOptions{})
	fmt.Println(errors.Is(err, audio.ErrUnknownFormat))
	// Output:
	// raw PCM 100
	// true
}

func ExampleSelectSubsong() {
	for _, want := range []int{0, 3, 5} {
		index, err := audio.SelectSubsong("bank", want, 4)
		fmt.Println(index, errors.Is(err, audio.ErrSubsongOutOfRange))
	}
	// Output:
	// 1 false
	// 3 false
	// 0 true
}

func ExampleBlueprint_Info() {
	bp := audiotest.Blueprint(make([]byte, 64), audio.Pcm16Le, 2, 16)
	bp.Loop = &audio.LoopRegion{Start: 4, End: 12}
	bp.Subsong = &audio.Subsong{Index: 2, Count: 3}

	info := bp.Info()
	fmt.Println(info.Channels, info.NumSamples, info.Loop.Start, info.Loop.End, info.Subsong, info.SubsongCount)
	// Output: 2 16 4 12 2 3
}

func ExampleProbeError() {
	err := audio.Corrupt("Sony VAG", "sample rate %d", 0)

	fmt.Println(err)
	fmt.Println(errors.Is(err, audio.ErrCorrupt), errors.Is(err, audio.ErrUnsupported))
	// Output:
	// Sony VAG: corrupt stream: sample rate 0
	// true false
}
