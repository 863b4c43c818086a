// SPDX-License-Identifier: EPL-2.0

package mp3_test

import (
	"fmt"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/formats/mp3"
	"github.com/ik5/vgmpbx/layout"
)

func ExampleOpen() {
	ext := audio.NewExternals()
	ext.Register(audio.ExtMpeg, mp3.Open)

	src, err := bytesrc.OpenFile("track.mp3")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	bp, err := mp3.Prober{}.Probe(src, audio.ProbeOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer bp.Close()

	s, err := layout.New(bp, layout.WithExternals(ext))
	if err != nil {
		fmt.Println(err)
		return
	}
	defer s.Close()

	buf := make([]int16, 4096*bp.Channels)
	res := s.Render(buf, 4096)
	fmt.Println(res.Samples, res.Status)
}
