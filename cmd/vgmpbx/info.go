// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/bytedance/sonic"
	"github.com/iancoleman/orderedmap"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/config"
)

// infoJSON describes a stream with its keys in a fixed order.
func infoJSON(path string, info audio.Info, p config.Playback) ([]byte, error) {
	doc := orderedmap.New()
	doc.Set("file", path)
	doc.Set("format", info.Format)
	doc.Set("codec", info.Codec)
	doc.Set("layout", info.Layout)
	doc.Set("channels", info.Channels)
	doc.Set("sample_rate", info.SampleRate)
	doc.Set("num_samples", info.NumSamples)

	if info.SubsongCount > 0 {
		doc.Set("subsong", info.Subsong)
		doc.Set("subsong_count", info.SubsongCount)
	}
	if info.StreamName != "" {
		doc.Set("stream_name", info.StreamName)
	}
	if info.StreamSize > 0 {
		doc.Set("stream_size", info.StreamSize)
	}

	if l := info.Loop; l != nil {
		loop := orderedmap.New()
		loop.Set("start", l.Start)
		loop.Set("end", l.End)
		doc.Set("loop", loop)
	}

	doc.Set("play_samples", p.PlaySamples(info))

	return sonic.ConfigStd.MarshalIndent(doc, "", "  ")
}
