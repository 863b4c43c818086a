// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ik5/vgmpbx"
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/config"
	"github.com/ik5/vgmpbx/formats/wav"
	"github.com/ik5/vgmpbx/layout"
	"github.com/ik5/vgmpbx/utils"
	"github.com/ik5/vgmpbx/utils/logger"
)

const renderChunk = 4096

// outputPath expands the configured name pattern for one stream.
func outputPath(o config.Output, input string, info audio.Info) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	subsong := max(info.Subsong, 1)
	stream := info.StreamName
	if stream == "" {
		stream = base
	}

	pattern := o.NamePattern
	if pattern == "" {
		pattern = config.Default().Output.NamePattern
	}
	name := strings.NewReplacer(
		"{name}", base,
		"{subsong}", strconv.Itoa(subsong),
		"{stream}", sanitize(stream),
	).Replace(pattern)

	dir := o.Directory
	if dir == "" {
		dir = filepath.Dir(input)
	}

	return filepath.Join(dir, name)
}

// sanitize keeps stream names usable as file names.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

// export renders bp into a 16-bit WAV at path and returns the frame count.
func export(bp *audio.Blueprint, p config.Playback, path string, log *logger.Logger) (int64, error) {
	info := bp.Info()
	total := p.PlaySamples(info)
	fadeStart, fadeLen := p.FadeSamples(info)
	fade := utils.Fade{Start: fadeStart, Length: fadeLen}

	s, err := vgmpbx.Open(bp, layout.WithLogger(log), layout.WithLooping(p.Looping(info)))
	if err != nil {
		return 0, err
	}
	defer s.Close()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	w, err := wav.NewWriter(f, info.SampleRate, info.Channels)
	if err != nil {
		return 0, err
	}

	buf := make([]int16, renderChunk*info.Channels)
	var done int64
	for done < total {
		n := int(min(renderChunk, total-done))

		res := s.Render(buf, n)
		if res.Status == audio.StatusDecoderFailed {
			log.Warnf("decoder failed at sample %d; the rest is silence", done+int64(res.Samples))
		}

		frame := buf[:n*info.Channels]
		if fadeLen > 0 {
			fade.Apply(frame, info.Channels, done)
		}
		if err := w.Write(frame); err != nil {
			return done, err
		}
		done += int64(n)
	}

	if err := w.Close(); err != nil {
		return done, err
	}

	return done, f.Close()
}
