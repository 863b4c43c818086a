// SPDX-License-Identifier: EPL-2.0

// Package config holds the YAML configuration of the vgmpbx command.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ik5/vgmpbx/audio"
)

// Playback controls how long a looping stream is rendered.
type Playback struct {
	// LoopCount is how many times the loop region plays.
	LoopCount int `yaml:"loop_count"`
	// FadeSeconds is the length of the fade-out after the last loop.
	FadeSeconds float64 `yaml:"fade_seconds"`
	// FadeDelaySeconds keeps playing the loop at full volume before the
	// fade starts.
	FadeDelaySeconds float64 `yaml:"fade_delay_seconds"`
	// IgnoreLoop renders looping streams once, like non-looping ones.
	IgnoreLoop bool `yaml:"ignore_loop,omitempty"`
}

type Output struct {
	Directory string `yaml:"directory,omitempty"`
	// NamePattern names exported files. {name} is the input file name
	// without its extension, {subsong} the 1-based subsong index and
	// {stream} the stream name when the container has one.
	NamePattern string `yaml:"name_pattern,omitempty"`
}

type Config struct {
	Playback Playback `yaml:"playback"`
	Output   Output   `yaml:"output,omitempty"`
	LogLevel string   `yaml:"log_level,omitempty"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Playback: Playback{
			LoopCount:   2,
			FadeSeconds: 10,
		},
		Output: Output{
			NamePattern: "{name}_{subsong}.wav",
		},
		LogLevel: "INFO",
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects settings that cannot produce a length.
func (c Config) Validate() error {
	p := c.Playback
	switch {
	case p.LoopCount < 1:
		return fmt.Errorf("%w: loop_count %d", ErrInvalid, p.LoopCount)
	case p.FadeSeconds < 0:
		return fmt.Errorf("%w: fade_seconds %v", ErrInvalid, p.FadeSeconds)
	case p.FadeDelaySeconds < 0:
		return fmt.Errorf("%w: fade_delay_seconds %v", ErrInvalid, p.FadeDelaySeconds)
	}

	return nil
}

// Looping reports whether info is rendered with its loop.
func (p Playback) Looping(info audio.Info) bool {
	return info.Loop != nil && !p.IgnoreLoop
}

// PlaySamples is how many frames to render for info: the stream once when
// it does not loop, otherwise the intro, LoopCount passes of the loop and
// then the fade delay and the fade.
func (p Playback) PlaySamples(info audio.Info) int64 {
	if !p.Looping(info) {
		return info.NumSamples
	}

	l := info.Loop
	tail := int64((p.FadeDelaySeconds + p.FadeSeconds) * float64(info.SampleRate))

	return l.Start + int64(p.LoopCount)*(l.End-l.Start) + tail
}

// FadeSamples returns where the fade of info starts and how long it is, in
// frames. Streams that do not loop are not faded.
func (p Playback) FadeSamples(info audio.Info) (start, length int64) {
	if !p.Looping(info) {
		return info.NumSamples, 0
	}

	length = int64(p.FadeSeconds * float64(info.SampleRate))

	return p.PlaySamples(info) - length, length
}
