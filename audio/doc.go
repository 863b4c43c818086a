// SPDX-License-Identifier: EPL-2.0

// Package audio holds the types shared by probers, codecs and the playback
// engine.
//
// # Blueprints
//
// A [Blueprint] is what a prober learns from a container: codec, channel
// count, sample rate, length in samples per channel, an optional loop
// region, the layout of the channel data and one [ChannelCfg] per channel
// (or a single shared one). Blueprints are validated once and not modified
// afterwards, so any number of sessions may play the same blueprint.
//
// # Probing
//
// A [Registry] keeps probers in three classes. Magic probers key on a
// unique signature and always run; structure probers and guessers only run
// when the file extension (or [ProbeOptions.Hint]) is one they list.
// Within a class, probers run in registration order and the first one that
// does not return [ErrReject] decides:
//
//	reg := audio.NewRegistry(log)
//	reg.Register(audio.ClassMagic, vag.Prober{})
//	reg.Register(audio.ClassStructure, dsp.Prober{})
//
//	bp, err := reg.Probe(src, audio.ProbeOptions{Subsong: 2})
//
// # Errors
//
// Probers report problems as [*ProbeError]; use errors.Is with
// [ErrCorrupt], [ErrUnsupported] or [ErrSubsongOutOfRange] to tell them
// apart. Sessions that cannot start return [*OpenError]. Rendering never
// fails: a [RenderResult] says how many frames were real audio and why the
// rest is silence.
//
// # External codecs
//
// [Externals] maps an [ExternalKind] to a factory. Codecs the core does not
// implement (MPEG, Vorbis, XMA, ...) are opened through it.
package audio
