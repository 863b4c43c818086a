// SPDX-License-Identifier: EPL-2.0

// Package msaudio walks XMA1, XMA2 and WMAPro bitstreams to count samples.
//
// Containers of these codecs store sizes and loop points as packet counts
// and raw bit offsets. Parse reads the packet headers, follows the frame
// chain (a frame may continue in the next packet the stream owns) and turns
// the container values into sample positions:
//
//	res, err := msaudio.Parse(src, dataOffset, dataSize, msaudio.Params{
//		Version:    msaudio.XMA2,
//		Channels:   2,
//		SampleRate: 48000,
//	})
//	if err != nil {
//		return err
//	}
//	numSamples := res.NumSamples
//
// # Packets
//
// XMA packets are 2048 bytes with a 32-bit header; WMAPro packets are
// BlockAlign bytes with a header of 6 plus the frame size width. The skip
// count of XMA headers jumps over packets of other streams in a
// multi-stream file, so only the first stream is counted.
//
// # Encoder padding
//
// The first frame may carry a start skip and the last frame an end skip,
// both in samples. Values of 512 or more are read errors in known encoders
// and count as zero.
package msaudio
