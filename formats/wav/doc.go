// SPDX-License-Identifier: EPL-2.0

// Package wav probes RIFF WAVE files and writes 16-bit PCM WAV output.
//
// # Probing
//
// Prober accepts the WAVE fmt tags that map onto built-in decoders:
//
//   - 0x0001 PCM, 8 (unsigned), 16 and 24 bits
//   - 0x0003 IEEE float, 32 bits
//   - 0x0002 Microsoft ADPCM, blocks of the fmt block align
//   - 0x0011 IMA ADPCM in Microsoft blocks
//   - 0x0069 XBOX IMA ADPCM
//
// Extensible headers (0xFFFE) use the tag of their sub-format. XMA and
// WMAPro files are left to the xma prober. The first loop of a smpl chunk
// becomes the loop region; its end is inclusive in the file.
//
// Chunks and ReadFormat are exported for other RIFF based probers.
//
// # Writing WAV Files
//
// WriteWAV16 writes a whole buffer at once; Writer streams it:
//
//	f, _ := os.Create("out.wav")
//	defer f.Close()
//
//	w, err := wav.NewWriter(f, 44100, 2)
//	if err != nil {
//		return err
//	}
//	w.Write(frames)
//	w.Close()
//
// Both go through the github.com/go-audio/wav encoder.
package wav
