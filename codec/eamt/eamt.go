// SPDX-License-Identifier: EPL-2.0

// Package eamt decodes EA MicroTalk (UTK): a 12th order LPC speech codec
// with a pitch predictor and multipulse or RELP excitation.
package eamt

import (
	"math"

	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/codec"
	"github.com/ik5/vgmpbx/internal/bits"
)

const (
	// FrameSamples is the length of every frame.
	FrameSamples = 432

	subframes   = 4
	subframeLen = 108
	order       = 12
	adaptLen    = 324
	margin      = 5
)

// Config describes the stream.
type Config struct {
	NumSamples int64
	// PCMPatches marks streams where every frame ends with a flag and,
	// when set, raw samples that replace part of the frame.
	PCMPatches bool
}

// Decoder owns one mono MicroTalk stream.
type Decoder struct {
	cfg  Config
	data []byte
	r    *bits.LSBReader

	parsed     bool
	reducedBW  bool
	threshold  int
	fixedGains [64]float32

	rc    [order]float32
	synth [order]float32
	buf   [adaptLen + FrameSamples]float32
	exc   [margin + subframeLen + margin]float32

	pcm    *audio.SampleBuffer
	played int64
}

// New reads size bytes of coded data at off.
func New(src bytesrc.Source, off, size int64, cfg Config) (*Decoder, error) {
	if size < 0 || off+size > src.Size() {
		size = max(0, src.Size()-off)
	}

	data := make([]byte, size)
	n, _ := src.ReadAt(data, off)

	d := &Decoder{cfg: cfg, data: data[:n], pcm: audio.NewSampleBuffer(1, FrameSamples)}
	d.r = bits.NewLSBReader(d.data)
	d.Reset()

	return d, nil
}

func (d *Decoder) Reset() error {
	d.r.Seek(0)
	d.parsed = false
	d.rc = [order]float32{}
	d.synth = [order]float32{}
	d.buf = [adaptLen + FrameSamples]float32{}
	d.pcm.SetFilled(0)
	d.played = 0

	return nil
}

func (d *Decoder) Close() error { return nil }

func (d *Decoder) read(n uint) int { return int(d.r.Read(n)) }

func (d *Decoder) parseHeader() {
	d.reducedBW = d.read(1) == 1
	d.threshold = 32 - d.read(4)
	d.fixedGains[0] = 8 * float32(1+d.read(4))

	mult := 1.04 + float32(d.read(6))*0.001
	for i := 1; i < len(d.fixedGains); i++ {
		d.fixedGains[i] = d.fixedGains[i-1] * mult
	}

	d.parsed = true
}

func (d *Decoder) decodeFrame() {
	if !d.parsed {
		d.parseHeader()
	}

	multipulse := false
	var delta [order]float32

	for i := range order {
		var idx int
		switch {
		case i == 0:
			idx = d.read(6)
			multipulse = idx < d.threshold
		case i < 4:
			idx = d.read(6)
		default:
			idx = 16 + d.read(5)
		}

		delta[i] = (rcTable[idx] - d.rc[i]) * 0.25
	}

	for i := range subframes {
		lag := d.read(8)
		pitchGain := float32(d.read(4)) / 15
		fixedGain := d.fixedGains[d.read(6)]

		clear(d.exc[:])

		if !d.reducedBW {
			d.excitation(multipulse, d.exc[margin:], 1)
		} else {
			align := d.read(1)
			zero := d.read(1) == 1

			d.excitation(multipulse, d.exc[margin+align:], 2)

			if !zero {
				for k := margin + 1 - align; k < margin+subframeLen; k += 2 {
					e := &d.exc
					e[k] = interp[0]*(e[k-5]+e[k+5]) + interp[1]*(e[k-3]+e[k+3]) + interp[2]*(e[k-1]+e[k+1])
				}
				fixedGain *= 0.5
			}
		}

		base := adaptLen + subframeLen*i
		for j := range subframeLen {
			d.buf[base+j] = d.exc[margin+j]*fixedGain + pitchGain*d.buf[base-lag+j]
		}
	}

	copy(d.buf[:adaptLen], d.buf[FrameSamples:])

	for i := range subframes {
		for j := range d.rc {
			d.rc[j] += delta[j]
		}

		blocks := 1
		if i == subframes-1 {
			blocks = (FrameSamples - order*(subframes-1)) / order
		}

		lpc := rcToLPC(&d.rc)
		d.synthesize(d.buf[adaptLen+order*i:], &lpc, blocks)
	}

	pcm := d.pcm.Space()
	for i := range FrameSamples {
		pcm[i] = codec.Clamp16f(math.Round(float64(d.buf[adaptLen+i])))
	}

	if d.cfg.PCMPatches && d.read(1) == 1 {
		count := d.read(8)
		at := d.read(9)
		for k := range count {
			v := int16(d.read(16))
			if at+k < FrameSamples {
				pcm[at+k] = v
			}
		}
	}

	d.pcm.SetFilled(FrameSamples)
}

// excitation fills every stride-th value of out up to one subframe.
func (d *Decoder) excitation(multipulse bool, out []float32, stride int) {
	i := 0

	if !multipulse {
		for i < subframeLen {
			var v float32
			if d.read(1) == 1 {
				v = 1
				if d.read(1) == 1 {
					v = 2
				}
				if d.read(1) == 1 {
					v = -v
				}
			}
			out[i] = v
			i += stride
		}

		return
	}

	model := modelNormal
	for i < subframeLen {
		cmd := codebooks[model][d.r.Peek(8)]
		c := commands[cmd]
		model = c.next
		d.r.Skip(uint(c.size))

		switch {
		case cmd > 3:
			out[i] = c.pulse
			i += stride
		case cmd > 1:
			count := 7 + d.read(6)
			if i+count*stride > subframeLen {
				count = (subframeLen - i) / stride
			}
			for range count {
				out[i] = 0
				i += stride
			}
		default:
			x := 7
			for d.read(1) == 1 {
				x++
			}
			if d.read(1) == 0 {
				x = -x
			}
			out[i] = float32(x)
			i += stride
		}
	}
}

// rcToLPC converts reflection coefficients to direct form.
func rcToLPC(rc *[order]float32) (lpc [order]float32) {
	var tmp1, tmp2 [order]float32

	for i := order - 2; i >= 0; i-- {
		tmp2[i+1] = rc[i]
	}
	tmp2[0] = 1

	for i := range order {
		x := -(rc[order-1] * tmp2[order-1])

		for j := order - 2; j >= 0; j-- {
			x -= rc[j] * tmp2[j]
			tmp2[j+1] = x*rc[j] + tmp2[j]
		}

		tmp2[0] = x
		tmp1[i] = x

		for j := range i {
			x -= tmp1[i-1-j] * lpc[j]
		}

		lpc[i] = x
	}

	return lpc
}

func (d *Decoder) synthesize(x []float32, lpc *[order]float32, blocks int) {
	p := 0
	for range blocks {
		for j := range order {
			v := x[p]
			for k := range j {
				v += lpc[k] * d.synth[k-j+order]
			}
			for k := j; k < order; k++ {
				v += lpc[k] * d.synth[k-j]
			}

			d.synth[order-1-j] = v
			x[p] = v
			p++
		}
	}
}

// Decode writes up to samples mono samples to out.
func (d *Decoder) Decode(out []int16, samples int) (int, error) {
	done := 0
	for done < samples && d.played < d.cfg.NumSamples {
		if d.pcm.Filled() == 0 {
			if d.r.Pos() >= uint64(len(d.data))*8 {
				break
			}
			d.decodeFrame()
		}

		n := d.pcm.Consume(out[done:], min(samples-done, int(d.cfg.NumSamples-d.played)))
		done += n
		d.played += int64(n)
	}

	return done, nil
}
