// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"

	"github.com/ik5/vgmpbx"
	"github.com/ik5/vgmpbx/audio"
	"github.com/ik5/vgmpbx/bytesrc"
	"github.com/ik5/vgmpbx/config"
	"github.com/ik5/vgmpbx/utils/logger"
)

type app struct {
	cfg    config.Config
	opts   options
	log    *logger.Logger
	stdout io.Writer
}

// file handles every selected stream of one input.
func (a app) file(path string) error {
	src, err := bytesrc.OpenFile(path)
	if err != nil {
		return err
	}
	defer src.Close()

	probeOpts := audio.ProbeOptions{
		Hint:    a.opts.hint,
		Subsong: a.opts.subsong,
		Logger:  a.log.Named("probe"),
	}

	bp, err := vgmpbx.Probe(src, probeOpts)
	if err != nil {
		return err
	}
	if err := a.stream(path, bp); err != nil {
		return err
	}

	if !a.opts.all || bp.Subsong == nil {
		return nil
	}

	for i := 1; i <= bp.Subsong.Count; i++ {
		if i == bp.Subsong.Index {
			continue
		}

		probeOpts.Subsong = i
		sub, err := vgmpbx.Probe(src, probeOpts)
		if err != nil {
			a.log.Warnf("%s: subsong %d: %v", path, i, err)
			continue
		}
		if err := a.stream(path, sub); err != nil {
			a.log.Warnf("%s: subsong %d: %v", path, i, err)
		}
	}

	return nil
}

// stream prints or renders one probed stream and releases it.
func (a app) stream(path string, bp *audio.Blueprint) error {
	defer bp.Close()

	if a.opts.info {
		doc, err := infoJSON(path, bp.Info(), a.cfg.Playback)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(a.stdout, "%s\n", doc)
		return err
	}

	out := a.opts.output
	if out == "" {
		out = outputPath(a.cfg.Output, path, bp.Info())
	}

	n, err := export(bp, a.cfg.Playback, out, a.log.Named("render"))
	if err != nil {
		return err
	}
	a.log.Infof("%s: wrote %d samples to %s", path, n, out)

	return nil
}
