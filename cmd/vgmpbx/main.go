// SPDX-License-Identifier: EPL-2.0

// Command vgmpbx probes game audio files and renders them to WAV.
//
//	vgmpbx [flags] file...
//
// With -info it prints one JSON document per stream instead of rendering.
// Looping streams are rendered with the loop count and fade-out from the
// configuration file (-config), or from the built-in defaults.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ik5/vgmpbx/config"
	"github.com/ik5/vgmpbx/utils/logger"
)

type options struct {
	configPath string
	subsong    int
	all        bool
	hint       string
	info       bool
	output     string
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var o options

	fs := flag.NewFlagSet("vgmpbx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: vgmpbx [flags] file...")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.IntVar(&o.subsong, "subsong", 0, "1-based subsong to use (0 = first)")
	fs.BoolVar(&o.all, "all", false, "use every subsong")
	fs.StringVar(&o.hint, "hint", "", "extension to probe with instead of the file's")
	fs.BoolVar(&o.info, "info", false, "print stream information as JSON instead of rendering")
	fs.StringVar(&o.output, "o", "", "output WAV file (single stream only)")
	fs.StringVar(&o.logLevel, "log", "", "log level, overrides the configuration")

	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return o, nil, errUsage
	}

	return o, fs.Args(), nil
}

var errUsage = errors.New("no input files")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, files, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := config.Default()
	if o.configPath != "" {
		if cfg, err = config.Load(o.configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	log := logger.NewLogger("vgmpbx", level, stderr)

	if o.output != "" && (len(files) > 1 || o.all) {
		log.Errorf("-o needs exactly one input stream")
		return 2
	}

	a := app{cfg: cfg, opts: o, log: log, stdout: stdout}

	failed := 0
	for _, path := range files {
		if err := a.file(path); err != nil {
			log.Errorf("%s: %v", path, err)
			failed++
		}
	}
	if failed > 0 {
		return 1
	}

	return 0
}
