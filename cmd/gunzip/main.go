// Copyright 2016 CoreOS, Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command gunzip decompresses gzip or zlib files, one goroutine per input
// file, coordinated through a stop.Group so an interrupt drains whatever
// is in flight before exiting.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"github.com/Jpn666/deflate/capnslog"
	"github.com/Jpn666/deflate/gzip"
	"github.com/Jpn666/deflate/stop"
	"github.com/Jpn666/deflate/yamlutil"
	"github.com/Jpn666/deflate/zlib"
)

var plog = capnslog.NewPackageLogger("github.com/Jpn666/deflate", "gunzip")

var (
	flagKeep    = flag.Bool("keep", false, "keep input files instead of removing them after a successful decompress")
	flagStdout  = flag.Bool("stdout", false, "write output to stdout instead of alongside the input file")
	flagZlib    = flag.Bool("zlib", false, "treat inputs as zlib streams (RFC 1950) instead of gzip (RFC 1952)")
	flagConfig  = flag.String("config", "", "path to a YAML file overriding any flag not set on the command line")
	flagLogpkgs = flag.String("log-packages", "", "comma-separated package=level overrides, e.g. gzip=DEBUG")
)

func main() {
	capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
	flag.Parse()
	if *flagConfig != "" {
		raw, err := ioutil.ReadFile(*flagConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gunzip:", err)
			os.Exit(2)
		}
		if err := yamlutil.SetFlagsFromYaml(flag.CommandLine, raw); err != nil {
			fmt.Fprintln(os.Stderr, "gunzip:", err)
			os.Exit(2)
		}
	}
	repo := capnslog.MustRepoLogger("github.com/Jpn666/deflate")
	if *flagLogpkgs != "" {
		levels, err := repo.ParseLogLevelConfig(*flagLogpkgs)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gunzip:", err)
			os.Exit(2)
		}
		repo.SetLogLevel(levels)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: gunzip [flags] file...")
		os.Exit(2)
	}

	group := stop.NewGroup()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		plog.Warningf("interrupted, waiting for in-flight files to finish")
		<-group.Stop()
		os.Exit(1)
	}()

	var failed int32
	for _, name := range args {
		name := name
		done := make(chan struct{})
		group.AddFunc(func() <-chan struct{} { return done })
		go func() {
			defer close(done)
			if err := decompressFile(name); err != nil {
				plog.Errorf("%s: %v", name, err)
				atomic.AddInt32(&failed, 1)
			}
		}()
	}
	<-group.Stop()

	if failed > 0 {
		os.Exit(1)
	}
}

func decompressFile(name string) error {
	in, err := os.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	var rc io.ReadCloser
	if *flagZlib {
		zr, err := zlib.NewReader(in)
		if err != nil {
			return fmt.Errorf("opening zlib stream: %w", err)
		}
		rc = ioutil.NopCloser(zr)
	} else {
		gr, err := gzip.NewReader(in)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		rc = gr
	}
	defer rc.Close()

	var out io.Writer
	var outPath string
	if *flagStdout {
		out = os.Stdout
	} else {
		outPath = outputName(name, *flagZlib)
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	plog.Infof("decompressing %s", name)
	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("decompressing: %w", err)
	}

	if !*flagKeep && !*flagStdout {
		if err := os.Remove(name); err != nil {
			plog.Warningf("could not remove %s after decompressing: %v", name, err)
		}
	}
	return nil
}

func outputName(name string, isZlib bool) string {
	suffixes := []string{".gz", ".z"}
	if isZlib {
		suffixes = []string{".zz", ".zlib"}
	}
	for _, suf := range suffixes {
		if strings.HasSuffix(name, suf) {
			return strings.TrimSuffix(name, suf)
		}
	}
	return name + ".out"
}
