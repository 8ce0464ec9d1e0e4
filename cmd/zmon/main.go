// This file is part of zmon - https://github.com/z80kit/zmon
//
// Copyright 2026 z80kit contributors
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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"github.com/z80kit/zmon/monitor"
)

const (
	lineLimit = 120
	histLimit = 64
)

func loadImage(name string, size int) (monitor.SliceBus, error) {
	data, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		return monitor.NewSliceBus(size), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading image")
	}
	if len(data) < size {
		data = append(data, make([]byte, size-len(data))...)
	}
	return monitor.SliceBus(data), nil
}

func saveImage(name string, bus monitor.SliceBus) error {
	return errors.Wrap(os.WriteFile(name, bus, 0644), "saving image")
}

func atExit(err error) {
	if err == nil || err == io.EOF {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%v\n", err)
	os.Exit(1)
}

func main() {
	var (
		fileName = flag.String("image", "zmon.bin", "Load memory image from file `filename`")
		size     = flag.Int("size", 65536, "image size in bytes, if the image file does not exist")
		cols     = flag.Int("cols", 16, "bytes per hex dump row")
		rows     = flag.Int("rows", 24, "rows printed per hex/dasm command before pausing")
		noRaw    = flag.Bool("noraw", false, "disable raw terminal IO")
	)
	flag.Parse()

	bus, err := loadImage(*fileName, *size)
	if err != nil {
		atExit(err)
		return
	}

	stdout := colorable.NewColorableStdout()
	interactive := !*noRaw && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	if r := consoleRows(os.Stdout.Fd()); interactive && r > 2 {
		*rows = r - 2
	}

	m := monitor.New(bus, stdout, monitor.WithColumns(*cols), monitor.WithMaxRows(*rows))

	if interactive {
		err = runInteractive(m, stdout)
	} else {
		err = runBatch(m, stdout, bufio.NewReader(os.Stdin))
	}

	if saveErr := saveImage(*fileName, bus); err == nil {
		err = saveErr
	}
	atExit(err)
}

// runInteractive drives the monitor from a raw-mode terminal through an
// Editor, so arrow keys, backspace and line history work the way a real
// console monitor's does.
func runInteractive(m *monitor.Monitor, out io.Writer) error {
	tearDown, err := setRawIO()
	if err != nil {
		return errors.Wrap(err, "setRawIO")
	}
	defer tearDown()

	keys := monitor.NewKeyReader(os.Stdin)
	ed := monitor.NewEditor(keys, out, lineLimit, histLimit)

	for {
		prefill := m.Prompt()
		io.WriteString(out, "\r\nzmon> ")
		line, err := ed.ReadLine(prefill, nil)
		io.WriteString(out, "\r\n")
		if err != nil {
			return err
		}
		m.Dispatch(line)
		if werr := m.WriteErr(); werr != nil {
			return werr
		}
	}
}

// runBatch drives the monitor from a plain, line-buffered reader (stdin
// redirected from a file or pipe, or -noraw): no cursor editing, no
// escape sequences, just one Dispatch per input line. This is the same
// shape zdump uses for wholly non-interactive operation.
func runBatch(m *monitor.Monitor, out io.Writer, in *bufio.Reader) error {
	for {
		prefill := m.Prompt()
		if prefill != "" {
			io.WriteString(out, prefill+"\n")
		}
		line, err := in.ReadString('\n')
		line = trimEOL(line)
		if line != "" {
			m.Dispatch(line)
			if werr := m.WriteErr(); werr != nil {
				return werr
			}
		}
		if err != nil {
			return err
		}
	}
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
