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
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"

	"github.com/z80kit/zmon/monitor"
	"github.com/z80kit/zmon/z80"
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

func main() {
	var (
		fileName   = flag.String("image", "zmon.bin", "Load memory image from file `filename`")
		size       = flag.Int("size", 65536, "image size in bytes, if the image file does not exist")
		scriptName = flag.String("script", "", "read commands from `filename` instead of stdin")
		verbose    = flag.Bool("v", false, "pretty-print each decoded Instruction with pp.Println")
	)
	flag.Parse()

	bus, err := loadImage(*fileName, *size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	in := io.Reader(os.Stdin)
	if *scriptName != "" {
		f, err := os.Open(*scriptName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	m := monitor.New(bus, os.Stdout, monitor.WithInput(os.Stdin))

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		m.Dispatch(line)
		if *verbose {
			dumpVerbose(bus, line)
		}
		if prompt := m.Prompt(); prompt != "" {
			io.WriteString(os.Stdout, prompt+"\n")
		}
		if werr := m.WriteErr(); werr != nil {
			fmt.Fprintln(os.Stderr, werr)
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if err := os.WriteFile(*fileName, bus, 0644); err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "saving image"))
		os.Exit(1)
	}
}

// dumpVerbose re-decodes a "dasm" command's range with z80 directly and
// pp.Println's each structured Instruction, alongside (not instead of)
// the monitor's own textual output, so -v is purely additive.
func dumpVerbose(bus monitor.SliceBus, line string) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "dasm" {
		return
	}
	addr, ok := parseHexOrDec(fields[1])
	if !ok {
		return
	}
	count := uint16(1)
	if len(fields) >= 3 {
		if v, ok := parseHexOrDec(fields[2]); ok {
			count = v
		}
	}
	end := addr + count - 1
	z80.DisassembleRange(bus, addr, end, 1<<16, func(addr uint16, inst z80.Instruction, err error) {
		if err != nil {
			return
		}
		pp.Println(inst)
	})
}

func parseHexOrDec(s string) (uint16, bool) {
	if strings.HasPrefix(s, "$") {
		var v uint64
		if _, err := fmt.Sscanf(s[1:], "%x", &v); err != nil {
			return 0, false
		}
		return uint16(v), true
	}
	var v uint64
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, false
	}
	return uint16(v), true
}
