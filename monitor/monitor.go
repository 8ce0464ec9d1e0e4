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

package monitor

import (
	"fmt"
	"io"

	"github.com/z80kit/zmon/internal/zio"
)

const (
	defaultColSize     = 16
	defaultMaxRows     = 24
	defaultLabelBuffer = 256
)

// Monitor glues a Bus, a Labels table, and an output stream together and
// dispatches the command set over them. It holds no input state of its
// own: callers feed it one command line at a time via Dispatch, which
// tokenizes it, so the same Monitor serves both an interactive Editor-driven
// loop (cmd/zmon) and a headless script runner (cmd/zdump).
type Monitor struct {
	bus     Bus
	labels  *Labels
	out     io.Writer
	errOut  *zio.ErrWriter
	in      io.Reader
	colSize int
	maxRows int
	recSize int

	// pending is the continuation prompt text queued by the previous
	// command (e.g. "hex $8010 $0010 " after a hex dump ran past MAX_ROWS),
	// consumed by the next ReadLine's prefill.
	pending string
}

// Option configures a Monitor at construction time.
type Option func(*Monitor)

// WithColumns sets the number of bytes per hex dump row. The default is
// 16.
func WithColumns(n int) Option {
	return func(m *Monitor) { m.colSize = n }
}

// WithMaxRows sets the number of rows a single hex/dasm command prints
// before pausing (continuing via the queued prompt). The default is 24.
func WithMaxRows(n int) Option {
	return func(m *Monitor) { m.maxRows = n }
}

// WithRecordSize stores n as the Monitor's Intel HEX record size (default
// 32). The export command does not read it: exportIHX always writes
// ihxRecordSize data bytes per record.
func WithRecordSize(n int) Option {
	return func(m *Monitor) { m.recSize = n }
}

// WithLabels replaces the Monitor's label table; the default is an empty
// table with a 256-byte capacity.
func WithLabels(labels *Labels) Option {
	return func(m *Monitor) { m.labels = labels }
}

// WithInput sets the stream "import" and "verify" read Intel HEX records
// from. It defaults to nil, in which case those commands report an
// error instead of blocking.
func WithInput(in io.Reader) Option {
	return func(m *Monitor) { m.in = in }
}

// New returns a Monitor operating on bus, printing to out, configured by
// opts.
func New(bus Bus, out io.Writer, opts ...Option) *Monitor {
	ew := zio.NewErrWriter(out)
	m := &Monitor{
		bus:     bus,
		out:     ew,
		errOut:  ew,
		colSize: defaultColSize,
		maxRows: defaultMaxRows,
		recSize: ihxRecordSize,
		labels:  NewLabels(defaultLabelBuffer),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Labels returns the Monitor's label table.
func (m *Monitor) Labels() *Labels { return m.labels }

// WriteErr returns the first error seen writing to the Monitor's output
// stream, or nil if every write has succeeded so far. Front ends poll
// this after Dispatch to notice a broken pipe or closed terminal
// without every command needing to check its own Fprintf/WriteString
// calls.
func (m *Monitor) WriteErr() error { return m.errOut.Err }

// Prompt returns the continuation prompt text queued by the last
// command, consuming it (subsequent calls return "" until another
// command queues one).
func (m *Monitor) Prompt() string {
	p := m.pending
	m.pending = ""
	return p
}

func (m *Monitor) setPrompt(cmd string, args ...uint16) {
	s := cmd + " "
	for _, a := range args {
		s += fmt.Sprintf("$%04X ", a)
	}
	m.pending = s
}

// Dispatch parses one command line and runs it, writing any output or
// error message to the Monitor's out stream. It never returns an error
// itself: malformed input is reported to out the same way the original
// firmware's CLI did, by printing "<field>: <input>?" and otherwise
// doing nothing.
func (m *Monitor) Dispatch(line string) {
	args := NewArgs(line)
	cmd, ok := commands[args.Command()]
	if !ok {
		if args.Command() != "" {
			m.printHelp()
		}
		return
	}
	cmd(m, args)
}

var commands = map[string]func(*Monitor, Args){
	"hex":    (*Monitor).cmdHex,
	"set":    (*Monitor).cmdSet,
	"fill":   (*Monitor).cmdFill,
	"move":   (*Monitor).cmdMove,
	"export": (*Monitor).cmdExport,
	"import": (*Monitor).cmdImport,
	"verify": (*Monitor).cmdVerify,
	"label":  (*Monitor).cmdLabel,
	"asm":    (*Monitor).cmdAsm,
	"dasm":   (*Monitor).cmdDasm,
}

func (m *Monitor) printHelp() {
	io.WriteString(m.out, "Commands:\n")
	for _, name := range []string{"hex", "set", "fill", "move", "export", "import", "verify", "label", "asm", "dasm"} {
		io.WriteString(m.out, name+"\n")
	}
}

func (m *Monitor) printError(err error) {
	fmt.Fprintln(m.out, err)
}

// expectAddr consumes the next token, resolving it as a label name
// first and an unsigned integer second, reporting a formatError on
// neither matching.
func (m *Monitor) expectAddr(args *Args) (uint16, error) {
	raw := args.Next()
	if addr, ok := m.labels.GetAddr(raw); ok {
		return addr, nil
	}
	if v, ok := parseUnsigned[uint16](raw); ok {
		return v, nil
	}
	return 0, &formatError{label: "addr", raw: raw}
}

// expectUint consumes the next token as a plain unsigned integer of
// width T, with no label resolution.
func expectUint[T Unsigned](args *Args, label string) (T, error) {
	raw := args.Next()
	v, ok := parseUnsigned[T](raw)
	if !ok {
		return 0, &formatError{label: label, raw: raw}
	}
	return v, nil
}

// optionUint is like expectUint but returns def without consuming
// anything if no more arguments remain.
func optionUint[T Unsigned](args *Args, label string, def T) (T, error) {
	if !args.HasNext() {
		return def, nil
	}
	return expectUint[T](args, label)
}
