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

// The zdump command runs the zmon command set headlessly: it loads a
// flat memory image, reads monitor commands one per line from stdin (or
// a script file), runs each through github.com/z80kit/zmon/monitor with
// no terminal, no line editing and no cursor echo, and writes the
// resulting image back out - a batch-mode sibling to the interactive
// zmon command, for scripted inspection and CI-driven disassembly
// checks.
//
// Usage:
//
//	-image filename
//		  memory image file to open (default "zmon.bin")
//	-size int
//		  image size in bytes if the image file does not already exist
//		  (default 65536)
//	-script filename
//		  read commands from filename instead of stdin
//	-v
//		  additionally pretty-print each disassembled Instruction with
//		  github.com/k0kubun/pp/v3 as it is produced
//
// zdump never touches the terminal: it is meant to be piped, not typed
// at, which makes it the natural tool for driving the codec from tests
// or from another program.
package main
