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

// The zmon command is an interactive Z80 memory monitor: a line-editing
// front end over github.com/z80kit/zmon/monitor, reading and writing a
// flat memory image backed by a file on disk.
//
// Usage:
//
//	-image filename
//		  memory image file to open (default "zmon.bin")
//	-size int
//		  image size in bytes if the image file does not already exist
//		  (default 65536)
//	-cols int
//		  bytes per hex dump row (default 16)
//	-rows int
//		  rows printed per hex/dasm command before pausing (default 24)
//	-noraw
//		  disable raw terminal IO (useful when stdin is redirected)
//
// When stdin and stdout are both terminals and -noraw is not given, zmon
// puts the terminal into raw mode for the duration of the session so
// that it can handle arrow keys, Home/End and backspace itself, and
// restores the previous terminal settings on exit. Otherwise (e.g. input
// or output redirected to a file) it reads plain lines from stdin and
// sends no cursor motion escape sequences. zdump is the headless sibling
// for scripted, non-interactive use.
package main
