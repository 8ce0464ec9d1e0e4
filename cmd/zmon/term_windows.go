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

//go:build windows

package main

import "github.com/pkg/errors"

// setRawIO is unsupported on Windows consoles through this code path: it
// always fails, and runInteractive returns that error to main. Only with
// -noraw or redirected stdin/stdout does zmon run there, reading
// line-buffered input (see runBatch in main.go).
func setRawIO() (func(), error) {
	return nil, errors.New("raw IO not supported on this platform")
}

func consoleRows(fd uintptr) int {
	return 0
}
