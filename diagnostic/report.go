// Copyright 2020-2024 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diagnostic renders the errors and warnings raised while loading a
// grammar bundle, computing replacements, or driving an HDD session, in the
// style of a compiler front-end: one line per diagnostic, "level: file:line:col: message",
// with notes and suggested fixes trailing it. A session never retains a
// grammar bundle's or input's source bytes once parsed, so unlike a
// source-indexing diagnostic renderer, a Diagnostic here carries at most a
// file path and a line/column, never a source snippet.
package diagnostic

import (
	"fmt"
	"runtime"

	"github.com/renatahodovan/picireny/reporter"
)

const (
	Error Level = 1 + iota
	Warning
	Remark
)

const (
	Simple Style = 1 + iota
	Colored
)

// Level represents the severity of a diagnostic message.
type Level int8

// Style indicates how a diagnostic should be rendered to show a user.
type Style int

// Diagnostic is a type of error that can be rendered as a one-line message.
//
// Not all Diagnostics are "errors", even though Diagnostic does embed error;
// some represent warnings, or perhaps debugging remarks.
type Diagnostic struct {
	// The error that prompted this diagnostic. Its Error() return is used
	// as the diagnostic message.
	Err error

	// The kind of diagnostic this is, which affects how and whether it is shown
	// to users.
	Level Level

	file        string
	line, col   int
	notes, help []string

	// Stack trace information for the diagnostic, for use in debugging a
	// reduction session. Only populated when the env var PICIRENY_DEBUG is set.
	trace []runtime.Frame
}

// DiagnosticOption is an option that can be applied to a [Diagnostic].
type DiagnosticOption func(*Diagnostic)

// MentionFile returns a DiagnosticOption that causes a diagnostic with no
// position of its own to mention the given file.
func MentionFile(path string) DiagnosticOption {
	return func(d *Diagnostic) { d.file = path }
}

// AtPosition returns a DiagnosticOption that attaches a concrete file, line,
// and column to a diagnostic.
func AtPosition(file string, line, col int) DiagnosticOption {
	return func(d *Diagnostic) { d.file, d.line, d.col = file, line, col }
}

// FromPositioned returns a DiagnosticOption that attaches the position
// carried by err.
func FromPositioned(err reporter.ErrorWithPos) DiagnosticOption {
	pos := err.GetPosition()
	if pos.Line == 0 {
		return MentionFile(pos.File)
	}
	return AtPosition(pos.File, pos.Line, pos.Column)
}

// Note returns a DiagnosticOption that provides the user with context about
// the diagnostic, after the message.
func Note(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.notes = append(d.notes, fmt.Sprintf(format, args...))
	}
}

// Help returns a DiagnosticOption that provides the user with a helpful prose
// suggestion for resolving the diagnostic.
func Help(format string, args ...any) DiagnosticOption {
	return func(d *Diagnostic) {
		d.help = append(d.help, fmt.Sprintf(format, args...))
	}
}

// Report is a collection of diagnostics.
type Report []Diagnostic

// Error pushes an error diagnostic onto this report.
func (r *Report) Error(err error, opts ...DiagnosticOption) {
	r.push(1, err, Error, opts)
}

// Warn pushes a warning diagnostic onto this report.
func (r *Report) Warn(err error, opts ...DiagnosticOption) {
	r.push(1, err, Warning, opts)
}

// Remark pushes a remark diagnostic onto this report.
func (r *Report) Remark(err error, opts ...DiagnosticOption) {
	r.push(1, err, Remark, opts)
}

// push is the core "make me a diagnostic" function.
func (r *Report) push(skip int, err error, level Level, opts []DiagnosticOption) {
	*r = append(*r, Diagnostic{Err: err, Level: level})
	d := &(*r)[len(*r)-1]
	for _, opt := range opts {
		opt(d)
	}

	// If debugging is on, capture a stack trace.
	if debugMode > debugOff {
		// Unwind the stack to find program counter information.
		pc := make([]uintptr, 64)
		pc = pc[:runtime.Callers(skip+2, pc)]

		// Fill trace with the result.
		var zero runtime.Frame
		frames := runtime.CallersFrames(pc)
		for {
			next, more := frames.Next()
			if next != zero {
				d.trace = append(d.trace, next)
			}
			if !more {
				break
			}
		}
	}
}
