// Copyright 2025 walteh LLC
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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent = 2 // spaces to indent file entries
	diffIndent = 6 // spaces to indent diff lines
)

// 🎯 FileOperation is one file rewritten (or that would be rewritten) by a fix pass
type FileOperation struct {
	Path         string // File path relative to the scan root
	Replacements int    // Number of matches rewritten
	DryRun       bool   // Whether the write was skipped
}

// 🎯 Logger prints the user-facing report of a fix pass and mirrors it to zerolog at debug level
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	operations []FileOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🏭 Discard returns a logger that prints nothing
func Discard() *Logger {
	return New(io.Discard, zerolog.Nop())
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	label := color.New(color.FgGreen).Sprint("Fixed:")
	if op.DryRun {
		label = color.New(color.FgYellow).Sprint("Would fix:")
	}
	return fmt.Sprintf("%*s%s %s", fileIndent, "", label, op.Path)
}

// 📝 LogFileOperation logs a rewritten file
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Debug().
		Str("file", op.Path).
		Int("replacements", op.Replacements).
		Bool("dry_run", op.DryRun).
		Msg("file fixed")
}

// 📝 LogDiff prints a line diff under the last file operation
func (l *Logger) LogDiff(diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			line = color.New(color.FgGreen).Sprint(line)
		case strings.HasPrefix(line, "-"):
			line = color.New(color.FgRed).Sprint(line)
		}
		fmt.Fprintf(l.console, "%*s%s\n", diffIndent, "", line)
	}
}

// 📝 Header prints the banner that opens a fix pass
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Summary prints the closing count of a fix pass
func (l *Logger) Summary(count int, dryRun bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf("Fixed %d files!", count)
	if dryRun {
		msg = fmt.Sprintf("Would fix %d files", count)
	}
	fmt.Fprintf(l.console, "\n%s %s\n", color.New(color.FgCyan).Sprint("✨"), msg)

	l.zlog.Debug().Int("files", count).Bool("dry_run", dryRun).Msg("fix pass complete")
}

// 📝 Operations returns the file operations logged so far
func (l *Logger) Operations() []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]FileOperation(nil), l.operations...)
}
