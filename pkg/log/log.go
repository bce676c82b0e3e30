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
	"github.com/walteh/apirewrite/pkg/status"
)

// 🎯 Logger writes progress for people to the console and mirrors it to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func statusColor(s status.FileStatus) color.Attribute {
	switch s {
	case status.StatusModified:
		return color.FgGreen
	case status.StatusPreview:
		return color.FgBlue
	case status.StatusFailed:
		return color.FgRed
	default:
		return color.FgCyan
	}
}

// 📝 LogFileOperation prints the progress line for one file
func (l *Logger) LogFileOperation(ctx context.Context, rec status.FileRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := l.formatter.FormatFileOperation(rec)
	symbol, rest, _ := strings.Cut(line, " ")
	fmt.Fprintf(l.console, "%s %s\n", color.New(statusColor(rec.Status)).Sprint(symbol), rest)

	var event *zerolog.Event
	if rec.Err != nil {
		event = l.zlog.Error().Err(rec.Err)
	} else {
		event = l.zlog.Info()
	}
	event.
		Str("file", rec.Path).
		Stringer("status", rec.Status).
		Msg("file operation")
}

// 📝 LogSummary prints the processed/modified line after a blank line
func (l *Logger) LogSummary(ctx context.Context, s status.Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\n%s\n", color.New(color.Bold).Sprint(l.formatter.FormatSummary(s)))

	l.zlog.Info().
		Int("processed", s.Processed).
		Int("modified", s.Modified).
		Int("failed", s.Failed).
		Msg("rewrite pass complete")
}

// 📝 LogRemaining prints the verification pass: one line per file, then the
// total as a success when nothing is left and as a warning otherwise
func (l *Logger) LogRemaining(ctx context.Context, marker string, s status.Summary) {
	l.mu.Lock()
	for _, r := range s.Remaining {
		fmt.Fprintln(l.console, color.New(color.FgYellow).Sprint(l.formatter.FormatRemaining(r)))
		l.zlog.Warn().Str("file", r.Path).Int("remaining", r.Count).Msg("legacy calls remain")
	}
	l.mu.Unlock()

	total := s.RemainingTotal()
	l.LogNewline()
	if total == 0 {
		l.Success(l.formatter.FormatRemainingTotal(marker, total))
	} else {
		l.Warning(l.formatter.FormatRemainingTotal(marker, total))
	}
	l.zlog.Info().Int("remaining", total).Msg("verification pass complete")
}

// 📝 LogDiff prints a line diff, removals in red and additions in green
func (l *Logger) LogDiff(ctx context.Context, path string, diff string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s\n", color.New(color.Faint).Sprint("--- "+path))
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(l.console, color.New(color.FgGreen).Sprint(line))
		default:
			fmt.Fprintln(l.console, line)
		}
	}
	l.zlog.Debug().Str("file", path).Msg("diff printed")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("apirewrite")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Plain logs a message without a symbol
func (l *Logger) Plain(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, msg)
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Plainf logs a formatted message without a symbol
func (l *Logger) Plainf(format string, args ...interface{}) {
	l.Plain(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
