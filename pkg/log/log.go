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
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	pathIndent  = 4  // spaces to indent per-path entries
	pathWidth   = 45 // base width for the relative path
	statusWidth = 15 // width for status text
)

// 🎯 PathEvent represents one reconciled path for logging
type PathEvent struct {
	Path      string // root-relative source path
	Message   string // outcome message
	Processed bool   // whether a mutation occurred (or would, in dry-run)
	Failed    bool   // whether a recoverable failure occurred
}

// 📦 TargetRun represents one target being synced
type TargetRun struct {
	Name        string // target name
	Destination string // destination path
	DryRun      bool   // whether this is a dry run
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *TargetRun
	events    []PathEvent
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
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

// 📝 formatPathEvent formats a path event for display
func (l *Logger) formatPathEvent(ev PathEvent) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case ev.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
	case ev.Processed:
		symbol = '✓'
		symbolColor = color.FgGreen
	default:
		symbol = '⊘'
		symbolColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", pathIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", pathWidth, ev.Path),
		fmt.Sprintf("%-*s", statusWidth, ev.Message))
}

// 📝 LogPathEvent logs one reconciled path
func (l *Logger) LogPathEvent(ctx context.Context, ev PathEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, ev)

	fmt.Fprintln(l.console, l.formatPathEvent(ev))

	l.zlog.Info().
		Str("path", ev.Path).
		Str("message", ev.Message).
		Bool("processed", ev.Processed).
		Bool("failed", ev.Failed).
		Msg("path reconciled")
}

// 📝 StartTarget starts a new target run
func (l *Logger) StartTarget(ctx context.Context, op TargetRun) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.events = nil

	mode := ""
	if op.DryRun {
		mode = color.New(color.Faint).Sprint(" (dry run)")
	}
	fmt.Fprintf(l.console, "[syncing %s]%s\n",
		color.New(color.FgCyan).Sprint(op.Name), mode)
	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.FgYellow).Sprint(op.Destination))

	l.zlog.Info().
		Str("target", op.Name).
		Str("destination", op.Destination).
		Bool("dry_run", op.DryRun).
		Msg("starting target run")
}

// 📝 EndTarget ends the current target run with aggregate counts
func (l *Logger) EndTarget(ctx context.Context, processed, skipped, errored int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgGreen).Sprint("✓"),
		fmt.Sprintf("processed %d, skipped %d, errors %d", processed, skipped, errored))

	l.zlog.Info().
		Str("target", l.currentOp.Name).
		Int("processed", processed).
		Int("skipped", skipped).
		Int("errors", errored).
		Msg("target run complete")

	l.currentOp = nil
	l.events = nil
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
	name := color.New(color.Bold, color.FgCyan).Sprint("arboribus")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
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

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
