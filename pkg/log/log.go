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
	pairIndent  = 4  // spaces to indent pair entries
	inputWidth  = 35 // base width for the input column
	statusWidth = 12 // width for status text
)

// 🎯 PairOperation represents one processed source/destination pair
type PairOperation struct {
	Input     string // input endpoint ("-" for stdin)
	Output    string // output endpoint ("-" for stdout)
	Failed    bool   // whether processing the pair failed
	CleanedUp bool   // whether the destination file was removed afterwards
}

// 📦 BatchOperation represents a directory batch being processed
type BatchOperation struct {
	Source      string // source directory
	Destination string // destination directory
	Total       int    // number of pairs in the batch
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BatchOperation
	operations []PairOperation
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

// 📝 formatPairOperation formats a pair operation for display
func (l *Logger) formatPairOperation(op PairOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	var status string
	switch {
	case op.Failed && op.CleanedUp:
		symbol = '✗'
		symbolColor = color.FgRed
		status = "cleaned up"
	case op.Failed:
		symbol = '✗'
		symbolColor = color.FgRed
		status = "failed"
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
		status = "written"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", pairIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", inputWidth, op.Input),
		color.New(color.Faint).Sprint("→ "+op.Output),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", statusWidth, status)))
}

// 📝 LogPairOperation logs one processed pair
func (l *Logger) LogPairOperation(ctx context.Context, op PairOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatPairOperation(op))

	l.zlog.Info().
		Str("input", op.Input).
		Str("output", op.Output).
		Bool("failed", op.Failed).
		Bool("cleaned_up", op.CleanedUp).
		Msg("pair operation")
}

// 📝 StartBatch starts a directory batch
func (l *Logger) StartBatch(ctx context.Context, op BatchOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[processing %s]\n",
		color.New(color.FgCyan).Sprint(op.Source))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d files", op.Total),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Destination))

	l.zlog.Info().
		Str("source", op.Source).
		Str("destination", op.Destination).
		Int("total", op.Total).
		Msg("starting batch")
}

// 📝 EndBatch ends the current batch
func (l *Logger) EndBatch(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	failed := 0
	for _, op := range l.operations {
		if op.Failed {
			failed++
		}
	}

	l.zlog.Info().
		Str("source", l.currentOp.Source).
		Int("pairs", len(l.operations)).
		Int("failed", failed).
		Msg("batch complete")

	l.currentOp = nil
	l.operations = nil
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
	pairioText := color.New(color.Bold, color.FgCyan).Sprint("pairio")
	fmt.Fprintf(l.console, "\n%s %s\n\n", pairioText, color.New(color.Faint).Sprint("• "+msg))
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
