package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about the run
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 🔍 LogOutcome logs the final outcome of a command
func (u *UserLogger) LogOutcome(ok bool, description string, err error) {
	if ok {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
		return
	}
	if err != nil {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
	} else {
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
		u.log.Warn().Msg(description)
	}
}

// 📊 LogPlanEntry logs one resolved pair during a dry run
func (u *UserLogger) LogPlanEntry(input, output string) {
	msg := fmt.Sprintf("%s → %s", input, output)
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📄"}).Println(msg)
	u.log.Info().Str("input", input).Str("output", output).Msg("planned pair")
}

// 📦 LogPlanDir logs the directory a dry run would create
func (u *UserLogger) LogPlanDir(path string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📁"}).Printf("would create %s\n", path)
	u.log.Info().Str("path", path).Msg("planned directory creation")
}
