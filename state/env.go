// Package state defines shared program state.
package state

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"blockcss/config"
	"blockcss/scope"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by render subcommand
	NoDirs    bool
	Overwrite bool

	// used by compile and lint subcommands when no file is given
	Stdin  io.Reader
	Stdout io.Writer

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Fingerprint returns scope token settings from configuration.
func (e *LocalEnv) Fingerprint() scope.Fingerprint {
	if e.Cfg == nil {
		return scope.Fingerprint{Prefix: scope.DefaultPrefix, Length: scope.DefaultLength}
	}
	return scope.Fingerprint{Prefix: e.Cfg.Scope.Prefix, Length: e.Cfg.Scope.Length}
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
