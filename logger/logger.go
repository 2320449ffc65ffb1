// Package logger is the printf-style logging facade of the module,
// backed by slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slog"
)

type Logger struct {
	sl  *slog.Logger
	ctx context.Context
}

func New(ctx context.Context) *Logger {
	return NewWithWriter(ctx, os.Stdout)
}

func NewWithWriter(ctx context.Context, w io.Writer) *Logger {
	return &Logger{
		sl:  slog.New(slog.NewTextHandler(w, nil)),
		ctx: ctx,
	}
}

// Sl exposes the underlying slog logger for callers that want
// structured attributes.
func (l Logger) Sl() *slog.Logger {
	return l.sl
}

func (l Logger) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.sl.ErrorCtx(l.ctx, msg)
}

func (l Logger) Warningf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.sl.WarnCtx(l.ctx, msg)
}

func (l Logger) Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.sl.InfoCtx(l.ctx, msg)
}

func (l Logger) Debugf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.sl.DebugCtx(l.ctx, msg)
}
