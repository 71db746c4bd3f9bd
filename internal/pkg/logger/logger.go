package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

var global = zap.Must(zap.NewProduction()).Sugar()

// Init replaces the global logger; call once from main.
func Init(debug bool) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %s", err))
	}
	global = l.Sugar()
}

func Sync() {
	_ = global.Sync()
}

func Info(_ context.Context, msg string)  { global.Info(msg) }
func Warn(_ context.Context, msg string)  { global.Warn(msg) }
func Error(_ context.Context, msg string) { global.Error(msg) }

func Infof(_ context.Context, format string, args ...any)  { global.Infof(format, args...) }
func Warnf(_ context.Context, format string, args ...any)  { global.Warnf(format, args...) }
func Errorf(_ context.Context, format string, args ...any) { global.Errorf(format, args...) }

func Fatal(_ context.Context, err error) {
	if err != nil {
		global.Fatal(err.Error())
	}
}
