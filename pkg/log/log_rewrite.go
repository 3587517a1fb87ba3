package log

import "go.uber.org/zap"

func Info(args ...any) {
	global().Info(args...)
}

func Infof(format string, args ...any) {
	global().Infof(format, args...)
}

func Infow(msg string, keysAndValues ...any) {
	global().Infow(msg, keysAndValues...)
}

func Debug(args ...any) {
	global().Debug(args...)
}

func Debugw(msg string, keysAndValues ...any) {
	global().Debugw(msg, keysAndValues...)
}

func Warn(args ...any) {
	global().Warn(args...)
}

func Warnw(msg string, keysAndValues ...any) {
	global().Warnw(msg, keysAndValues...)
}

func Error(args ...any) {
	global().Error(args...)
}

func Errorf(format string, args ...any) {
	global().Errorf(format, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	global().Errorw(msg, keysAndValues...)
}

// With returns a child logger carrying the given key/value pairs.
func With(keysAndValues ...any) *zap.SugaredLogger {
	return global().With(keysAndValues...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = global().Sync()
}
