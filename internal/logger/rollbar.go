package logger

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
)

// RollbarLogger reports to rollbar and echoes to the standard logger.
type RollbarLogger struct {
	std *StdLogger
}

var _ Logger = (*RollbarLogger)(nil)

// RollbarConfig is the subset of settings the rollbar client needs.
type RollbarConfig struct {
	Token       string
	Environment string
	Host        string
	Version     string
}

func NewRollbarLogger(std *log.Logger, conf RollbarConfig) *RollbarLogger {
	rollbar.SetToken(conf.Token)
	rollbar.SetEnvironment(conf.Environment)
	rollbar.SetServerHost(conf.Host)
	rollbar.SetCodeVersion(conf.Version)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: NewStdLogger(std)}
}

func (l *RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close flushes queued reports.
func (l *RollbarLogger) Close() {
	rollbar.Close()
}

func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, msg)
	return append(out, args...)
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.std.Debug(msg, args...)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.std.Info(msg, args...)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.std.Warn(msg, args...)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.std.Error(msg, args...)
}

// New picks rollbar when a token is configured, the standard logger otherwise.
func New(std *log.Logger, conf RollbarConfig) Logger {
	if conf.Token == "" {
		return NewStdLogger(std)
	}
	return NewRollbarLogger(std, conf)
}
