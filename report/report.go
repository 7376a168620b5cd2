// Package report delivers ds1307 transfer outcomes to a log or an MQTT
// broker.
package report

import (
	logger "github.com/d2r2/go-logger"

	"github.com/ajanata/softrtc/ds1307"
)

// Log is the part of a go-logger package logger that Logger uses.
type Log interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

var _ Log = logger.PackageLog(nil)

// Logger writes one line per event: successes at info level, failures at
// error level.
type Logger struct {
	Log Log
}

// NewLogger returns a Logger on a new go-logger package logger.
func NewLogger(pkg string, level logger.LogLevel) Logger {
	return Logger{Log: logger.NewPackageLogger(pkg, level)}
}

func (l Logger) Report(e ds1307.Event) {
	if e.Err != nil {
		l.Log.Errorf("%s", e)
		return
	}
	l.Log.Infof("%s", e)
}

// Multi hands each event to every reporter in turn.
type Multi []ds1307.Reporter

func (m Multi) Report(e ds1307.Event) {
	for _, r := range m {
		if r != nil {
			r.Report(e)
		}
	}
}
