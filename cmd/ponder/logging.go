package main

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/ponder"
)

// signals is every event the binary logs.
var signals = []capitan.Signal{
	ponder.ThoughtRecorded,
	ponder.ThoughtRejected,
	ponder.BranchCreated,
	ponder.HistoryCleared,
	ponder.ArchiveCompleted,
	ponder.ArchiveFailed,
}

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// hookSignals writes every ponder event to the logger. The returned func
// detaches the listeners.
func hookSignals(log zerolog.Logger) func() {
	listeners := make([]*capitan.Listener, 0, len(signals))
	for _, sig := range signals {
		listeners = append(listeners, capitan.Hook(sig, func(_ context.Context, e *capitan.Event) {
			logEvent(log, e)
		}))
	}
	return func() {
		for _, l := range listeners {
			l.Close()
		}
	}
}

func logEvent(log zerolog.Logger, e *capitan.Event) {
	ev := log.Info()
	if e.Severity() == capitan.SeverityError {
		ev = log.Error()
	}
	for _, f := range e.Fields() {
		switch v := f.Value().(type) {
		case error:
			ev = ev.AnErr(f.Key().Name(), v)
		case time.Duration:
			ev = ev.Dur(f.Key().Name(), v)
		default:
			ev = ev.Interface(f.Key().Name(), v)
		}
	}
	ev.Msg(e.Signal().Name())
}
