package logger

import "log/slog"

// Sink forwards geocoding diagnostics to a slog.Logger.
type Sink struct {
	l *slog.Logger
}

// NewSink wraps l. A nil l logs through slog.Default at call time.
func NewSink(l *slog.Logger) *Sink {
	return &Sink{l: l}
}

func (s *Sink) Log(message, category string) {
	l := s.l
	if l == nil {
		l = slog.Default()
	}

	l.Info(message, "category", category)
}
