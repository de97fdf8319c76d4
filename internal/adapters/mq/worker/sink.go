package worker

import (
	"context"

	"github.com/okian/engage/pkg/logger"
)

// LogSink writes every notification to a logger.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink returns a sink logging through l.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.Discard()
	}
	return &LogSink{logger: l}
}

// Name implements Sink.
func (s *LogSink) Name() string { return "log" }

// Deliver implements Sink.
func (s *LogSink) Deliver(ctx context.Context, n Notification) error { //nolint:gocritic // hugeParam
	fields := []logger.Field{
		logger.String("kind", string(n.Kind)),
		logger.String("user", n.UserID),
	}
	switch {
	case n.Amount != 0:
		fields = append(fields, logger.Int("amount", n.Amount), logger.String("label", n.Label))
	case n.Tier != "":
		fields = append(fields, logger.String("tier", n.Tier))
	case n.EventName != "":
		fields = append(fields, logger.String("event", n.EventName))
	}
	s.logger.Info(ctx, "notification", fields...)
	return nil
}
