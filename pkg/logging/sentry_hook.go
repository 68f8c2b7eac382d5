package logging

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/openHPI/herostore/pkg/dto"
	"github.com/sirupsen/logrus"
)

// SentryHook is a simple adapter that converts logrus entries into Sentry events.
type SentryHook struct{}

// Fire is triggered on new log entries.
func (hook *SentryHook) Fire(entry *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Timestamp = entry.Time
	event.Level = sentry.Level(entry.Level.String())
	event.Message = entry.Message

	// Add Stack Trace when an error was passed.
	if data, ok := entry.Data["error"]; ok {
		err, ok := data.(error)
		if ok {
			const maxErrorDepth = 10
			event.SetException(err, maxErrorDepth)
			entry.Data["error"] = err.Error()
		}
	}

	var hub *sentry.Hub
	if entry.Context != nil {
		hub = sentry.GetHubFromContext(entry.Context)
	}
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.Scope().SetContext("Herostore Details", entry.Data)
	if heroID, ok := entry.Data[dto.KeyHeroID].(string); ok {
		hub.Scope().SetTag(dto.KeyHeroID, heroID)
	}
	if operation, ok := entry.Data[dto.KeyOperation].(string); ok {
		hub.Scope().SetTag(dto.KeyOperation, operation)
	}

	hub.CaptureEvent(event)
	return nil
}

// Levels returns all levels this hook should be registered to.
func (hook *SentryHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	}
}

func StartSpan(op, description string, ctx context.Context, callback func(context.Context)) {
	span := sentry.StartSpan(ctx, op)
	span.Description = description
	defer span.Finish()
	callback(span.Context())
}
