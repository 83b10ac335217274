package log

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/sirupsen/logrus"
)

// NewWatermill adapts a logrus entry to watermill's LoggerAdapter.
func NewWatermill(entry *logrus.Entry) watermill.LoggerAdapter {
	return watermillAdapter{entry: entry}
}

type watermillAdapter struct {
	entry *logrus.Entry
}

func (a watermillAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.withFields(fields).WithError(err).Error(msg)
}

func (a watermillAdapter) Info(msg string, fields watermill.LogFields) {
	a.withFields(fields).Info(msg)
}

func (a watermillAdapter) Debug(msg string, fields watermill.LogFields) {
	a.withFields(fields).Debug(msg)
}

func (a watermillAdapter) Trace(msg string, fields watermill.LogFields) {
	a.withFields(fields).Trace(msg)
}

func (a watermillAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return watermillAdapter{entry: a.withFields(fields)}
}

func (a watermillAdapter) withFields(fields watermill.LogFields) *logrus.Entry {
	return a.entry.WithFields(logrus.Fields(fields))
}

// CorrelationPublisherDecorator copies the correlation ID from the message
// context into metadata, so consumers can log under the same ID.
type CorrelationPublisherDecorator struct {
	message.Publisher
}

func (d CorrelationPublisherDecorator) Publish(topic string, messages ...*message.Message) error {
	for i := range messages {
		if messages[i].Metadata.Get("correlation_id") == "" {
			messages[i].Metadata.Set("correlation_id", CorrelationIDFromContext(messages[i].Context()))
		}
	}
	return d.Publisher.Publish(topic, messages...)
}
