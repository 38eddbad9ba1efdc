// Package kafka mirrors processed NEO rows to a Kafka topic after a
// successful export.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/neo-data-export/internal/config"
	"github.com/couchcryptid/neo-data-export/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces rows to the configured sink topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishRows serializes and publishes the dataset in a single WriteMessages
// call, keyed by asteroid ID.
func (w *Writer) PublishRows(ctx context.Context, dataset domain.Dataset) error {
	if len(dataset) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(dataset))
	for i := range dataset {
		msg, err := serializeToMessage(dataset[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a row into a Kafka message.
func serializeToMessage(row domain.Row) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.AsteroidID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazardous", Value: []byte(strconv.FormatBool(row.Hazardous))},
			{Key: "source", Value: []byte("neo-browse")},
		},
	}, nil
}
