package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"legaldraft-analyzer/internal/model"
)

const FeedbackRecordedType = "feedback.recorded"

// FeedbackEvent is the message body published for each saved record.
type FeedbackEvent struct {
	Type        string               `json:"type"`
	PublishedAt time.Time            `json:"published_at"`
	Record      model.FeedbackRecord `json:"record"`
}

type FeedbackPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewFeedbackPublisher(conn *amqp.Connection, queueName string) *FeedbackPublisher {
	return &FeedbackPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *FeedbackPublisher) Publish(ctx context.Context, record model.FeedbackRecord) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := EncodeFeedbackEvent(record, time.Now())
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         FeedbackRecordedType,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish feedback event failed: %w", err)
	}
	return nil
}

func EncodeFeedbackEvent(record model.FeedbackRecord, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(FeedbackEvent{
		Type:        FeedbackRecordedType,
		PublishedAt: at.UTC(),
		Record:      record,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal feedback event failed: %w", err)
	}
	return payload, nil
}

func DecodeFeedbackEvent(body []byte) (*FeedbackEvent, error) {
	var ev FeedbackEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal feedback event failed: %w", err)
	}
	if ev.Type != FeedbackRecordedType {
		return nil, fmt.Errorf("unexpected event type %q", ev.Type)
	}
	return &ev, nil
}
