package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"legaldraft-analyzer/internal/pkg/logger"
	"legaldraft-analyzer/internal/platform/rabbitmq"
	"legaldraft-analyzer/internal/storage"
)

// Connection opens AMQP channels. *amqp.Connection satisfies it.
type Connection interface {
	Channel() (*amqp.Channel, error)
}

// FeedbackExportWorker drains feedback events and writes each record as one
// JSON object to training storage.
type FeedbackExportWorker struct {
	conn      Connection
	store     storage.Storage
	queueName string
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewFeedbackExportWorker(conn Connection, store storage.Storage, queueName string, log *logger.Logger) *FeedbackExportWorker {
	if log == nil {
		log = logger.Nop()
	}
	return &FeedbackExportWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       log,
	}
}

// Start begins consuming. It is a no-op once a previous call succeeded; a
// failed call leaves the worker startable again.
func (w *FeedbackExportWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}
	if w.conn == nil {
		return fmt.Errorf("open worker channel failed: no connection")
	}

	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if _, err := w.Export(workerCtx, d.Body); err != nil {
					w.log.Error("feedback export failed", "error", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// Export decodes one event body and uploads its record. It returns the
// storage key.
func (w *FeedbackExportWorker) Export(ctx context.Context, body []byte) (string, error) {
	ev, err := rabbitmq.DecodeFeedbackEvent(body)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(ev.Record)
	if err != nil {
		return "", fmt.Errorf("marshal feedback record failed: %w", err)
	}

	filename := fmt.Sprintf("feedback-%d.json", ev.Record.ID)
	key, err := w.store.Upload(ctx, uuid.New(), filename, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	w.log.Info("feedback exported", "id", ev.Record.ID, "key", key)
	return key, nil
}

func (w *FeedbackExportWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
