package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool is a classic buffer pool pattern that allows more clever reuse of heap memory.
// Instead of allocating new memory everytime we need to encode an event we
// reuse buffers from this buffer pool.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"

	ledgerGeneratedKey = "ledger.generated"
	ledgerRequestedKey = "ledger.requested"
)

// LedgerGeneratedEvent is published once the records of a charge were
// persisted for the first time.
type LedgerGeneratedEvent struct {
	ChargeID      uuid.UUID             `json:"charge_id"`
	OwnerID       uuid.UUID             `json:"owner_id"`
	GeneratorKind string                `json:"generator_kind"`
	Records       []models.LedgerRecord `json:"records"`
}

// LedgerRequest asks for the ledger of a charge to be generated and stored.
type LedgerRequest struct {
	ChargeID uuid.UUID `json:"charge_id"`
}

type LedgerRequestHandler = func(ctx context.Context, request LedgerRequest) error

type Client interface {
	PublishLedgerGenerated(ctx context.Context, event LedgerGeneratedEvent) error
	ConsumeLedgerRequests(ctx context.Context, handler LedgerRequestHandler) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	ledgerExchange      string
	requestsQueueName   string
	exchangeDeclaredMtx sync.Mutex
	exchangeDeclared    bool
}

type ClientOption = func(client *DefaultClient)

func WithLedgerExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.ledgerExchange = exchange
	}
}

func WithLedgerRequestsQueueName(name string) ClientOption {
	return func(client *DefaultClient) {
		client.requestsQueueName = name
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	client := &DefaultClient{
		amqpClient: amqpClient,

		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),

		ledgerExchange:    "ledgerhub_ledger",
		requestsQueueName: "ledgerhub_ledger_requests",
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

func (client *DefaultClient) declareExchange() error {
	client.exchangeDeclaredMtx.Lock()
	defer client.exchangeDeclaredMtx.Unlock()
	if client.exchangeDeclared {
		return nil
	}
	err := client.amqpClient.ExchangeDeclare(
		client.ledgerExchange,
		// topic is a type of exchange that allows routing messages to different queue's bases on a routing key
		"topic",
		// Durable and Non-Auto-Deleted exchanges will survive server restarts and remain
		// declared when there are no remaining bindings.
		true,
		false,
		// Non-Internal exchange's accept direct publishing
		false,
		// Nowait: We set this to false as we want to wait for a server response
		// to check whether the exchange was created succesfully
		false,
		nil,
	)
	if err != nil {
		return err
	}
	client.exchangeDeclared = true
	return nil
}

func (client *DefaultClient) PublishLedgerGenerated(ctx context.Context, event LedgerGeneratedEvent) error {
	if err := client.declareExchange(); err != nil {
		captureErr(client.logger, err)
		return err
	}

	payload := bufPool.Get().(*bytes.Buffer)
	defer func() {
		payload.Reset()
		bufPool.Put(payload)
	}()
	err := json.NewEncoder(payload).Encode(event)
	if err != nil {
		return err
	}

	err = client.amqpClient.PublishWithContext(ctx,
		client.ledgerExchange,
		ledgerGeneratedKey,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		captureErr(client.logger, err)
		return err
	}

	client.logger.Debugf("Successfully published %d ledger records of charge %s to rabbitmq", len(event.Records), event.ChargeID)

	return nil
}

// ConsumeLedgerRequests blocks and hands every ledger request to handler
// until ctx is cancelled. Requests that cannot be decoded are dropped,
// failed ones are requeued once.
func (client *DefaultClient) ConsumeLedgerRequests(ctx context.Context, handler LedgerRequestHandler) error {
	deliveries, err := client.amqpClient.Listen(ctx, client.ledgerExchange, ledgerRequestedKey, client.requestsQueueName)
	if err != nil {
		return err
	}

	client.logger.Info("Starting ledger request consumer")

	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("rabbitmq: ledger request deliveries channel closed")
			}
			var request LedgerRequest
			err := json.Unmarshal(delivery.Body, &request)
			if err != nil {
				captureErr(client.logger, err)
				// malformed payloads can never succeed
				delivery.Nack(false, false)
				continue
			}

			err = handler(ctx, request)
			if err != nil {
				captureErr(client.logger, err)
				delivery.Nack(false, !delivery.Redelivered)
				continue
			}
			delivery.Ack(false)
		}
	}
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
