package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	defaultAMQPBuffer  = 1024
	amqpPublishTimeout = 5 * time.Second
)

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes events to a RabbitMQ exchange from a single background goroutine.
// Emit only enqueues; when the buffer is full the event is dropped.
type AMQPSink struct {
	publisher amqpPublisher
	exchange  string
	closers   []io.Closer

	// guards closed against Emit, so nothing is enqueued after run drained the buffer
	mu      sync.RWMutex
	closed  bool
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// DialAMQPSink connects to the broker and declares a durable topic exchange.
func DialAMQPSink(url, exchange string, buffer int) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, multierr.Combine(fmt.Errorf("amqp channel: %w", err), conn.Close())
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, multierr.Combine(fmt.Errorf("declare exchange [%s]: %w", exchange, err), ch.Close(), conn.Close())
	}

	sink := NewAMQPSink(ch, exchange, buffer)
	sink.closers = []io.Closer{ch, conn}
	return sink, nil
}

func NewAMQPSink(publisher amqpPublisher, exchange string, buffer int) *AMQPSink {
	if buffer <= 0 {
		buffer = defaultAMQPBuffer
	}
	s := &AMQPSink{
		publisher: publisher,
		exchange:  exchange,
		events:    make(chan Event, buffer),
		done:      make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *AMQPSink) Emit(_ context.Context, event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.dropped.Add(1)
		return
	}

	select {
	case s.events <- event:
	default:
		s.dropped.Add(1)
		log.Warnf("analytics amqp sink full, dropping [%s] event", event.Kind)
	}
}

// Dropped returns the number of events that were never published.
func (s *AMQPSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close publishes what is already buffered, then closes the broker channel and connection.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()

	var err error
	for _, c := range s.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func (s *AMQPSink) run() {
	defer s.wg.Done()
	for {
		select {
		case event := <-s.events:
			s.publish(event)
		case <-s.done:
			for {
				select {
				case event := <-s.events:
					s.publish(event)
				default:
					return
				}
			}
		}
	}
}

func (s *AMQPSink) publish(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Errorf("marshal analytics event [%s]: %s", event.Kind, err)
		s.dropped.Add(1)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), amqpPublishTimeout)
	defer cancel()

	err = s.publisher.PublishWithContext(ctx, s.exchange, RoutingKey(event.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
	})
	if err != nil {
		log.Errorf("publish analytics event [%s]: %s", event.Kind, err)
		s.dropped.Add(1)
	}
}

func RoutingKey(kind Kind) string {
	return "analytics." + kind.String()
}
