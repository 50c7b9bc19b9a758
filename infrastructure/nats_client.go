package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// NATSClient publishes to JetStream subjects
type NATSClient struct {
	servers              string
	nc                   *nats.Conn
	js                   nats.JetStreamContext
	reconnectDelay       time.Duration
	maxReconnectAttempts int
}

// NewNATSClient creates a new NATS client
func NewNATSClient(servers string) *NATSClient {
	return &NATSClient{
		servers:              servers,
		reconnectDelay:       2 * time.Second,
		maxReconnectAttempts: 10,
	}
}

// Connect establishes a connection to the NATS server with JetStream
func (c *NATSClient) Connect(ctx context.Context) error {
	opts := []nats.Option{
		nats.Name("rewards"),
		nats.MaxReconnects(c.maxReconnectAttempts),
		nats.ReconnectWait(c.reconnectDelay),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(c.servers, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	c.nc = nc
	c.js = js

	log.WithField("servers", c.servers).Info("Connected to NATS with JetStream")
	return nil
}

// EnsureStream creates the stream if it does not exist yet
func (c *NATSClient) EnsureStream(streamName string, subjects []string) error {
	if c.js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	_, err := c.js.StreamInfo(streamName)
	if err == nil {
		log.WithField("stream", streamName).Info("JetStream stream already exists")
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", streamName, err)
	}

	cfg := &nats.StreamConfig{
		Name:        streamName,
		Subjects:    subjects,
		Retention:   nats.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Description: "Rewards ledger and withdrawal events",
	}

	if _, err := c.js.AddStream(cfg); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", streamName, err)
	}

	log.WithFields(log.Fields{
		"stream":   streamName,
		"subjects": subjects,
	}).Info("Created JetStream stream")
	return nil
}

// Publish publishes a message to the specified subject using JetStream. msgID
// lets the server drop duplicates inside its dedupe window.
func (c *NATSClient) Publish(ctx context.Context, subject, msgID string, data []byte) error {
	if c.js == nil {
		return fmt.Errorf("not connected to NATS JetStream")
	}

	if _, err := c.js.Publish(subject, data, nats.MsgId(msgID), nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
	}

	log.WithFields(log.Fields{
		"subject": subject,
		"size":    len(data),
	}).Debug("Published message to NATS")
	return nil
}

// IsConnected returns true if the client is connected to NATS
func (c *NATSClient) IsConnected() bool {
	return c.nc != nil && c.nc.IsConnected()
}

// Close drains pending publishes and closes the connection
func (c *NATSClient) Close() error {
	if c.nc == nil {
		return nil
	}
	if err := c.nc.Drain(); err != nil {
		c.nc.Close()
		return fmt.Errorf("failed to drain NATS connection: %w", err)
	}
	log.Info("NATS connection closed")
	return nil
}
