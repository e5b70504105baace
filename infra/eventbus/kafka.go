package eventbus

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/usdtgate/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers      string
	Topic        string
	SASLUsername string
	SASLPassword string
	TLSEnabled   bool
	DialTimeout  time.Duration
}

// KafkaPublisher writes events to one Kafka topic, keyed by session id.
type KafkaPublisher struct {
	brokers []string
	topic   string
	writer  *kafka.Writer
	dialer  *kafka.Dialer
	logger  *slog.Logger
}

// NewKafkaPublisher builds a writer for cfg and checks that the first broker
// is reachable.
func NewKafkaPublisher(ctx context.Context, cfg KafkaConfig, logger *slog.Logger) (*KafkaPublisher, error) {
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: brokers are required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, fmt.Errorf("kafka publisher: topic is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialer, transport, err := newKafkaDialer(cfg)
	if err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	if transport != nil {
		writer.Transport = transport
	}

	p := &KafkaPublisher{
		brokers: brokers,
		topic:   cfg.Topic,
		writer:  writer,
		dialer:  dialer,
		logger:  logger.With("component", "kafka-publisher"),
	}
	if err := p.ping(ctx); err != nil {
		_ = p.Close()
		return nil, err
	}

	p.logger.Info("Kafka publisher initialized",
		"brokers", brokers,
		"topic", cfg.Topic,
		"tls_enabled", dialer.TLS != nil,
		"sasl_enabled", dialer.SASLMechanism != nil,
	)
	return p, nil
}

// Publish implements eventbus.Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event eventbus.Event) error {
	envBytes, err := buildEnvelope(event)
	if err != nil {
		return fmt.Errorf("kafka publisher: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(keyOf(event)),
		Value: envBytes,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event", "error", err, "type", event.Type())
		return fmt.Errorf("kafka publisher: publish failed: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaPublisher) ping(ctx context.Context) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka publisher: connection failed: %w", err)
	}
	_ = conn.Close()
	return nil
}

func newKafkaDialer(cfg KafkaConfig) (*kafka.Dialer, *kafka.Transport, error) {
	mechanism, err := buildSASLMechanism(cfg)
	if err != nil {
		return nil, nil, err
	}
	var tlsConfig *tls.Config
	if cfg.TLSEnabled {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	dialer := &kafka.Dialer{
		Timeout:       timeout,
		TLS:           tlsConfig,
		SASLMechanism: mechanism,
	}
	if tlsConfig == nil && mechanism == nil {
		return dialer, nil, nil
	}
	return dialer, &kafka.Transport{TLS: tlsConfig, SASL: mechanism}, nil
}

func buildSASLMechanism(cfg KafkaConfig) (sasl.Mechanism, error) {
	username := strings.TrimSpace(cfg.SASLUsername)
	password := strings.TrimSpace(cfg.SASLPassword)
	if username == "" && password == "" {
		return nil, nil
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("kafka publisher: sasl username and password are required")
	}
	return plain.Mechanism{Username: username, Password: password}, nil
}

func parseBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
