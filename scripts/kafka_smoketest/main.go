// Command kafka_smoketest publishes one deposit status event through the
// Kafka forwarder and reads it back from the topic.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infraeventbus "github.com/amirasaad/usdtgate/infra/eventbus"
	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// RunSmokeTest round-trips a StatusChanged event through brokers.
func RunSmokeTest(ctx context.Context, logger *slog.Logger) error {
	brokers := envOr("BROKERS", "localhost:9092")
	topic := envOr("TOPIC", "usdtgate.deposit.status.smoketest")

	pub, err := infraeventbus.NewKafkaPublisher(ctx, infraeventbus.KafkaConfig{
		Brokers: brokers,
		Topic:   topic,
	}, logger)
	if err != nil {
		return err
	}
	defer pub.Close() //nolint:errcheck

	sent := deposit.StatusChanged{
		SessionID: uuid.NewString(),
		Status:    deposit.StatusCompleted,
		At:        time.Now().UTC(),
	}
	if err := pub.Publish(ctx, sent); err != nil {
		return err
	}
	logger.Info("produced", "topic", topic, "session_id", sent.SessionID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     strings.Split(brokers, ","),
		GroupID:     "usdtgate-smoketest-" + sent.SessionID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	defer r.Close() //nolint:errcheck

	for {
		msg, err := r.FetchMessage(ctx)
		if err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		_ = r.CommitMessages(ctx, msg)
		if string(msg.Key) != sent.SessionID {
			continue
		}

		var env struct {
			Type    string                `json:"type"`
			Payload deposit.StatusChanged `json:"payload"`
		}
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			return fmt.Errorf("invalid envelope: %w", err)
		}
		if env.Type != deposit.EventStatusChanged || env.Payload.Status != sent.Status {
			return fmt.Errorf("unexpected event %s/%s", env.Type, env.Payload.Status)
		}
		logger.Info("consumed", "topic", topic, "session_id", env.Payload.SessionID, "status", env.Payload.Status)
		return nil
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := RunSmokeTest(ctx, logger); err != nil {
		logger.Error("kafka smoke test failed", "error", err)
		os.Exit(1)
	}
	logger.Info("kafka smoke test passed")
}
