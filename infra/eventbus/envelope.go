// Package eventbus forwards in-process domain events to external streams.
package eventbus

import (
	"encoding/json"
	"fmt"

	"github.com/amirasaad/usdtgate/pkg/eventbus"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// keyed events carry a partition key, typically the session id.
type keyed interface {
	Key() string
}

func buildEnvelope(event eventbus.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	env := envelope{Type: event.Type(), Payload: data}
	envBytes, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("envelope marshal failed: %w", err)
	}
	return envBytes, nil
}

func keyOf(event eventbus.Event) string {
	if k, ok := event.(keyed); ok {
		return k.Key()
	}
	return event.Type()
}
