package eventbus_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/usdtgate/pkg/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinged struct{ n int }

func (pinged) Type() string { return "Pinged" }

type other struct{}

func (other) Type() string { return "Other" }

func TestBus_PublishInOrder(t *testing.T) {
	bus := eventbus.New(nil)
	var got []string
	bus.Subscribe("Pinged", func(_ context.Context, e eventbus.Event) error {
		got = append(got, "first")
		assert.Equal(t, 7, e.(pinged).n)
		return nil
	})
	bus.Subscribe("Pinged", func(context.Context, eventbus.Event) error {
		got = append(got, "second")
		return nil
	})
	bus.Subscribe("Other", func(context.Context, eventbus.Event) error {
		got = append(got, "other")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), pinged{n: 7}))
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBus_NoSubscribers(t *testing.T) {
	assert.NoError(t, eventbus.New(nil).Publish(context.Background(), other{}))
}

func TestBus_JoinsHandlerErrors(t *testing.T) {
	bus := eventbus.New(nil)
	boom := errors.New("boom")
	calls := 0
	bus.Subscribe("Pinged", func(context.Context, eventbus.Event) error {
		calls++
		return boom
	})
	bus.Subscribe("Pinged", func(context.Context, eventbus.Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), pinged{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
