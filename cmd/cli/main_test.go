package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/usdtgate/pkg/config"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.App {
	t.Helper()
	color.NoColor = true
	cfg, err := config.Load()
	require.NoError(t, err)
	// long enough that only the final flush fires
	cfg.DebounceDelay = time.Hour
	return cfg
}

func TestRun_Usage(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.ErrorIs(t, run(cfg, nil, nil, &out), errUsage)
	require.ErrorIs(t, run(cfg, []string{"quote"}, nil, &out), errUsage)
	require.ErrorIs(t, run(cfg, []string{"nope"}, nil, &out), errUsage)
	require.ErrorIs(t, run(cfg, []string{"validate", "1000"}, nil, &out), errUsage)
}

func TestRun_Quote(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, run(cfg, []string{"quote", "1000"}, nil, &out))
	s := out.String()
	assert.Contains(t, s, "1,000.00 USDT")
	assert.Contains(t, s, "38.00 TRX")
	assert.Contains(t, s, "40.00 TRX")
	assert.Contains(t, s, "-2.00 TRX")
	assert.Contains(t, s, "Pay 38.00 TRX")
	assert.Contains(t, s, "(1.0K USDT)")
	assert.NotContains(t, s, "Rounded to")
}

func TestRun_QuoteRounded(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, run(cfg, []string{"quote", "1234.5"}, nil, &out))
	assert.Contains(t, out.String(), "1235 USDT")
	assert.Contains(t, out.String(), "1,234.50 USDT")
}

func TestRun_QuoteOutOfRange(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, run(cfg, []string{"quote", "100"}, nil, &out))
	assert.Contains(t, out.String(), "Minimum amount is 500 USDT")
	assert.Contains(t, out.String(), "Pay TRX Fee")
}

func TestRun_Validate(t *testing.T) {
	cfg := testConfig(t)

	t.Run("valid", func(t *testing.T) {
		var out bytes.Buffer
		err := run(cfg, []string{"validate", "1000", "a@b.co", "T" + strings.Repeat("a", 33)}, nil, &out)
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(out.String(), "✓ valid"))
	})

	t.Run("invalid", func(t *testing.T) {
		var out bytes.Buffer
		err := run(cfg, []string{"validate", "1000", "nope", "T0" + strings.Repeat("a", 32)}, nil, &out)
		require.ErrorIs(t, err, errInvalidForm)
		assert.Contains(t, out.String(), "Invalid email format")
		assert.Contains(t, out.String(), "Invalid TRC20 address format")
	})
}

func TestRun_InteractiveFlushesLastValue(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	in := strings.NewReader("5\n50\n500\n5000\n")
	require.NoError(t, run(cfg, []string{"interactive"}, in, &out))

	s := out.String()
	assert.Equal(t, 1, strings.Count(s, "You pay"))
	assert.Contains(t, s, "5,000.00 USDT")
}

func TestRun_InteractiveQuit(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	in := strings.NewReader("1000\nquit\n2000\n")
	require.NoError(t, run(cfg, []string{"interactive"}, in, &out))
	assert.Contains(t, out.String(), "1,000.00 USDT")
	assert.NotContains(t, out.String(), "2,000.00 USDT")
}
