// Package testutils builds a fully wired Fiber app for handler tests.
package testutils

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/amirasaad/usdtgate/infra/cache"
	"github.com/amirasaad/usdtgate/pkg/app"
	"github.com/amirasaad/usdtgate/pkg/config"
	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/metrics"
	"github.com/amirasaad/usdtgate/pkg/pricefeed"
	"github.com/amirasaad/usdtgate/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

// NoSleep skips the payment check delays.
func NoSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// APITestSuite provides a test suite with an in-memory session store.
type APITestSuite struct {
	suite.Suite
	App    *app.App
	Fiber  *fiber.App
	Config *config.App
	Store  *cache.MemorySessionStore
}

func (s *APITestSuite) SetupTest() {
	s.Setup(deposit.WithSleep(NoSleep))
}

// Setup rebuilds the app with the given deposit options. Suites needing a
// custom clock or sleep call it from their own SetupTest.
func (s *APITestSuite) Setup(opts ...deposit.Option) {
	s.TearDownTest()
	cfg, err := config.Load()
	s.Require().NoError(err)
	s.Config = cfg

	s.Store = cache.NewMemorySessionStore()
	deps := &app.Deps{
		Store:   s.Store,
		Feed:    pricefeed.New(cfg.PriceFeed.USDT, cfg.PriceFeed.TRX, 0),
		Metrics: metrics.New(),
		Logger:  slog.Default(),
	}
	s.App, err = app.New(deps, cfg, opts...)
	s.Require().NoError(err)
	s.Fiber = webapi.SetupApp(s.App)
}

func (s *APITestSuite) TearDownTest() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}

// MakeRequest is a helper for making HTTP requests in tests
func (s *APITestSuite) MakeRequest(method, path, body string) *http.Response {
	return MakeRequest(s.Fiber, method, path, body)
}

// MakeRequest sends a request through app.Test. A non-empty body is sent as JSON.
func MakeRequest(app *fiber.App, method, path, body string) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}
