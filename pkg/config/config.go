package config

import (
	"fmt"
	"time"

	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/pricing"
	"github.com/shopspring/decimal"
)

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

// Addr returns host:port for listening.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[usdtgate]"`
}

type Pricing struct {
	MinAmount        decimal.Decimal `envconfig:"MIN_AMOUNT" default:"500"`
	MaxAmount        decimal.Decimal `envconfig:"MAX_AMOUNT" default:"500000"`
	FeeRatePer500    decimal.Decimal `envconfig:"FEE_RATE_PER_500" default:"20"`
	DiscountFraction decimal.Decimal `envconfig:"DISCOUNT_FRACTION" default:"0.05"`
}

type Deposit struct {
	Address       string        `envconfig:"ADDRESS" default:"TMJCNQRMWaR7EG4jENd7xK1nkmHDSnqQaH"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"30m"`
	CheckDelay    time.Duration `envconfig:"CHECK_DELAY" default:"2s"`
	TransferDelay time.Duration `envconfig:"TRANSFER_DELAY" default:"3s"`
	Retention     time.Duration `envconfig:"RETENTION" default:"15m"`
}

type PriceFeed struct {
	USDT     decimal.Decimal `envconfig:"USDT" default:"1.00"`
	TRX      decimal.Decimal `envconfig:"TRX" default:"0.25"`
	Interval time.Duration   `envconfig:"INTERVAL" default:"30s"`
	Enabled  bool            `envconfig:"ENABLED" default:"true"`
}

// Redis is optional: an empty URL selects the in-memory session store.
type Redis struct {
	URL          string        `envconfig:"URL" default:""`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"usdtgate:session:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// Events configures where deposit status events are forwarded. Both sinks
// are optional.
type Events struct {
	RedisStream       string        `envconfig:"REDIS_STREAM" default:""`
	RedisStreamMaxLen int64         `envconfig:"REDIS_STREAM_MAX_LEN" default:"10000"`
	KafkaBrokers      string        `envconfig:"KAFKA_BROKERS" default:""`
	KafkaTopic        string        `envconfig:"KAFKA_TOPIC" default:"usdtgate.deposit.status"`
	KafkaUsername     string        `envconfig:"KAFKA_SASL_USERNAME" default:""`
	KafkaPassword     string        `envconfig:"KAFKA_SASL_PASSWORD" default:""`
	KafkaTLS          bool          `envconfig:"KAFKA_TLS_ENABLED" default:"false"`
	KafkaDialTimeout  time.Duration `envconfig:"KAFKA_DIAL_TIMEOUT" default:"5s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type App struct {
	Env           string        `envconfig:"APP_ENV" default:"development"`
	Server        *Server       `envconfig:"SERVER"`
	Log           *Log          `envconfig:"LOG"`
	Pricing       *Pricing      `envconfig:"PRICING"`
	Deposit       *Deposit      `envconfig:"DEPOSIT"`
	PriceFeed     *PriceFeed    `envconfig:"PRICE_FEED"`
	Redis         *Redis        `envconfig:"REDIS"`
	Events        *Events       `envconfig:"EVENTS"`
	RateLimit     *RateLimit    `envconfig:"RATE_LIMIT"`
	DebounceDelay time.Duration `envconfig:"DEBOUNCE_DELAY" default:"150ms"`
}

// PricingConfig builds the immutable pricing configuration.
func (a *App) PricingConfig() (pricing.Config, error) {
	return pricing.NewConfig(
		a.Pricing.MinAmount,
		a.Pricing.MaxAmount,
		a.Pricing.FeeRatePer500,
		a.Pricing.DiscountFraction,
	)
}

// DepositConfig returns the deposit flow timings.
func (a *App) DepositConfig() deposit.Config {
	return deposit.Config{
		DepositAddress: a.Deposit.Address,
		Timeout:        a.Deposit.Timeout,
		CheckDelay:     a.Deposit.CheckDelay,
		TransferDelay:  a.Deposit.TransferDelay,
		Retention:      a.Deposit.Retention,
	}
}
