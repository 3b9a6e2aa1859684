package config

import "time"

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// bank data aggregator (Plaid-style API)
	AggregatorBaseURL  string `env:"AGGREGATOR_BASE_URL"`
	AggregatorClientID string `env:"AGGREGATOR_CLIENT_ID"`
	AggregatorSecret   string `env:"AGGREGATOR_SECRET"`

	// donation payment executor
	PaymentsBaseURL       string `env:"PAYMENTS_BASE_URL"`
	PaymentsAPIKey        string `env:"PAYMENTS_API_KEY"`
	PaymentsCallbackToken string `env:"PAYMENTS_CALLBACK_TOKEN"`

	// notification events (optional)
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" default:"centive"`

	// background workers
	FeedSyncInterval       time.Duration `env:"FEED_SYNC_INTERVAL" default:"5m"`
	DonationPendingTimeout time.Duration `env:"DONATION_PENDING_TIMEOUT" default:"24h"`
}
