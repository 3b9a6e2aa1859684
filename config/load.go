package config

import (
	"log/slog"
	"os"
	"time"
)

func Load() App {
	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		Env:         getenv("APP_ENV", "dev"),

		AggregatorBaseURL:  getenv("AGGREGATOR_BASE_URL", "https://sandbox.plaid.com"),
		AggregatorClientID: os.Getenv("AGGREGATOR_CLIENT_ID"),
		AggregatorSecret:   os.Getenv("AGGREGATOR_SECRET"),

		PaymentsBaseURL:       getenv("PAYMENTS_BASE_URL", "https://api.xendit.co"),
		PaymentsAPIKey:        os.Getenv("PAYMENTS_API_KEY"),
		PaymentsCallbackToken: os.Getenv("PAYMENTS_CALLBACK_TOKEN"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getenv("AMQP_EXCHANGE", "centive"),

		FeedSyncInterval:       getdur("FEED_SYNC_INTERVAL", 5*time.Minute),
		DonationPendingTimeout: getdur("DONATION_PENDING_TIMEOUT", 24*time.Hour),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration env, using default", "key", k, "value", v)
		return def
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
