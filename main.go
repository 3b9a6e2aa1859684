// Package main Centive API.
//
// @title           Centive API
// @version         1.0
// @description     Round-up donations service (bank linking, transactions, ledger, donations).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kaboom2025/Centive/app/echoServer"
	authctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/auth"
	bankctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/bank"
	charityctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/charity"
	donationctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/donation"
	paymentctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/payment"
	settingsctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/settings"
	transactionctrl "github.com/Kaboom2025/Centive/app/echoServer/controller/transaction"
	"github.com/Kaboom2025/Centive/app/echoServer/validation"
	"github.com/Kaboom2025/Centive/config"
	aggregatorrepo "github.com/Kaboom2025/Centive/repository/aggregator"
	bankrepo "github.com/Kaboom2025/Centive/repository/bank"
	charityrepo "github.com/Kaboom2025/Centive/repository/charity"
	donationrepo "github.com/Kaboom2025/Centive/repository/donation"
	ledgerrepo "github.com/Kaboom2025/Centive/repository/ledger"
	"github.com/Kaboom2025/Centive/repository/notify"
	paymentsrepo "github.com/Kaboom2025/Centive/repository/payments"
	settingsrepo "github.com/Kaboom2025/Centive/repository/settings"
	transactionrepo "github.com/Kaboom2025/Centive/repository/transaction"
	userrepo "github.com/Kaboom2025/Centive/repository/user"
	authsvc "github.com/Kaboom2025/Centive/service/auth"
	banksvc "github.com/Kaboom2025/Centive/service/bank"
	charitysvc "github.com/Kaboom2025/Centive/service/charity"
	donationsvc "github.com/Kaboom2025/Centive/service/donation"
	feedsvc "github.com/Kaboom2025/Centive/service/feed"
	ledgersvc "github.com/Kaboom2025/Centive/service/ledger"
	settingssvc "github.com/Kaboom2025/Centive/service/settings"
	"github.com/Kaboom2025/Centive/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// notification events (optional)
	var pub *notify.Publisher
	if cfg.AMQPURL != "" {
		pub, err = notify.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn("AMQP unavailable, notifications disabled", "err", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	// repos
	ur := userrepo.New(db)
	lr := ledgerrepo.New(db)
	sr := settingsrepo.New(db)
	tr := transactionrepo.New(db)
	cr := charityrepo.New(db)
	dr := donationrepo.New(db)
	br := bankrepo.New(db)
	agg := aggregatorrepo.NewHTTP(cfg.AggregatorBaseURL, cfg.AggregatorClientID, cfg.AggregatorSecret)
	pay := paymentsrepo.NewHTTP(cfg.PaymentsBaseURL, cfg.PaymentsAPIKey, cfg.PaymentsCallbackToken)

	// services
	as := authsvc.New(db, ur, lr, sr, cfg.JWTSecret)
	ls := ledgersvc.New(lr, sr, log)
	ds := donationsvc.New(dr, pay, cr, sr, pub, log)
	fs := feedsvc.New(tr, sr, ls, ds, br, agg, log)
	cs := charitysvc.New(cr, sr)
	ss := settingssvc.New(sr)
	bs := banksvc.New(br, agg, log)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bankC := &bankctrl.Controller{Svc: bs, V: v, Log: log}
	transactionC := &transactionctrl.Controller{Feed: fs, History: tr, V: v, Log: log}
	charityC := &charityctrl.Controller{Svc: cs, V: v, Log: log}
	settingsC := &settingsctrl.Controller{Svc: ss, V: v, Log: log}
	donationC := &donationctrl.Controller{Svc: ds, Ledger: ls, Log: log}
	paymentC := &paymentctrl.Controller{Svc: ds, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Bank:        bankC,
		Transaction: transactionC,
		Charity:     charityC,
		Settings:    settingsC,
		Donation:    donationC,
		Payment:     paymentC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	// workers
	poller := feedsvc.NewPoller(br, fs, log)
	sweeper := donationsvc.NewSweeper(dr, cfg.DonationPendingTimeout, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "port", port, "env", cfg.Env)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return poller.Run(gctx, cfg.FeedSyncInterval)
	})
	g.Go(func() error {
		return sweeper.Run(gctx, time.Hour)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
