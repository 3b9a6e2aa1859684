package echoServer

import (
	"net/http"

	"github.com/Kaboom2025/Centive/app/echoServer/controller/auth"
	"github.com/Kaboom2025/Centive/app/echoServer/controller/bank"
	"github.com/Kaboom2025/Centive/app/echoServer/controller/charity"
	"github.com/Kaboom2025/Centive/app/echoServer/controller/donation"
	"github.com/Kaboom2025/Centive/app/echoServer/controller/payment"
	"github.com/Kaboom2025/Centive/app/echoServer/controller/settings"
	"github.com/Kaboom2025/Centive/app/echoServer/controller/transaction"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth        *auth.Controller
	Bank        *bank.Controller
	Transaction *transaction.Controller
	Charity     *charity.Controller
	Settings    *settings.Controller
	Donation    *donation.Controller
	Payment     *payment.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// payment executor callback
	pub.POST("/payments/callback", c.Payment.HandleCallback)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization:Bearer ",
	}))
	// user_id / role extraction from verified claims
	authed.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", int64(sub))
			if role, ok := claims["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Bank linking
	authed.POST("/bank/link_token", c.Bank.CreateLinkToken)
	authed.POST("/bank/exchange", c.Bank.Exchange)
	authed.GET("/bank/accounts", c.Bank.List)
	authed.DELETE("/bank/accounts/:id", c.Bank.Disconnect)

	// Transactions
	authed.POST("/transactions/feed", c.Transaction.IngestFeed)
	authed.GET("/transactions", c.Transaction.List)

	// Charity directory
	authed.GET("/charities", c.Charity.Search)
	authed.GET("/charities/categories", c.Charity.Categories)
	authed.GET("/charities/:id", c.Charity.Detail)
	authed.POST("/charities/:id/select", c.Charity.Select)
	// Admin endpoint
	authed.POST("/charities", c.Charity.Create)

	// Settings
	authed.GET("/settings", c.Settings.Get)
	authed.PATCH("/settings", c.Settings.Update)

	// Donations & dashboard
	authed.GET("/donations", c.Donation.History)
	authed.GET("/stats", c.Donation.Stats)
	authed.GET("/ledger", c.Donation.Balance)
}
