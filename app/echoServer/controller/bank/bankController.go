package bank

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	banksvc "github.com/Kaboom2025/Centive/service/bank"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc banksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/bank/link_token
// @Summary Create an aggregator link token for the bank-connection widget
// @Success 201 {object} map[string]any
func (h *Controller) CreateLinkToken(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	token, err := h.Svc.LinkToken(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("create link token failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "aggregator unavailable"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"link_token": token})
}

// POST /v1/bank/exchange
// @Summary Exchange a public token and store the linked accounts
// @Success 201 {object} map[string]any
func (h *Controller) Exchange(c echo.Context) error {
	var req ExchangeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"public_token": "required"},
		})
	}
	userID := c.Get("user_id").(int64)
	accounts, err := h.Svc.Exchange(c.Request().Context(), userID, req.PublicToken)
	if err != nil {
		h.Log.Error("token exchange failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusBadGateway, echo.Map{"message": "token exchange failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"accounts": accounts})
}

// GET /v1/bank/accounts
func (h *Controller) List(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	accounts, err := h.Svc.List(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("list accounts failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": accounts})
}

// DELETE /v1/bank/accounts/:id
func (h *Controller) Disconnect(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	userID := c.Get("user_id").(int64)
	if err := h.Svc.Disconnect(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, banksvc.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "account not found"})
		}
		h.Log.Error("disconnect failed", "err", err, "user_id", userID, "account_id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "disconnected"})
}
