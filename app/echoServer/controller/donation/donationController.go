package donation

import (
	"log/slog"
	"net/http"

	donationsvc "github.com/Kaboom2025/Centive/service/donation"
	ledgersvc "github.com/Kaboom2025/Centive/service/ledger"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc    donationsvc.Service
	Ledger ledgersvc.Service
	Log    *slog.Logger
}

// GET /v1/donations
func (h *Controller) History(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	rows, err := h.Svc.History(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("donation history failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/stats
// @Summary Dashboard stats: total donated, donation count, current accumulation
func (h *Controller) Stats(c echo.Context) error {
	userID := c.Get("user_id").(int64)

	stats, err := h.Svc.Stats(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("donation stats failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	state, err := h.Ledger.Balance(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("ledger balance failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_donated_minor_units": stats.TotalDonatedMinor,
		"donation_count":            stats.DonationCount,
		"accumulated_minor_units":   state.AccumulatedMinor,
	})
}

// GET /v1/ledger
func (h *Controller) Balance(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	state, err := h.Ledger.Balance(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("ledger balance failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, state)
}
