package payment

import (
	"io"
	"log/slog"
	"net/http"

	donationsvc "github.com/Kaboom2025/Centive/service/donation"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc donationsvc.Service
	Log *slog.Logger
}

// POST /v1/payments/callback
// @Summary Payment executor status callback (Pending -> Completed/Failed)
func (h *Controller) HandleCallback(c echo.Context) error {
	sig := c.Request().Header.Get("X-Callback-Token")
	raw, _ := io.ReadAll(c.Request().Body)

	if err := h.Svc.HandleCallback(c.Request().Context(), sig, raw); err != nil {
		h.Log.Error("payment callback error", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "callback rejected"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
