package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Kaboom2025/Centive/model"
	settingssvc "github.com/Kaboom2025/Centive/service/settings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc settingssvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/settings
func (h *Controller) Get(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	p, err := h.Svc.Get(c.Request().Context(), userID)
	if err != nil {
		h.Log.Error("settings get failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}

// PATCH /v1/settings
// @Summary Partial preferences update; only fields present in the body change
func (h *Controller) Update(c echo.Context) error {
	var req model.UpdatePreferencesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"threshold_minor_units": "500 to 5000", "multiplier": "1 to 5", "notify_method": "email|app|both"},
		})
	}
	userID := c.Get("user_id").(int64)
	p, err := h.Svc.Update(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, settingssvc.ErrInvalidUpdate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
		}
		h.Log.Error("settings update failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, p)
}
