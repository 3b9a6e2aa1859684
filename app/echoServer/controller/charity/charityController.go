package charity

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Kaboom2025/Centive/model"
	charitysvc "github.com/Kaboom2025/Centive/service/charity"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc charitysvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "admin"
}

// POST /v1/charities  (admin)
func (h *Controller) Create(c echo.Context) error {
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	var req model.CreateCharityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"name": "required", "category": "required", "mission": "required"},
		})
	}
	created, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		h.Log.Error("charity create failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusCreated, created)
}

// GET /v1/charities?query=&category=
func (h *Controller) Search(c echo.Context) error {
	rows, err := h.Svc.Search(c.Request().Context(), c.QueryParam("query"), c.QueryParam("category"))
	if err != nil {
		h.Log.Error("charity search failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/charities/categories
func (h *Controller) Categories(c echo.Context) error {
	cats, err := h.Svc.Categories(c.Request().Context())
	if err != nil {
		h.Log.Error("charity categories failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": cats})
}

// GET /v1/charities/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, charitysvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "charity not found"})
		}
		h.Log.Error("charity detail failed", "err", err, "charity_id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, row)
}

// POST /v1/charities/:id/select
func (h *Controller) Select(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	userID := c.Get("user_id").(int64)
	if err := h.Svc.Select(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, charitysvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "charity not found"})
		}
		h.Log.Error("charity select failed", "err", err, "user_id", userID, "charity_id", id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "charity selected"})
}
