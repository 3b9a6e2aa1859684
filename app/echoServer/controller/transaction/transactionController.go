package transaction

import (
	"log/slog"
	"net/http"
	"strconv"

	transactionrepo "github.com/Kaboom2025/Centive/repository/transaction"
	feedsvc "github.com/Kaboom2025/Centive/service/feed"
	"github.com/Kaboom2025/Centive/service/ledger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Feed    feedsvc.Service
	History transactionrepo.Repo
	V       *validator.Validate
	Log     *slog.Logger
}

// POST /v1/transactions/feed
// @Summary Ingest a batch of raw feed records
// @Success 200 {object} feedsvc.IngestResult
// @Failure 400,409,503
func (h *Controller) IngestFeed(c echo.Context) error {
	var req FeedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"transactions": "1 to 500 records"},
		})
	}
	userID := c.Get("user_id").(int64)

	res, err := h.Feed.Ingest(c.Request().Context(), userID, req.Transactions)
	if err != nil {
		switch ledger.Code(err) {
		case ledger.ErrNoCharitySelected:
			return c.JSON(http.StatusConflict, echo.Map{"message": "no charity selected"})
		case ledger.ErrLedgerBusy:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "ledger busy, retry later"})
		}
		h.Log.Error("feed ingest failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, res)
}

// GET /v1/transactions
func (h *Controller) List(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	rows, err := h.History.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		h.Log.Error("transaction list failed", "err", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
