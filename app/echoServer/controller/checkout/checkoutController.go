package checkout

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hamiltonroad/checked-out/model"
	checkoutsvc "github.com/hamiltonroad/checked-out/service/checkout"
)

type Controller struct {
	Svc checkoutsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/checkouts
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateCheckoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Create(c.Request().Context(), req.CopyID, req.PatronID)
	if err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrPatronNotFound, checkoutsvc.ErrCopyNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("checkout create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"data": out})
}

// POST /v1/checkouts/:id/return
func (h *Controller) Return(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("patron_id").(int64)

	out, err := h.Svc.Return(c.Request().Context(), id, uid)
	if err != nil {
		switch checkoutsvc.Code(err) {
		case checkoutsvc.ErrCheckoutNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		case checkoutsvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case checkoutsvc.ErrAlreadyReturned:
			return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("checkout return", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}
