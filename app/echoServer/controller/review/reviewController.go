package review

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hamiltonroad/checked-out/model"
	feedbacksvc "github.com/hamiltonroad/checked-out/service/feedback"
)

type Controller struct {
	Svc feedbacksvc.ReviewService
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/books/:id/reviews
func (h *Controller) Create(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req model.CreateReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("patron_id").(int64)

	rv, err := h.Svc.Create(c.Request().Context(), bookID, uid, req.Rating, req.ReviewText)
	if err != nil {
		switch feedbacksvc.Code(err) {
		case feedbacksvc.ErrBookNotFound, feedbacksvc.ErrPatronNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		case feedbacksvc.ErrDuplicateReview:
			return c.JSON(http.StatusConflict, echo.Map{"message": "you have already reviewed this book"})
		default:
			h.Log.Error("review create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": rv})
}

// PUT /v1/reviews/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req model.UpdateReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("patron_id").(int64)

	rv, err := h.Svc.Update(c.Request().Context(), id, uid, req.Rating, req.ReviewText)
	if err != nil {
		switch feedbacksvc.Code(err) {
		case feedbacksvc.ErrReviewNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		case feedbacksvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you can only edit your own reviews"})
		default:
			h.Log.Error("review update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rv})
}

// DELETE /v1/reviews/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("patron_id").(int64)

	if err := h.Svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch feedbacksvc.Code(err) {
		case feedbacksvc.ErrReviewNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		case feedbacksvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "you can only delete your own reviews"})
		default:
			h.Log.Error("review delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /v1/books/:id/reviews
func (h *Controller) ListByBook(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	limit := atoiDefault(c.QueryParam("limit"), 10)
	offset := atoiDefault(c.QueryParam("offset"), 0)

	reviews, total, err := h.Svc.ListByBook(c.Request().Context(), bookID, limit, offset)
	if err != nil {
		if feedbacksvc.Code(err) == feedbacksvc.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		}
		h.Log.Error("reviews for book", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reviews": reviews,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
