package rating

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
	Svc feedbacksvc.RatingService
	Agg feedbacksvc.Aggregator
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/ratings
func (h *Controller) Submit(c echo.Context) error {
	var req model.SubmitRatingReq
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

	rt, err := h.Svc.Submit(c.Request().Context(), req.BookID, uid, req.Rating, req.ReviewText)
	if err != nil {
		switch feedbacksvc.Code(err) {
		case feedbacksvc.ErrBookNotFound, feedbacksvc.ErrPatronNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
		default:
			h.Log.Error("rating submit", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rt})
}

// GET /v1/books/:id/ratings
func (h *Controller) ForBook(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	limit := atoiDefault(c.QueryParam("limit"), 10)
	offset := atoiDefault(c.QueryParam("offset"), 0)

	ratings, stats, err := h.Svc.ForBook(c.Request().Context(), bookID, limit, offset)
	if err != nil {
		h.Log.Error("ratings for book", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ratings": ratings,
		"stats":   stats,
		"pagination": echo.Map{
			"limit":  limit,
			"offset": offset,
			"total":  stats.TotalRatings,
		},
	})
}

// GET /v1/books/:id/ratings/stats
func (h *Controller) Stats(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	stats, err := h.Agg.Stats(c.Request().Context(), bookID)
	if err != nil {
		h.Log.Error("rating stats", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stats})
}

// GET /v1/ratings/my
func (h *Controller) Mine(c echo.Context) error {
	uid, _ := c.Get("patron_id").(int64)
	limit := atoiDefault(c.QueryParam("limit"), 10)
	offset := atoiDefault(c.QueryParam("offset"), 0)

	ratings, err := h.Svc.ForPatron(c.Request().Context(), uid, limit, offset)
	if err != nil {
		h.Log.Error("my ratings", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": ratings})
}

// GET /v1/ratings/books/:bookId
func (h *Controller) MineForBook(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("patron_id").(int64)

	rt, err := h.Svc.Mine(c.Request().Context(), bookID, uid)
	if err != nil {
		if feedbacksvc.Code(err) == feedbacksvc.ErrRatingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rating not found"})
		}
		h.Log.Error("my rating for book", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rt})
}

// DELETE /v1/ratings/books/:bookId
func (h *Controller) Delete(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil || bookID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, _ := c.Get("patron_id").(int64)

	if err := h.Svc.Delete(c.Request().Context(), bookID, uid, uid); err != nil {
		switch feedbacksvc.Code(err) {
		case feedbacksvc.ErrRatingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rating not found"})
		case feedbacksvc.ErrNotOwner:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		default:
			h.Log.Error("rating delete", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "rating deleted"})
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
