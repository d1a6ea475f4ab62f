package checkout

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/hamiltonroad/checked-out/model"
	checkoutsvc "github.com/hamiltonroad/checked-out/service/checkout"
)

type svcMock struct {
	createFn func(ctx context.Context, copyID, patronID int64) (*model.Checkout, error)
	returnFn func(ctx context.Context, checkoutID, patronID int64) (*model.Checkout, error)
}

func (m *svcMock) Create(ctx context.Context, copyID, patronID int64) (*model.Checkout, error) {
	return m.createFn(ctx, copyID, patronID)
}
func (m *svcMock) Return(ctx context.Context, checkoutID, patronID int64) (*model.Checkout, error) {
	return m.returnFn(ctx, checkoutID, patronID)
}

// svcErr mimics the service's coded errors from outside the package.
type svcErr struct {
	code checkoutsvc.ErrCode
	msg  string
}

func (e svcErr) Error() string             { return e.msg }
func (e svcErr) Code() checkoutsvc.ErrCode { return e.code }

func newController(svc checkoutsvc.Service) *Controller {
	return &Controller{Svc: svc, V: validator.New(), Log: slog.Default()}
}

func postJSON(t *testing.T, e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateBadJSON(t *testing.T) {
	c, rec := postJSON(t, echo.New(), "/v1/checkouts", "{not json")

	h := newController(&svcMock{})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateValidation(t *testing.T) {
	c, rec := postJSON(t, echo.New(), "/v1/checkouts", `{"copy_id": 0, "patron_id": 1}`)

	h := newController(&svcMock{})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUnknownPatronIs404(t *testing.T) {
	c, rec := postJSON(t, echo.New(), "/v1/checkouts", `{"copy_id": 1, "patron_id": 999}`)

	h := newController(&svcMock{
		createFn: func(ctx context.Context, copyID, patronID int64) (*model.Checkout, error) {
			return nil, svcErr{code: checkoutsvc.ErrPatronNotFound, msg: "Patron with ID 999 not found"}
		},
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Patron with ID 999 not found")
}

func TestCreateHappyPath(t *testing.T) {
	c, rec := postJSON(t, echo.New(), "/v1/checkouts", `{"copy_id": 3, "patron_id": 5}`)

	h := newController(&svcMock{
		createFn: func(ctx context.Context, copyID, patronID int64) (*model.Checkout, error) {
			require.Equal(t, int64(3), copyID)
			require.Equal(t, int64(5), patronID)
			return &model.Checkout{ID: 42, CopyID: copyID, PatronID: patronID}, nil
		},
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":42`)
}

func TestReturnForbiddenForNonOwner(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkouts/9/return", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("patron_id", int64(8))

	h := newController(&svcMock{
		returnFn: func(ctx context.Context, checkoutID, patronID int64) (*model.Checkout, error) {
			require.Equal(t, int64(9), checkoutID)
			require.Equal(t, int64(8), patronID)
			return nil, svcErr{code: checkoutsvc.ErrNotOwner, msg: "you can only return your own checkouts"}
		},
	})
	require.NoError(t, h.Return(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReturnAlreadyReturnedIs409(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkouts/9/return", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("9")
	c.Set("patron_id", int64(7))

	h := newController(&svcMock{
		returnFn: func(ctx context.Context, checkoutID, patronID int64) (*model.Checkout, error) {
			return nil, svcErr{code: checkoutsvc.ErrAlreadyReturned, msg: "checkout 9 is already returned"}
		},
	})
	require.NoError(t, h.Return(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}
