package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/hamiltonroad/checked-out/app/echoServer/controller/auth"
	"github.com/hamiltonroad/checked-out/app/echoServer/controller/book"
	"github.com/hamiltonroad/checked-out/app/echoServer/controller/checkout"
	"github.com/hamiltonroad/checked-out/app/echoServer/controller/rating"
	"github.com/hamiltonroad/checked-out/app/echoServer/controller/review"
	"github.com/hamiltonroad/checked-out/app/echoServer/jwtx"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Checkout  *checkout.Controller
	Rating    *rating.Controller
	Review    *review.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/patrons/register", c.Auth.Register)
	pub.POST("/patrons/login", c.Auth.Login)

	pub.GET("/books", c.Book.List)
	pub.GET("/books/:id", c.Book.Detail)
	pub.GET("/books/:id/ratings", c.Rating.ForBook)
	pub.GET("/books/:id/ratings/stats", c.Rating.Stats)
	pub.GET("/books/:id/reviews", c.Review.ListByBook)

	// Authenticated
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	authed.Use(patronID())

	authed.POST("/books", c.Book.Create)
	authed.POST("/books/:id/copies", c.Book.AddCopies)

	authed.POST("/checkouts", c.Checkout.Create)
	authed.POST("/checkouts/:id/return", c.Checkout.Return)

	authed.POST("/ratings", c.Rating.Submit)
	authed.GET("/ratings/my", c.Rating.Mine)
	authed.GET("/ratings/books/:bookId", c.Rating.MineForBook)
	authed.DELETE("/ratings/books/:bookId", c.Rating.Delete)

	authed.POST("/books/:id/reviews", c.Review.Create)
	authed.PUT("/reviews/:id", c.Review.Update)
	authed.DELETE("/reviews/:id", c.Review.Delete)
}

// patronID lifts the JWT sub claim into the context as "patron_id".
func patronID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := jwtx.PatronIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("patron_id", id)
			return next(ctx)
		}
	}
}
