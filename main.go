// Package main library lending API.
//
// @title           Library Lending API
// @version         1.0
// @description     Books, copies, checkouts, and patron feedback.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/hamiltonroad/checked-out/app/echoServer"
	authctrl "github.com/hamiltonroad/checked-out/app/echoServer/controller/auth"
	bookctrl "github.com/hamiltonroad/checked-out/app/echoServer/controller/book"
	checkoutctrl "github.com/hamiltonroad/checked-out/app/echoServer/controller/checkout"
	ratingctrl "github.com/hamiltonroad/checked-out/app/echoServer/controller/rating"
	reviewctrl "github.com/hamiltonroad/checked-out/app/echoServer/controller/review"
	"github.com/hamiltonroad/checked-out/app/echoServer/validation"
	"github.com/hamiltonroad/checked-out/config"
	bookrepo "github.com/hamiltonroad/checked-out/repository/book"
	checkoutrepo "github.com/hamiltonroad/checked-out/repository/checkout"
	feedbackrepo "github.com/hamiltonroad/checked-out/repository/feedback"
	patronrepo "github.com/hamiltonroad/checked-out/repository/patron"
	authsvc "github.com/hamiltonroad/checked-out/service/auth"
	"github.com/hamiltonroad/checked-out/service/availability"
	booksvc "github.com/hamiltonroad/checked-out/service/book"
	checkoutsvc "github.com/hamiltonroad/checked-out/service/checkout"
	feedbacksvc "github.com/hamiltonroad/checked-out/service/feedback"
	"github.com/hamiltonroad/checked-out/util/database"
	"github.com/hamiltonroad/checked-out/util/profanity"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	pr := patronrepo.New(db)
	br := bookrepo.New(db)
	cr := checkoutrepo.New(db)
	fr := feedbackrepo.New(db)

	// services
	resolver := availability.New(log)
	matcher := profanity.New()
	agg := feedbacksvc.NewAggregator(fr)
	as := authsvc.New(pr, cfg.JWTSecret)
	bs := booksvc.New(br, resolver, agg, matcher)
	cs := checkoutsvc.New(cr, pr)
	rs := feedbacksvc.NewRatingService(fr, br, pr, agg)
	vs := feedbacksvc.NewReviewService(fr, br, pr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	checkoutC := &checkoutctrl.Controller{Svc: cs, V: v, Log: log}
	ratingC := &ratingctrl.Controller{Svc: rs, Agg: agg, V: v, Log: log}
	reviewC := &reviewctrl.Controller{Svc: vs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Book:      bookC,
		Checkout:  checkoutC,
		Rating:    ratingC,
		Review:    reviewC,
		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)
	e.Logger.Fatal(e.Start(":" + port))
}
