package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mashangjie/taskmarket/docs"
	"github.com/mashangjie/taskmarket/internal/api/handler"
	"github.com/mashangjie/taskmarket/internal/api/middleware"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

// Services are the use cases served over HTTP.
type Services struct {
	Users    ports.UserService
	Tasks    ports.TaskService
	Orders   ports.OrderService
	Payments ports.PaymentService
	Reviews  ports.ReviewService
}

// Options configure the router.
type Options struct {
	JWTSecret string
	// CallbackSecret enables X-Signature verification on the payment
	// callback. When empty the callback is accepted unsigned.
	CallbackSecret string
	Checks         map[string]handler.DependencyCheck
	Log            zerolog.Logger
	// Registerer receives the HTTP metrics. Defaults to the Prometheus
	// default registerer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	registerer := opts.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskmarket",
		Registerer: registerer,
	}))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(svc.Users)
	taskHandler := handler.NewTaskHandler(svc.Tasks)
	orderHandler := handler.NewOrderHandler(svc.Orders)
	paymentHandler := handler.NewPaymentHandler(svc.Payments)
	reviewHandler := handler.NewReviewHandler(svc.Reviews)

	// --- Manager routes ---
	v1 := e.Group("/api/v1")

	callback := []echo.MiddlewareFunc{}
	if opts.CallbackSecret != "" {
		callback = append(callback, middleware.Signature(opts.CallbackSecret))
	}
	v1.POST("/payment/callback", paymentHandler.Callback, callback...)

	managers := v1.Group("", middleware.Identity(opts.JWTSecret))
	managers.POST("/user", userHandler.Dispatch)
	managers.POST("/task", taskHandler.Dispatch)
	managers.POST("/order", orderHandler.Dispatch)
	managers.POST("/payment", paymentHandler.Dispatch)
	managers.POST("/review", reviewHandler.Dispatch)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
