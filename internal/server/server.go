package server

import (
	"freshmarket/internal/handler"
	"freshmarket/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	paymentHandler *handler.PaymentHandler
	webhookHandler *handler.WebhookHandler
	notifyHandler  *handler.NotifyHandler
}

func NewServer(paymentService service.PaymentService, webhookService service.WebhookService, notifyService service.NotifyService) *Server {
	e := echo.New()

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		paymentHandler: handler.NewPaymentHandler(paymentService),
		webhookHandler: handler.NewWebhookHandler(webhookService),
		notifyHandler:  handler.NewNotifyHandler(notifyService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- payments --------
	payments := api.Group("/payments")
	payments.POST("/create", s.paymentHandler.CreatePayment)

	// -------- gateway webhooks --------
	// other methods on the webhook path get echo's 405
	payments.POST("/webhook", s.webhookHandler.HandleEvent)
	payments.OPTIONS("/webhook", s.webhookHandler.HandlePreflight)

	// -------- order notifications --------
	api.POST("/notify", s.notifyHandler.Notify)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
