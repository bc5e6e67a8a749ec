package handler

import (
	"errors"
	"net/http"

	"freshmarket/internal/dto"
	"freshmarket/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
	}

	resp, err := h.paymentService.CreateSession(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}
		// upstream/config detail stays in the logs
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: service.ErrPaymentUnavailable.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}
