package handler

import (
	"errors"
	"net/http"

	"freshmarket/internal/dto"
	"freshmarket/internal/service"

	"github.com/labstack/echo/v4"
)

type NotifyHandler struct {
	notifyService service.NotifyService
}

func NewNotifyHandler(notifyService service.NotifyService) *NotifyHandler {
	return &NotifyHandler{
		notifyService: notifyService,
	}
}

func (h *NotifyHandler) Notify(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.NotifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NotifyErrorResponse{Message: "invalid request body"})
	}

	resp, err := h.notifyService.Send(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, dto.NotifyErrorResponse{Message: "name is required"})
		}
		return c.JSON(http.StatusBadGateway, dto.NotifyErrorResponse{Message: service.ErrNotifyUnavailable.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}
