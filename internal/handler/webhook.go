package handler

import (
	"io"
	"net/http"

	"freshmarket/internal/dto"
	"freshmarket/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// HandleEvent always acknowledges the sender with 200, whatever the body
// contains. Anything else would feed the gateway's retry policy.
func (h *WebhookHandler) HandleEvent(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusOK, dto.WebhookIgnored{Status: "ignored"})
	}

	outcome := h.webhookService.Process(ctx, body)
	if outcome == service.OutcomeIgnored {
		return c.JSON(http.StatusOK, dto.WebhookIgnored{Status: "ignored"})
	}

	return c.JSON(http.StatusOK, dto.WebhookAck{OK: true})
}

// HandlePreflight answers the CORS preflight the gateway console sends.
func (h *WebhookHandler) HandlePreflight(c echo.Context) error {
	header := c.Response().Header()
	header.Set(echo.HeaderAccessControlAllowOrigin, "*")
	header.Set(echo.HeaderAccessControlAllowMethods, "POST, OPTIONS")
	header.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type")
	return c.NoContent(http.StatusOK)
}
