package webhook

import (
	"errors"
	"net/http"

	"delivery-quotation/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles inbound delivery-status callbacks from the provider.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new webhook handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the webhook routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/webhooks/delivery", h.HandleDeliveryEvent)
}

// HandleDeliveryEvent maps one provider callback into the order store.
// Replays answer 200 so the provider stops retrying.
func (h *Handler) HandleDeliveryEvent(c echo.Context) error {
	var event models.WebhookEvent
	if err := c.Bind(&event); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid webhook payload"})
	}
	if err := h.validate.Struct(event); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation failed: " + err.Error()})
	}

	if err := h.svc.ProcessEvent(c.Request().Context(), event); err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "order not found"})
		}
		c.Logger().Error("Handler.HandleDeliveryEvent: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to process delivery event"})
	}

	return c.NoContent(http.StatusOK)
}
