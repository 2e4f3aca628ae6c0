package quotation

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"delivery-quotation/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for delivery quotations.
type Handler struct {
	svc      ServiceInterface
	validate *validator.Validate // For request body validation
}

// NewHandler creates a new quotation handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

// RegisterRoutes mounts the quotation routes on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/quotations", h.CreateQuotation)
}

// CreateQuotation prices one delivery for the checkout. Provider outages
// still answer 200 with a locally computed quotation; validation and policy
// failures answer 400.
func (h *Handler) CreateQuotation(c echo.Context) error {
	var req models.QuotationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation failed: " + err.Error()})
	}

	quotation, err := h.svc.Quote(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDistanceExceeded):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "Jarak pengiriman melebihi jangkauan layanan",
				ErrorCode: models.ErrorCodeDistanceExceeded,
			})
		case errors.Is(err, models.ErrOutsideServiceArea):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Lokasi berada di luar area layanan pengiriman"})
		case errors.Is(err, models.ErrAddressNotFound):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Alamat pengiriman tidak dapat ditemukan"})
		case errors.Is(err, models.ErrInvalidServiceClass):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Jenis kendaraan tidak dikenal"})
		case errors.Is(err, models.ErrInvalidScheduleTime):
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Waktu pengiriman tidak valid"})
		default:
			c.Logger().Error("Handler.CreateQuotation: ", err)
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create quotation"})
		}
	}

	return c.JSON(http.StatusOK, toQuotationResponse(quotation))
}

// toQuotationResponse maps the internal quotation into the customer-facing
// envelope. Only disclosed charges appear; the margin stays inside Total.
func toQuotationResponse(q *models.Quotation) models.QuotationResponse {
	body := models.QuotationBody{
		ID: q.ID,
		Price: models.PriceAmount{
			Total:    q.Price.Total,
			Currency: q.Price.Currency,
		},
		Distance: models.Distance{
			Value: q.DistanceKm,
			Text:  fmt.Sprintf("%.1f km", q.DistanceKm),
		},
		ServiceType:   q.ServiceClass.String(),
		ExpiresAt:     q.ExpiresAt,
		EstimatedTime: EstimatedTime(q.DistanceKm, q.ServiceClass),
		HasTollRoad:   q.Price.TollSurcharge > 0,
	}
	if q.Price.TollSurcharge > 0 {
		body.TollCharge = &models.TollCharge{
			Value:    strconv.FormatInt(q.Price.TollSurcharge, 10),
			Currency: q.Price.Currency,
		}
	}
	return models.QuotationResponse{
		Success:   true,
		Quotation: body,
		IsMock:    q.IsMock,
		Note:      q.Note,
	}
}
