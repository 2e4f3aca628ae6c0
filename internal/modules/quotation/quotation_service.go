package quotation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"delivery-quotation/internal/models"
)

// GeocoderInterface is the address-resolution collaborator, used when the
// checkout sends only a street address.
type GeocoderInterface interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

// PickupPoint is a store origin for one fulfilment channel.
type PickupPoint struct {
	Coordinate models.Coordinate
	Address    string
}

// ServiceInterface defines the contract the quotation handler depends on.
type ServiceInterface interface {
	Quote(ctx context.Context, req models.QuotationRequest) (*models.Quotation, error)
}

// Service orchestrates a quotation request: validates input, resolves
// coordinates, attempts the provider, falls back when appropriate, and
// applies margin and surcharge uniformly.
type Service struct {
	creds          ProviderCredentials
	provider       ProviderClientInterface
	geocoder       GeocoderInterface
	standardPickup PickupPoint
	expressPickup  PickupPoint
	maxDistanceKm  float64
}

// NewService wires the orchestrator. geocoder may be nil when no geocoding
// key is configured; requests without coordinates are then rejected.
func NewService(
	creds ProviderCredentials,
	provider ProviderClientInterface,
	geocoder GeocoderInterface,
	standardPickup, expressPickup PickupPoint,
	maxDistanceKm float64,
) *Service {
	if maxDistanceKm <= 0 {
		maxDistanceKm = 70
	}
	return &Service{
		creds:          creds,
		provider:       provider,
		geocoder:       geocoder,
		standardPickup: standardPickup,
		expressPickup:  expressPickup,
		maxDistanceKm:  maxDistanceKm,
	}
}

// Quote produces one quotation for the request. Validation and policy
// failures return an error; provider outages return a mock quotation
// instead, so checkout stays functional.
func (s *Service) Quote(ctx context.Context, req models.QuotationRequest) (*models.Quotation, error) {
	class, err := models.ParseServiceClass(req.ServiceType)
	if err != nil {
		return nil, err
	}

	scheduleAt, err := parseScheduleAt(req.IsRequestedAt)
	if err != nil {
		return nil, err
	}

	origin := s.standardPickup
	if req.IsExpress {
		origin = s.expressPickup
	}

	destination, err := s.resolveDestination(ctx, req)
	if err != nil {
		return nil, err
	}

	// Both endpoints must be inside the service area before any pricing or
	// network call. Failure here is terminal; a fallback price computed
	// from untrusted coordinates would be meaningless.
	if !InServiceArea(origin.Coordinate.Lat, origin.Coordinate.Lng) ||
		!InServiceArea(destination.Lat, destination.Lng) {
		return nil, models.ErrOutsideServiceArea
	}

	distanceKm := HaversineKm(origin.Coordinate, destination)
	if distanceKm > s.maxDistanceKm {
		return nil, models.ErrDistanceExceeded
	}

	toll := req.UseTollRoad

	if !s.creds.Configured() {
		q := FallbackQuotation(distanceKm, class, toll)
		q.Note = "provider credentials not configured; quotation computed locally"
		return &q, nil
	}

	quote, err := s.provider.RequestQuotation(ctx, ProviderQuotationParams{
		ScheduleAt:         scheduleAt,
		Class:              class,
		Origin:             origin.Coordinate,
		OriginAddress:      origin.Address,
		Destination:        destination,
		DestinationAddress: req.DeliveryAddress,
	})
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) && perr.Kind == FailureInvalidCoordinates {
			// The provider distrusts the coordinates; pricing them locally
			// would be misleading.
			return nil, fmt.Errorf("%w: %s", models.ErrOutsideServiceArea, perr.Detail)
		}
		log.Printf("provider quotation failed, using fallback: %v", err)
		q := FallbackQuotation(distanceKm, class, toll)
		q.Note = fallbackNote(err)
		return &q, nil
	}

	// Provider success: apply margin and toll surcharge the same way the
	// fallback path does, and round to keep the mod-100 invariant.
	fare := roundTo100(float64(quote.Total))
	price, margin := finalizePrice(class, fare, 0, TollSurcharge(class, toll))
	if quote.Currency != "" {
		price.Currency = quote.Currency
	}
	if quote.DistanceKm > 0 {
		distanceKm = quote.DistanceKm
	}

	id := quote.QuotationID
	if id == "" {
		id = uuid.NewString()
	}

	return &models.Quotation{
		ID:                id,
		ServiceClass:      class,
		DistanceKm:        distanceKm,
		Price:             price,
		UndisclosedMargin: margin,
		ExpiresAt:         time.Now().Add(quotationTTL),
		IsMock:            false,
	}, nil
}

// resolveDestination returns the supplied coordinates, or geocodes the
// delivery address when none were sent.
func (s *Service) resolveDestination(ctx context.Context, req models.QuotationRequest) (models.Coordinate, error) {
	if req.Coordinates != nil {
		return *req.Coordinates, nil
	}
	if s.geocoder == nil {
		return models.Coordinate{}, models.ErrAddressNotFound
	}
	coord, err := s.geocoder.Geocode(ctx, req.DeliveryAddress)
	if err != nil {
		if errors.Is(err, models.ErrAddressNotFound) {
			return models.Coordinate{}, err
		}
		return models.Coordinate{}, fmt.Errorf("service.resolveDestination: %w", err)
	}
	return coord, nil
}

func parseScheduleAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, models.ErrInvalidScheduleTime
	}
	return t, nil
}

func fallbackNote(err error) string {
	var perr *ProviderError
	if errors.As(err, &perr) {
		switch perr.Kind {
		case FailureInvalidMarket:
			return "delivery provider rejected the market configuration; quotation computed locally"
		case FailureProviderUnavailable:
			return "delivery provider is temporarily unreachable; quotation computed locally"
		}
	}
	return "delivery provider returned an unexpected error; quotation computed locally"
}
