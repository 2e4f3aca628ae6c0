package quotation

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"delivery-quotation/internal/models"
)

const currencyIDR = "IDR"

// quotationTTL is the validity window of every quotation, real or mock.
const quotationTTL = 5 * time.Minute

// Service-area bounding box (Indonesia), boundaries inclusive.
const (
	boundSouth = -11.0
	boundNorth = 6.0
	boundWest  = 95.0
	boundEast  = 141.0
)

// InServiceArea reports whether the point lies inside the serviceable
// bounding box. Every coordinate must pass this check before it is priced
// or sent to the provider.
func InServiceArea(lat, lng float64) bool {
	return lat >= boundSouth && lat <= boundNorth && lng >= boundWest && lng <= boundEast
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func HaversineKm(from, to models.Coordinate) float64 {
	dLat := degreesToRadians(to.Lat - from.Lat)
	dLng := degreesToRadians(to.Lng - from.Lng)

	rLat1 := degreesToRadians(from.Lat)
	rLat2 := degreesToRadians(to.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// fareRate is one row of the fare table: Base covers the first FreeKm
// kilometres, then PerKm applies to every kilometre beyond. Rows with
// FreeKm = 0 charge the entire distance on top of the base.
type fareRate struct {
	Base   float64
	FreeKm float64
	PerKm  float64
}

// fareTable is the single pricing table shared by the request path and the
// fallback path.
var fareTable = map[models.ServiceClass]fareRate{
	models.ClassMotorcycle: {Base: 9200, FreeKm: 4, PerKm: 2300},
	models.ClassCar:        {Base: 37000, FreeKm: 3, PerKm: 2500},
	models.ClassVan:        {Base: 25000, FreeKm: 0, PerKm: 4500},
	models.ClassTruck:      {Base: 35000, FreeKm: 0, PerKm: 6000},
}

// BaseFare returns the distance fare before margin and surcharge, rounded
// to the nearest 100 rupiah. Monotonically non-decreasing in distance.
func BaseFare(distanceKm float64, class models.ServiceClass) int64 {
	rate := fareTable[class]
	fare := rate.Base
	if distanceKm > rate.FreeKm {
		fare += rate.PerKm * (distanceKm - rate.FreeKm)
	}
	return roundTo100(fare)
}

func roundTo100(x float64) int64 {
	return int64(math.Round(x/100.0)) * 100
}

// Markup returns the fixed per-class margin folded into every total. The
// amount is never itemized in the customer-facing breakdown.
func Markup(class models.ServiceClass) int64 {
	switch class {
	case models.ClassMotorcycle:
		return 3000
	case models.ClassCar:
		return 5000
	default:
		return 0
	}
}

// TollSurcharge returns the disclosed toll add-on: non-zero only for
// car-class deliveries that requested a toll road.
func TollSurcharge(class models.ServiceClass, tollRequested bool) int64 {
	if class == models.ClassCar && tollRequested {
		return 25000
	}
	return 0
}

// finalizePrice folds the per-class margin into the total and writes the
// reconciliation audit line. Both pricing paths go through here, so the
// margin is applied exactly once per quotation.
func finalizePrice(class models.ServiceClass, base, extra, toll int64) (models.PriceBreakdown, int64) {
	margin := Markup(class)
	total := base + extra + toll + margin
	log.Printf("markup audit: class=%s margin=%d total=%d", class, margin, total)
	return models.PriceBreakdown{
		Base:                base,
		ExtraDistanceCharge: extra,
		TollSurcharge:       toll,
		Total:               total,
		Currency:            currencyIDR,
	}, margin
}

// FallbackPrice composes the local fare, margin, and toll surcharge with
// zero network I/O. Identical inputs always produce an identical breakdown.
func FallbackPrice(distanceKm float64, class models.ServiceClass, tollRequested bool) (models.PriceBreakdown, int64) {
	rate := fareTable[class]
	base := roundTo100(rate.Base)
	extra := BaseFare(distanceKm, class) - base
	toll := TollSurcharge(class, tollRequested)
	return finalizePrice(class, base, extra, toll)
}

// FallbackQuotation builds a complete locally priced quotation, used
// whenever the provider is unavailable, rejects the request, or is not
// configured at all.
func FallbackQuotation(distanceKm float64, class models.ServiceClass, tollRequested bool) models.Quotation {
	price, margin := FallbackPrice(distanceKm, class, tollRequested)
	return models.Quotation{
		ID:                uuid.NewString(),
		ServiceClass:      class,
		DistanceKm:        distanceKm,
		Price:             price,
		UndisclosedMargin: margin,
		ExpiresAt:         time.Now().Add(quotationTTL),
		IsMock:            true,
	}
}

// avgSpeedKmh is the assumed door-to-door speed per class, used only for
// the coarse ETA shown at checkout.
var avgSpeedKmh = map[models.ServiceClass]float64{
	models.ClassMotorcycle: 30,
	models.ClassCar:        35,
	models.ClassVan:        30,
	models.ClassTruck:      25,
}

// pickupAllowanceMin covers driver matching and pickup handling.
const pickupAllowanceMin = 15

// EstimatedTime returns a display ETA like "~35 mins".
func EstimatedTime(distanceKm float64, class models.ServiceClass) string {
	speed := avgSpeedKmh[class]
	if speed <= 0 {
		speed = 30
	}
	mins := pickupAllowanceMin + int(math.Ceil(distanceKm/speed*60))
	return fmt.Sprintf("~%d mins", mins)
}
