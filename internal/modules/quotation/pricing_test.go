package quotation

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"delivery-quotation/internal/models"
)

func TestInServiceAreaBoundaryInclusive(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"northeast corner", 6.0, 141.0, true},
		{"southwest corner", -11.0, 95.0, true},
		{"just past north", 6.0001, 141.0, false},
		{"just past east", 6.0, 141.0001, false},
		{"jakarta", -6.1754, 106.8272, true},
		{"north atlantic", 40.0, -70.0, false},
		{"singapore still inside box", 1.3521, 103.8198, true},
	}
	for _, tt := range tests {
		if got := InServiceArea(tt.lat, tt.lng); got != tt.want {
			t.Errorf("%s: InServiceArea(%v, %v) = %v; want %v", tt.name, tt.lat, tt.lng, got, tt.want)
		}
	}
}

func TestHaversineKm(t *testing.T) {
	// One degree of longitude on the equator is ~111.19 km.
	got := HaversineKm(models.Coordinate{Lat: 0, Lng: 0}, models.Coordinate{Lat: 0, Lng: 1})
	if math.Abs(got-111.19) > 0.5 {
		t.Errorf("HaversineKm equator degree = %.2f; want ~111.19", got)
	}

	same := HaversineKm(models.Coordinate{Lat: -6.2, Lng: 106.8}, models.Coordinate{Lat: -6.2, Lng: 106.8})
	if same != 0 {
		t.Errorf("HaversineKm same point = %v; want 0", same)
	}
}

func TestBaseFare(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		class      models.ServiceClass
		want       int64
	}{
		{"motorcycle within free tier", 4, models.ClassMotorcycle, 9200},
		{"motorcycle 5km", 5, models.ClassMotorcycle, 11500},
		{"car within free tier", 2, models.ClassCar, 37000},
		{"car 5km", 5, models.ClassCar, 42000},
		{"van charges whole distance", 2, models.ClassVan, 34000},
		{"truck charges whole distance", 10, models.ClassTruck, 95000},
		{"zero distance motorcycle", 0, models.ClassMotorcycle, 9200},
	}
	for _, tt := range tests {
		if got := BaseFare(tt.distanceKm, tt.class); got != tt.want {
			t.Errorf("%s: BaseFare(%v, %s) = %d; want %d", tt.name, tt.distanceKm, tt.class, got, tt.want)
		}
	}
}

func TestBaseFareMonotonic(t *testing.T) {
	classes := []models.ServiceClass{models.ClassMotorcycle, models.ClassCar, models.ClassVan, models.ClassTruck}
	for _, class := range classes {
		prev := int64(-1)
		for d := 0.0; d <= 80; d += 0.7 {
			fare := BaseFare(d, class)
			if fare < prev {
				t.Fatalf("BaseFare(%s) decreased at %.1fkm: %d -> %d", class, d, prev, fare)
			}
			prev = fare
		}
	}
}

func TestBaseFareRoundedToHundred(t *testing.T) {
	classes := []models.ServiceClass{models.ClassMotorcycle, models.ClassCar, models.ClassVan, models.ClassTruck}
	for _, class := range classes {
		for _, d := range []float64{0, 0.3, 1.7, 4.01, 5.55, 12.34, 69.9} {
			if fare := BaseFare(d, class); fare%100 != 0 {
				t.Errorf("BaseFare(%v, %s) = %d; not a multiple of 100", d, class, fare)
			}
		}
	}
}

func TestMarkupPerClass(t *testing.T) {
	if got := Markup(models.ClassMotorcycle); got != 3000 {
		t.Errorf("Markup(MOTORCYCLE) = %d; want 3000", got)
	}
	if got := Markup(models.ClassCar); got != 5000 {
		t.Errorf("Markup(CAR) = %d; want 5000", got)
	}
	if got := Markup(models.ClassVan); got != 0 {
		t.Errorf("Markup(VAN) = %d; want 0", got)
	}
	if got := Markup(models.ClassTruck); got != 0 {
		t.Errorf("Markup(TRUCK) = %d; want 0", got)
	}
}

func TestTollSurcharge(t *testing.T) {
	if got := TollSurcharge(models.ClassCar, true); got != 25000 {
		t.Errorf("TollSurcharge(CAR, true) = %d; want 25000", got)
	}
	if got := TollSurcharge(models.ClassCar, false); got != 0 {
		t.Errorf("TollSurcharge(CAR, false) = %d; want 0", got)
	}
	if got := TollSurcharge(models.ClassMotorcycle, true); got != 0 {
		t.Errorf("TollSurcharge(MOTORCYCLE, true) = %d; want 0", got)
	}
	if got := TollSurcharge(models.ClassTruck, true); got != 0 {
		t.Errorf("TollSurcharge(TRUCK, true) = %d; want 0", got)
	}
}

func TestFallbackPriceScenarios(t *testing.T) {
	// 5km motorcycle: fare 11500 + markup 3000 = 14500.
	price, margin := FallbackPrice(5, models.ClassMotorcycle, false)
	if price.Total != 14500 {
		t.Errorf("motorcycle 5km total = %d; want 14500", price.Total)
	}
	if margin != 3000 {
		t.Errorf("motorcycle margin = %d; want 3000", margin)
	}
	if price.TollSurcharge != 0 {
		t.Errorf("motorcycle toll = %d; want 0", price.TollSurcharge)
	}

	// 5km car with toll: fare 42000 + markup 5000 + toll 25000 = 72000.
	price, margin = FallbackPrice(5, models.ClassCar, true)
	if price.Total != 72000 {
		t.Errorf("car 5km toll total = %d; want 72000", price.Total)
	}
	if margin != 5000 {
		t.Errorf("car margin = %d; want 5000", margin)
	}
	if price.TollSurcharge != 25000 {
		t.Errorf("car toll = %d; want 25000 disclosed", price.TollSurcharge)
	}
	if price.Base+price.ExtraDistanceCharge+price.TollSurcharge+margin != price.Total {
		t.Errorf("breakdown does not reconcile: base=%d extra=%d toll=%d margin=%d total=%d",
			price.Base, price.ExtraDistanceCharge, price.TollSurcharge, margin, price.Total)
	}
}

func TestFallbackPriceIdempotent(t *testing.T) {
	first, _ := FallbackPrice(12.345, models.ClassVan, false)
	second, _ := FallbackPrice(12.345, models.ClassVan, false)

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("FallbackPrice not byte-identical across calls:\n%s\n%s", a, b)
	}
}

func TestFallbackQuotation(t *testing.T) {
	before := time.Now()
	q := FallbackQuotation(5, models.ClassMotorcycle, false)

	if !q.IsMock {
		t.Error("fallback quotation must be marked as mock")
	}
	if q.ID == "" {
		t.Error("fallback quotation must carry an id")
	}
	if q.Price.Total%100 != 0 {
		t.Errorf("total = %d; not a multiple of 100", q.Price.Total)
	}

	ttl := q.ExpiresAt.Sub(before)
	if ttl < quotationTTL-2*time.Second || ttl > quotationTTL+2*time.Second {
		t.Errorf("expiry window = %v; want ~%v", ttl, quotationTTL)
	}
}

func TestEstimatedTime(t *testing.T) {
	// 30 km/h over 5 km is 10 minutes plus the 15-minute pickup allowance.
	if got := EstimatedTime(5, models.ClassMotorcycle); got != "~25 mins" {
		t.Errorf("EstimatedTime(5, MOTORCYCLE) = %q; want %q", got, "~25 mins")
	}
}
