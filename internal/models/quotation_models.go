package models

import "time"

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// QuotationRequest is the inbound checkout request for a delivery quote.
// Coordinates are optional; when absent the delivery address is resolved
// through the geocoding collaborator.
type QuotationRequest struct {
	DeliveryAddress string      `json:"deliveryAddress" validate:"required"`
	RecipientName   string      `json:"recipientName" validate:"required"`
	RecipientPhone  string      `json:"recipientPhone" validate:"required"`
	ServiceType     string      `json:"serviceType" validate:"required"`
	Coordinates     *Coordinate `json:"coordinates,omitempty"`
	IsRequestedAt   string      `json:"isRequestedAt,omitempty"`
	IsExpress       bool        `json:"isExpress,omitempty"`
	OrderType       string      `json:"orderType,omitempty"`
	UseTollRoad     bool        `json:"useTollRoad,omitempty"`
}

// PriceBreakdown lists the disclosed charges of a quotation. The per-class
// margin is folded into Total but deliberately never itemized here; it lives
// in Quotation.UndisclosedMargin, which is excluded from serialization.
type PriceBreakdown struct {
	Base                int64  `json:"base"`
	ExtraDistanceCharge int64  `json:"extraDistanceCharge"`
	TollSurcharge       int64  `json:"tollSurcharge"`
	Total               int64  `json:"total"`
	Currency            string `json:"currency"`
}

// Quotation is a priced, time-boxed delivery-fare offer for one
// origin/destination/class combination. Quotations are ephemeral: created
// per request, never persisted, never updated.
type Quotation struct {
	ID                string         `json:"id"`
	ServiceClass      ServiceClass   `json:"serviceClass"`
	DistanceKm        float64        `json:"distanceKm"`
	Price             PriceBreakdown `json:"price"`
	UndisclosedMargin int64          `json:"-"`
	ExpiresAt         time.Time      `json:"expiresAt"`
	IsMock            bool           `json:"isMock"`
	Note              string         `json:"note,omitempty"`
}

// QuotationResponse is the success envelope for POST /api/quotations.
type QuotationResponse struct {
	Success   bool          `json:"success"`
	Quotation QuotationBody `json:"quotation"`
	IsMock    bool          `json:"isMock,omitempty"`
	Note      string        `json:"note,omitempty"`
}

// QuotationBody is the customer-facing quotation shape.
type QuotationBody struct {
	ID            string      `json:"id"`
	Price         PriceAmount `json:"price"`
	Distance      Distance    `json:"distance"`
	ServiceType   string      `json:"serviceType"`
	ExpiresAt     time.Time   `json:"expiresAt"`
	EstimatedTime string      `json:"estimatedTime"`
	TollCharge    *TollCharge `json:"tollCharge,omitempty"`
	HasTollRoad   bool        `json:"hasTollRoad"`
}

type PriceAmount struct {
	Total    int64  `json:"total"`
	Currency string `json:"currency"`
}

// Distance pairs the raw value in kilometres with a display string ("X.X km").
type Distance struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

// TollCharge is the disclosed toll surcharge. Value is serialized as a
// string, matching the checkout display contract.
type TollCharge struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}
