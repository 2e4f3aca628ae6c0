package quotation

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"delivery-quotation/internal/models"
)

const quotationsPath = "/v3/quotations"

// ProviderCredentials identifies this integration to the delivery provider.
// Loaded once at process start and never mutated afterwards.
type ProviderCredentials struct {
	APIKey    string
	APISecret string
	Market    string
	BaseURL   string
}

// Configured reports whether the credentials allow live provider calls.
// Without them the service stays in permanent fallback mode.
func (c ProviderCredentials) Configured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// FailureKind classifies a provider failure into the closed set the
// orchestrator branches on.
type FailureKind int

const (
	FailureInvalidCoordinates FailureKind = iota
	FailureInvalidMarket
	FailureProviderUnavailable
	FailureUnknown
)

// ProviderError carries the failure kind plus raw detail for logs.
type ProviderError struct {
	Kind   FailureKind
	Detail string
}

func (e *ProviderError) Error() string {
	return e.Detail
}

// ProviderQuote is the canonical result of a successful provider call.
// Markup and surcharge are not applied here; the service applies them
// uniformly downstream.
type ProviderQuote struct {
	QuotationID string
	Total       int64
	Currency    string
	DistanceKm  float64
}

// ProviderQuotationParams describes one quotation attempt.
type ProviderQuotationParams struct {
	ScheduleAt         time.Time // zero value means "now"
	Class              models.ServiceClass
	Origin             models.Coordinate
	OriginAddress      string
	Destination        models.Coordinate
	DestinationAddress string
}

// ProviderClientInterface defines the contract for the provider client.
type ProviderClientInterface interface {
	RequestQuotation(ctx context.Context, params ProviderQuotationParams) (*ProviderQuote, error)
}

// ProviderClient calls the external delivery-provider quotation API.
// Stateless per call; safe for concurrent use.
type ProviderClient struct {
	creds      ProviderCredentials
	httpClient *http.Client
	now        func() time.Time
}

// NewProviderClient creates a provider client with the given request timeout.
func NewProviderClient(creds ProviderCredentials, timeout time.Duration) *ProviderClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ProviderClient{
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

type providerLatLng struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type providerStop struct {
	Coordinates providerLatLng `json:"coordinates"`
	Address     string         `json:"address"`
}

type providerQuotationData struct {
	ScheduleAt       string         `json:"scheduleAt,omitempty"`
	ServiceType      string         `json:"serviceType"`
	SpecialRequests  []string       `json:"specialRequests"`
	Language         string         `json:"language"`
	Stops            []providerStop `json:"stops"`
	IsRouteOptimized bool           `json:"isRouteOptimized"`
}

type providerQuotationBody struct {
	Data providerQuotationData `json:"data"`
}

// providerServiceType remaps the canonical class into the provider's
// vocabulary at the boundary only.
func providerServiceType(class models.ServiceClass) string {
	if class == models.ClassCar {
		return "SEDAN"
	}
	return string(class)
}

// sign computes the HMAC-SHA256 signature over
// "{timestamp}\r\n{method}\r\n{path}\r\n\r\n{body}".
func sign(secret, timestamp, method, path string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s\r\n%s\r\n%s\r\n\r\n%s", timestamp, method, path, body)
	return hex.EncodeToString(mac.Sum(nil))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// RequestQuotation builds, signs, and sends the quotation request and maps
// the response into the canonical shape. Failures come back as a typed
// *ProviderError so the orchestrator can branch on a closed set of kinds.
func (c *ProviderClient) RequestQuotation(ctx context.Context, params ProviderQuotationParams) (*ProviderQuote, error) {
	var body providerQuotationBody
	body.Data = providerQuotationData{
		ServiceType:     providerServiceType(params.Class),
		SpecialRequests: []string{},
		Language:        "id_ID",
		Stops: []providerStop{
			{
				Coordinates: providerLatLng{Lat: formatCoord(params.Origin.Lat), Lng: formatCoord(params.Origin.Lng)},
				Address:     params.OriginAddress,
			},
			{
				Coordinates: providerLatLng{Lat: formatCoord(params.Destination.Lat), Lng: formatCoord(params.Destination.Lng)},
				Address:     params.DestinationAddress,
			},
		},
		IsRouteOptimized: false,
	}
	if !params.ScheduleAt.IsZero() {
		body.Data.ScheduleAt = params.ScheduleAt.UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Kind: FailureUnknown, Detail: fmt.Sprintf("marshal request: %v", err)}
	}

	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	signature := sign(c.creds.APISecret, timestamp, http.MethodPost, quotationsPath, payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.creds.BaseURL+quotationsPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Kind: FailureUnknown, Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("hmac %s:%s:%s", c.creds.APIKey, timestamp, signature))
	req.Header.Set("Market", c.creds.Market)
	req.Header.Set("Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts, cancellation, and transport failures all degrade to
		// the fallback path.
		return nil, &ProviderError{Kind: FailureProviderUnavailable, Detail: fmt.Sprintf("provider request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyFailure(resp.StatusCode, raw)
	}

	var out struct {
		Data struct {
			QuotationID    string `json:"quotationId"`
			PriceBreakdown struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"priceBreakdown"`
			Distance struct {
				Value string `json:"value"`
				Unit  string `json:"unit"`
			} `json:"distance"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ProviderError{Kind: FailureUnknown, Detail: fmt.Sprintf("decode response: %v", err)}
	}

	total, err := strconv.ParseFloat(out.Data.PriceBreakdown.Total, 64)
	if err != nil {
		return nil, &ProviderError{Kind: FailureUnknown, Detail: fmt.Sprintf("unparseable total %q", out.Data.PriceBreakdown.Total)}
	}

	quote := &ProviderQuote{
		QuotationID: out.Data.QuotationID,
		Total:       int64(total),
		Currency:    out.Data.PriceBreakdown.Currency,
	}
	if v, err := strconv.ParseFloat(out.Data.Distance.Value, 64); err == nil && v > 0 {
		if strings.EqualFold(out.Data.Distance.Unit, "km") {
			quote.DistanceKm = v
		} else {
			quote.DistanceKm = v / 1000.0
		}
	}
	return quote, nil
}

// classifyFailure derives a failure kind from the response. Structured
// error ids are preferred; message content is the last resort.
func classifyFailure(status int, body []byte) *ProviderError {
	detail := fmt.Sprintf("provider returned %d: %s", status, strings.TrimSpace(string(body)))
	if status >= 500 {
		return &ProviderError{Kind: FailureProviderUnavailable, Detail: detail}
	}

	var out struct {
		Errors []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"errors"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &out)

	for _, e := range out.Errors {
		switch e.ID {
		case "ERR_INVALID_LOCATION", "ERR_OUT_OF_SERVICE_AREA", "ERR_INVALID_COORDINATES":
			return &ProviderError{Kind: FailureInvalidCoordinates, Detail: detail}
		case "ERR_INVALID_MARKET", "ERR_MARKET_NOT_SUPPORTED":
			return &ProviderError{Kind: FailureInvalidMarket, Detail: detail}
		}
	}

	msg := strings.ToLower(out.Message + " " + string(body))
	switch {
	case strings.Contains(msg, "coordinate") || strings.Contains(msg, "location"):
		return &ProviderError{Kind: FailureInvalidCoordinates, Detail: detail}
	case strings.Contains(msg, "market"):
		return &ProviderError{Kind: FailureInvalidMarket, Detail: detail}
	default:
		return &ProviderError{Kind: FailureUnknown, Detail: detail}
	}
}
