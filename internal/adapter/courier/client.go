package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// ErrDisabled is returned when no courier credentials are configured.
var ErrDisabled = errors.New("courier integration disabled")

// ErrRejected indicates the courier refused the shipment payload.
var ErrRejected = fmt.Errorf("%w: shipment rejected by courier", domainErrors.ErrUpstream)

// TooManyRequestsError represents rate limiting signal from the courier API.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client books shipments with the courier.
type Client interface {
	Book(ctx context.Context, shipment model.Shipment) (*model.Booking, error)
}

// HTTPClient implements Client via the InPosta REST API.
type HTTPClient struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Options tune the HTTP client.
type Options struct {
	Timeout    time.Duration
	RatePerSec float64
}

type party struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type shipmentRequest struct {
	ShipmentType            string      `json:"shipment_type"`
	ShipmentTypeValue       string      `json:"shipment_type_value"`
	Receiver                party       `json:"receiver"`
	PackageValue            json.Number `json:"package_value"`
	NumberPackages          int         `json:"number_packages"`
	ShippingPaymentMethod   string      `json:"shipping_payment_method"`
	CommissionPaymentMethod string      `json:"commission_payment_method,omitempty"`
	OrderNumber             string      `json:"order_number"`
	Note                    string      `json:"note,omitempty"`
}

type shipmentResponse struct {
	Message  string `json:"message"`
	Shipment struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"shipment"`
}

// NewHTTPClient creates a courier client authenticating with token.
func NewHTTPClient(baseURL, token string, opts Options, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse courier url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("courier url must be absolute")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	return &HTTPClient{
		baseURL:    parsed,
		token:      token,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		httpClient: &http.Client{Timeout: opts.Timeout},
	}, nil
}

func newShipmentRequest(s model.Shipment) shipmentRequest {
	packages := s.Options.NumberOfPackages
	if packages <= 0 {
		packages = 1
	}
	return shipmentRequest{
		ShipmentType:      s.Options.ShipmentType,
		ShipmentTypeValue: s.Options.ShipmentTypeValue,
		Receiver: party{
			Name:        s.Receiver.Name,
			City:        s.Receiver.City,
			PhoneNumber: s.Receiver.PhoneNumber,
			Address:     s.Receiver.Address,
		},
		PackageValue:            json.Number(s.Options.PackageValue.String()),
		NumberPackages:          packages,
		ShippingPaymentMethod:   s.Options.ShippingPaymentMethod,
		CommissionPaymentMethod: s.Options.CommissionPaymentMethod,
		OrderNumber:             "#" + strconv.FormatInt(s.SequenceNumber, 10),
		Note:                    s.Note,
	}
}

// Book creates a shipment and returns the courier reference used as tracking code.
func (c *HTTPClient) Book(ctx context.Context, shipment model.Shipment) (*model.Booking, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(newShipmentRequest(shipment))
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "shipments")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var data shipmentResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: decode booking: %w", domainErrors.ErrUpstream, err)
		}
		if data.Shipment.Reference == "" {
			return nil, fmt.Errorf("%w: booking without reference", domainErrors.ErrUpstream)
		}
		return &model.Booking{Reference: data.Shipment.Reference, Message: data.Message}, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Warn("courier rejected shipment",
			slog.Int64("order_number", shipment.SequenceNumber),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(payload)))
		return nil, fmt.Errorf("%w: %s", ErrRejected, resp.Status)
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.logger.Error("courier request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(payload)))
		return nil, fmt.Errorf("%w: courier error: %s", domainErrors.ErrUpstream, resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// DisabledClient is used when the courier integration is not configured.
type DisabledClient struct{}

// Book always fails with ErrDisabled.
func (DisabledClient) Book(context.Context, model.Shipment) (*model.Booking, error) {
	return nil, ErrDisabled
}
