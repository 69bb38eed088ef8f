package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/server/http/dto"
)

const pageSize = model.MaxOrderPageSize

// Options tune the API client.
type Options struct {
	Timeout    time.Duration
	CacheTTL   time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client calls the naracki HTTP API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	orders     *OrderListCache
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("api url must be absolute")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultOrderCacheTTL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
		orders:     NewOrderListCache(opts.CacheTTL),
		logger:     logger,
	}, nil
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login exchanges the operator password for a token and keeps it.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, dto.LoginRequest{Password: password}, &resp); err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Token, nil
}

// Orders lists orders, newest first. The full list is cached and status
// filtering is applied to the cached copy.
func (c *Client) Orders(ctx context.Context, status *model.OrderStatus) ([]model.Order, error) {
	if cached, ok := c.orders.Get(); ok {
		c.logger.DebugContext(ctx, "order list served from cache", slog.Int("orders", len(cached)))
		return FilterByStatus(cached, status), nil
	}

	var all []model.Order
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("offset", strconv.Itoa(len(all)))

		var page dto.OrderListResponse
		if err := c.do(ctx, http.MethodGet, "orders", query, nil, &page); err != nil {
			return nil, err
		}
		for _, o := range page.Orders {
			order, err := o.ToModel()
			if err != nil {
				return nil, fmt.Errorf("decode order %s: %w", o.ID, err)
			}
			all = append(all, order)
		}
		if len(page.Orders) == 0 || int64(len(all)) >= page.Total {
			break
		}
	}
	if all == nil {
		all = []model.Order{}
	}

	c.orders.Set(all)
	return FilterByStatus(all, status), nil
}

// Order fetches one order with its attachments.
func (c *Client) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var resp dto.OrderResponse
	if err := c.do(ctx, http.MethodGet, "orders/"+id.String(), nil, nil, &resp); err != nil {
		return nil, err
	}
	order, err := resp.ToModel()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder submits an order with inline attachments.
func (c *Client) CreateOrder(ctx context.Context, draft model.OrderDraft, files []model.UploadedFile) (*model.OrderReceipt, error) {
	defer c.orders.Invalidate()

	body := dto.CreateOrderRequest{Order: newOrderRequest(draft), Files: newFilePayloads(files)}
	var resp dto.OrderReceiptResponse
	if err := c.do(ctx, http.MethodPost, "orders", nil, body, &resp); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(resp.ID)
	if err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}
	return &model.OrderReceipt{ID: id, SequenceNumber: resp.SequenceNumber, TrackingCode: resp.TrackingCode}, nil
}

// AttachFiles uploads more files to an existing order.
func (c *Client) AttachFiles(ctx context.Context, orderID uuid.UUID, files []model.UploadedFile) ([]model.Attachment, error) {
	defer c.orders.Invalidate()

	body := struct {
		Files []dto.FilePayload `json:"files"`
	}{Files: newFilePayloads(files)}
	var resp []dto.AttachmentResponse
	if err := c.do(ctx, http.MethodPost, "orders/"+orderID.String()+"/attachments", nil, body, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Attachment, 0, len(resp))
	for _, a := range resp {
		att, err := a.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, att)
	}
	return out, nil
}

// UpdateOrderStatus moves an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	defer c.orders.Invalidate()
	return c.do(ctx, http.MethodPut, "orders/"+id.String()+"/status", nil, dto.StatusRequest{Status: string(status)}, nil)
}

// SetTrackingCode stores a courier tracking code on an order.
func (c *Client) SetTrackingCode(ctx context.Context, id uuid.UUID, code string) error {
	defer c.orders.Invalidate()
	return c.do(ctx, http.MethodPut, "orders/"+id.String()+"/tracking", nil, dto.TrackingRequest{TrackingCode: code}, nil)
}

// DeleteOrder removes an order and its attachments.
func (c *Client) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	defer c.orders.Invalidate()
	return c.do(ctx, http.MethodDelete, "orders/"+id.String(), nil, nil, nil)
}

// Expenses lists the expense ledger.
func (c *Client) Expenses(ctx context.Context) ([]model.Expense, error) {
	var resp []dto.ExpenseResponse
	if err := c.do(ctx, http.MethodGet, "expenses", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Expense, 0, len(resp))
	for _, e := range resp {
		expense, err := e.ToModel()
		if err != nil {
			return nil, fmt.Errorf("decode expense %s: %w", e.ID, err)
		}
		out = append(out, expense)
	}
	return out, nil
}

// CreateExpense records an expense.
func (c *Client) CreateExpense(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	amount := dto.NewMoney(draft.Amount)
	body := dto.ExpenseRequest{
		Description: draft.Description,
		Amount:      &amount,
		Date:        draft.Date.Format(model.DateLayout),
		Notes:       draft.Notes,
	}
	var resp dto.ExpenseResponse
	if err := c.do(ctx, http.MethodPost, "expenses", nil, body, &resp); err != nil {
		return nil, err
	}
	expense, err := resp.ToModel()
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense removes an expense inside its delete window.
func (c *Client) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "expenses/"+id.String(), nil, nil, nil)
}

// Goal returns the savings goal or nil when none exists.
func (c *Client) Goal(ctx context.Context) (*model.Goal, error) {
	var resp *dto.GoalResponse
	if err := c.do(ctx, http.MethodGet, "goal", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	goal := resp.ToModel()
	return &goal, nil
}

// UpdateGoal overwrites the set fields of the goal.
func (c *Client) UpdateGoal(ctx context.Context, id int64, update model.GoalUpdate) (*model.Goal, error) {
	body := dto.GoalUpdateRequest{Name: update.Name, ImageURL: update.ImageURL}
	if update.GoalAmount != nil {
		m := dto.NewMoney(*update.GoalAmount)
		body.GoalAmount = &m
	}
	if update.CurrentAmount != nil {
		m := dto.NewMoney(*update.CurrentAmount)
		body.CurrentAmount = &m
	}
	return c.goalCall(ctx, http.MethodPut, "goal/"+strconv.FormatInt(id, 10), body)
}

// AddToGoal atomically adds amount to the goal's current amount.
func (c *Client) AddToGoal(ctx context.Context, id int64, amount decimal.Decimal) (*model.Goal, error) {
	m := dto.NewMoney(amount)
	return c.goalCall(ctx, http.MethodPost, "goal/"+strconv.FormatInt(id, 10)+"/add", dto.GoalAddRequest{Amount: &m})
}

func (c *Client) goalCall(ctx context.Context, method, route string, body any) (*model.Goal, error) {
	var resp dto.GoalResponse
	if err := c.do(ctx, method, route, nil, body, &resp); err != nil {
		return nil, err
	}
	goal := resp.ToModel()
	return &goal, nil
}

// DashboardSummary fetches figures for [from, to). Nil bounds use the server default.
func (c *Client) DashboardSummary(ctx context.Context, from, to *time.Time) (*model.DashboardSummary, error) {
	query := url.Values{}
	if from != nil {
		query.Set("from", from.Format(model.DateLayout))
	}
	if to != nil {
		query.Set("to", to.Format(model.DateLayout))
	}
	var resp dto.DashboardSummaryResponse
	if err := c.do(ctx, http.MethodGet, "dashboard/summary", query, nil, &resp); err != nil {
		return nil, err
	}
	summary := resp.ToModel()
	return &summary, nil
}

// Health reports whether the API and its database are up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, route string, query url.Values, body, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "api", route)
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, route, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body dto.ErrorResponse
	if err := json.Unmarshal(payload, &body); err == nil && body.Message != "" {
		apiErr.Message, apiErr.Detail = body.Message, body.Error
	} else if len(payload) > 0 {
		apiErr.Detail = string(bytes.TrimSpace(payload))
	}
	return apiErr
}

func newOrderRequest(d model.OrderDraft) dto.OrderRequest {
	price := dto.NewMoney(d.TotalPrice)
	req := dto.OrderRequest{
		CustomerName: d.CustomerName,
		Address:      dto.Address{Street: d.Address.Street, City: d.Address.City},
		PhoneNumber:  d.PhoneNumber,
		TotalPrice:   &price,
		Notes:        d.Notes,
	}
	if s := d.Shipment; s != nil {
		value := dto.NewMoney(s.PackageValue)
		req.Shipment = &dto.ShipmentRequest{
			ShipmentType:            s.ShipmentType,
			ShipmentTypeValue:       s.ShipmentTypeValue,
			PackageValue:            &value,
			NumberOfPackages:        s.NumberOfPackages,
			ShippingPaymentMethod:   s.ShippingPaymentMethod,
			CommissionPaymentMethod: s.CommissionPaymentMethod,
		}
	}
	return req
}

func newFilePayloads(files []model.UploadedFile) []dto.FilePayload {
	out := make([]dto.FilePayload, 0, len(files))
	for _, f := range files {
		out = append(out, dto.FilePayload{
			Name: f.Name,
			Type: f.ContentType,
			Data: base64.StdEncoding.EncodeToString(f.Data),
		})
	}
	return out
}
