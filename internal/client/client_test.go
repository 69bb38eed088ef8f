package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/server/http/dto"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := New(server.URL, Options{})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func orderJSON(seq int, status string, price string) string {
	return fmt.Sprintf(`{"id":%q,"sequenceNumber":%d,"customerName":"Ana","address":{"street":"S","city":"C"},"phoneNumber":"1","totalPrice":%s,"timestamp":"2024-05-01T10:00:00Z","status":%q,"attachments":[]}`,
		uuid.NewString(), seq, price, status)
}

func TestNewValidatesURL(t *testing.T) {
	_, err := New("/relative", Options{})
	assert.Error(t, err)
	_, err = New("http://[::1", Options{})
	assert.Error(t, err)
}

func TestOrdersCachesAndFiltersLocally(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Empty(t, r.URL.Query().Get("status"), "status filtering happens on cached data")
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"orders":[%s,%s],"total":2}`,
			orderJSON(2, "Done", `"150.00"`), orderJSON(1, "New", `99.5`)))
	})
	mux.HandleFunc("PUT /api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"order status updated"}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	all, err := c.Orders(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].TotalPrice.Equal(decimal.RequireFromString("150")), "string amounts are decoded")
	assert.True(t, all[1].TotalPrice.Equal(decimal.RequireFromString("99.5")), "numeric amounts are decoded")

	done := model.OrderStatusDone
	filtered, err := c.Orders(ctx, &done)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].SequenceNumber)
	assert.Equal(t, int32(1), calls.Load(), "second listing must hit the cache")

	require.NoError(t, c.UpdateOrderStatus(ctx, all[1].ID, model.OrderStatusAccepted))
	_, err = c.Orders(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "mutation must invalidate the cache")
}

func TestOrdersPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		assert.Equal(t, strconv.Itoa(model.MaxOrderPageSize), r.URL.Query().Get("limit"))
		if offset == 0 {
			writeJSON(w, http.StatusOK, fmt.Sprintf(`{"orders":[%s],"total":2}`, orderJSON(2, "New", "1")))
			return
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"orders":[%s],"total":2}`, orderJSON(1, "New", "1")))
	})
	c := newTestClient(t, mux)

	orders, err := c.Orders(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrdersRejectsNonNumericAmount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"orders":[%s],"total":1}`, orderJSON(1, "New", `"abc"`)))
	})
	c := newTestClient(t, mux)

	_, err := c.Orders(context.Background(), nil)
	assert.Error(t, err)
}

func TestCreateOrderSendsFilesAndInvalidates(t *testing.T) {
	id := uuid.New()
	mux := http.NewServeMux()
	var lists atomic.Int32
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		lists.Add(1)
		writeJSON(w, http.StatusOK, `{"orders":[],"total":0}`)
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var body dto.CreateOrderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana", body.Order.CustomerName)
		assert.True(t, body.Order.TotalPrice.Equal(decimal.NewFromInt(1200)))
		if assert.Len(t, body.Files, 1) {
			data, err := base64.StdEncoding.DecodeString(body.Files[0].Data)
			assert.NoError(t, err)
			assert.Equal(t, "pdf", string(data))
		}
		writeJSON(w, http.StatusCreated, fmt.Sprintf(`{"id":%q,"sequenceNumber":12}`, id))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Orders(ctx, nil)
	require.NoError(t, err)

	receipt, err := c.CreateOrder(ctx, model.OrderDraft{
		CustomerName: "Ana",
		Address:      model.Address{Street: "S", City: "C"},
		PhoneNumber:  "1",
		TotalPrice:   decimal.NewFromInt(1200),
	}, []model.UploadedFile{{Name: "label.pdf", ContentType: "application/pdf", Data: []byte("pdf")}})
	require.NoError(t, err)
	assert.Equal(t, id, receipt.ID)
	assert.Equal(t, int64(12), receipt.SequenceNumber)

	_, err = c.Orders(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), lists.Load())
}

func TestAPIErrorMapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/expenses/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"message":"operation not permitted","error":"permission denied: delete window expired"}`)
	})
	mux.HandleFunc("GET /api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c := newTestClient(t, mux)

	err := c.DeleteExpense(context.Background(), uuid.New())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "operation not permitted", apiErr.Message)
	assert.ErrorIs(t, err, domainErrors.ErrPermission)

	_, err = c.Order(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestLoginStoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body dto.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "secret-pass" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"invalid credentials","error":"invalid credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"token":"signed"}`)
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer signed" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, `{"status":"ok"}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.Login(ctx, "wrong")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)

	token, err := c.Login(ctx, "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "signed", token)
	assert.NoError(t, c.Health(ctx))
}

func TestExpensesAndGoal(t *testing.T) {
	expenseID := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/expenses", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(`[{"id":%q,"description":"Tape","amount":"12.50","date":"2024-05-02","timestamp":"2024-05-02T09:00:00Z"}]`, expenseID))
	})
	mux.HandleFunc("POST /api/expenses", func(w http.ResponseWriter, r *http.Request) {
		var body dto.ExpenseRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2024-05-02", body.Date)
		writeJSON(w, http.StatusCreated, fmt.Sprintf(`{"id":%q,"description":%q,"amount":%s,"date":%q,"timestamp":"2024-05-02T09:00:00Z"}`,
			expenseID, body.Description, body.Amount.String(), body.Date))
	})
	mux.HandleFunc("GET /api/goal", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `null`)
	})
	mux.HandleFunc("POST /api/goal/{id}/add", func(w http.ResponseWriter, r *http.Request) {
		var body dto.GoalAddRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"id":%s,"name":"Van","goalAmount":"1000","currentAmount":%s,"imageUrl":null,"progress":5}`,
			r.PathValue("id"), body.Amount.String()))
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	expenses, err := c.Expenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(decimal.RequireFromString("12.5")))

	created, err := c.CreateExpense(ctx, model.ExpenseDraft{
		Description: "Tape",
		Amount:      decimal.RequireFromString("3.20"),
		Date:        time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, expenseID, created.ID)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("3.2")))

	goal, err := c.Goal(ctx)
	require.NoError(t, err)
	assert.Nil(t, goal)

	goal, err = c.AddToGoal(ctx, 1, decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.Equal(t, int64(1), goal.ID)
	assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromInt(50)))
}

func TestDashboardSummaryQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dashboard/summary", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("from"))
		assert.Empty(t, r.URL.Query().Get("to"))
		writeJSON(w, http.StatusOK, `{"from":"2024-05-01T00:00:00Z","to":"2024-06-01T00:00:00Z","orders":3,"revenue":"300","expenses":50,"profit":250,"averageOrder":100}`)
	})
	c := newTestClient(t, mux)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	summary, err := c.DashboardSummary(context.Background(), &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Orders)
	assert.True(t, summary.Profit.Equal(decimal.NewFromInt(250)))
}
