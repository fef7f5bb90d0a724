package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Anggit1/Toko-baju/internal/application/service"
	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	domainservice "github.com/Anggit1/Toko-baju/internal/domain/service"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/db"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/handler"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/middleware"
	"github.com/Anggit1/Toko-baju/internal/mocks"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminToken  = "admin-token"
	buyerToken  = "buyer-token"
	otherToken  = "other-token"
	brokenToken = "broken-token"
)

type envelope struct {
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) record(t *testing.T) handler.TransactionResponse {
	t.Helper()
	var rec handler.TransactionResponse
	require.NoError(t, json.Unmarshal(e.Data, &rec))
	return rec
}

func (e envelope) records(t *testing.T) []handler.TransactionResponse {
	t.Helper()
	var recs []handler.TransactionResponse
	require.NoError(t, json.Unmarshal(e.Data, &recs))
	return recs
}

func (e envelope) sentinel(t *testing.T) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(e.Data, &s))
	return s
}

// setupTestServer wires the full stack on a Badger store in a temp dir
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logger.NewZapLogger(zap.NewNop())

	store, err := db.OpenBadger(t.TempDir(), log)
	require.NoError(t, err)

	identity := new(mocks.MockIdentityProvider)
	identity.On("ResolveToken", mock.Anything, adminToken).Return(&entity.Caller{ID: 1, IsAdmin: true}, nil).Maybe()
	identity.On("ResolveToken", mock.Anything, buyerToken).Return(&entity.Caller{ID: 42}, nil).Maybe()
	identity.On("ResolveToken", mock.Anything, otherToken).Return(&entity.Caller{ID: 9}, nil).Maybe()
	identity.On("ResolveToken", mock.Anything, brokenToken).Return(nil, entity.ErrUnknownAdminFlag).Maybe()
	identity.On("ResolveToken", mock.Anything, mock.Anything).Return(nil, domainservice.ErrInvalidToken).Maybe()

	txService := service.NewTransactionService(store.Transactions, log)
	txHandler := handler.NewTransactionHandler(txService, identity, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware, middleware.LoggingMiddleware(log), middleware.RecoveryMiddleware(log))
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	txHandler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = store.Close()
	})
	return server
}

func do(t *testing.T, server *httptest.Server, method, path, token, contentType, body string) (*http.Response, envelope) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	assert.Equal(t, resp.StatusCode, env.Code)
	return resp, env
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token, body string) envelope {
	t.Helper()
	_, env := do(t, server, method, path, token, "application/json", body)
	return env
}

func createRecord(t *testing.T, server *httptest.Server, buyer string) handler.TransactionResponse {
	t.Helper()
	env := doJSON(t, server, http.MethodPost, "/api/transactions", adminToken,
		`{"buyer":`+buyer+`,"purchase_date":"15-03-2024","cloth":7,"quantity":2,"total_price":"150000"}`)
	require.Equal(t, http.StatusAccepted, env.Code)
	return env.record(t)
}

func TestCreateTransaction(t *testing.T) {
	server := setupTestServer(t)

	t.Run("Admin creates a record", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPost, "/api/transactions", adminToken,
			`{"buyer":42,"purchase_date":"15-03-2024","cloth":7,"quantity":1.5,"total_price":"Rp 150.000"}`)

		assert.Equal(t, http.StatusAccepted, env.Code)
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, "data successfully created", env.Message)

		rec := env.record(t)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, int64(42), rec.Buyer)
		assert.Equal(t, "2024-03-15", rec.PurchaseDate)
		assert.Equal(t, int64(7), rec.Cloth)
		assert.Equal(t, json.Number("1.5"), rec.Quantity)
		assert.Equal(t, "Rp 150.000", rec.TotalPrice)
		assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	})

	t.Run("Form-encoded body", func(t *testing.T) {
		form := url.Values{
			"buyer":         {"42"},
			"purchase_date": {"01-02-2024"},
			"cloth":         {"3"},
			"quantity":      {"4"},
			"total_price":   {"80000"},
		}
		_, env := do(t, server, http.MethodPost, "/api/transactions", adminToken,
			"application/x-www-form-urlencoded", form.Encode())

		require.Equal(t, http.StatusAccepted, env.Code)
		rec := env.record(t)
		assert.Equal(t, "2024-02-01", rec.PurchaseDate)
		assert.Equal(t, json.Number("4"), rec.Quantity)
	})

	t.Run("Validation failure lists every field", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPost, "/api/transactions", adminToken, `{}`)

		assert.Equal(t, http.StatusUnprocessableEntity, env.Code)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "data not match with our validation", env.Message)

		var fields map[string][]string
		require.NoError(t, json.Unmarshal(env.Data, &fields))
		assert.Equal(t, []string{"The buyer field is required."}, fields["buyer"])
		assert.Len(t, fields, 5)
	})

	t.Run("Wrong date format", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPost, "/api/transactions", adminToken,
			`{"buyer":42,"purchase_date":"2024-03-15","cloth":7,"quantity":1,"total_price":"1"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, env.Code)
		var fields map[string][]string
		require.NoError(t, json.Unmarshal(env.Data, &fields))
		assert.Equal(t, []string{"The purchase date does not match the format d-m-Y."}, fields["purchase_date"])
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPost, "/api/transactions", adminToken, `{"buyer":`)
		assert.Equal(t, http.StatusBadRequest, env.Code)
		assert.Equal(t, "invalid request body", env.Message)
	})

	t.Run("Non-admin is refused", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPost, "/api/transactions", buyerToken,
			`{"buyer":42,"purchase_date":"15-03-2024","cloth":7,"quantity":1,"total_price":"1"}`)

		assert.Equal(t, http.StatusForbidden, env.Code)
		assert.Equal(t, "only administrator can access this resource", env.Message)
	})
}

func TestAuthentication(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "Missing token", token: ""},
		{name: "Unknown token", token: "nobody"},
		{name: "Unknown admin flag", token: brokenToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := doJSON(t, server, http.MethodGet, "/api/transactions", tt.token, "")
			assert.Equal(t, http.StatusUnauthorized, env.Code)
			assert.Equal(t, "unauthenticated", env.Message)
		})
	}
}

func TestListTransactions(t *testing.T) {
	server := setupTestServer(t)

	t.Run("Empty store returns the sentinel", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions", adminToken, "")

		assert.Equal(t, http.StatusAccepted, env.Code)
		assert.Equal(t, "data successfully accepted", env.Message)
		assert.Equal(t, "no data available", env.sentinel(t))
	})

	first := createRecord(t, server, "42")
	second := createRecord(t, server, "9")
	third := createRecord(t, server, "42")

	t.Run("Admin sees everything newest first", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions", adminToken, "")

		recs := env.records(t)
		require.Len(t, recs, 3)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{recs[0].ID, recs[1].ID, recs[2].ID})
	})

	t.Run("Buyer sees only own records", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions", buyerToken, "")

		recs := env.records(t)
		require.Len(t, recs, 2)
		assert.Equal(t, third.ID, recs[0].ID)
		assert.Equal(t, first.ID, recs[1].ID)
	})

	t.Run("Another buyer sees their own record", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions", otherToken, "")

		recs := env.records(t)
		require.Len(t, recs, 1)
		assert.Equal(t, second.ID, recs[0].ID)
	})
}

func TestGetTransaction(t *testing.T) {
	server := setupTestServer(t)
	rec := createRecord(t, server, "42")

	t.Run("Owner reads own record", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions/"+rec.ID, buyerToken, "")

		assert.Equal(t, http.StatusPartialContent, env.Code)
		assert.Equal(t, "data successfully accepted", env.Message)
		assert.Equal(t, rec, env.record(t))
	})

	t.Run("Admin reads any record", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions/"+rec.ID, adminToken, "")
		assert.Equal(t, http.StatusPartialContent, env.Code)
	})

	t.Run("Other buyer is refused", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions/"+rec.ID, otherToken, "")

		assert.Equal(t, http.StatusForbidden, env.Code)
		assert.Equal(t, "transaction data is not yours", env.Message)
		assert.Empty(t, env.Data)
	})

	t.Run("Missing record", func(t *testing.T) {
		env := doJSON(t, server, http.MethodGet, "/api/transactions/does-not-exist", adminToken, "")

		assert.Equal(t, http.StatusNotFound, env.Code)
		assert.Equal(t, "data not found in our database", env.Message)
	})
}

func TestUpdateTransaction(t *testing.T) {
	server := setupTestServer(t)
	rec := createRecord(t, server, "42")

	t.Run("Partial update keeps other fields", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPatch, "/api/transactions/"+rec.ID, adminToken,
			`{"total_price":"99000","purchase_date":"20-04-2024","buyer":null}`)

		assert.Equal(t, http.StatusAccepted, env.Code)
		assert.Equal(t, "data successfully updated", env.Message)

		updated := env.record(t)
		assert.Equal(t, rec.ID, updated.ID)
		assert.Equal(t, "99000", updated.TotalPrice)
		assert.Equal(t, "2024-04-20", updated.PurchaseDate)
		assert.Equal(t, rec.Buyer, updated.Buyer)
		assert.Equal(t, rec.Cloth, updated.Cloth)
		assert.Equal(t, rec.Quantity, updated.Quantity)
		assert.Equal(t, rec.CreatedAt, updated.CreatedAt)
	})

	t.Run("PUT behaves like PATCH", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPut, "/api/transactions/"+rec.ID, adminToken, `{"cloth":"11"}`)

		assert.Equal(t, http.StatusAccepted, env.Code)
		assert.Equal(t, int64(11), env.record(t).Cloth)
	})

	t.Run("Invalid field", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPatch, "/api/transactions/"+rec.ID, adminToken, `{"quantity":"lots"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, env.Code)

		after := doJSON(t, server, http.MethodGet, "/api/transactions/"+rec.ID, adminToken, "")
		assert.Equal(t, int64(11), after.record(t).Cloth)
	})

	t.Run("Missing record", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPatch, "/api/transactions/does-not-exist", adminToken, `{"cloth":1}`)
		assert.Equal(t, http.StatusNotFound, env.Code)

		list := doJSON(t, server, http.MethodGet, "/api/transactions", adminToken, "")
		assert.Len(t, list.records(t), 1)
	})

	t.Run("Non-admin is refused", func(t *testing.T) {
		env := doJSON(t, server, http.MethodPatch, "/api/transactions/"+rec.ID, buyerToken, `{"cloth":1}`)
		assert.Equal(t, http.StatusForbidden, env.Code)
	})
}

func TestDeleteTransaction(t *testing.T) {
	server := setupTestServer(t)
	first := createRecord(t, server, "42")
	second := createRecord(t, server, "9")

	t.Run("Non-admin is refused", func(t *testing.T) {
		env := doJSON(t, server, http.MethodDelete, "/api/transactions/"+first.ID, buyerToken, "")
		assert.Equal(t, http.StatusForbidden, env.Code)
	})

	t.Run("Returns the remaining records", func(t *testing.T) {
		env := doJSON(t, server, http.MethodDelete, "/api/transactions/"+first.ID, adminToken, "")

		assert.Equal(t, http.StatusAccepted, env.Code)
		assert.Equal(t, "data successfully removed", env.Message)
		recs := env.records(t)
		require.Len(t, recs, 1)
		assert.Equal(t, second.ID, recs[0].ID)

		gone := doJSON(t, server, http.MethodGet, "/api/transactions/"+first.ID, adminToken, "")
		assert.Equal(t, http.StatusNotFound, gone.Code)
	})

	t.Run("Missing record", func(t *testing.T) {
		env := doJSON(t, server, http.MethodDelete, "/api/transactions/"+first.ID, adminToken, "")
		assert.Equal(t, http.StatusNotFound, env.Code)
	})

	t.Run("Deleting the last record returns the sentinel", func(t *testing.T) {
		env := doJSON(t, server, http.MethodDelete, "/api/transactions/"+second.ID, adminToken, "")

		assert.Equal(t, http.StatusAccepted, env.Code)
		assert.Equal(t, "no data available", env.sentinel(t))
	})
}

func TestHealthAndRequestID(t *testing.T) {
	server := setupTestServer(t)

	resp, env := do(t, server, http.MethodGet, "/health", "", "", "")

	assert.Equal(t, http.StatusOK, env.Code)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
