package handler

import (
	"errors"
	"net/http"

	"github.com/Anggit1/Toko-baju/internal/application/service"
	"github.com/Anggit1/Toko-baju/internal/domain/repository"
	domainservice "github.com/Anggit1/Toko-baju/internal/domain/service"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/middleware"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/response"
	"github.com/gorilla/mux"
)

// TransactionHandler handles HTTP requests for transactions
type TransactionHandler struct {
	service  *service.TransactionService
	identity domainservice.IdentityProvider
	logger   logger.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(svc *service.TransactionService, identity domainservice.IdentityProvider, log logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionHandler{
		service:  svc,
		identity: identity,
		logger:   log,
	}
}

// ListTransactions handles listing the transactions visible to the caller
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	txs, err := h.service.ListTransactions(r.Context(), caller)
	if err != nil {
		h.writeError(w, r, "list", err)
		return
	}

	h.write(w, r, response.Collection(http.StatusAccepted, response.MessageAccepted, newTransactionResponses(txs)))
}

// CreateTransaction handles the creation of a new transaction
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())

	input, err := decodeInput(w, r)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), caller, input)
	if err != nil {
		h.writeError(w, r, "create", err)
		return
	}

	h.logger.Info("Transaction created successfully", map[string]interface{}{
		"request_id": middleware.GetRequestID(r.Context()),
		"id":         tx.ID,
	})
	h.write(w, r, response.Success(http.StatusAccepted, response.MessageCreated, newTransactionResponse(tx)))
}

// GetTransaction handles retrieving a transaction by ID
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	tx, err := h.service.GetTransaction(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, "get", err)
		return
	}

	h.write(w, r, response.Success(http.StatusPartialContent, response.MessageAccepted, newTransactionResponse(tx)))
}

// UpdateTransaction handles partial and full updates of a transaction
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	input, err := decodeInput(w, r)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}

	tx, err := h.service.UpdateTransaction(r.Context(), caller, id, input)
	if err != nil {
		h.writeError(w, r, "update", err)
		return
	}

	h.write(w, r, response.Success(http.StatusAccepted, response.MessageUpdated, newTransactionResponse(tx)))
}

// DeleteTransaction handles removing a transaction
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	remaining, err := h.service.DeleteTransaction(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, r, "delete", err)
		return
	}

	h.write(w, r, response.Collection(http.StatusAccepted, response.MessageRemoved, newTransactionResponses(remaining)))
}

// RegisterRoutes registers the transaction routes behind authentication.
// Writes additionally require an administrator.
func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/transactions").Subrouter()
	api.Use(middleware.Authenticate(h.identity, h.logger))

	adminOnly := middleware.RequireAdmin(h.logger)

	api.HandleFunc("", h.ListTransactions).Methods(http.MethodGet)
	api.Handle("", adminOnly(http.HandlerFunc(h.CreateTransaction))).Methods(http.MethodPost)
	api.HandleFunc("/{id}", h.GetTransaction).Methods(http.MethodGet)
	api.Handle("/{id}", adminOnly(http.HandlerFunc(h.UpdateTransaction))).Methods(http.MethodPut, http.MethodPatch)
	api.Handle("/{id}", adminOnly(http.HandlerFunc(h.DeleteTransaction))).Methods(http.MethodDelete)

	h.logger.Info("Transaction routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/transactions",
			"POST /api/transactions",
			"GET /api/transactions/{id}",
			"PUT|PATCH /api/transactions/{id}",
			"DELETE /api/transactions/{id}",
		},
	})
}

// writeError maps a service outcome onto its envelope
func (h *TransactionHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	fields := map[string]interface{}{
		"request_id": middleware.GetRequestID(r.Context()),
		"operation":  op,
		"id":         mux.Vars(r)["id"],
		"error":      err.Error(),
	}

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.logger.Warn("Transaction validation failed", fields)
		h.write(w, r, response.ErrorWithData(http.StatusUnprocessableEntity, response.MessageValidation, verr.Fields))
	case errors.Is(err, repository.ErrTransactionNotFound):
		h.logger.Warn("Transaction not found", fields)
		h.write(w, r, response.Error(http.StatusNotFound, response.MessageNotFound))
	case errors.Is(err, service.ErrForbidden):
		h.logger.Warn("Transaction belongs to another buyer", fields)
		h.write(w, r, response.Error(http.StatusForbidden, response.MessageNotOwner))
	case errors.Is(err, service.ErrAdminRequired):
		h.logger.Warn("Administrator required", fields)
		h.write(w, r, response.Error(http.StatusForbidden, response.MessageAdminRequired))
	case errors.Is(err, errInvalidBody):
		h.logger.Warn("Invalid request body", fields)
		h.write(w, r, response.Error(http.StatusBadRequest, response.MessageInvalidBody))
	default:
		h.logger.Error("Unexpected error handling transaction request", fields)
		h.write(w, r, response.Error(http.StatusInternalServerError, response.MessageInternal))
	}
}

func (h *TransactionHandler) write(w http.ResponseWriter, r *http.Request, env response.Envelope) {
	if err := response.JSON(w, env); err != nil {
		h.logger.Error("Failed to write response", map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"error":      err.Error(),
		})
	}
}

// HealthCheck reports that the server is up
func HealthCheck(w http.ResponseWriter, _ *http.Request) {
	_ = response.JSON(w, response.Success(http.StatusOK, "ok", nil))
}
