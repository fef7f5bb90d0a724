package response

import (
	"encoding/json"
	"net/http"
)

// Envelope statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// EmptySentinel is returned as data when a collection has nothing in it
const EmptySentinel = "no data available"

// Messages, stable per outcome
const (
	MessageAccepted        = "data successfully accepted"
	MessageCreated         = "data successfully created"
	MessageUpdated         = "data successfully updated"
	MessageRemoved         = "data successfully removed"
	MessageNotFound        = "data not found in our database"
	MessageNotOwner        = "transaction data is not yours"
	MessageValidation      = "data not match with our validation"
	MessageAdminRequired   = "only administrator can access this resource"
	MessageUnauthenticated = "unauthenticated"
	MessageInvalidBody     = "invalid request body"
	MessageInternal        = "internal server error"
)

// Envelope is the body of every API response
type Envelope struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success returns a success envelope carrying data
func Success(code int, message string, data interface{}) Envelope {
	return Envelope{
		Code:    code,
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// Collection returns a success envelope for a list, substituting the empty
// sentinel when there are no items
func Collection[T any](code int, message string, items []T) Envelope {
	if len(items) == 0 {
		return Success(code, message, EmptySentinel)
	}
	return Success(code, message, items)
}

// Error returns an error envelope without data
func Error(code int, message string) Envelope {
	return Envelope{
		Code:    code,
		Status:  StatusError,
		Message: message,
	}
}

// ErrorWithData returns an error envelope carrying detail
func ErrorWithData(code int, message string, data interface{}) Envelope {
	env := Error(code, message)
	env.Data = data
	return env
}

// JSON writes the envelope using its code as the HTTP status
func JSON(w http.ResponseWriter, env Envelope) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	return json.NewEncoder(w).Encode(env)
}
