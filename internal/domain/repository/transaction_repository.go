package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
)

// ErrTransactionNotFound is returned when no transaction exists for an ID
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository defines the interface for transaction storage.
// List methods return transactions newest first.
type TransactionRepository interface {
	// Create saves a new transaction. The ID must already be assigned.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Transaction, error)

	// Update applies the supplied changes to an existing transaction and
	// returns the stored result
	Update(ctx context.Context, id string, changes entity.TransactionChanges, updatedAt time.Time) (*entity.Transaction, error)

	// Delete permanently removes a transaction
	Delete(ctx context.Context, id string) error

	// ListAll returns every transaction
	ListAll(ctx context.Context) ([]*entity.Transaction, error)

	// ListByBuyer returns the transactions owned by a buyer
	ListByBuyer(ctx context.Context, buyer int64) ([]*entity.Transaction, error)
}
