package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	"github.com/Anggit1/Toko-baju/internal/domain/repository"
	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	"github.com/google/uuid"
)

var (
	// ErrForbidden is returned when a non-admin reads a transaction of another buyer
	ErrForbidden = errors.New("transaction data is not yours")
	// ErrAdminRequired is returned when a non-admin attempts a write
	ErrAdminRequired = errors.New("only administrator can access this resource")
)

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo   repository.TransactionRepository
	logger logger.Logger
	now    func() time.Time
	newID  func() (string, error)
}

// NewTransactionService creates a new transaction service. A nil logger
// falls back to the package default.
func NewTransactionService(repo repository.TransactionRepository, log logger.Logger) *TransactionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &TransactionService{
		repo:   repo,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
}

// ListTransactions returns the transactions visible to the caller, newest first
func (s *TransactionService) ListTransactions(ctx context.Context, caller *entity.Caller) ([]*entity.Transaction, error) {
	scope := ScopeFor(caller)

	var (
		txs []*entity.Transaction
		err error
	)
	switch scope.Visibility {
	case VisibilityAll:
		txs, err = s.repo.ListAll(ctx)
	case VisibilityOwnOnly:
		txs, err = s.repo.ListByBuyer(ctx, scope.OwnerID)
	default:
		return []*entity.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	s.logger.Debug("Listed transactions", map[string]interface{}{
		"scope": scope.Visibility.String(),
		"count": len(txs),
	})
	return txs, nil
}

// CreateTransaction validates the input and stores a new transaction
func (s *TransactionService) CreateTransaction(ctx context.Context, caller *entity.Caller, input Input) (*entity.Transaction, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	changes, err := ValidateInput(input, CreateMode)
	if err != nil {
		return nil, err
	}
	if err := normalizeDate(&changes); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	now := s.now()
	tx := &entity.Transaction{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	changes.Apply(tx)

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	s.logger.Info("Transaction created", map[string]interface{}{
		"transaction_id": tx.ID,
		"buyer":          tx.Buyer,
		"caller_id":      caller.ID,
	})
	return tx, nil
}

// GetTransaction retrieves a transaction by ID, enforcing ownership for
// non-admin callers
func (s *TransactionService) GetTransaction(ctx context.Context, caller *entity.Caller, id string) (*entity.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}

	if !ScopeFor(caller).Permits(tx) {
		return nil, ErrForbidden
	}
	return tx, nil
}

// UpdateTransaction applies the supplied fields to an existing transaction
func (s *TransactionService) UpdateTransaction(ctx context.Context, caller *entity.Caller, id string, input Input) (*entity.Transaction, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	changes, err := ValidateInput(input, UpdateMode)
	if err != nil {
		return nil, err
	}
	if err := normalizeDate(&changes); err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		s.logger.Debug("Update carries no fields, touching updated_at only", map[string]interface{}{
			"transaction_id": id,
			"caller_id":      caller.ID,
		})
	}

	tx, err := s.repo.Update(ctx, id, changes, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.logger.Info("Transaction updated", map[string]interface{}{
		"transaction_id": tx.ID,
		"caller_id":      caller.ID,
	})
	return tx, nil
}

// DeleteTransaction removes a transaction and returns every remaining one,
// newest first
func (s *TransactionService) DeleteTransaction(ctx context.Context, caller *entity.Caller, id string) ([]*entity.Transaction, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.logger.Info("Transaction deleted", map[string]interface{}{
		"transaction_id": id,
		"caller_id":      caller.ID,
	})

	remaining, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list remaining transactions: %w", err)
	}
	return remaining, nil
}

func requireAdmin(caller *entity.Caller) error {
	if caller == nil || !caller.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// normalizeDate rewrites a supplied purchase date into its stored layout
func normalizeDate(changes *entity.TransactionChanges) error {
	if changes.PurchaseDate == nil {
		return nil
	}
	canonical, err := ToCanonicalDate(*changes.PurchaseDate)
	if err != nil {
		return err
	}
	changes.PurchaseDate = &canonical
	return nil
}
