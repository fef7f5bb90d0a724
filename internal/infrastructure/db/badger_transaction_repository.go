package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	"github.com/Anggit1/Toko-baju/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const (
	recordPrefix     = "tx:"
	buyerIndexPrefix = "idx:buyer:"
)

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB.
// Records live under tx:<id>; idx:buyer:<buyer>:<id> keys index them by owner.
type BadgerTransactionRepository struct {
	db *badger.DB
}

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) *BadgerTransactionRepository {
	return &BadgerTransactionRepository{db: db}
}

func recordKey(id string) []byte {
	return []byte(recordPrefix + id)
}

func buyerPrefix(buyer int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", buyerIndexPrefix, buyer))
}

func buyerKey(buyer int64, id string) []byte {
	return append(buyerPrefix(buyer), id...)
}

// Create stores a new transaction together with its buyer index entry
func (r *BadgerTransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(recordKey(tx.ID), data); err != nil {
			return err
		}
		return txn.Set(buyerKey(tx.Buyer, tx.ID), nil)
	})
	if err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *BadgerTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var tx *entity.Transaction

	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		tx, err = getRecord(txn, id)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}
	return tx, nil
}

// Update applies changes to a stored transaction inside a single Badger
// transaction, moving its buyer index entry when the buyer changes
func (r *BadgerTransactionRepository) Update(ctx context.Context, id string, changes entity.TransactionChanges, updatedAt time.Time) (*entity.Transaction, error) {
	var tx *entity.Transaction

	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		tx, err = getRecord(txn, id)
		if err != nil {
			return err
		}

		previousBuyer := tx.Buyer
		changes.Apply(tx)
		tx.UpdatedAt = updatedAt

		data, err := json.Marshal(tx)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction: %w", err)
		}
		if err := txn.Set(recordKey(id), data); err != nil {
			return err
		}

		if previousBuyer != tx.Buyer {
			if err := txn.Delete(buyerKey(previousBuyer, id)); err != nil {
				return err
			}
			return txn.Set(buyerKey(tx.Buyer, id), nil)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return tx, nil
}

// Delete permanently removes a transaction and its index entry
func (r *BadgerTransactionRepository) Delete(ctx context.Context, id string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		tx, err := getRecord(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(recordKey(id)); err != nil {
			return err
		}
		return txn.Delete(buyerKey(tx.Buyer, id))
	})
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// ListAll returns every transaction, newest first
func (r *BadgerTransactionRepository) ListAll(ctx context.Context) ([]*entity.Transaction, error) {
	txs := make([]*entity.Transaction, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var tx entity.Transaction
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			}); err != nil {
				return err
			}
			txs = append(txs, &tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	slices.SortFunc(txs, entity.NewestFirst)
	return txs, nil
}

// ListByBuyer returns the transactions owned by buyer, newest first
func (r *BadgerTransactionRepository) ListByBuyer(ctx context.Context, buyer int64) ([]*entity.Transaction, error) {
	txs := make([]*entity.Transaction, 0)
	prefix := buyerPrefix(buyer)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			id := string(it.Item().Key()[len(prefix):])
			tx, err := getRecord(txn, id)
			if err != nil {
				return err
			}
			txs = append(txs, tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for buyer %d: %w", buyer, err)
	}

	slices.SortFunc(txs, entity.NewestFirst)
	return txs, nil
}

func getRecord(txn *badger.Txn, id string) (*entity.Transaction, error) {
	item, err := txn.Get(recordKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, repository.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	var tx entity.Transaction
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &tx)
	}); err != nil {
		return nil, err
	}
	return &tx, nil
}
