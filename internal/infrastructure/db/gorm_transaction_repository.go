package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
	"github.com/Anggit1/Toko-baju/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// transactionRow is the SQL shape of a transaction.
// Quantity is kept as its decimal string since SQLite NUMERIC affinity coerces it to REAL.
type transactionRow struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)"`
	Buyer        int64           `gorm:"index;not null"`
	PurchaseDate string          `gorm:"type:varchar(10);not null"`
	Cloth        int64           `gorm:"not null"`
	Quantity     decimal.Decimal `gorm:"type:text;not null"`
	TotalPrice   string          `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time       `gorm:"autoCreateTime:false;index"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime:false"`
}

func (transactionRow) TableName() string {
	return "transactions"
}

func rowFromEntity(tx *entity.Transaction) *transactionRow {
	return &transactionRow{
		ID:           tx.ID,
		Buyer:        tx.Buyer,
		PurchaseDate: tx.PurchaseDate,
		Cloth:        tx.Cloth,
		Quantity:     tx.Quantity,
		TotalPrice:   tx.TotalPrice,
		CreatedAt:    tx.CreatedAt.UTC(),
		UpdatedAt:    tx.UpdatedAt.UTC(),
	}
}

func (r *transactionRow) toEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:           r.ID,
		Buyer:        r.Buyer,
		PurchaseDate: r.PurchaseDate,
		Cloth:        r.Cloth,
		Quantity:     r.Quantity,
		TotalPrice:   r.TotalPrice,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// GormTransactionRepository implements the transaction repository on a SQL
// database through GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates the repository and migrates its table
func NewGormTransactionRepository(db *gorm.DB) (*GormTransactionRepository, error) {
	if err := db.AutoMigrate(&transactionRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate transactions table: %w", err)
	}
	return &GormTransactionRepository{db: db}, nil
}

// Create inserts a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	if err := r.db.WithContext(ctx).Create(rowFromEntity(tx)).Error; err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}
	return nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *GormTransactionRepository) FindByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var row transactionRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}
	return row.toEntity(), nil
}

// Update finds, changes and saves a transaction in one SQL transaction
func (r *GormTransactionRepository) Update(ctx context.Context, id string, changes entity.TransactionChanges, updatedAt time.Time) (*entity.Transaction, error) {
	var updated *entity.Transaction

	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		var row transactionRow
		if err := db.First(&row, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrTransactionNotFound
			}
			return err
		}

		tx := row.toEntity()
		changes.Apply(tx)
		tx.UpdatedAt = updatedAt

		if err := db.Save(rowFromEntity(tx)).Error; err != nil {
			return err
		}
		updated = tx
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return updated, nil
}

// Delete permanently removes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&transactionRow{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrTransactionNotFound
	}
	return nil
}

// ListAll returns every transaction, newest first
func (r *GormTransactionRepository) ListAll(ctx context.Context) ([]*entity.Transaction, error) {
	return r.list(r.db.WithContext(ctx))
}

// ListByBuyer returns the transactions owned by buyer, newest first
func (r *GormTransactionRepository) ListByBuyer(ctx context.Context, buyer int64) ([]*entity.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("buyer = ?", buyer))
}

func (r *GormTransactionRepository) list(query *gorm.DB) ([]*entity.Transaction, error) {
	var rows []transactionRow
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	txs := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		txs = append(txs, rows[i].toEntity())
	}
	return txs, nil
}
