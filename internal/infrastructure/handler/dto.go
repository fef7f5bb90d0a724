package handler

import (
	"encoding/json"
	"time"

	"github.com/Anggit1/Toko-baju/internal/domain/entity"
)

// TransactionResponse is the wire form of a transaction
type TransactionResponse struct {
	ID           string      `json:"id"`
	Buyer        int64       `json:"buyer"`
	PurchaseDate string      `json:"purchase_date"`
	Cloth        int64       `json:"cloth"`
	Quantity     json.Number `json:"quantity"`
	TotalPrice   string      `json:"total_price"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
}

func newTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID,
		Buyer:        tx.Buyer,
		PurchaseDate: tx.PurchaseDate,
		Cloth:        tx.Cloth,
		Quantity:     json.Number(tx.Quantity.String()),
		TotalPrice:   tx.TotalPrice,
		CreatedAt:    tx.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    tx.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, newTransactionResponse(tx))
	}
	return out
}
