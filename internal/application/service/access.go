package service

import "github.com/Anggit1/Toko-baju/internal/domain/entity"

// Visibility describes which transactions a caller may see
type Visibility int

const (
	// VisibilityNone grants access to no transactions
	VisibilityNone Visibility = iota
	// VisibilityOwnOnly grants access to the caller's own transactions
	VisibilityOwnOnly
	// VisibilityAll grants access to every transaction
	VisibilityAll
)

func (v Visibility) String() string {
	switch v {
	case VisibilityAll:
		return "all"
	case VisibilityOwnOnly:
		return "own_only"
	default:
		return "none"
	}
}

// Scope is the set of transactions visible to a caller
type Scope struct {
	Visibility Visibility
	OwnerID    int64
}

// ScopeFor determines the visibility of a caller. A nil caller was never
// resolved and sees nothing.
func ScopeFor(caller *entity.Caller) Scope {
	switch {
	case caller == nil:
		return Scope{Visibility: VisibilityNone}
	case caller.IsAdmin:
		return Scope{Visibility: VisibilityAll}
	default:
		return Scope{Visibility: VisibilityOwnOnly, OwnerID: caller.ID}
	}
}

// Permits reports whether the transaction falls inside the scope
func (s Scope) Permits(tx *entity.Transaction) bool {
	switch s.Visibility {
	case VisibilityAll:
		return true
	case VisibilityOwnOnly:
		return tx.OwnedBy(s.OwnerID)
	default:
		return false
	}
}
